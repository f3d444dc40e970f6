/*
 * @module service/ingestion/upload_service_test
 * @description 上传处理服务单元测试，使用内存SQLite验证落库与批次取代语义
 * @architecture 单元测试
 */

package ingestion

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"compass-service/service/models"
	"compass-service/testutil"
)

func newTestService(t *testing.T) (*UploadService, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	return NewUploadService(tdb.DB, nil, nil, nil, nil), tdb
}

// TestProcessUploadPersistsBatch 测试上传落库：批次、记录和质量报告
func TestProcessUploadPersistsBatch(t *testing.T) {
	service, tdb := newTestService(t)

	csv := fullHeader + "\n" +
		"c-001,Transitional Housing,2025-01-10,2025-02-20,Permanent Housing,2025-02-18,41\n" +
		"c-002,Detox,2025-03-01,,,,\n"

	result, err := service.ProcessUpload(context.Background(), "march.csv", strings.NewReader(csv), "tester")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Batch.RecordCount)
	assert.True(t, result.Batch.IsLatest)
	assert.Equal(t, 2, result.Overview.TotalClients)

	var recordCount int64
	tdb.DB.Model(&models.ClientRecord{}).Where("batch_id = ?", result.Batch.ID).Count(&recordCount)
	assert.Equal(t, int64(2), recordCount)

	var reportRecord models.QualityReportRecord
	require.NoError(t, tdb.DB.Where("batch_id = ?", result.Batch.ID).First(&reportRecord).Error)
	assert.Equal(t, result.Report.OverallScore, reportRecord.OverallScore)
}

// TestProcessUploadReplacesPreviousBatch 测试新上传整体取代旧批次
func TestProcessUploadReplacesPreviousBatch(t *testing.T) {
	service, tdb := newTestService(t)
	csv := fullHeader + "\nc-001,Detox,2025-01-10,,,,\n"

	first, err := service.ProcessUpload(context.Background(), "first.csv", strings.NewReader(csv), "tester")
	require.NoError(t, err)

	second, err := service.ProcessUpload(context.Background(), "second.csv", strings.NewReader(csv), "tester")
	require.NoError(t, err)

	var oldBatch models.UploadBatch
	require.NoError(t, tdb.DB.First(&oldBatch, "id = ?", first.Batch.ID).Error)
	assert.False(t, oldBatch.IsLatest, "旧批次的最新标记被取消")

	latest, err := service.LatestBatch()
	require.NoError(t, err)
	assert.Equal(t, second.Batch.ID, latest.ID)
}

// TestProcessUploadRejectsMissingColumns 测试缺少必需列时整体拒绝且不落库
func TestProcessUploadRejectsMissingColumns(t *testing.T) {
	service, tdb := newTestService(t)

	_, err := service.ProcessUpload(context.Background(), "bad.csv",
		strings.NewReader("ClientID,ProgramName\nc-001,Detox\n"), "tester")

	require.Error(t, err)
	var batchCount int64
	tdb.DB.Model(&models.UploadBatch{}).Count(&batchCount)
	assert.Equal(t, int64(0), batchCount)
}

// TestProcessUploadEmptyBatch 测试空批次合法，产出全零报告
func TestProcessUploadEmptyBatch(t *testing.T) {
	service, _ := newTestService(t)

	result, err := service.ProcessUpload(context.Background(), "empty.csv",
		strings.NewReader(fullHeader+"\n"), "tester")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Batch.RecordCount)
	assert.Equal(t, 0.0, result.Report.OverallScore)
	assert.False(t, result.Report.IsCompliant)
	assert.Equal(t, 0, result.Overview.TotalClients)
}

// TestQualityReportRecompute 测试无缓存时报告从记录重算
func TestQualityReportRecompute(t *testing.T) {
	service, _ := newTestService(t)
	csv := fullHeader + "\n" +
		"c-001,Detox,2025-01-10,2025-02-20,Permanent Housing,2025-02-18,41\n"

	result, err := service.ProcessUpload(context.Background(), "a.csv", strings.NewReader(csv), "tester")
	require.NoError(t, err)

	report, err := service.QualityReport(context.Background(), result.Batch.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Report.OverallScore, report.OverallScore)

	overview, err := service.OverviewMetrics(context.Background(), result.Batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.TotalClients)

	programs, err := service.ProgramMetrics(context.Background(), result.Batch.ID)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "Detox", programs[0].ProgramName)
}

// TestRefreshLatestWithoutBatches 测试无上传时刷新为空操作
func TestRefreshLatestWithoutBatches(t *testing.T) {
	service, _ := newTestService(t)
	assert.NoError(t, service.RefreshLatest(context.Background()))
}

// TestGetBatch 测试按ID查询批次与未知批次报错
func TestGetBatch(t *testing.T) {
	service, _ := newTestService(t)
	csv := fullHeader + "\nc-001,Detox,2025-01-10,,,,\n"

	result, err := service.ProcessUpload(context.Background(), "a.csv", strings.NewReader(csv), "tester")
	require.NoError(t, err)

	batch, err := service.GetBatch(result.Batch.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.csv", batch.FileName)

	_, err = service.GetBatch("no-such-batch")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
