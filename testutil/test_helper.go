/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify, time
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"compass-service/service/models"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.UploadBatch{},
		&models.ClientRecord{},
		&models.QualityReportRecord{},
		&models.ConversationLog{},
		&models.ApiKey{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"upload_batches",
		"client_records",
		"quality_report_records",
		"conversation_logs",
		"api_keys",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// UploadBatchOption 上传批次选项函数类型
type UploadBatchOption func(*models.UploadBatch)

// CreateUploadBatch 创建测试上传批次
func (f *TestDataFactory) CreateUploadBatch(opts ...UploadBatchOption) *models.UploadBatch {
	batch := &models.UploadBatch{
		ID:          generateID("batch"),
		FileName:    "test_upload_" + generateSuffix() + ".csv",
		RecordCount: 0,
		IsLatest:    true,
		UploadedBy:  "test",
		CreatedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(batch)
	}

	if err := f.DB.Create(batch).Error; err != nil {
		panic(fmt.Sprintf("failed to create test upload batch: %v", err))
	}
	return batch
}

// ClientRecordOption 客户记录选项函数类型
type ClientRecordOption func(*models.ClientRecord)

// CreateClientRecord 创建测试客户记录，默认七个必填字段全部有值
func (f *TestDataFactory) CreateClientRecord(batchID string, opts ...ClientRecordOption) *models.ClientRecord {
	intake := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	exit := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)
	placement := time.Date(2025, 2, 18, 0, 0, 0, 0, time.UTC)
	days := 41

	record := &models.ClientRecord{
		ID:                   generateID("rec"),
		BatchID:              batchID,
		RowNumber:            2,
		ClientID:             "client_" + generateSuffix(),
		ProgramName:          "Transitional Housing",
		IntakeDate:           &intake,
		ExitDate:             &exit,
		ExitDestination:      models.PermanentHousingDestination,
		HousingPlacementDate: &placement,
		LengthOfStay:         &days,
		CreatedAt:            time.Now(),
	}

	for _, opt := range opts {
		opt(record)
	}

	if err := f.DB.Create(record).Error; err != nil {
		panic(fmt.Sprintf("failed to create test client record: %v", err))
	}
	return record
}

// ApiKeyOption API密钥选项函数类型
type ApiKeyOption func(*models.ApiKey)

// CreateApiKey 创建测试API密钥
func (f *TestDataFactory) CreateApiKey(opts ...ApiKeyOption) *models.ApiKey {
	apiKey := &models.ApiKey{
		ID:           generateID("ak"),
		Name:         "测试API密钥",
		KeyPrefix:    "test",
		KeyValueHash: "test_key_hash_" + generateSuffix(),
		Description:  "这是一个测试API密钥",
		Status:       "active",
		CreatedBy:    "test",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	for _, opt := range opts {
		opt(apiKey)
	}

	if err := f.DB.Create(apiKey).Error; err != nil {
		panic(fmt.Sprintf("failed to create test api key: %v", err))
	}
	return apiKey
}

// 辅助函数
func generateID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), generateSuffix())
}

func generateSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano()%100000)
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// CreateCSVUploadRequest 创建multipart表单CSV上传请求，表单字段名为file
func (h *HTTPTestHelper) CreateCSVUploadRequest(url, fileName, csvContent string) (*http.Request, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(csvContent)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
