/*
 * @module service/sharing/sharing_service_test
 * @description 数据共享服务单元测试
 * @architecture 单元测试
 */

package sharing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass-service/service/models"
	"compass-service/testutil"
)

func newTestSharingService(t *testing.T) (*SharingService, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	return NewSharingService(tdb.DB), tdb
}

// TestCreateAndVerifyApiKey 测试密钥创建与验证
func TestCreateAndVerifyApiKey(t *testing.T) {
	service, _ := newTestSharingService(t)

	apiKey, keyValue, err := service.CreateApiKey("合作方A", "月度导出", "admin", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, keyValue)
	assert.Equal(t, keyValue[:8], apiKey.KeyPrefix)
	assert.NotEqual(t, keyValue, apiKey.KeyValueHash, "库中只保存哈希")

	verified, err := service.VerifyApiKey(keyValue)
	require.NoError(t, err)
	assert.Equal(t, apiKey.ID, verified.ID)
}

// TestVerifyApiKeyRejectsInvalid 测试非法密钥被拒绝
func TestVerifyApiKeyRejectsInvalid(t *testing.T) {
	service, _ := newTestSharingService(t)

	_, keyValue, err := service.CreateApiKey("合作方A", "", "admin", nil)
	require.NoError(t, err)

	t.Run("错误密钥", func(t *testing.T) {
		wrong := keyValue[:8] + "0000000000000000000000000000000000000000000000000000000000"
		_, err := service.VerifyApiKey(wrong)
		assert.Error(t, err)
	})

	t.Run("格式过短", func(t *testing.T) {
		_, err := service.VerifyApiKey("short")
		assert.Error(t, err)
	})
}

// TestVerifyApiKeyRejectsExpired 测试过期密钥被拒绝
func TestVerifyApiKeyRejectsExpired(t *testing.T) {
	service, _ := newTestSharingService(t)

	expired := time.Now().Add(-time.Hour)
	_, keyValue, err := service.CreateApiKey("合作方B", "", "admin", &expired)
	require.NoError(t, err)

	_, err = service.VerifyApiKey(keyValue)
	assert.Error(t, err)
}

// TestRevokeApiKey 测试吊销后密钥失效
func TestRevokeApiKey(t *testing.T) {
	service, _ := newTestSharingService(t)

	apiKey, keyValue, err := service.CreateApiKey("合作方C", "", "admin", nil)
	require.NoError(t, err)

	require.NoError(t, service.RevokeApiKey(apiKey.ID))

	_, err = service.VerifyApiKey(keyValue)
	assert.Error(t, err)

	assert.Error(t, service.RevokeApiKey("missing-id"))
}

// TestExportMaskedRecords 测试导出记录的客户标识被脱敏
func TestExportMaskedRecords(t *testing.T) {
	service, tdb := newTestSharingService(t)
	factory := testutil.NewTestDataFactory(tdb.DB)

	batch := factory.CreateUploadBatch()
	factory.CreateClientRecord(batch.ID, func(r *models.ClientRecord) {
		r.ClientID = "client-12345"
	})

	records, err := service.ExportMaskedRecords(batch.ID, DefaultMaskingConfig)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cl********45", records[0].ClientID)
}
