/*
 * @module service/sharing/sharing_service
 * @description 数据共享服务，提供合作方API密钥管理和脱敏数据导出
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/sharing_req.md
 * @stateFlow 密钥创建（明文仅返回一次） -> bcrypt哈希存储 -> 请求验证 -> 脱敏导出
 * @rules 库中只保存密钥哈希；导出数据的客户标识一律脱敏
 * @dependencies gorm.io/gorm, golang.org/x/crypto/bcrypt
 * @refs api/middleware/apikey_auth.go
 */

package sharing

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"compass-service/service/models"
)

// SharingService 数据共享服务
type SharingService struct {
	db *gorm.DB
}

// NewSharingService 创建数据共享服务实例
func NewSharingService(db *gorm.DB) *SharingService {
	return &SharingService{db: db}
}

// CreateApiKey 创建合作方API密钥，返回明文密钥（仅此一次）
func (s *SharingService) CreateApiKey(name, description, createdBy string, expiresAt *time.Time) (*models.ApiKey, string, error) {
	keyValue, err := generateKeyValue()
	if err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(keyValue), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	apiKey := &models.ApiKey{
		Name:         name,
		KeyPrefix:    keyValue[:8],
		KeyValueHash: string(hashed),
		Description:  description,
		Status:       "active",
		ExpiresAt:    expiresAt,
		CreatedBy:    createdBy,
	}

	if err := s.db.Create(apiKey).Error; err != nil {
		return nil, "", err
	}
	return apiKey, keyValue, nil
}

// VerifyApiKey 验证明文密钥，按前缀定位候选后比对bcrypt哈希
func (s *SharingService) VerifyApiKey(keyValue string) (*models.ApiKey, error) {
	if len(keyValue) < 8 {
		return nil, errors.New("API密钥格式非法")
	}

	var candidates []models.ApiKey
	if err := s.db.Where("key_prefix = ? AND status = ?", keyValue[:8], "active").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range candidates {
		key := &candidates[i]
		if key.ExpiresAt != nil && key.ExpiresAt.Before(now) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(key.KeyValueHash), []byte(keyValue)) == nil {
			return key, nil
		}
	}
	return nil, errors.New("API密钥验证失败")
}

// RevokeApiKey 吊销密钥
func (s *SharingService) RevokeApiKey(id string) error {
	result := s.db.Model(&models.ApiKey{}).
		Where("id = ?", id).
		Update("status", "revoked")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("API密钥不存在")
	}
	return nil
}

// ListApiKeys 列出全部密钥（不含哈希）
func (s *SharingService) ListApiKeys() ([]models.ApiKey, error) {
	var keys []models.ApiKey
	err := s.db.Order("created_at DESC").Find(&keys).Error
	return keys, err
}

// ExportMaskedRecords 导出指定批次的脱敏记录
func (s *SharingService) ExportMaskedRecords(batchID string, config models.MaskingConfig) ([]models.ClientRecord, error) {
	var records []models.ClientRecord
	if err := s.db.Where("batch_id = ?", batchID).
		Order("row_number ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return MaskRecords(records, config), nil
}

// generateKeyValue 生成32字节随机密钥的十六进制表示
func generateKeyValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
