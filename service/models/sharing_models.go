/*
 * @module service/models/sharing_models
 * @description 数据共享模型，包含API密钥和脱敏导出配置
 * @architecture 数据模型层
 * @documentReference ai_docs/sharing_req.md
 * @stateFlow 密钥创建 -> 哈希存储 -> 请求验证
 * @rules 密钥明文仅在创建时返回一次，库中只保存bcrypt哈希
 * @dependencies gorm.io/gorm, time
 * @refs service/sharing/
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApiKey 合作方API密钥模型
type ApiKey struct {
	ID           string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	KeyPrefix    string     `gorm:"type:varchar(20);index" json:"key_prefix"`
	KeyValueHash string     `gorm:"type:varchar(200);not null" json:"-"`
	Description  string     `gorm:"type:text" json:"description"`
	Status       string     `gorm:"type:varchar(20);default:active" json:"status"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedBy    string     `gorm:"type:varchar(100)" json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (ApiKey) TableName() string {
	return "api_keys"
}

// BeforeCreate 创建前钩子
func (k *ApiKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.New().String()
	}
	return nil
}

// MaskingConfig 共享导出的脱敏配置
type MaskingConfig struct {
	MaskChar  string `json:"mask_char"`  // 脱敏替换字符，默认*
	KeepStart int    `json:"keep_start"` // 保留前缀长度
	KeepEnd   int    `json:"keep_end"`   // 保留后缀长度
}
