/*
 * @module service/sharing/masking
 * @description 共享导出脱敏工具，客户标识按配置保留首尾、中间掩码
 * @architecture 业务服务层 - 无状态纯函数
 * @documentReference ai_docs/sharing_req.md
 * @stateFlow 导出请求 -> 记录复制 -> 标识脱敏 -> 返回脱敏副本
 * @rules 脱敏只作用于导出副本，库内记录保持原值
 * @dependencies compass-service/service/models
 * @refs sharing_service.go
 */

package sharing

import (
	"strings"

	"compass-service/service/models"
)

// DefaultMaskingConfig 默认脱敏配置：保留前2后2，其余替换为*
var DefaultMaskingConfig = models.MaskingConfig{
	MaskChar:  "*",
	KeepStart: 2,
	KeepEnd:   2,
}

// MaskValue 按配置对单个值脱敏
// 值长度不超过保留长度之和时全掩码，避免短标识泄露
func MaskValue(value string, config models.MaskingConfig) string {
	if value == "" {
		return ""
	}

	maskChar := config.MaskChar
	if maskChar == "" {
		maskChar = "*"
	}

	runes := []rune(value)
	if len(runes) <= config.KeepStart+config.KeepEnd {
		return strings.Repeat(maskChar, len(runes))
	}

	masked := len(runes) - config.KeepStart - config.KeepEnd
	return string(runes[:config.KeepStart]) +
		strings.Repeat(maskChar, masked) +
		string(runes[len(runes)-config.KeepEnd:])
}

// MaskRecords 返回客户标识脱敏后的记录副本
func MaskRecords(records []models.ClientRecord, config models.MaskingConfig) []models.ClientRecord {
	masked := make([]models.ClientRecord, len(records))
	for i, record := range records {
		masked[i] = record
		masked[i].ClientID = MaskValue(record.ClientID, config)
	}
	return masked
}
