/*
 * @module service/sharing/masking_test
 * @description 脱敏工具单元测试
 * @architecture 单元测试
 */

package sharing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"compass-service/service/models"
)

// TestMaskValue 测试按配置脱敏
func TestMaskValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		config   models.MaskingConfig
		expected string
	}{
		{"默认配置保留首尾", "client-12345", DefaultMaskingConfig, "cl********45"},
		{"短值全掩码", "abc", DefaultMaskingConfig, "***"},
		{"长度恰好等于保留长度全掩码", "abcd", DefaultMaskingConfig, "****"},
		{"空值返回空", "", DefaultMaskingConfig, ""},
		{"自定义掩码字符", "client-1", models.MaskingConfig{MaskChar: "#", KeepStart: 1, KeepEnd: 1}, "c######1"},
		{"未指定掩码字符时默认星号", "abcdef", models.MaskingConfig{KeepStart: 1, KeepEnd: 1}, "a****f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskValue(tt.value, tt.config))
		})
	}
}

// TestMaskRecords 测试记录副本脱敏，原记录不受影响
func TestMaskRecords(t *testing.T) {
	records := []models.ClientRecord{
		{ClientID: "client-12345", ProgramName: "Detox"},
	}

	masked := MaskRecords(records, DefaultMaskingConfig)

	assert.Equal(t, "cl********45", masked[0].ClientID)
	assert.Equal(t, "Detox", masked[0].ProgramName, "非标识字段不脱敏")
	assert.Equal(t, "client-12345", records[0].ClientID, "原记录保持原值")
}
