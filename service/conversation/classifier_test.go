/*
 * @module service/conversation/classifier_test
 * @description 关键词分类器单元测试
 * @architecture 单元测试
 */

package conversation

import (
	"testing"

	"compass-service/service/models"

	"github.com/stretchr/testify/assert"
)

// TestClassifyPriorityOrder 测试场景D：同时命中space和feeling时按固定优先级取space
func TestClassifyPriorityOrder(t *testing.T) {
	theme, keyword, ok := Classify("I feel safest in my bedroom", 1, DefaultKeywordRules)

	assert.True(t, ok)
	assert.Equal(t, models.ThemeSpace, theme)
	assert.Equal(t, "bedroom", keyword)
}

// TestClassifyDepthGates 测试深度门槛：space在深度3后不再适用
func TestClassifyDepthGates(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		depth int
		theme string
		ok    bool
	}{
		{"深度1命中space", "my bedroom is quiet", 1, models.ThemeSpace, true},
		{"深度3后space失效退到feeling", "I feel safest in my bedroom", 3, models.ThemeFeeling, true},
		{"深度4后feeling失效退到people", "feeling safe with my family", 4, models.ThemePeople, true},
		{"深度5后people失效退到challenge", "my family makes it hard", 5, models.ThemeChallenge, true},
		{"无关键词不命中", "the weather was fine yesterday", 1, "", false},
		{"全部门槛失效不命中", "my bedroom feels safe", 6, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, _, ok := Classify(tt.text, tt.depth, DefaultKeywordRules)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.theme, theme)
		})
	}
}

// TestClassifyCaseInsensitive 测试大小写不敏感匹配
func TestClassifyCaseInsensitive(t *testing.T) {
	theme, _, ok := Classify("My KITCHEN is the best part of the house", 2, DefaultKeywordRules)

	assert.True(t, ok)
	assert.Equal(t, models.ThemeSpace, theme)
}
