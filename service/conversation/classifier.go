/*
 * @module service/conversation/classifier
 * @description 答案关键词分类器，按固定优先级把自由文本答案归入主题
 * @architecture 策略模式 - 有序规则表上的纯函数分类
 * @documentReference ai_docs/assessment_req.md
 * @stateFlow 答案输入 -> 逐规则扫描 -> 深度门槛过滤 -> 首个命中主题
 * @rules 规则按space/feeling/people/challenge固定顺序匹配，保证遍历可复现；大小写不敏感子串匹配
 * @dependencies compass-service/service/models, strings
 * @refs engine.go
 */

package conversation

import (
	"strings"

	"compass-service/service/models"
)

// KeywordRule 关键词规则：命中 Keywords 且当前深度小于 MaxDepth 时归入 Theme
type KeywordRule struct {
	Theme    string
	MaxDepth int // 深度门槛，答案所在深度达到后该主题不再适用
	Keywords []string
}

// DefaultKeywordRules 默认规则表，顺序即优先级
// 同一答案命中多个主题时按此顺序取首个适用主题，这是刻意的确定性设计
var DefaultKeywordRules = []KeywordRule{
	{
		Theme:    models.ThemeSpace,
		MaxDepth: 3,
		Keywords: []string{
			"bedroom", "kitchen", "bathroom", "living room", "room",
			"garden", "porch", "yard", "outside", "apartment", "house",
			"home", "space", "corner", "place",
		},
	},
	{
		Theme:    models.ThemeFeeling,
		MaxDepth: 4,
		Keywords: []string{
			"safe", "calm", "peace", "comfort", "anxious", "anxiety",
			"stress", "overwhelm", "afraid", "scared", "lonely",
			"happy", "hope", "tired",
		},
	},
	{
		Theme:    models.ThemePeople,
		MaxDepth: 5,
		Keywords: []string{
			"family", "friend", "partner", "mother", "father", "sister",
			"brother", "roommate", "sponsor", "counselor", "support",
			"community", "people", "alone",
		},
	},
	{
		Theme:    models.ThemeChallenge,
		MaxDepth: 6,
		Keywords: []string{
			"hard", "difficult", "struggle", "challenge", "problem",
			"barrier", "stuck", "relapse", "trigger", "craving", "can't",
		},
	},
}

// Classify 对答案文本分类，返回命中主题和命中的关键词
// 未命中任何适用规则时 ok 为 false，调用方退回通用深度索引问题
func Classify(text string, depth int, rules []KeywordRule) (theme, keyword string, ok bool) {
	lowered := strings.ToLower(text)

	for _, rule := range rules {
		if depth >= rule.MaxDepth {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Theme, kw, true
			}
		}
	}
	return "", "", false
}
