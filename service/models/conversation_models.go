/*
 * @module service/models/conversation_models
 * @description 自适应评估对话模型，包含问题节点、自适应触发器和对话日志
 * @architecture 数据模型层
 * @documentReference ai_docs/assessment_req.md
 * @stateFlow 会话创建 -> 逐轮问答 -> 深度递增 -> 终止节点
 * @rules 遍历深度单调递增，达到最大深度6时对话终止
 * @dependencies gorm.io/gorm, time
 * @refs service/conversation/
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxConversationDepth 对话最大深度，达到后强制终止
const MaxConversationDepth = 6

// 关键词分类主题
const (
	ThemeSpace     = "space"
	ThemeFeeling   = "feeling"
	ThemePeople    = "people"
	ThemeChallenge = "challenge"
)

// QuestionNode 问题节点，对话状态机中的一个状态
// 节点不具备跨会话的持久身份，每次会话重新构建
type QuestionNode struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options,omitempty"` // 结构化问题的备选项，自由文本问题为空
	Theme        string   `json:"theme,omitempty"`   // 命中的关键词主题
	Depth        int      `json:"depth"`
}

// AdaptiveTrigger 结构化问题的自适应触发器
// 答案选项下标命中 ResponseIndexes 时跳转到 NextQuestionID，首个命中的触发器生效
type AdaptiveTrigger struct {
	ResponseIndexes []int  `json:"response_indexes"`
	NextQuestionID  string `json:"next_question_id"`
}

// KPIQuestion 结构化KPI评估问题，携带显式分支触发器
// 无触发器命中时该分支无后续问题，调用方按终止处理
type KPIQuestion struct {
	ID               string            `json:"id"`
	QuestionText     string            `json:"question_text"`
	Options          []string          `json:"options"`
	AdaptiveTriggers []AdaptiveTrigger `json:"adaptive_triggers,omitempty"`
}

// ConversationTurn 对话中的一轮问答
type ConversationTurn struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Depth      int    `json:"depth"`
}

// ConversationLog 对话日志持久化模型（仅基础日志，不做执行历史版本化）
type ConversationLog struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	SessionID  string    `gorm:"type:varchar(50);not null;index" json:"session_id"`
	Mode       string    `gorm:"type:varchar(20)" json:"mode"` // environment, kpi
	QuestionID string    `gorm:"type:varchar(100)" json:"question_id"`
	Question   string    `gorm:"type:text" json:"question"`
	Answer     string    `gorm:"type:text" json:"answer"`
	Depth      int       `json:"depth"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (ConversationLog) TableName() string {
	return "conversation_logs"
}

// BeforeCreate 创建前钩子
func (c *ConversationLog) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
