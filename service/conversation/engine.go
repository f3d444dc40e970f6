/*
 * @module service/conversation/engine
 * @description 自适应问题分支引擎：自由文本环境扫描和结构化KPI评估的下一问选择
 * @architecture 状态机模式 - 状态为命名问题节点，转移由分类器/触发器决定
 * @documentReference ai_docs/assessment_req.md
 * @stateFlow 开场问题 -> 答案分类 -> 主题跟进/通用回退 -> 深度6或分支耗尽时终止
 * @rules 遍历深度单调递增；主题跟进按深度取模轮询而非随机选取，保证同一答案序列产出相同节点序列
 * @dependencies compass-service/service/models
 * @refs classifier.go, question_bank.go
 */

package conversation

import "compass-service/service/models"

// Engine 问题分支引擎，无跨调用可变状态，可被并发会话共享
type Engine struct {
	rules []KeywordRule
}

// NewEngine 创建分支引擎实例
func NewEngine() *Engine {
	return &Engine{rules: DefaultKeywordRules}
}

// Start 返回固定的开场问题，深度为1
func (e *Engine) Start() models.QuestionNode {
	return foundationQuestion
}

// Next 根据上一个答案和完整问答历史选择下一个问题
// 返回nil表示对话终止：深度达到上限，调用方据此结束会话
func (e *Engine) Next(answerText string, history []models.ConversationTurn) *models.QuestionNode {
	// 当前深度即刚被回答的问题所在深度
	depth := len(history)
	if depth == 0 {
		depth = 1
	}
	if depth >= models.MaxConversationDepth {
		return nil
	}

	node := e.selectNode(answerText, depth)
	node.Depth = depth + 1
	return &node
}

// selectNode 按分类结果选题；未命中时退回通用深度索引问题
func (e *Engine) selectNode(answerText string, depth int) models.QuestionNode {
	theme, keyword, ok := Classify(answerText, depth, e.rules)
	if !ok {
		return genericByDepth(depth)
	}

	// space主题优先取命中关键词的专属跟进问题
	if theme == models.ThemeSpace {
		if node, exists := spaceFollowups[keyword]; exists {
			node.Theme = theme
			return node
		}
	}

	followups := themedFollowups[theme]
	if len(followups) == 0 {
		return genericByDepth(depth)
	}

	// 深度取模轮询：同一深度同一主题始终取同一问题
	node := followups[depth%len(followups)]
	node.Theme = theme
	return node
}

// genericByDepth 通用问题按深度索引选取，超出列表长度时钳制到最后一个
func genericByDepth(depth int) models.QuestionNode {
	idx := depth - 1
	if idx >= len(genericQuestions) {
		idx = len(genericQuestions) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return genericQuestions[idx]
}

// StartKPI 返回结构化KPI评估的入口问题
func (e *Engine) StartKPI() models.KPIQuestion {
	return kpiQuestionBank[kpiFoundationID]
}

// NextKPI 结构化分支：按答案选项下标匹配当前问题的自适应触发器
// 首个命中的触发器生效；无触发器命中表示该分支没有后续问题，返回nil
func (e *Engine) NextKPI(questionID string, responseIndex int) *models.KPIQuestion {
	current, exists := kpiQuestionBank[questionID]
	if !exists {
		return nil
	}

	for _, trigger := range current.AdaptiveTriggers {
		for _, idx := range trigger.ResponseIndexes {
			if idx == responseIndex {
				if next, ok := kpiQuestionBank[trigger.NextQuestionID]; ok {
					return &next
				}
				return nil
			}
		}
	}
	return nil
}

// KPIQuestionByID 按ID查找结构化问题，供会话校验答案下标合法性
func (e *Engine) KPIQuestionByID(questionID string) (models.KPIQuestion, bool) {
	q, ok := kpiQuestionBank[questionID]
	return q, ok
}
