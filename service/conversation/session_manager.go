/*
 * @module service/conversation/session_manager
 * @description 对话会话管理器，维护进行中会话的内存状态并记录基础日志
 * @architecture 分层架构 - 会话服务层，内存态+日志落库
 * @documentReference ai_docs/assessment_req.md
 * @stateFlow 会话创建 -> 答案提交 -> 引擎选题 -> 终止后清理
 * @rules 会话不跨进程持久化，问题节点每次会话重新构建；仅问答日志落库
 * @dependencies compass-service/service/models, gorm.io/gorm, sync
 * @refs engine.go
 */

package conversation

import (
	"fmt"
	"sync"
	"time"

	"compass-service/service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 会话模式
const (
	ModeEnvironment = "environment" // 自由文本环境扫描
	ModeKPI         = "kpi"         // 结构化KPI评估
)

// Session 进行中的对话会话
type Session struct {
	ID        string                    `json:"id"`
	Mode      string                    `json:"mode"`
	Current   models.QuestionNode       `json:"current"`
	KPINode   *models.KPIQuestion       `json:"kpi_node,omitempty"`
	History   []models.ConversationTurn `json:"history"`
	Completed bool                      `json:"completed"`
	CreatedAt time.Time                 `json:"created_at"`
}

// SessionManager 会话管理器
type SessionManager struct {
	mu       sync.RWMutex
	engine   *Engine
	db       *gorm.DB
	sessions map[string]*Session
}

// NewSessionManager 创建会话管理器；db为nil时跳过日志落库（测试场景）
func NewSessionManager(engine *Engine, db *gorm.DB) *SessionManager {
	return &SessionManager{
		engine:   engine,
		db:       db,
		sessions: make(map[string]*Session),
	}
}

// StartSession 创建新会话并返回开场问题
func (m *SessionManager) StartSession(mode string) (*Session, error) {
	if mode != ModeEnvironment && mode != ModeKPI {
		return nil, fmt.Errorf("不支持的会话模式: %s", mode)
	}

	session := &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		History:   make([]models.ConversationTurn, 0, models.MaxConversationDepth),
		CreatedAt: time.Now(),
	}

	if mode == ModeKPI {
		kpi := m.engine.StartKPI()
		session.KPINode = &kpi
		session.Current = models.QuestionNode{
			ID:           kpi.ID,
			QuestionText: kpi.QuestionText,
			Options:      kpi.Options,
			Depth:        1,
		}
	} else {
		session.Current = m.engine.Start()
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session, nil
}

// GetSession 查找会话
func (m *SessionManager) GetSession(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// SubmitAnswer 提交答案并推进会话；返回推进后的会话状态
// responseIndex 仅结构化模式使用，自由文本模式传-1
func (m *SessionManager) SubmitAnswer(sessionID, answerText string, responseIndex int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("会话不存在: %s", sessionID)
	}
	if session.Completed {
		return nil, fmt.Errorf("会话已结束: %s", sessionID)
	}

	turn := models.ConversationTurn{
		QuestionID: session.Current.ID,
		Question:   session.Current.QuestionText,
		Answer:     answerText,
		Depth:      session.Current.Depth,
	}
	session.History = append(session.History, turn)
	m.logTurn(session, &turn)

	if session.Mode == ModeKPI {
		m.advanceKPI(session, responseIndex)
	} else {
		m.advanceEnvironment(session, answerText)
	}

	if session.Completed {
		// 终止后保留历史供最后一次查询，后续由调用方丢弃
		session.KPINode = nil
	}
	return session, nil
}

// advanceEnvironment 自由文本模式推进
func (m *SessionManager) advanceEnvironment(session *Session, answerText string) {
	next := m.engine.Next(answerText, session.History)
	if next == nil {
		session.Completed = true
		return
	}
	session.Current = *next
}

// advanceKPI 结构化模式推进：触发器未命中或深度耗尽即终止
func (m *SessionManager) advanceKPI(session *Session, responseIndex int) {
	if len(session.History) >= models.MaxConversationDepth {
		session.Completed = true
		return
	}

	next := m.engine.NextKPI(session.Current.ID, responseIndex)
	if next == nil {
		session.Completed = true
		return
	}

	session.KPINode = next
	session.Current = models.QuestionNode{
		ID:           next.ID,
		QuestionText: next.QuestionText,
		Options:      next.Options,
		Depth:        session.Current.Depth + 1,
	}
}

// CloseSession 删除会话内存状态
func (m *SessionManager) CloseSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// logTurn 落库一轮问答日志，失败仅忽略不中断会话
func (m *SessionManager) logTurn(session *Session, turn *models.ConversationTurn) {
	if m.db == nil {
		return
	}
	log := &models.ConversationLog{
		SessionID:  session.ID,
		Mode:       session.Mode,
		QuestionID: turn.QuestionID,
		Question:   turn.Question,
		Answer:     turn.Answer,
		Depth:      turn.Depth,
	}
	_ = m.db.Create(log).Error
}
