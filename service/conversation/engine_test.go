/*
 * @module service/conversation/engine_test
 * @description 问题分支引擎与会话管理器单元测试
 * @architecture 单元测试
 */

package conversation

import (
	"testing"

	"compass-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEngineStart 测试开场问题固定
func TestEngineStart(t *testing.T) {
	engine := NewEngine()

	node := engine.Start()

	assert.Equal(t, "env_foundation", node.ID)
	assert.Equal(t, 1, node.Depth)
}

// TestEngineScenarioD 测试场景D：深度1答案同时命中space和feeling，返回bedroom专属跟进
func TestEngineScenarioD(t *testing.T) {
	engine := NewEngine()
	history := []models.ConversationTurn{
		{QuestionID: "env_foundation", Answer: "I feel safest in my bedroom", Depth: 1},
	}

	next := engine.Next("I feel safest in my bedroom", history)

	require.NotNil(t, next)
	assert.Equal(t, "env_space_bedroom", next.ID)
	assert.Equal(t, models.ThemeSpace, next.Theme)
	assert.Equal(t, 2, next.Depth)
}

// TestEngineGenericFallback 测试无关键词命中时的通用深度索引回退
func TestEngineGenericFallback(t *testing.T) {
	engine := NewEngine()
	history := []models.ConversationTurn{
		{Depth: 1}, {Depth: 2},
	}

	next := engine.Next("nothing in particular", history)

	require.NotNil(t, next)
	assert.Equal(t, "env_generic_2", next.ID)
	assert.Equal(t, 3, next.Depth)
}

// TestGenericClamping 测试通用问题索引超界时钳制到最后一个
func TestGenericClamping(t *testing.T) {
	node := genericByDepth(10)
	assert.Equal(t, genericQuestions[len(genericQuestions)-1].ID, node.ID)
}

// TestEngineTerminatesAtMaxDepth 测试深度达到6时终止
func TestEngineTerminatesAtMaxDepth(t *testing.T) {
	engine := NewEngine()

	history := make([]models.ConversationTurn, models.MaxConversationDepth)
	for i := range history {
		history[i] = models.ConversationTurn{Depth: i + 1}
	}

	assert.Nil(t, engine.Next("my bedroom feels safe", history))
}

// TestEngineDeterminism 测试固定答案序列的遍历可复现
func TestEngineDeterminism(t *testing.T) {
	answers := []string{
		"I feel safest in my bedroom",
		"it is calm and quiet there",
		"my sister visits sometimes",
		"it has been hard lately",
		"just taking it day by day",
	}

	run := func() []string {
		engine := NewEngine()
		node := engine.Start()
		ids := []string{node.ID}
		history := make([]models.ConversationTurn, 0, len(answers))

		for _, answer := range answers {
			history = append(history, models.ConversationTurn{
				QuestionID: node.ID, Answer: answer, Depth: node.Depth,
			})
			next := engine.Next(answer, history)
			if next == nil {
				break
			}
			node = *next
			ids = append(ids, node.ID)
		}
		return ids
	}

	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run(), "同一答案序列必须产出相同的节点序列")
	}
}

// TestEngineKPITriggers 测试结构化KPI分支的触发器匹配
func TestEngineKPITriggers(t *testing.T) {
	engine := NewEngine()

	t.Run("单下标触发", func(t *testing.T) {
		next := engine.NextKPI(kpiFoundationID, 0)
		require.NotNil(t, next)
		assert.Equal(t, "kpi_wellbeing", next.ID)
	})

	t.Run("多下标触发首个命中生效", func(t *testing.T) {
		next := engine.NextKPI(kpiFoundationID, 2)
		require.NotNil(t, next)
		assert.Equal(t, "kpi_housing_plan", next.ID)
	})

	t.Run("无触发器命中即分支终止", func(t *testing.T) {
		assert.Nil(t, engine.NextKPI("kpi_wellbeing", 0))
	})

	t.Run("叶子节点无后续", func(t *testing.T) {
		assert.Nil(t, engine.NextKPI("kpi_support_network", 0))
	})

	t.Run("未知问题ID按终止处理", func(t *testing.T) {
		assert.Nil(t, engine.NextKPI("kpi_unknown", 0))
	})
}

// TestSessionManagerEnvironmentFlow 测试自由文本会话全流程
func TestSessionManagerEnvironmentFlow(t *testing.T) {
	manager := NewSessionManager(NewEngine(), nil)

	session, err := manager.StartSession(ModeEnvironment)
	require.NoError(t, err)
	assert.Equal(t, "env_foundation", session.Current.ID)

	session, err = manager.SubmitAnswer(session.ID, "I feel safest in my bedroom", -1)
	require.NoError(t, err)
	assert.Equal(t, "env_space_bedroom", session.Current.ID)
	assert.False(t, session.Completed)
	require.Len(t, session.History, 1)
	assert.Equal(t, "env_foundation", session.History[0].QuestionID)
}

// TestSessionManagerTerminatesAfterSixTurns 测试会话在6轮后强制结束
func TestSessionManagerTerminatesAfterSixTurns(t *testing.T) {
	manager := NewSessionManager(NewEngine(), nil)

	session, err := manager.StartSession(ModeEnvironment)
	require.NoError(t, err)

	for i := 0; i < models.MaxConversationDepth; i++ {
		session, err = manager.SubmitAnswer(session.ID, "nothing in particular", -1)
		require.NoError(t, err)
	}

	assert.True(t, session.Completed)

	_, err = manager.SubmitAnswer(session.ID, "one more", -1)
	assert.Error(t, err)
}

// TestSessionManagerKPIFlow 测试结构化会话推进与终止
func TestSessionManagerKPIFlow(t *testing.T) {
	manager := NewSessionManager(NewEngine(), nil)

	session, err := manager.StartSession(ModeKPI)
	require.NoError(t, err)
	assert.Equal(t, kpiFoundationID, session.Current.ID)
	require.NotEmpty(t, session.Current.Options)

	session, err = manager.SubmitAnswer(session.ID, session.Current.Options[3], 3)
	require.NoError(t, err)
	assert.Equal(t, "kpi_crisis_support", session.Current.ID)

	session, err = manager.SubmitAnswer(session.ID, session.Current.Options[0], 0)
	require.NoError(t, err)
	assert.True(t, session.Completed, "无触发器命中时该分支终止")
}

// TestSessionManagerUnknownMode 测试未知会话模式被拒绝
func TestSessionManagerUnknownMode(t *testing.T) {
	manager := NewSessionManager(NewEngine(), nil)

	_, err := manager.StartSession("video")
	assert.Error(t, err)
}
