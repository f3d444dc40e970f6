package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeReq 构造带参数的工具调用请求
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText 提取工具结果中的文本内容
func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	require.NotEmpty(t, r.Content)
	tc, ok := r.Content[0].(mcp.TextContent)
	require.True(t, ok, "期望文本内容")
	return tc.Text
}

func TestRepository(t *testing.T) {
	repo := NewMockRepository()

	t.Run("按ID查询旅程", func(t *testing.T) {
		journey, err := repo.GetJourney("journey-001")
		require.NoError(t, err)
		assert.Equal(t, "Transitional Housing", journey.Program)
		assert.Equal(t, "active", journey.Stage)
	})

	t.Run("未知旅程ID返回错误", func(t *testing.T) {
		_, err := repo.GetJourney("journey-999")
		assert.Error(t, err)
	})

	t.Run("旅程列表按ID排序", func(t *testing.T) {
		journeys := repo.ListJourneys()
		require.Len(t, journeys, 4)
		for i := 1; i < len(journeys); i++ {
			assert.Less(t, journeys[i-1].ID, journeys[i].ID)
		}
	})

	t.Run("按项目过滤合规记录", func(t *testing.T) {
		records := repo.ListComplianceRecords("Detox")
		require.Len(t, records, 2)
		for _, rec := range records {
			assert.Equal(t, "Detox", rec.ProgramName)
		}
	})

	t.Run("空过滤返回全部记录", func(t *testing.T) {
		assert.Len(t, repo.ListComplianceRecords(""), 5)
	})
}

func TestGetAnalytics(t *testing.T) {
	repo := NewMockRepository()
	analytics := repo.GetAnalytics()

	// 演示数据：5条记录，2条未退出，3条已退出，其中2条安置到永久住房
	assert.Equal(t, 4, analytics.TotalJourneys)
	assert.Equal(t, 5, analytics.TotalRecords)
	assert.Equal(t, 2, analytics.ActiveEnrollments)
	assert.Equal(t, 2, analytics.HousingPlacements)
	assert.InDelta(t, 66.7, analytics.PlacementRate, 0.1)
	assert.Equal(t, 11, analytics.FieldGapCount)
}

func TestAnalyticsNoExits(t *testing.T) {
	// 无退出记录时安置率为0而非NaN
	repo := NewInMemoryRepository(nil, []ComplianceRecord{
		{ClientID: "c-1", ProgramName: "Detox", IntakeDate: "2025-01-01"},
	})
	analytics := repo.GetAnalytics()
	assert.Equal(t, 1, analytics.ActiveEnrollments)
	assert.Equal(t, 0.0, analytics.PlacementRate)
}

func TestJourneyTools(t *testing.T) {
	repo := NewMockRepository()
	ctx := context.Background()

	t.Run("get_journey返回JSON", func(t *testing.T) {
		tool := NewGetJourneyTool(repo)
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"id": "journey-003"}))
		require.NoError(t, err)
		assert.False(t, result.IsError)

		var journey Journey
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &journey))
		assert.Equal(t, "alumni", journey.Stage)
		assert.Equal(t, "Sober Living", journey.Program)
	})

	t.Run("get_journey缺少ID参数", func(t *testing.T) {
		tool := NewGetJourneyTool(repo)
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("get_journey未知ID返回工具错误", func(t *testing.T) {
		tool := NewGetJourneyTool(repo)
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"id": "journey-999"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("list_journeys返回全部旅程", func(t *testing.T) {
		tool := NewListJourneysTool(repo)
		result, err := tool.Handle(ctx, makeReq(nil))
		require.NoError(t, err)

		var journeys []Journey
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &journeys))
		assert.Len(t, journeys, 4)
	})

	t.Run("建议按阶段给出", func(t *testing.T) {
		tool := NewGetJourneyRecommendationsTool(repo)
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"id": "journey-004"}))
		require.NoError(t, err)

		text := resultText(t, result)
		assert.Contains(t, text, "stage: intake")
		assert.Contains(t, text, "intake assessment")
	})
}

func TestComplianceTools(t *testing.T) {
	repo := NewMockRepository()
	ctx := context.Background()

	t.Run("get_compliance_record按客户ID查询", func(t *testing.T) {
		tool := NewGetComplianceRecordTool(repo)
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"client_id": "c-1003"}))
		require.NoError(t, err)

		var record ComplianceRecord
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &record))
		assert.Equal(t, "Permanent Housing", record.ExitDestination)
	})

	t.Run("get_compliance_record未知ID", func(t *testing.T) {
		tool := NewGetComplianceRecordTool(repo)
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"client_id": "c-9999"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("list_compliance_records带项目过滤", func(t *testing.T) {
		tool := NewListComplianceRecordsTool(repo)
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"program": "Sober Living"}))
		require.NoError(t, err)

		var records []ComplianceRecord
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "c-1003", records[0].ClientID)
	})

	t.Run("get_analytics返回聚合指标", func(t *testing.T) {
		tool := NewGetAnalyticsTool(repo)
		result, err := tool.Handle(ctx, makeReq(nil))
		require.NoError(t, err)

		var analytics Analytics
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &analytics))
		assert.Equal(t, 5, analytics.TotalRecords)
		assert.Equal(t, 2, analytics.HousingPlacements)
	})
}

func TestInsightTools(t *testing.T) {
	repo := NewMockRepository()
	ctx := context.Background()

	t.Run("generate_ai_prompt嵌入指标与主题", func(t *testing.T) {
		tool := NewGenerateAIPromptTool(repo)
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"topic": "housing placement"}))
		require.NoError(t, err)

		text := resultText(t, result)
		assert.Contains(t, text, "housing placement")
		assert.Contains(t, text, "4 journeys")
		assert.Contains(t, text, "placement rate 66.7%")
	})

	t.Run("generate_ai_prompt缺省主题", func(t *testing.T) {
		tool := NewGenerateAIPromptTool(repo)
		result, err := tool.Handle(ctx, makeReq(nil))
		require.NoError(t, err)
		assert.Contains(t, resultText(t, result), "program performance")
	})

	t.Run("analyze_compliance_data列出缺口", func(t *testing.T) {
		tool := NewAnalyzeComplianceDataTool(repo)
		result, err := tool.Handle(ctx, makeReq(nil))
		require.NoError(t, err)

		text := resultText(t, result)
		assert.Contains(t, text, "c-1001: missing ExitDate, ExitDestination, HousingPlacementDate, LengthOfStay")
		assert.Contains(t, text, "c-1004: missing IntakeDate, LengthOfStay")
		assert.Contains(t, text, "Total missing values: 11")
		// 完整记录不出现在缺口清单
		assert.NotContains(t, text, "c-1003: missing")
	})

	t.Run("analyze_compliance_data无缺口时", func(t *testing.T) {
		full := NewInMemoryRepository(nil, []ComplianceRecord{
			{
				ClientID: "c-1", ProgramName: "Detox", IntakeDate: "2025-01-01",
				ExitDate: "2025-02-01", ExitDestination: "Permanent Housing",
				HousingPlacementDate: "2025-01-30", LengthOfStay: "31",
			},
		})
		tool := NewAnalyzeComplianceDataTool(full)
		result, err := tool.Handle(ctx, makeReq(nil))
		require.NoError(t, err)
		assert.Contains(t, resultText(t, result), "No missing field values found")
	})
}

func TestSummarizeTool(t *testing.T) {
	tool := NewSummarizeTool()
	ctx := context.Background()

	t.Run("截取前N句", func(t *testing.T) {
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{
			"text":          "First. Second! Third? Fourth.",
			"max_sentences": float64(2),
		}))
		require.NoError(t, err)
		assert.Equal(t, "First. Second!", resultText(t, result))
	})

	t.Run("缺省保留三句", func(t *testing.T) {
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{
			"text": "One. Two. Three. Four.",
		}))
		require.NoError(t, err)
		assert.Equal(t, "One. Two. Three.", resultText(t, result))
	})

	t.Run("支持中文句号", func(t *testing.T) {
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{
			"text":          "第一句。第二句。第三句。",
			"max_sentences": float64(1),
		}))
		require.NoError(t, err)
		assert.Equal(t, "第一句。", resultText(t, result))
	})

	t.Run("句子不足时返回全文", func(t *testing.T) {
		result, err := tool.Handle(ctx, makeReq(map[string]interface{}{
			"text":          "Only one sentence.",
			"max_sentences": float64(5),
		}))
		require.NoError(t, err)
		assert.Equal(t, "Only one sentence.", resultText(t, result))
	})

	t.Run("缺少text参数", func(t *testing.T) {
		result, err := tool.Handle(ctx, makeReq(nil))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestServerRegistersTools(t *testing.T) {
	s := New(NewMockRepository())
	assert.NotNil(t, s)
}
