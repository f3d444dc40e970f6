/*
 * @module mcpserver/journey_tools
 * @description 康复旅程查询类MCP工具：get_journey、list_journeys、get_journey_recommendations
 * @architecture MCP工具层 - 每个工具一个结构体，Definition/Handle成对
 * @documentReference ai_docs/mcp_req.md
 * @stateFlow 工具调用 -> 仓库查询 -> JSON文本结果
 * @rules 工具返回JSON序列化文本；查询失败返回工具级错误而非协议错误
 * @dependencies github.com/mark3labs/mcp-go
 * @refs repository.go
 */

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// toJSONResult 序列化为JSON文本工具结果
func toJSONResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("serialization failed: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// GetJourneyTool get_journey工具
type GetJourneyTool struct {
	repo Repository
}

// NewGetJourneyTool 创建get_journey工具
func NewGetJourneyTool(repo Repository) *GetJourneyTool {
	return &GetJourneyTool{repo: repo}
}

// Definition 返回工具定义
func (t *GetJourneyTool) Definition() mcp.Tool {
	return mcp.NewTool("get_journey",
		mcp.WithDescription("Get a single recovery journey by its ID, including program, stage, and milestones."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Journey ID, e.g. journey-001"),
		),
	)
}

// Handle 处理工具调用
func (t *GetJourneyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	journey, err := t.repo.GetJourney(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(journey), nil
}

// ListJourneysTool list_journeys工具
type ListJourneysTool struct {
	repo Repository
}

// NewListJourneysTool 创建list_journeys工具
func NewListJourneysTool(repo Repository) *ListJourneysTool {
	return &ListJourneysTool{repo: repo}
}

// Definition 返回工具定义
func (t *ListJourneysTool) Definition() mcp.Tool {
	return mcp.NewTool("list_journeys",
		mcp.WithDescription("List all recovery journeys with their current stage."),
	)
}

// Handle 处理工具调用
func (t *ListJourneysTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toJSONResult(t.repo.ListJourneys()), nil
}

// GetJourneyRecommendationsTool get_journey_recommendations工具
type GetJourneyRecommendationsTool struct {
	repo Repository
}

// NewGetJourneyRecommendationsTool 创建get_journey_recommendations工具
func NewGetJourneyRecommendationsTool(repo Repository) *GetJourneyRecommendationsTool {
	return &GetJourneyRecommendationsTool{repo: repo}
}

// Definition 返回工具定义
func (t *GetJourneyRecommendationsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_journey_recommendations",
		mcp.WithDescription("Get next-step recommendations for a journey based on its current stage."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Journey ID"),
		),
	)
}

// 按阶段的固定建议清单
var stageRecommendations = map[string][]string{
	"intake":     {"Complete the intake assessment", "Schedule a housing needs interview", "Establish an initial recovery plan"},
	"active":     {"Review weekly milestone progress", "Connect with employment counseling", "Prepare housing placement paperwork"},
	"transition": {"Confirm transitional or permanent housing availability", "Set up aftercare support contacts", "Document exit destination"},
	"alumni":     {"Schedule follow-up check-ins", "Invite to peer support groups", "Record housing retention status"},
}

// Handle 处理工具调用
func (t *GetJourneyRecommendationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	journey, err := t.repo.GetJourney(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	recommendations, ok := stageRecommendations[journey.Stage]
	if !ok {
		recommendations = []string{"Review journey stage data; stage is not recognized"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recommendations for %s (stage: %s):\n", journey.ID, journey.Stage)
	for i, rec := range recommendations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
	}
	return mcp.NewToolResultText(b.String()), nil
}
