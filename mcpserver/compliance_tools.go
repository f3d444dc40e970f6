/*
 * @module mcpserver/compliance_tools
 * @description 合规数据查询类MCP工具：get_compliance_record、list_compliance_records、get_analytics
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

	"github.com/mark3labs/mcp-go/mcp"
)

// GetComplianceRecordTool get_compliance_record工具
type GetComplianceRecordTool struct {
	repo Repository
}

// NewGetComplianceRecordTool 创建get_compliance_record工具
func NewGetComplianceRecordTool(repo Repository) *GetComplianceRecordTool {
	return &GetComplianceRecordTool{repo: repo}
}

// Definition 返回工具定义
func (t *GetComplianceRecordTool) Definition() mcp.Tool {
	return mcp.NewTool("get_compliance_record",
		mcp.WithDescription("Get a single compliance enrollment record by client ID."),
		mcp.WithString("client_id",
			mcp.Required(),
			mcp.Description("Client ID, e.g. c-1001"),
		),
	)
}

// Handle 处理工具调用
func (t *GetComplianceRecordTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clientID := req.GetString("client_id", "")
	if clientID == "" {
		return mcp.NewToolResultError("'client_id' is required"), nil
	}

	record, err := t.repo.GetComplianceRecord(clientID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toJSONResult(record), nil
}

// ListComplianceRecordsTool list_compliance_records工具
type ListComplianceRecordsTool struct {
	repo Repository
}

// NewListComplianceRecordsTool 创建list_compliance_records工具
func NewListComplianceRecordsTool(repo Repository) *ListComplianceRecordsTool {
	return &ListComplianceRecordsTool{repo: repo}
}

// Definition 返回工具定义
func (t *ListComplianceRecordsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_compliance_records",
		mcp.WithDescription("List compliance enrollment records, optionally filtered by exact program name."),
		mcp.WithString("program",
			mcp.Description("Exact program name filter, e.g. Transitional Housing"),
		),
	)
}

// Handle 处理工具调用
func (t *ListComplianceRecordsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	program := req.GetString("program", "")
	return toJSONResult(t.repo.ListComplianceRecords(program)), nil
}

// GetAnalyticsTool get_analytics工具
type GetAnalyticsTool struct {
	repo Repository
}

// NewGetAnalyticsTool 创建get_analytics工具
func NewGetAnalyticsTool(repo Repository) *GetAnalyticsTool {
	return &GetAnalyticsTool{repo: repo}
}

// Definition 返回工具定义
func (t *GetAnalyticsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_analytics",
		mcp.WithDescription("Get aggregate analytics over the demo dataset: journey counts, active enrollments, housing placements, and placement rate."),
	)
}

// Handle 处理工具调用
func (t *GetAnalyticsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toJSONResult(t.repo.GetAnalytics()), nil
}
