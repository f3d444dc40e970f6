/*
 * @module mcpserver/server
 * @description MCP服务器装配，注册全部工具并注入数据仓库
 * @architecture 组合根 - 仅做依赖装配，不含业务逻辑
 * @documentReference ai_docs/mcp_req.md
 * @stateFlow 仓库注入 -> 工具注册 -> stdio传输服务
 * @rules 未知工具名由协议层拒绝，属于客户端契约违规
 * @dependencies github.com/mark3labs/mcp-go
 * @refs cmd/compass-mcp/main.go
 */

package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// Version 构建时经ldflags注入
var Version = "1.0.0"

// New 创建MCP服务器并注册全部工具
func New(repo Repository) *server.MCPServer {
	s := server.NewMCPServer(
		"compass-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	getJourney := NewGetJourneyTool(repo)
	s.AddTool(getJourney.Definition(), getJourney.Handle)

	listJourneys := NewListJourneysTool(repo)
	s.AddTool(listJourneys.Definition(), listJourneys.Handle)

	journeyRecommendations := NewGetJourneyRecommendationsTool(repo)
	s.AddTool(journeyRecommendations.Definition(), journeyRecommendations.Handle)

	getRecord := NewGetComplianceRecordTool(repo)
	s.AddTool(getRecord.Definition(), getRecord.Handle)

	listRecords := NewListComplianceRecordsTool(repo)
	s.AddTool(listRecords.Definition(), listRecords.Handle)

	getAnalytics := NewGetAnalyticsTool(repo)
	s.AddTool(getAnalytics.Definition(), getAnalytics.Handle)

	generatePrompt := NewGenerateAIPromptTool(repo)
	s.AddTool(generatePrompt.Definition(), generatePrompt.Handle)

	analyzeData := NewAnalyzeComplianceDataTool(repo)
	s.AddTool(analyzeData.Definition(), analyzeData.Handle)

	summarize := NewSummarizeTool()
	s.AddTool(summarize.Definition(), summarize.Handle)

	return s
}
