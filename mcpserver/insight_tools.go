/*
 * @module mcpserver/insight_tools
 * @description 洞察类MCP工具：generate_ai_prompt、analyze_compliance_data、summarize
 * @architecture MCP工具层 - 每个工具一个结构体，Definition/Handle成对
 * @documentReference ai_docs/mcp_req.md
 * @stateFlow 工具调用 -> 仓库聚合/文本处理 -> 文本结果
 * @rules 文本产出确定性生成，同一数据集同一输入产出相同文本
 * @dependencies github.com/mark3labs/mcp-go
 * @refs repository.go
 */

package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// GenerateAIPromptTool generate_ai_prompt工具
type GenerateAIPromptTool struct {
	repo Repository
}

// NewGenerateAIPromptTool 创建generate_ai_prompt工具
func NewGenerateAIPromptTool(repo Repository) *GenerateAIPromptTool {
	return &GenerateAIPromptTool{repo: repo}
}

// Definition 返回工具定义
func (t *GenerateAIPromptTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_ai_prompt",
		mcp.WithDescription("Generate an analysis prompt for an AI assistant, grounded in current analytics and focused on a given topic."),
		mcp.WithString("topic",
			mcp.Description("Analysis focus, e.g. housing placement, data quality, program performance"),
		),
	)
}

// Handle 处理工具调用
func (t *GenerateAIPromptTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := req.GetString("topic", "program performance")
	analytics := t.repo.GetAnalytics()

	var b strings.Builder
	b.WriteString("You are an analyst for a recovery housing nonprofit.\n\n")
	fmt.Fprintf(&b, "Current snapshot: %d journeys, %d compliance records, %d active enrollments, %d housing placements (placement rate %.1f%%), %d missing field values.\n\n",
		analytics.TotalJourneys, analytics.TotalRecords, analytics.ActiveEnrollments,
		analytics.HousingPlacements, analytics.PlacementRate, analytics.FieldGapCount)
	fmt.Fprintf(&b, "Analyze the data with a focus on %s. Identify trends, risks, and two concrete actions the program team should take next.", topic)

	return mcp.NewToolResultText(b.String()), nil
}

// AnalyzeComplianceDataTool analyze_compliance_data工具
type AnalyzeComplianceDataTool struct {
	repo Repository
}

// NewAnalyzeComplianceDataTool 创建analyze_compliance_data工具
func NewAnalyzeComplianceDataTool(repo Repository) *AnalyzeComplianceDataTool {
	return &AnalyzeComplianceDataTool{repo: repo}
}

// Definition 返回工具定义
func (t *AnalyzeComplianceDataTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_compliance_data",
		mcp.WithDescription("Scan the compliance records for missing field values and report per-client data gaps."),
	)
}

// 必填字段展示名，与主服务的上传表头一致
var complianceFieldNames = []string{
	"ClientID", "ProgramName", "IntakeDate", "ExitDate",
	"ExitDestination", "HousingPlacementDate", "LengthOfStay",
}

// Handle 处理工具调用
func (t *AnalyzeComplianceDataTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records := t.repo.ListComplianceRecords("")

	var b strings.Builder
	fmt.Fprintf(&b, "Compliance data analysis over %d records:\n\n", len(records))

	gapTotal := 0
	for _, rec := range records {
		values := []string{
			rec.ClientID, rec.ProgramName, rec.IntakeDate, rec.ExitDate,
			rec.ExitDestination, rec.HousingPlacementDate, rec.LengthOfStay,
		}
		missing := make([]string, 0)
		for i, value := range values {
			if value == "" {
				missing = append(missing, complianceFieldNames[i])
			}
		}
		if len(missing) > 0 {
			gapTotal += len(missing)
			fmt.Fprintf(&b, "- %s: missing %s\n", rec.ClientID, strings.Join(missing, ", "))
		}
	}

	if gapTotal == 0 {
		b.WriteString("No missing field values found.\n")
	} else {
		fmt.Fprintf(&b, "\nTotal missing values: %d\n", gapTotal)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// SummarizeTool summarize工具
type SummarizeTool struct{}

// NewSummarizeTool 创建summarize工具
func NewSummarizeTool() *SummarizeTool {
	return &SummarizeTool{}
}

// Definition 返回工具定义
func (t *SummarizeTool) Definition() mcp.Tool {
	return mcp.NewTool("summarize",
		mcp.WithDescription("Summarize a block of text to its first N sentences."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to summarize"),
		),
		mcp.WithNumber("max_sentences",
			mcp.Description("Maximum sentences to keep (default: 3)"),
		),
	)
}

// Handle 处理工具调用
func (t *SummarizeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}
	maxSentences := intArg(req, "max_sentences", 3)
	if maxSentences < 1 {
		maxSentences = 1
	}

	return mcp.NewToolResultText(firstSentences(text, maxSentences)), nil
}

// firstSentences 截取前n个句子，按句号/问号/感叹号切分
func firstSentences(text string, n int) string {
	var b strings.Builder
	count := 0
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '。' || r == '！' || r == '？' {
			count++
			if count >= n {
				break
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// intArg 提取整数参数，JSON数字为float64
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}
