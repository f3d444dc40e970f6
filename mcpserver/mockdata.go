/*
 * @module mcpserver/mockdata
 * @description MCP演示数据集，旅程与合规记录的静态样本
 * @architecture 静态数据 - 仅供演示与测试，不接入真实合规数据
 * @documentReference ai_docs/mcp_req.md
 * @rules 样本刻意包含字段缺失，供分析类工具展示数据缺口
 * @refs repository.go
 */

package mcpserver

var mockJourneys = []Journey{
	{
		ID:         "journey-001",
		ClientName: "J.D.",
		Program:    "Transitional Housing",
		Stage:      "active",
		StartedAt:  "2025-01-10",
		Milestones: []string{"完成入住评估", "建立康复计划", "就业辅导启动"},
		Notes:      "进展稳定，参与度高",
	},
	{
		ID:         "journey-002",
		ClientName: "M.S.",
		Program:    "Detox",
		Stage:      "transition",
		StartedAt:  "2025-02-03",
		Milestones: []string{"完成脱毒阶段", "转入过渡住房候补"},
		Notes:      "等待过渡住房床位",
	},
	{
		ID:         "journey-003",
		ClientName: "A.R.",
		Program:    "Sober Living",
		Stage:      "alumni",
		StartedAt:  "2024-08-15",
		Milestones: []string{"完成全部阶段", "迁入永久住房", "校友互助组"},
		Notes:      "已安置，保持随访",
	},
	{
		ID:         "journey-004",
		ClientName: "T.K.",
		Program:    "Transitional Housing",
		Stage:      "intake",
		StartedAt:  "2025-05-22",
		Milestones: []string{},
		Notes:      "入住评估进行中",
	},
}

var mockComplianceRecords = []ComplianceRecord{
	{
		ClientID:             "c-1001",
		ProgramName:          "Transitional Housing",
		IntakeDate:           "2025-01-10",
		ExitDate:             "",
		ExitDestination:      "",
		HousingPlacementDate: "",
		LengthOfStay:         "",
	},
	{
		ClientID:             "c-1002",
		ProgramName:          "Detox",
		IntakeDate:           "2025-02-03",
		ExitDate:             "2025-03-01",
		ExitDestination:      "Transitional Housing",
		HousingPlacementDate: "",
		LengthOfStay:         "26",
	},
	{
		ClientID:             "c-1003",
		ProgramName:          "Sober Living",
		IntakeDate:           "2024-08-15",
		ExitDate:             "2025-04-02",
		ExitDestination:      "Permanent Housing",
		HousingPlacementDate: "2025-03-28",
		LengthOfStay:         "230",
	},
	{
		ClientID:             "c-1004",
		ProgramName:          "Transitional Housing",
		IntakeDate:           "",
		ExitDate:             "2025-04-20",
		ExitDestination:      "Permanent Housing",
		HousingPlacementDate: "2025-04-18",
		LengthOfStay:         "",
	},
	{
		ClientID:             "c-1005",
		ProgramName:          "Detox",
		IntakeDate:           "2025-05-22",
		ExitDate:             "",
		ExitDestination:      "",
		HousingPlacementDate: "",
		LengthOfStay:         "",
	},
}
