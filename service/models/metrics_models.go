/*
 * @module service/models/metrics_models
 * @description 项目绩效指标模型，包含总览指标和分项目指标
 * @architecture 数据模型层
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow 批次聚合 -> 总览/分项目指标 -> 展示层
 * @rules 安置率分母为有出院记录的条数，无出院时报0而非空值
 * @dependencies time
 * @refs service/metrics/
 */

package models

// OverviewMetrics 总览绩效指标（全批次或单项目分区）
type OverviewMetrics struct {
	TotalClients      int      `json:"total_clients"`      // 去重ClientID数，非记录条数
	ActiveEnrollments int      `json:"active_enrollments"` // 无出院日期的记录数
	HousingPlacements int      `json:"housing_placements"` // 出院去向为Permanent Housing的记录数
	AvgLengthOfStay   *float64 `json:"avg_length_of_stay"` // 可推导LOS记录的均值，无样本时为null
	PlacementRate     float64  `json:"placement_rate"`     // 安置数 / 有出院记录数 × 100，无出院时为0
}

// ProgramMetrics 分项目绩效指标，按ProgramName精确匹配分区
type ProgramMetrics struct {
	ProgramName string `json:"program_name"`
	OverviewMetrics
}
