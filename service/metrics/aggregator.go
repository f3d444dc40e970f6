/*
 * @module service/metrics/aggregator
 * @description 项目绩效指标聚合器，计算总览指标和分项目指标
 * @architecture 分层架构 - 指标服务层
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow 批次输入 -> 在住时长推导 -> 总览聚合 -> 分项目分区聚合
 * @rules 安置率分母为有出院记录的条数，无出院报0；在住客户LOS按当前时间滚动推导；负LOS保留不截断
 * @dependencies compass-service/service/models, sort, time
 * @refs service/quality/, service/scheduler/
 */

package metrics

import (
	"sort"
	"time"

	"compass-service/service/models"
)

// Aggregator 绩效指标聚合器
// 除读取当前时间用于在住客户LOS推导外无副作用
type Aggregator struct {
	now func() time.Time
}

// NewAggregator 创建指标聚合器实例
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// NewAggregatorWithClock 创建使用注入时钟的聚合器，供测试固定"今天"
func NewAggregatorWithClock(now func() time.Time) *Aggregator {
	return &Aggregator{now: now}
}

// ComputeOverview 计算一个批次的总览绩效指标
func (a *Aggregator) ComputeOverview(records []models.ClientRecord) models.OverviewMetrics {
	metrics := models.OverviewMetrics{}

	clientSet := make(map[string]struct{})
	exitedCount := 0
	losSum := 0.0
	losCount := 0

	for i := range records {
		r := &records[i]

		if r.ClientID != "" {
			clientSet[r.ClientID] = struct{}{}
		}
		if r.IsActive() {
			metrics.ActiveEnrollments++
		} else {
			exitedCount++
		}
		if r.ExitDestination == models.PermanentHousingDestination {
			metrics.HousingPlacements++
		}
		if los, ok := a.lengthOfStay(r); ok {
			losSum += float64(los)
			losCount++
		}
	}

	metrics.TotalClients = len(clientSet)

	if losCount > 0 {
		avg := losSum / float64(losCount)
		metrics.AvgLengthOfStay = &avg
	}

	// 分母为有出院记录的条数；无出院报0而非空值，避免除零
	if exitedCount > 0 {
		metrics.PlacementRate = float64(metrics.HousingPlacements) / float64(exitedCount) * 100
	}

	return metrics
}

// ComputeByProgram 按ProgramName精确匹配分区并独立计算各分区指标
// 不做大小写或空白归一化，输出按项目名排序保证稳定
func (a *Aggregator) ComputeByProgram(records []models.ClientRecord) []models.ProgramMetrics {
	partitions := make(map[string][]models.ClientRecord)
	for _, r := range records {
		partitions[r.ProgramName] = append(partitions[r.ProgramName], r)
	}

	names := make([]string, 0, len(partitions))
	for name := range partitions {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]models.ProgramMetrics, 0, len(names))
	for _, name := range names {
		result = append(result, models.ProgramMetrics{
			ProgramName:     name,
			OverviewMetrics: a.ComputeOverview(partitions[name]),
		})
	}
	return result
}

// lengthOfStay 推导单条记录的在住时长（天）
// 记录自带LengthOfStay时直接采信，不与日期交叉校验；
// 否则用入住日期与出院日期（在住时用当前时间）求差；入住日期缺失则不可推导
func (a *Aggregator) lengthOfStay(r *models.ClientRecord) (int, bool) {
	if r.LengthOfStay != nil {
		return *r.LengthOfStay, true
	}
	if r.IntakeDate == nil {
		return 0, false
	}
	end := a.now()
	if r.ExitDate != nil {
		end = *r.ExitDate
	}
	return DaysBetween(*r.IntakeDate, end), true
}

// DaysBetween 计算两个时间点之间的整天数，出院早于入住时为负数
// 负值不截断：它提示上游数据错误，应由展示层呈现
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
