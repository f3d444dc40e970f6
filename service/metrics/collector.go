/*
 * @module service/metrics/collector
 * @description Prometheus指标收集器，上传处理和定时刷新后更新仪表盘指标
 * @architecture 监控层 - 进程内指标导出，经/metrics端点抓取
 * @documentReference ai_docs/monitoring_req.md
 * @stateFlow 上传处理完成 -> 指标更新 -> Prometheus抓取
 * @rules 指标只反映最新批次，旧批次数据不保留
 * @dependencies github.com/prometheus/client_golang
 * @refs service/ingestion/, main.go
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"compass-service/service/models"
)

// Collector 合规指标收集器
type Collector struct {
	uploadsTotal     prometheus.Counter
	overallScore     prometheus.Gauge
	fieldCoverage    *prometheus.GaugeVec
	compliantGauge   prometheus.Gauge
	totalClients     prometheus.Gauge
	activeEnrollment prometheus.Gauge
	placementRate    *prometheus.GaugeVec
}

// NewCollector 创建指标收集器并注册到默认Registry
func NewCollector() *Collector {
	return &Collector{
		uploadsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "compass_uploads_total",
			Help: "已处理的合规数据上传次数",
		}),
		overallScore: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "compass_quality_overall_score",
			Help: "最新批次的数据质量总分",
		}),
		fieldCoverage: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "compass_field_coverage_percent",
			Help: "最新批次各必填字段覆盖率",
		}, []string{"field"}),
		compliantGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "compass_batch_compliant",
			Help: "最新批次是否合规（1/0）",
		}),
		totalClients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "compass_total_clients",
			Help: "最新批次去重客户数",
		}),
		activeEnrollment: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "compass_active_enrollments",
			Help: "最新批次在住记录数",
		}),
		placementRate: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "compass_placement_rate",
			Help: "安置率（百分比），按项目分维度",
		}, []string{"program"}),
	}
}

// ObserveUpload 上传处理完成后刷新全部指标
func (c *Collector) ObserveUpload(report *models.DataQualityReport, overview models.OverviewMetrics, programs []models.ProgramMetrics) {
	c.uploadsTotal.Inc()
	c.ObserveRefresh(report, overview, programs)
}

// ObserveRefresh 定时刷新时更新指标（不累加上传计数）
func (c *Collector) ObserveRefresh(report *models.DataQualityReport, overview models.OverviewMetrics, programs []models.ProgramMetrics) {
	c.overallScore.Set(report.OverallScore)
	if report.IsCompliant {
		c.compliantGauge.Set(1)
	} else {
		c.compliantGauge.Set(0)
	}
	for _, fc := range report.FieldCoverages {
		c.fieldCoverage.WithLabelValues(fc.FieldName).Set(fc.CoveragePercent)
	}

	c.totalClients.Set(float64(overview.TotalClients))
	c.activeEnrollment.Set(float64(overview.ActiveEnrollments))
	c.placementRate.WithLabelValues("_all").Set(overview.PlacementRate)
	for _, pm := range programs {
		c.placementRate.WithLabelValues(pm.ProgramName).Set(pm.PlacementRate)
	}
}
