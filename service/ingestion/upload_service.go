/*
 * @module service/ingestion/upload_service
 * @description 上传处理服务，编排解析、校验、指标计算、落库与事件分发
 * @architecture 分层架构 - 业务编排层
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow CSV解析 -> 批次落库（整体取代旧批次） -> 质量校验+指标聚合 -> 报告落库 -> 缓存/事件/指标
 * @rules 解析或落库失败整体拒绝；缓存、Kafka、SSE和Prometheus为旁路，失败不回滚上传
 * @dependencies gorm.io/gorm
 * @refs service/quality/, service/metrics/, service/cache/, service/event/
 */

package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"compass-service/service/cache"
	"compass-service/service/event"
	"compass-service/service/metrics"
	"compass-service/service/models"
	"compass-service/service/quality"
)

// UploadResult 一次上传处理的完整产出
type UploadResult struct {
	Batch    *models.UploadBatch      `json:"batch"`
	Report   *models.DataQualityReport `json:"report"`
	Overview models.OverviewMetrics   `json:"overview"`
	Programs []models.ProgramMetrics  `json:"programs"`
}

// UploadService 上传处理服务
// cache、publisher、events、collector均可为nil（测试或未启用场景）
type UploadService struct {
	db         *gorm.DB
	validator  *quality.Validator
	aggregator *metrics.Aggregator
	cache      *cache.ReportCache
	publisher  *event.KafkaPublisher
	events     *event.EventService
	collector  *metrics.Collector
}

// NewUploadService 创建上传处理服务
func NewUploadService(db *gorm.DB, c *cache.ReportCache, publisher *event.KafkaPublisher, events *event.EventService, collector *metrics.Collector) *UploadService {
	return &UploadService{
		db:         db,
		validator:  quality.NewValidator(),
		aggregator: metrics.NewAggregator(),
		cache:      c,
		publisher:  publisher,
		events:     events,
		collector:  collector,
	}
}

// ProcessUpload 处理一次合规数据上传
// 新批次整体取代旧批次成为最新数据；空批次合法，产出全零报告
func (s *UploadService) ProcessUpload(ctx context.Context, fileName string, reader io.Reader, uploadedBy string) (*UploadResult, error) {
	records, err := ParseCSV(reader)
	if err != nil {
		return nil, err
	}

	batch := &models.UploadBatch{
		FileName:    fileName,
		RecordCount: len(records),
		IsLatest:    true,
		UploadedBy:  uploadedBy,
	}

	report := s.validator.Validate(records)
	overview := s.aggregator.ComputeOverview(records)
	programs := s.aggregator.ComputeByProgram(records)

	if err := s.persist(batch, records, report); err != nil {
		return nil, fmt.Errorf("上传批次落库失败: %w", err)
	}

	s.dispatch(ctx, batch, report, overview, programs)

	slog.Info("合规数据上传处理完成",
		"batch_id", batch.ID,
		"file_name", fileName,
		"record_count", len(records),
		"overall_score", report.OverallScore,
		"is_compliant", report.IsCompliant)

	return &UploadResult{
		Batch:    batch,
		Report:   report,
		Overview: overview,
		Programs: programs,
	}, nil
}

// persist 事务内落库：取消旧批次最新标记，写入批次、记录和质量报告
func (s *UploadService) persist(batch *models.UploadBatch, records []models.ClientRecord, report *models.DataQualityReport) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UploadBatch{}).
			Where("is_latest = ?", true).
			Update("is_latest", false).Error; err != nil {
			return err
		}

		if err := tx.Create(batch).Error; err != nil {
			return err
		}

		for i := range records {
			records[i].BatchID = batch.ID
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, 200).Error; err != nil {
				return err
			}
		}

		reportRecord := &models.QualityReportRecord{
			BatchID:      batch.ID,
			OverallScore: report.OverallScore,
			IsCompliant:  report.IsCompliant,
			FieldCoverages: models.JSONB{
				"field_coverages": report.FieldCoverages,
			},
			CriticalIssues: models.JSONBStringArray(report.CriticalIssues),
		}
		return tx.Create(reportRecord).Error
	})
}

// dispatch 旁路分发：缓存、Kafka、SSE和Prometheus，任一失败不影响上传结果
func (s *UploadService) dispatch(ctx context.Context, batch *models.UploadBatch, report *models.DataQualityReport, overview models.OverviewMetrics, programs []models.ProgramMetrics) {
	if s.cache != nil {
		s.cache.SetLatest(ctx, batch.ID, report, overview, programs)
	}

	qualityEvent := &models.QualityEvent{
		BatchID:      batch.ID,
		FileName:     batch.FileName,
		RecordCount:  batch.RecordCount,
		OverallScore: report.OverallScore,
		IsCompliant:  report.IsCompliant,
		IssueCount:   len(report.CriticalIssues),
		ProcessedAt:  time.Now(),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishQualityEvent(ctx, qualityEvent); err != nil {
			slog.Warn("质量事件Kafka发布失败", "batch_id", batch.ID, "error", err)
		}
	}

	if s.events != nil {
		s.events.BroadcastEvent(event.NewUploadProcessedEvent(qualityEvent))
		if !report.IsCompliant {
			s.events.BroadcastEvent(event.NewQualityAlertEvent(qualityEvent))
		}
	}

	if s.collector != nil {
		s.collector.ObserveUpload(report, overview, programs)
	}
}

// LatestBatch 查询最新上传批次；不存在时返回gorm.ErrRecordNotFound
func (s *UploadService) LatestBatch() (*models.UploadBatch, error) {
	var batch models.UploadBatch
	if err := s.db.Where("is_latest = ?", true).
		Order("created_at DESC").First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// GetBatch 按ID查询批次，不存在时返回gorm.ErrRecordNotFound
func (s *UploadService) GetBatch(batchID string) (*models.UploadBatch, error) {
	var batch models.UploadBatch
	if err := s.db.First(&batch, "id = ?", batchID).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListBatches 按上传时间倒序返回全部批次
func (s *UploadService) ListBatches() ([]models.UploadBatch, error) {
	var batches []models.UploadBatch
	err := s.db.Order("created_at DESC").Find(&batches).Error
	return batches, err
}

// BatchRecords 加载指定批次的全部客户记录
func (s *UploadService) BatchRecords(batchID string) ([]models.ClientRecord, error) {
	var records []models.ClientRecord
	if err := s.db.Where("batch_id = ?", batchID).
		Order("row_number ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// QualityReport 返回指定批次的质量报告；最新批次优先命中缓存
func (s *UploadService) QualityReport(ctx context.Context, batchID string) (*models.DataQualityReport, error) {
	if s.cache != nil && batchID == s.cache.LatestBatchID(ctx) {
		if report := s.cache.GetLatestReport(ctx); report != nil {
			return report, nil
		}
	}

	records, err := s.BatchRecords(batchID)
	if err != nil {
		return nil, err
	}
	return s.validator.Validate(records), nil
}

// OverviewMetrics 返回指定批次的整体指标
func (s *UploadService) OverviewMetrics(ctx context.Context, batchID string) (models.OverviewMetrics, error) {
	if s.cache != nil && batchID == s.cache.LatestBatchID(ctx) {
		if overview, ok := s.cache.GetLatestOverview(ctx); ok {
			return overview, nil
		}
	}

	records, err := s.BatchRecords(batchID)
	if err != nil {
		return models.OverviewMetrics{}, err
	}
	return s.aggregator.ComputeOverview(records), nil
}

// ProgramMetrics 返回指定批次的分项目指标
func (s *UploadService) ProgramMetrics(ctx context.Context, batchID string) ([]models.ProgramMetrics, error) {
	if s.cache != nil && batchID == s.cache.LatestBatchID(ctx) {
		if programs, ok := s.cache.GetLatestPrograms(ctx); ok {
			return programs, nil
		}
	}

	records, err := s.BatchRecords(batchID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.ComputeByProgram(records), nil
}

// RefreshLatest 重算最新批次的报告与指标并刷新缓存和监控指标
// 由定时任务调用，保证在住天数随时间推进
func (s *UploadService) RefreshLatest(ctx context.Context) error {
	batch, err := s.LatestBatch()
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	records, err := s.BatchRecords(batch.ID)
	if err != nil {
		return err
	}

	report := s.validator.Validate(records)
	overview := s.aggregator.ComputeOverview(records)
	programs := s.aggregator.ComputeByProgram(records)

	if s.cache != nil {
		s.cache.SetLatest(ctx, batch.ID, report, overview, programs)
	}
	if s.collector != nil {
		s.collector.ObserveRefresh(report, overview, programs)
	}
	if s.events != nil {
		s.events.BroadcastEvent(event.NewMetricsRefreshEvent(overview))
	}

	slog.Info("最新批次指标已刷新", "batch_id", batch.ID, "record_count", len(records))
	return nil
}
