/*
 * @module service/models/event_models
 * @description 事件模型，包含SSE推送事件和质量事件载荷
 * @architecture 数据模型层
 * @documentReference ai_docs/event_req.md
 * @stateFlow 上传处理完成 -> 事件构造 -> SSE推送/Kafka发布
 * @rules 事件为只读通知，不承载业务状态变更
 * @dependencies time
 * @refs service/event/
 */

package models

import "time"

// SSE事件类型
const (
	EventTypeUploadProcessed = "upload_processed"
	EventTypeQualityAlert    = "quality_alert"
	EventTypeMetricsRefresh  = "metrics_refresh"
)

// SSEEvent SSE推送事件
type SSEEvent struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// QualityEvent 质量事件载荷，上传处理完成后发布
type QualityEvent struct {
	BatchID      string    `json:"batch_id"`
	FileName     string    `json:"file_name"`
	RecordCount  int       `json:"record_count"`
	OverallScore float64   `json:"overall_score"`
	IsCompliant  bool      `json:"is_compliant"`
	IssueCount   int       `json:"issue_count"`
	ProcessedAt  time.Time `json:"processed_at"`
}
