/*
 * @module service/models/quality_models
 * @description 数据质量模型，包含字段覆盖率、质量报告及其持久化记录
 * @architecture 数据模型层
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow 批次校验 -> 覆盖率计算 -> 合规判定 -> 报告持久化
 * @rules 覆盖率始终基于完整批次重新计算，不做增量更新
 * @dependencies gorm.io/gorm, time
 * @refs service/quality/
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 覆盖率状态常量，阈值下界均为闭区间
const (
	CoverageStatusGreen  = "green"  // >= 80%
	CoverageStatusYellow = "yellow" // 60% - 79.999...%
	CoverageStatusRed    = "red"    // < 60%
)

// ComplianceThreshold 合规判定阈值（IntakeDate与ExitDestination覆盖率须达到）
const ComplianceThreshold = 80.0

// MissingRecordSampleSize 缺失记录ID采样上限
const MissingRecordSampleSize = 10

// FieldCoverage 单字段覆盖率统计，每批次每必填字段一条
type FieldCoverage struct {
	FieldName        string   `json:"field_name"`
	CoveragePercent  float64  `json:"coverage_percent"` // 非空记录数 / 总记录数 × 100
	Status           string   `json:"status"`
	MissingCount     int      `json:"missing_count"`
	MissingRecordIDs []string `json:"missing_record_ids"` // 最多采样10条
}

// DataQualityReport 数据质量报告，批次校验的完整产出
type DataQualityReport struct {
	OverallScore   float64         `json:"overall_score"` // 七个字段覆盖率的算术平均
	FieldCoverages []FieldCoverage `json:"field_coverages"`
	CriticalIssues []string        `json:"critical_issues"` // 仅针对IntakeDate与ExitDestination
	IsCompliant    bool            `json:"is_compliant"`
}

// QualityReportRecord 质量报告持久化记录模型
type QualityReportRecord struct {
	ID             string           `gorm:"type:varchar(50);primaryKey" json:"id"`
	BatchID        string           `gorm:"type:varchar(50);not null;index" json:"batch_id"`
	OverallScore   float64          `json:"overall_score"`
	IsCompliant    bool             `json:"is_compliant"`
	FieldCoverages JSONB            `gorm:"type:jsonb" json:"field_coverages"`
	CriticalIssues JSONBStringArray `gorm:"type:jsonb" json:"critical_issues"`
	CreatedAt      time.Time        `json:"created_at"`
}

// TableName 指定表名
func (QualityReportRecord) TableName() string {
	return "quality_report_records"
}

// BeforeCreate 创建前钩子
func (q *QualityReportRecord) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// CoverageStatus 根据覆盖率返回状态档位
func CoverageStatus(percent float64) string {
	if percent >= 80 {
		return CoverageStatusGreen
	}
	if percent >= 60 {
		return CoverageStatusYellow
	}
	return CoverageStatusRed
}
