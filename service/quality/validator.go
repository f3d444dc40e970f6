/*
 * @module service/quality/validator
 * @description 合规数据质量校验器，计算批次内各必填字段覆盖率并给出合规判定
 * @architecture 分层架构 - 数据质量服务层
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow 批次输入 -> 逐字段覆盖率计算 -> 状态分档 -> 关键问题生成 -> 合规判定
 * @rules 覆盖率始终基于完整批次计算；空批次产出全字段0%报告而非错误；任意非空值视为字段存在
 * @dependencies compass-service/service/models, fmt
 * @refs service/metrics/, service/ingestion/
 */

package quality

import (
	"fmt"

	"compass-service/service/models"
)

// 合规判定的门控字段，其余字段仅作参考信息
var gatingFields = []string{"IntakeDate", "ExitDestination"}

// Validator 数据质量校验器，纯计算无副作用
type Validator struct{}

// NewValidator 创建数据质量校验器实例
func NewValidator() *Validator {
	return &Validator{}
}

// Validate 校验一个批次的客户记录，产出数据质量报告
// 空批次不是错误：所有字段覆盖率为0%，合规判定为false
func (v *Validator) Validate(records []models.ClientRecord) *models.DataQualityReport {
	report := &models.DataQualityReport{
		FieldCoverages: make([]models.FieldCoverage, 0, len(models.RequiredFields)),
		CriticalIssues: make([]string, 0),
	}

	coverageByField := make(map[string]float64, len(models.RequiredFields))
	totalScore := 0.0

	for _, fieldName := range models.RequiredFields {
		coverage := v.checkFieldCoverage(fieldName, records)
		report.FieldCoverages = append(report.FieldCoverages, coverage)
		coverageByField[fieldName] = coverage.CoveragePercent
		totalScore += coverage.CoveragePercent
	}

	// 总分为七个字段覆盖率的算术平均，与字段顺序无关
	report.OverallScore = totalScore / float64(len(models.RequiredFields))

	// 仅对门控字段生成关键问题，其余字段即使标红也只作参考
	compliant := true
	for _, fieldName := range gatingFields {
		pct := coverageByField[fieldName]
		if pct < models.ComplianceThreshold {
			compliant = false
			report.CriticalIssues = append(report.CriticalIssues,
				fmt.Sprintf("%s coverage is %.1f%% (needs ≥80%%)", fieldName, pct))
		}
	}
	report.IsCompliant = compliant

	return report
}

// checkFieldCoverage 计算单字段覆盖率统计
func (v *Validator) checkFieldCoverage(fieldName string, records []models.ClientRecord) models.FieldCoverage {
	coverage := models.FieldCoverage{
		FieldName:        fieldName,
		MissingRecordIDs: make([]string, 0, models.MissingRecordSampleSize),
	}

	if len(records) == 0 {
		coverage.Status = models.CoverageStatus(0)
		return coverage
	}

	presentCount := 0
	for i := range records {
		if records[i].FieldValuePresent(fieldName) {
			presentCount++
			continue
		}
		coverage.MissingCount++
		if len(coverage.MissingRecordIDs) < models.MissingRecordSampleSize {
			coverage.MissingRecordIDs = append(coverage.MissingRecordIDs, recordIdentifier(&records[i]))
		}
	}

	coverage.CoveragePercent = float64(presentCount) / float64(len(records)) * 100
	coverage.Status = models.CoverageStatus(coverage.CoveragePercent)
	return coverage
}

// recordIdentifier 缺失字段定位标识：优先ClientID，缺失时退回源表格行号
func recordIdentifier(record *models.ClientRecord) string {
	if record.ClientID != "" {
		return record.ClientID
	}
	return fmt.Sprintf("row_%d", record.RowNumber)
}
