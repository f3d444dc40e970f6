/*
 * @module service/quality/validator_test
 * @description 数据质量校验器单元测试
 * @architecture 单元测试
 */

package quality

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"compass-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(year, month, day int) *time.Time {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &d
}

func intPtr(v int) *int {
	return &v
}

// fullRecord 构造七个字段齐全的测试记录
func fullRecord(clientID string) models.ClientRecord {
	return models.ClientRecord{
		ClientID:             clientID,
		ProgramName:          "Transitional Housing",
		IntakeDate:           datePtr(2025, 1, 10),
		ExitDate:             datePtr(2025, 3, 15),
		ExitDestination:      models.PermanentHousingDestination,
		HousingPlacementDate: datePtr(2025, 3, 15),
		LengthOfStay:         intPtr(64),
	}
}

// TestValidateCompleteBatch 测试字段齐全批次
func TestValidateCompleteBatch(t *testing.T) {
	validator := NewValidator()
	records := []models.ClientRecord{fullRecord("c-001"), fullRecord("c-002")}

	report := validator.Validate(records)

	assert.Equal(t, 100.0, report.OverallScore)
	assert.True(t, report.IsCompliant)
	assert.Empty(t, report.CriticalIssues)
	require.Len(t, report.FieldCoverages, 7)
	for _, fc := range report.FieldCoverages {
		assert.Equal(t, 100.0, fc.CoveragePercent)
		assert.Equal(t, models.CoverageStatusGreen, fc.Status)
		assert.Equal(t, 0, fc.MissingCount)
	}
}

// TestValidateScenarioA 测试场景A：2条记录，1条缺失IntakeDate和ExitDestination
func TestValidateScenarioA(t *testing.T) {
	validator := NewValidator()

	partial := fullRecord("c-002")
	partial.IntakeDate = nil
	partial.ExitDestination = ""

	report := validator.Validate([]models.ClientRecord{fullRecord("c-001"), partial})

	coverages := coverageMap(report)
	assert.Equal(t, 50.0, coverages["IntakeDate"].CoveragePercent)
	assert.Equal(t, 50.0, coverages["ExitDestination"].CoveragePercent)
	assert.False(t, report.IsCompliant)
	require.Len(t, report.CriticalIssues, 2)
	assert.Equal(t, "IntakeDate coverage is 50.0% (needs ≥80%)", report.CriticalIssues[0])
	assert.Equal(t, "ExitDestination coverage is 50.0% (needs ≥80%)", report.CriticalIssues[1])
	assert.Equal(t, []string{"c-002"}, coverages["IntakeDate"].MissingRecordIDs)
}

// TestValidateEmptyBatch 测试场景C：空批次产出全0报告，不崩溃
func TestValidateEmptyBatch(t *testing.T) {
	validator := NewValidator()

	report := validator.Validate(nil)

	assert.Equal(t, 0.0, report.OverallScore)
	assert.False(t, report.IsCompliant)
	require.Len(t, report.FieldCoverages, 7)
	for _, fc := range report.FieldCoverages {
		assert.Equal(t, 0.0, fc.CoveragePercent)
		assert.Equal(t, models.CoverageStatusRed, fc.Status)
	}
}

// TestValidateStatusThresholds 测试状态分档阈值，下界为闭区间
func TestValidateStatusThresholds(t *testing.T) {
	tests := []struct {
		percent float64
		status  string
	}{
		{100, models.CoverageStatusGreen},
		{80, models.CoverageStatusGreen},
		{79.999, models.CoverageStatusYellow},
		{60, models.CoverageStatusYellow},
		{59.999, models.CoverageStatusRed},
		{0, models.CoverageStatusRed},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("覆盖率%.3f", tt.percent), func(t *testing.T) {
			assert.Equal(t, tt.status, models.CoverageStatus(tt.percent))
		})
	}
}

// TestValidateMissingCountInvariant 测试缺失数与非空数之和恒等于总记录数
func TestValidateMissingCountInvariant(t *testing.T) {
	validator := NewValidator()
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		total := rng.Intn(50) + 1
		records := make([]models.ClientRecord, 0, total)
		for i := 0; i < total; i++ {
			r := fullRecord(fmt.Sprintf("c-%03d", i))
			if rng.Intn(2) == 0 {
				r.IntakeDate = nil
			}
			if rng.Intn(3) == 0 {
				r.ExitDestination = ""
			}
			if rng.Intn(4) == 0 {
				r.LengthOfStay = nil
			}
			records = append(records, r)
		}

		report := validator.Validate(records)
		for _, fc := range report.FieldCoverages {
			assert.Equal(t, float64(total-fc.MissingCount)/float64(total)*100, fc.CoveragePercent,
				"字段 %s 的覆盖率应与缺失数一致", fc.FieldName)
		}
	}
}

// TestValidateScoreIsOrderIndependent 测试总分与记录顺序无关
func TestValidateScoreIsOrderIndependent(t *testing.T) {
	validator := NewValidator()

	partial := fullRecord("c-002")
	partial.ExitDate = nil
	partial.HousingPlacementDate = nil
	records := []models.ClientRecord{fullRecord("c-001"), partial, fullRecord("c-003")}
	reversed := []models.ClientRecord{records[2], records[1], records[0]}

	assert.Equal(t, validator.Validate(records).OverallScore, validator.Validate(reversed).OverallScore)
}

// TestValidateComplianceRule 测试合规判定仅由两个门控字段决定
func TestValidateComplianceRule(t *testing.T) {
	validator := NewValidator()

	// 10条记录中9条门控字段齐全（90% >= 80%），但LengthOfStay全缺失
	records := make([]models.ClientRecord, 0, 10)
	for i := 0; i < 10; i++ {
		r := fullRecord(fmt.Sprintf("c-%03d", i))
		r.LengthOfStay = nil
		if i == 9 {
			r.IntakeDate = nil
			r.ExitDestination = ""
		}
		records = append(records, r)
	}

	report := validator.Validate(records)

	coverages := coverageMap(report)
	assert.Equal(t, models.CoverageStatusRed, coverages["LengthOfStay"].Status)
	assert.True(t, report.IsCompliant, "非门控字段标红不应影响合规判定")
	assert.Empty(t, report.CriticalIssues)
}

// TestValidateMissingSampleCap 测试缺失记录ID采样上限为10
func TestValidateMissingSampleCap(t *testing.T) {
	validator := NewValidator()

	records := make([]models.ClientRecord, 0, 25)
	for i := 0; i < 25; i++ {
		r := fullRecord(fmt.Sprintf("c-%03d", i))
		r.IntakeDate = nil
		records = append(records, r)
	}

	report := validator.Validate(records)

	coverages := coverageMap(report)
	assert.Equal(t, 25, coverages["IntakeDate"].MissingCount)
	assert.Len(t, coverages["IntakeDate"].MissingRecordIDs, 10)
}

func coverageMap(report *models.DataQualityReport) map[string]models.FieldCoverage {
	m := make(map[string]models.FieldCoverage, len(report.FieldCoverages))
	for _, fc := range report.FieldCoverages {
		m[fc.FieldName] = fc
	}
	return m
}
