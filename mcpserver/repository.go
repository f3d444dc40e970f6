/*
 * @module mcpserver/repository
 * @description MCP工具数据仓库接口与内存实现，AI代理侧的只读数据访问层
 * @architecture 仓库模式 - 接口注入，内存实现供演示与测试，可替换为真实存储
 * @documentReference ai_docs/mcp_req.md
 * @stateFlow 构造时加载数据 -> 工具调用只读查询
 * @rules 仓库只读，无缓存淘汰与持久化
 * @refs journey_tools.go, compliance_tools.go, mockdata.go
 */

package mcpserver

import (
	"fmt"
	"sort"
	"sync"
)

// Journey 康复旅程摘要，AI代理查询的演示数据单元
type Journey struct {
	ID         string   `json:"id"`
	ClientName string   `json:"client_name"`
	Program    string   `json:"program"`
	Stage      string   `json:"stage"` // intake / active / transition / alumni
	StartedAt  string   `json:"started_at"`
	Milestones []string `json:"milestones"`
	Notes      string   `json:"notes"`
}

// ComplianceRecord 合规登记记录，字段语义与主服务的客户记录一致
// 日期与天数为字符串表示，空串表示缺失
type ComplianceRecord struct {
	ClientID             string `json:"client_id"`
	ProgramName          string `json:"program_name"`
	IntakeDate           string `json:"intake_date"`
	ExitDate             string `json:"exit_date"`
	ExitDestination      string `json:"exit_destination"`
	HousingPlacementDate string `json:"housing_placement_date"`
	LengthOfStay         string `json:"length_of_stay"`
}

// Analytics 演示数据的聚合指标
type Analytics struct {
	TotalJourneys     int     `json:"total_journeys"`
	TotalRecords      int     `json:"total_records"`
	ActiveEnrollments int     `json:"active_enrollments"`
	HousingPlacements int     `json:"housing_placements"`
	PlacementRate     float64 `json:"placement_rate"`
	FieldGapCount     int     `json:"field_gap_count"` // 缺失字段总数
}

// Repository MCP工具的数据访问接口
type Repository interface {
	GetJourney(id string) (*Journey, error)
	ListJourneys() []Journey
	GetComplianceRecord(clientID string) (*ComplianceRecord, error)
	ListComplianceRecords(program string) []ComplianceRecord
	GetAnalytics() Analytics
}

// InMemoryRepository 内存仓库实现
type InMemoryRepository struct {
	mu       sync.RWMutex
	journeys map[string]Journey
	records  map[string]ComplianceRecord
}

// NewInMemoryRepository 创建内存仓库
func NewInMemoryRepository(journeys []Journey, records []ComplianceRecord) *InMemoryRepository {
	repo := &InMemoryRepository{
		journeys: make(map[string]Journey, len(journeys)),
		records:  make(map[string]ComplianceRecord, len(records)),
	}
	for _, j := range journeys {
		repo.journeys[j.ID] = j
	}
	for _, r := range records {
		repo.records[r.ClientID] = r
	}
	return repo
}

// NewMockRepository 创建装载演示数据的仓库
func NewMockRepository() *InMemoryRepository {
	return NewInMemoryRepository(mockJourneys, mockComplianceRecords)
}

// GetJourney 按ID查询旅程
func (r *InMemoryRepository) GetJourney(id string) (*Journey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	journey, ok := r.journeys[id]
	if !ok {
		return nil, fmt.Errorf("journey not found: %s", id)
	}
	return &journey, nil
}

// ListJourneys 返回全部旅程，按ID排序保证输出稳定
func (r *InMemoryRepository) ListJourneys() []Journey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	journeys := make([]Journey, 0, len(r.journeys))
	for _, j := range r.journeys {
		journeys = append(journeys, j)
	}
	sort.Slice(journeys, func(i, k int) bool { return journeys[i].ID < journeys[k].ID })
	return journeys
}

// GetComplianceRecord 按客户ID查询合规记录
func (r *InMemoryRepository) GetComplianceRecord(clientID string) (*ComplianceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[clientID]
	if !ok {
		return nil, fmt.Errorf("compliance record not found: %s", clientID)
	}
	return &record, nil
}

// ListComplianceRecords 返回合规记录，program非空时精确过滤
func (r *InMemoryRepository) ListComplianceRecords(program string) []ComplianceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]ComplianceRecord, 0, len(r.records))
	for _, rec := range r.records {
		if program != "" && rec.ProgramName != program {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, k int) bool { return records[i].ClientID < records[k].ClientID })
	return records
}

// GetAnalytics 计算演示数据的聚合指标
func (r *InMemoryRepository) GetAnalytics() Analytics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	analytics := Analytics{
		TotalJourneys: len(r.journeys),
		TotalRecords:  len(r.records),
	}

	exited := 0
	for _, rec := range r.records {
		if rec.ExitDate == "" {
			analytics.ActiveEnrollments++
		} else {
			exited++
		}
		if rec.ExitDestination == "Permanent Housing" {
			analytics.HousingPlacements++
		}
		for _, field := range []string{
			rec.ClientID, rec.ProgramName, rec.IntakeDate, rec.ExitDate,
			rec.ExitDestination, rec.HousingPlacementDate, rec.LengthOfStay,
		} {
			if field == "" {
				analytics.FieldGapCount++
			}
		}
	}
	if exited > 0 {
		analytics.PlacementRate = float64(analytics.HousingPlacements) / float64(exited) * 100
	}
	return analytics
}
