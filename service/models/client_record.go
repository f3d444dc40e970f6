/*
 * @module service/models/client_record
 * @description 合规客户记录模型，包含上传批次和客户登记记录
 * @architecture 数据模型层
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow 批量上传创建 -> 不可变存储 -> 被下一次上传整体取代
 * @rules 记录创建后不可修改，ClientID非唯一（同一客户可有多条登记记录）
 * @dependencies gorm.io/gorm, time
 * @refs service/quality/, service/metrics/
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermanentHousingDestination 安置成功判定的出院去向哨兵值
const PermanentHousingDestination = "Permanent Housing"

// RequiredFields 合规上传要求的七个必填字段（展示名，与上传表头一致）
var RequiredFields = []string{
	"ClientID",
	"ProgramName",
	"IntakeDate",
	"ExitDate",
	"ExitDestination",
	"HousingPlacementDate",
	"LengthOfStay",
}

// UploadBatch 上传批次模型，一次电子表格上传对应一条记录
type UploadBatch struct {
	ID          string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	FileName    string    `gorm:"type:varchar(255)" json:"file_name"`
	RecordCount int       `json:"record_count"`
	IsLatest    bool      `gorm:"index" json:"is_latest"` // 最新批次标记，新上传整体取代旧批次
	UploadedBy  string    `gorm:"type:varchar(100)" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定表名
func (UploadBatch) TableName() string {
	return "upload_batches"
}

// BeforeCreate 创建前钩子
func (b *UploadBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// ClientRecord 客户登记记录，合规上传数据的一行
// 日期字段为空指针表示源数据缺失或无法解析；ExitDate为空表示在住状态
type ClientRecord struct {
	ID                   string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	BatchID              string     `gorm:"type:varchar(50);not null;index" json:"batch_id"`
	RowNumber            int        `json:"row_number"` // 源表格行号，用于缺失字段定位
	ClientID             string     `gorm:"type:varchar(100);index" json:"client_id"`
	ProgramName          string     `gorm:"type:varchar(200);index" json:"program_name"`
	IntakeDate           *time.Time `json:"intake_date,omitempty"`
	ExitDate             *time.Time `json:"exit_date,omitempty"`
	ExitDestination      string     `gorm:"type:varchar(200)" json:"exit_destination,omitempty"`
	HousingPlacementDate *time.Time `json:"housing_placement_date,omitempty"`
	LengthOfStay         *int       `json:"length_of_stay,omitempty"` // 天数；缺失时由入住/出院日期推导
	CreatedAt            time.Time  `json:"created_at"`
}

// TableName 指定表名
func (ClientRecord) TableName() string {
	return "client_records"
}

// BeforeCreate 创建前钩子
func (r *ClientRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// IsActive 判断记录是否为在住状态（无出院日期）
func (r *ClientRecord) IsActive() bool {
	return r.ExitDate == nil
}

// FieldValuePresent 判断指定必填字段在本记录中是否有值
// 任意非空值均视为存在，不校验类型正确性
func (r *ClientRecord) FieldValuePresent(fieldName string) bool {
	switch fieldName {
	case "ClientID":
		return r.ClientID != ""
	case "ProgramName":
		return r.ProgramName != ""
	case "IntakeDate":
		return r.IntakeDate != nil
	case "ExitDate":
		return r.ExitDate != nil
	case "ExitDestination":
		return r.ExitDestination != ""
	case "HousingPlacementDate":
		return r.HousingPlacementDate != nil
	case "LengthOfStay":
		return r.LengthOfStay != nil
	default:
		return false
	}
}
