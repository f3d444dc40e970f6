/*
 * @module service/ingestion/parser
 * @description 合规电子表格CSV解析器，表头校验、字符集解码与宽松类型转换
 * @architecture 数据接入层 - 纯解析，不触库
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow 原始字节 -> 字符集探测解码 -> 表头校验 -> 逐行宽松解析
 * @rules 缺少必需列整体拒绝；单元格无法解析按缺失处理而非整行失败
 * @dependencies encoding/csv, golang.org/x/text, github.com/spf13/cast
 * @refs service/ingestion/upload_service.go
 */

package ingestion

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cast"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"compass-service/service/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// 宽松日期解析尝试的布局，按常见程度排序
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseCSV 解析合规上传的CSV内容为客户记录列表
// 表头缺少任一必需列时返回错误；单元格级解析失败按字段缺失处理
func ParseCSV(r io.Reader) ([]models.ClientRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取上传内容失败: %w", err)
	}

	data = decodeCharset(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // 行字段数允许不齐，缺失按空值处理
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("上传内容为空")
	}
	if err != nil {
		return nil, fmt.Errorf("解析CSV表头失败: %w", err)
	}

	columnIndex, missing := mapColumns(header)
	if len(missing) > 0 {
		return nil, fmt.Errorf("缺少必需列: %s", strings.Join(missing, ", "))
	}

	records := make([]models.ClientRecord, 0, 256)
	rowNumber := 1 // 表头为第1行
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("解析CSV第%d行失败: %w", rowNumber+1, err)
		}
		rowNumber++
		records = append(records, parseRow(row, columnIndex, rowNumber))
	}
	return records, nil
}

// decodeCharset 字符集处理：剥离UTF-8 BOM；非合法UTF-8时按GBK解码
func decodeCharset(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}

	decoder := simplifiedchinese.GBK.NewDecoder()
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		// 解码失败保留原始字节，后续按空值解析
		return data
	}
	return decoded
}

// mapColumns 表头名到列下标的映射；匹配忽略大小写、空格和下划线
func mapColumns(header []string) (map[string]int, []string) {
	normalized := make(map[string]int, len(header))
	for i, name := range header {
		normalized[normalizeColumnName(name)] = i
	}

	columnIndex := make(map[string]int, len(models.RequiredFields))
	missing := make([]string, 0)
	for _, field := range models.RequiredFields {
		idx, ok := normalized[normalizeColumnName(field)]
		if !ok {
			missing = append(missing, field)
			continue
		}
		columnIndex[field] = idx
	}
	return columnIndex, missing
}

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.ReplaceAll(name, "_", "")
	return strings.ReplaceAll(name, " ", "")
}

// parseRow 宽松解析单行：格式非法的日期和天数按缺失处理
func parseRow(row []string, columnIndex map[string]int, rowNumber int) models.ClientRecord {
	record := models.ClientRecord{
		RowNumber:       rowNumber,
		ClientID:        cellValue(row, columnIndex["ClientID"]),
		ProgramName:     cellValue(row, columnIndex["ProgramName"]),
		ExitDestination: cellValue(row, columnIndex["ExitDestination"]),
	}

	record.IntakeDate = parseDate(cellValue(row, columnIndex["IntakeDate"]))
	record.ExitDate = parseDate(cellValue(row, columnIndex["ExitDate"]))
	record.HousingPlacementDate = parseDate(cellValue(row, columnIndex["HousingPlacementDate"]))

	if raw := cellValue(row, columnIndex["LengthOfStay"]); raw != "" {
		if days, err := cast.ToIntE(raw); err == nil {
			record.LengthOfStay = &days
		}
	}
	return record
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
