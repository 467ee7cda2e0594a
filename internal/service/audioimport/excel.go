package audioimport

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ashwinyue/next-qa/internal/model"
)

// ErrNoFilenameColumn Excel 中找不到文件名列
var ErrNoFilenameColumn = errors.New("no recognizable filename column")

// ErrEmptySheet Excel 中没有数据
var ErrEmptySheet = errors.New("sheet has no data rows")

// 固定列的别名，键为 normalizeKey 后的形式
var (
	filenameAliases = map[string]bool{
		"filename": true, "file": true, "audiofile": true, "audiofilename": true,
		"recording": true, "recordingname": true, "callrecording": true, "blobname": true,
	}
	languageAliases = map[string]bool{"language": true, "lang": true, "calllanguage": true}
	versionAliases  = map[string]bool{"version": true, "ver": true, "templateversion": true}
	callDateAliases = map[string]bool{"calldate": true, "date": true, "dateofcall": true, "callingdate": true}
)

// 通话日期支持的格式
var callDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"01-02-06",
	"1/2/06 15:04",
}

// RowMetadata 一行解析出的录音元数据
type RowMetadata struct {
	Filename string        `json:"filename"`
	Language string        `json:"language,omitempty"`
	Version  string        `json:"version,omitempty"`
	CallDate *time.Time    `json:"call_date,omitempty"`
	Metadata model.JSONMap `json:"metadata,omitempty"` // 规范化键
	Extras   model.JSONMap `json:"extras,omitempty"`   // 未识别的列
}

// ParseResult 整表解析结果
type ParseResult struct {
	Rows      []RowMetadata `json:"rows"`
	RowErrors []string      `json:"row_errors"` // 跳过的行及原因
	TotalRows int           `json:"total_rows"` // 数据行总数（不含表头）
}

// columnMap 表头解析结果：固定列下标 + 其余列名
type columnMap struct {
	filename int
	language int
	version  int
	callDate int
	extra    map[int]string // 列下标 → 原始表头
}

// ParseMetadataFile 解析录音元数据 Excel
// 只使用第一个工作表；逐行容错，坏行记入 RowErrors 不中断整体解析
func ParseMetadataFile(r io.Reader) (*ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ParseResult{TotalRows: len(rows) - 1}
	for i, row := range rows[1:] {
		rowNum := i + 2 // Excel 行号从 1 开始，首行是表头
		meta, err := parseRow(row, cols)
		if err != nil {
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if meta == nil {
			continue // 空行
		}
		result.Rows = append(result.Rows, *meta)
	}

	return result, nil
}

// resolveColumns 解析表头，定位固定列并收集其余列
func resolveColumns(header []string) (*columnMap, error) {
	cols := &columnMap{filename: -1, language: -1, version: -1, callDate: -1, extra: map[int]string{}}
	for idx, name := range header {
		key := normalizeKey(name)
		switch {
		case key == "":
			continue
		case filenameAliases[key] && cols.filename < 0:
			cols.filename = idx
		case languageAliases[key] && cols.language < 0:
			cols.language = idx
		case versionAliases[key] && cols.version < 0:
			cols.version = idx
		case callDateAliases[key] && cols.callDate < 0:
			cols.callDate = idx
		default:
			cols.extra[idx] = strings.TrimSpace(name)
		}
	}
	if cols.filename < 0 {
		return nil, ErrNoFilenameColumn
	}
	return cols, nil
}

// parseRow 解析单行，空行返回 (nil, nil)
func parseRow(row []string, cols *columnMap) (*RowMetadata, error) {
	if isBlankRow(row) {
		return nil, nil
	}

	meta := &RowMetadata{
		Filename: strings.TrimSpace(cell(row, cols.filename)),
		Language: strings.TrimSpace(cell(row, cols.language)),
		Version:  strings.TrimSpace(cell(row, cols.version)),
	}
	if meta.Filename == "" {
		return nil, errors.New("filename is empty")
	}

	if raw := strings.TrimSpace(cell(row, cols.callDate)); raw != "" {
		parsed, err := parseCallDate(raw)
		if err != nil {
			return nil, err
		}
		meta.CallDate = &parsed
	}

	free := make(map[string]string, len(cols.extra))
	for idx, name := range cols.extra {
		free[name] = cell(row, idx)
	}
	meta.Metadata, meta.Extras = NormalizeMetadata(free)

	return meta, nil
}

// parseCallDate 按已知格式解析日期，也兼容 Excel 序列数字
func parseCallDate(raw string) (time.Time, error) {
	for _, layout := range callDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable call date %q", raw)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
