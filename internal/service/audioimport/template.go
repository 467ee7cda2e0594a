package audioimport

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ashwinyue/next-qa/internal/model"
)

// 模板表头与示例数据
var templateHeaders = []string{"File Name", "Language", "Version", "Call Date", "Agent ID", "Agent Name", "Partner Name", "Campaign"}

const templateSheet = "Audio Metadata"

// SampleRows 模板中自带的示例行
// 生成的模板重新上传后应解析出字段完全一致的结果
func SampleRows() []RowMetadata {
	d1 := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	return []RowMetadata{
		{
			Filename: "call_20250114_0001.wav",
			Language: "english",
			Version:  "v1",
			CallDate: &d1,
			Metadata: model.JSONMap{
				MetaAgentID:     "AG-1001",
				MetaAgentName:   "Asha Verma",
				MetaPartnerName: "Acme BPO",
				MetaCampaign:    "renewals",
			},
			Extras: model.JSONMap{},
		},
		{
			Filename: "call_20250115_0042.wav",
			Language: "hindi",
			Version:  "v1",
			CallDate: &d2,
			Metadata: model.JSONMap{
				MetaAgentID:     "AG-1002",
				MetaAgentName:   "Rohan Iyer",
				MetaPartnerName: "Acme BPO",
				MetaCampaign:    "collections",
			},
			Extras: model.JSONMap{},
		},
	}
}

// BuildTemplate 生成导入模板 Excel
func BuildTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerRow := make([]interface{}, len(templateHeaders))
	for i, h := range templateHeaders {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(templateSheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range SampleRows() {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			row.Filename,
			row.Language,
			row.Version,
			row.CallDate.Format("2006-01-02"),
			row.Metadata[MetaAgentID],
			row.Metadata[MetaAgentName],
			row.Metadata[MetaPartnerName],
			row.Metadata[MetaCampaign],
		}
		if err := f.SetSheetRow(templateSheet, cellRef, &values); err != nil {
			return nil, fmt.Errorf("failed to write sample row %d: %w", i+1, err)
		}
	}

	return f.WriteToBuffer()
}
