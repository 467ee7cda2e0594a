// Package audioimport 提供录音元数据 Excel 的解析与规范化
package audioimport

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildSheet 构造测试用 Excel
func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

// ========== 表头识别测试 ==========

func TestParseMetadataFile_HeaderVariants(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"plain", "filename"},
		{"spaced", "File Name"},
		{"underscored", "file_name"},
		{"upper", "FILENAME"},
		{"recording alias", "Call Recording"},
		{"blob alias", "blob_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buildSheet(t, [][]interface{}{
				{tt.header, "Language"},
				{"a.wav", "english"},
			})
			result, err := ParseMetadataFile(buf)
			if err != nil {
				t.Fatalf("ParseMetadataFile() error = %v", err)
			}
			if len(result.Rows) != 1 {
				t.Fatalf("parsed %d rows, want 1", len(result.Rows))
			}
			if result.Rows[0].Filename != "a.wav" {
				t.Errorf("Filename = %q, want a.wav", result.Rows[0].Filename)
			}
			if result.Rows[0].Language != "english" {
				t.Errorf("Language = %q, want english", result.Rows[0].Language)
			}
		})
	}
}

func TestParseMetadataFile_NoFilenameColumn(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"Language", "Agent ID"},
		{"english", "AG-1"},
	})
	_, err := ParseMetadataFile(buf)
	if !errors.Is(err, ErrNoFilenameColumn) {
		t.Errorf("error = %v, want ErrNoFilenameColumn", err)
	}
}

func TestParseMetadataFile_EmptySheet(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{{"filename"}})
	_, err := ParseMetadataFile(buf)
	if !errors.Is(err, ErrEmptySheet) {
		t.Errorf("error = %v, want ErrEmptySheet", err)
	}
}

func TestParseMetadataFile_NotAnExcelFile(t *testing.T) {
	_, err := ParseMetadataFile(strings.NewReader("definitely not an xlsx"))
	if err == nil {
		t.Fatal("expected error for non-excel input")
	}
}

// ========== 行级容错测试 ==========

func TestParseMetadataFile_RowErrorsCollected(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"filename", "call date"},
		{"good1.wav", "2025-01-10"},
		{"", "2025-01-11"},             // 文件名为空
		{"bad-date.wav", "not a date"}, // 日期非法
		{"good2.wav", ""},              // 日期为空是合法的
	})
	result, err := ParseMetadataFile(buf)
	if err != nil {
		t.Fatalf("ParseMetadataFile() error = %v", err)
	}
	if len(result.Rows) != 2 {
		t.Errorf("parsed %d rows, want 2", len(result.Rows))
	}
	if len(result.RowErrors) != 2 {
		t.Fatalf("collected %d row errors, want 2: %v", len(result.RowErrors), result.RowErrors)
	}
	if !strings.Contains(result.RowErrors[0], "row 3") {
		t.Errorf("first error %q should reference row 3", result.RowErrors[0])
	}
	if !strings.Contains(result.RowErrors[1], "row 4") {
		t.Errorf("second error %q should reference row 4", result.RowErrors[1])
	}
	if result.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4", result.TotalRows)
	}
}

func TestParseMetadataFile_BlankRowsSkippedSilently(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"filename"},
		{"a.wav"},
		{""},
		{"b.wav"},
	})
	result, err := ParseMetadataFile(buf)
	if err != nil {
		t.Fatalf("ParseMetadataFile() error = %v", err)
	}
	if len(result.Rows) != 2 {
		t.Errorf("parsed %d rows, want 2", len(result.Rows))
	}
	if len(result.RowErrors) != 0 {
		t.Errorf("blank row should not produce errors, got %v", result.RowErrors)
	}
}

// ========== 元数据折叠测试 ==========

func TestParseMetadataFile_ExtraColumnsNormalized(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"filename", "AGENT_ID", "Partner Name", "Mood"},
		{"a.wav", "AG-7", "Acme BPO", "calm"},
	})
	result, err := ParseMetadataFile(buf)
	if err != nil {
		t.Fatalf("ParseMetadataFile() error = %v", err)
	}
	row := result.Rows[0]
	if row.Metadata[MetaAgentID] != "AG-7" {
		t.Errorf("agent id = %q, want AG-7", row.Metadata[MetaAgentID])
	}
	if row.Metadata[MetaPartnerName] != "Acme BPO" {
		t.Errorf("partner name = %q, want Acme BPO", row.Metadata[MetaPartnerName])
	}
	if row.Extras["Mood"] != "calm" {
		t.Errorf("extras = %v, want Mood=calm preserved", row.Extras)
	}
}

// ========== 模板往返测试 ==========

func TestTemplateRoundTrip(t *testing.T) {
	buf, err := BuildTemplate()
	if err != nil {
		t.Fatalf("BuildTemplate() error = %v", err)
	}

	result, err := ParseMetadataFile(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ParseMetadataFile() error = %v", err)
	}
	if len(result.RowErrors) != 0 {
		t.Fatalf("template produced row errors: %v", result.RowErrors)
	}

	want := SampleRows()
	if len(result.Rows) != len(want) {
		t.Fatalf("parsed %d rows, want %d", len(result.Rows), len(want))
	}
	for i, got := range result.Rows {
		exp := want[i]
		if got.Filename != exp.Filename {
			t.Errorf("row %d Filename = %q, want %q", i, got.Filename, exp.Filename)
		}
		if got.Language != exp.Language {
			t.Errorf("row %d Language = %q, want %q", i, got.Language, exp.Language)
		}
		if got.Version != exp.Version {
			t.Errorf("row %d Version = %q, want %q", i, got.Version, exp.Version)
		}
		if got.CallDate == nil || !got.CallDate.Equal(*exp.CallDate) {
			t.Errorf("row %d CallDate = %v, want %v", i, got.CallDate, exp.CallDate)
		}
		if len(got.Metadata) != len(exp.Metadata) {
			t.Errorf("row %d Metadata = %v, want %v", i, got.Metadata, exp.Metadata)
		}
		for k, v := range exp.Metadata {
			if got.Metadata[k] != v {
				t.Errorf("row %d Metadata[%s] = %q, want %q", i, k, got.Metadata[k], v)
			}
		}
		if len(got.Extras) != 0 {
			t.Errorf("row %d Extras = %v, want empty", i, got.Extras)
		}
	}
}
