package audioimport

import (
	"strings"
	"testing"
)

// ========== 导入统计初始化测试 ==========

func TestNewImportResult_CarriesRowErrors(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"filename", "call date"},
		{"good.wav", "2025-01-10"},
		{"", "2025-01-11"},
	})
	parsed, err := ParseMetadataFile(buf)
	if err != nil {
		t.Fatalf("ParseMetadataFile() error = %v", err)
	}

	result := newImportResult(parsed)
	if result.TotalRows != parsed.TotalRows {
		t.Errorf("TotalRows = %d, want %d", result.TotalRows, parsed.TotalRows)
	}
	if len(result.RowErrors) != 1 {
		t.Fatalf("RowErrors = %v, want exactly one", result.RowErrors)
	}
	if !strings.Contains(result.RowErrors[0], "row 3") {
		t.Errorf("row error %q should reference row 3", result.RowErrors[0])
	}
}

func TestNewImportResult_NoRowErrors(t *testing.T) {
	result := newImportResult(&ParseResult{TotalRows: 2})
	if result.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", result.TotalRows)
	}
	if len(result.RowErrors) != 0 {
		t.Errorf("RowErrors = %v, want none", result.RowErrors)
	}
}
