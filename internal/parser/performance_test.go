package parser

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dongha22/strategiccategory/internal/model"
)

func TestParsePerformanceRows(t *testing.T) {
	t.Parallel()

	headers := []string{"월", "전년 실적", "금년 목표", "금년 실적"}
	rows := []Row{
		NewRow(headers, []string{"3월", "12.5", "14", ""}),
		NewRow(headers, []string{"1", "10", "11", "10.5"}),
		NewRow(headers, []string{"13", "1", "1", "1"}),
		NewRow(headers, []string{"2", "x", "12", "abc"}),
		NewRow(headers, []string{"", "1", "1", "1"}),
	}

	perf, dropped := ParsePerformanceRows(rows)
	if dropped != 2 || len(perf) != 3 {
		t.Fatalf("want 3 rows 2 dropped, got %d/%d", len(perf), dropped)
	}
	if perf[0].Month != 1 || perf[1].Month != 2 || perf[2].Month != 3 {
		t.Fatalf("rows not sorted by month: %+v", perf)
	}
	if perf[0].ThisYearActual == nil || *perf[0].ThisYearActual != 10.5 {
		t.Fatalf("month 1 actual mismatch: %+v", perf[0])
	}
	if perf[1].LastYearActual != 0 || perf[1].ThisYearActual != nil {
		t.Fatalf("invalid numbers should fall back: %+v", perf[1])
	}
	if perf[2].ThisYearActual != nil || perf[2].LastYearActual != 12.5 {
		t.Fatalf("empty actual should be absent: %+v", perf[2])
	}
}

func TestParsePerformanceWorkbook_SkipsUnknownSheets(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	_ = f.SetSheetName("Sheet1", "Sun Care")
	_ = f.SetSheetRow("Sun Care", "A1", &[]interface{}{"월", "전년실적", "금년목표", "금년실적"})
	_ = f.SetSheetRow("Sun Care", "A2", &[]interface{}{1, 10.5, 12, 11})
	_ = f.SetSheetRow("Sun Care", "A3", &[]interface{}{2, 9, 10})

	if _, err := f.NewSheet("요약"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	_ = f.SetSheetRow("요약", "A1", &[]interface{}{"월", "전년실적"})
	_ = f.SetSheetRow("요약", "A2", &[]interface{}{1, 1})

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	wb, err := OpenWorkbook("performance.xlsx", buf.Bytes(), ReadOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, warnings := ParsePerformanceWorkbook(wb)
	if len(warnings) != 1 {
		t.Fatalf("want 1 warning, got %v", warnings)
	}
	sun, ok := got[model.CategorySunCare]
	if !ok || len(got) != 1 {
		t.Fatalf("want only Sun Care, got %v", got)
	}
	if len(sun.Performance) != 2 || sun.Performance[0].LastYearActual != 10.5 {
		t.Fatalf("unexpected performance: %+v", sun.Performance)
	}
	if sun.Performance[1].ThisYearActual != nil {
		t.Fatalf("month 2 actual should be absent")
	}
}

func TestParsePerformanceWorkbook_SingleSheetUsesFilename(t *testing.T) {
	t.Parallel()

	data := []byte("월,전년실적,금년목표,금년실적\n1,3,4,5\n")
	wb, err := OpenWorkbook("cream_performance_template.csv", data, ReadOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, warnings := ParsePerformanceWorkbook(wb)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	cream, ok := got[model.CategoryCream]
	if !ok || len(cream.Performance) != 1 || cream.Performance[0].ThisYearTarget != 4 {
		t.Fatalf("unexpected result: %+v", got)
	}
}
