package excel_test

import (
	"testing"

	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/parser"
	"github.com/dongha22/strategiccategory/internal/service/excel"
)

func TestExport_ReimportsAsPerformanceWorkbook(t *testing.T) {
	ds := model.NewDataset()
	cd := ds[model.CategoryEssence]
	cd.Performance = model.FillMonths([]model.MonthlyPerformance{
		{Month: 1, LastYearActual: 10, ThisYearTarget: 12, ThisYearActual: model.Float(11)},
		{Month: 2, LastYearActual: 9, ThisYearTarget: 10},
	})
	ds[model.CategoryEssence] = cd

	f, err := excel.NewExporter().Export(ds)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	defer f.Close()

	want := []string{"Sun Care", "Foundation", "Essence", "Cream", "요약"}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sheet[%d]=%q, want %q", i, got[i], want[i])
		}
	}

	if v, _ := f.GetCellValue("요약", "B2"); v != string(model.PeriodFirstHalf) {
		t.Fatalf("summary B2=%q", v)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	wb, err := parser.OpenWorkbook("export.xlsx", buf.Bytes(), parser.ReadOptions{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	perf, warnings := parser.ParsePerformanceWorkbook(wb)
	if len(warnings) != 1 {
		t.Fatalf("summary sheet should be the only warning, got %v", warnings)
	}
	essence := perf[model.CategoryEssence].Performance
	if len(essence) != 12 || essence[0].ThisYearActual == nil || *essence[0].ThisYearActual != 11 {
		t.Fatalf("essence round trip mismatch: %+v", essence)
	}
	if essence[1].ThisYearActual != nil {
		t.Fatalf("unreported month should stay absent: %+v", essence[1])
	}
}
