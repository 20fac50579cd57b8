package excel_test

import (
	"bytes"
	"testing"

	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/parser"
	"github.com/dongha22/strategiccategory/internal/service/excel"
)

const fy = model.FiscalYear(2026)

func TestTemplateHeaders_CustomerShareColumnsFollowYear(t *testing.T) {
	e := excel.NewTemplateExporter(fy)
	headers := e.Headers(excel.TemplateCustomer)
	if len(headers) != 13 {
		t.Fatalf("customer headers=%d, want 13: %v", len(headers), headers)
	}
	if headers[3] != "코스맥스25" || headers[4] != "콜마25" || headers[11] != "코스맥스26Q4" {
		t.Fatalf("unexpected share headers: %v", headers)
	}

	next := excel.NewTemplateExporter(2027).Headers(excel.TemplateCustomer)
	if next[3] != "코스맥스26" {
		t.Fatalf("2027 baseline header=%q, want 코스맥스26", next[3])
	}
}

func TestWriteCSV_BOMAndRecognizedShape(t *testing.T) {
	e := excel.NewTemplateExporter(fy)
	recognizer := parser.NewSheetRecognizer(fy)

	cases := []struct {
		shape excel.TemplateShape
		want  parser.Shape
	}{
		{excel.TemplateSales, parser.ShapeSales},
		{excel.TemplatePerformance, parser.ShapePerformance},
		{excel.TemplateCustomer, parser.ShapeCustomer},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		if err := e.WriteCSV(&buf, tc.shape); err != nil {
			t.Fatalf("%s: WriteCSV failed: %v", tc.shape, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}) {
			t.Fatalf("%s: missing BOM", tc.shape)
		}

		name := excel.TemplateFilename(tc.shape, model.CategorySunCare, excel.FormatCSV)
		wb, err := parser.OpenWorkbook(name, buf.Bytes(), parser.ReadOptions{})
		if err != nil {
			t.Fatalf("%s: reopen failed: %v", tc.shape, err)
		}
		sheet, _ := wb.FirstSheet()
		if got := recognizer.Recognize(sheet.Name, sheet.Headers).Shape; got != tc.want {
			t.Fatalf("%s: recognized as %s", tc.shape, got)
		}
	}

	var buf bytes.Buffer
	if err := e.WriteCSV(&buf, "bogus"); err == nil {
		t.Fatal("unknown shape should fail")
	}
}

func TestWorkbook_PerformanceTemplateRoundTrip(t *testing.T) {
	e := excel.NewTemplateExporter(fy)

	var buf bytes.Buffer
	if err := e.WriteXLSX(&buf, excel.TemplatePerformance, nil); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}
	wb, err := parser.OpenWorkbook("performance_template.xlsx", buf.Bytes(), parser.ReadOptions{})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if len(wb.Sheets) != len(model.Categories) {
		t.Fatalf("sheets=%d, want %d", len(wb.Sheets), len(model.Categories))
	}

	got, warnings := parser.ParsePerformanceWorkbook(wb)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	for _, c := range model.Categories {
		if len(got[c].Performance) != model.MonthsPerYear {
			t.Fatalf("%s: months=%d", c, len(got[c].Performance))
		}
	}
}

func TestTemplateFilename(t *testing.T) {
	cases := []struct {
		shape    excel.TemplateShape
		category model.ProductCategory
		format   excel.TemplateFormat
		want     string
	}{
		{excel.TemplateSales, model.CategoryCream, excel.FormatCSV, "cream_sales_template.csv"},
		{excel.TemplateCustomer, model.CategorySunCare, excel.FormatXLSX, "suncare_customer_template.xlsx"},
		{excel.TemplatePerformance, "", excel.FormatXLSX, "performance_template.xlsx"},
	}
	for _, tc := range cases {
		if got := excel.TemplateFilename(tc.shape, tc.category, tc.format); got != tc.want {
			t.Fatalf("TemplateFilename=%q, want %q", got, tc.want)
		}
		if tc.category != "" {
			if c, ok := parser.ResolveCategoryFromFilename(tc.want); !ok || c != tc.category {
				t.Fatalf("%s resolves to %q", tc.want, c)
			}
		}
	}
}

func TestParseTemplateShapeAndFormat(t *testing.T) {
	if s, ok := excel.ParseTemplateShape("Customers"); !ok || s != excel.TemplateCustomer {
		t.Fatalf("ParseTemplateShape(Customers)=%q,%v", s, ok)
	}
	if _, ok := excel.ParseTemplateShape("report"); ok {
		t.Fatal("unknown shape accepted")
	}
	if f, ok := excel.ParseTemplateFormat(""); !ok || f != excel.FormatCSV {
		t.Fatalf("empty format=%q,%v", f, ok)
	}
	if _, ok := excel.ParseTemplateFormat("pdf"); ok {
		t.Fatal("pdf accepted")
	}
}
