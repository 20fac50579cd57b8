package parser

import (
	"testing"

	"github.com/dongha22/strategiccategory/internal/model"
)

func TestSheetRecognizer_Shapes(t *testing.T) {
	t.Parallel()

	r := NewSheetRecognizer(testFY)
	cases := []struct {
		sheet    string
		headers  []string
		want     Shape
		category model.ProductCategory
	}{
		{"Sun Care", []string{"월", "전년실적", "금년목표", "금년실적"}, ShapePerformance, model.CategorySunCare},
		{"크림", []string{"Month", "Last Year Actual", "This Year Target"}, ShapePerformance, model.CategoryCream},
		{"Sheet1", []string{"기간/연도", "고객명", " 매출 "}, ShapeSales, ""},
		{"Sheet1", []string{"period", "revenue"}, ShapeSales, ""},
		{"에센스", []string{"고객사", "매출", "성장률", "코스맥스25", "콜마26Q1"}, ShapeCustomer, model.CategoryEssence},
		{"Foundation", []string{"name", "Revenue", "Growth"}, ShapeCustomer, model.CategoryFoundation},
		{"Notes", []string{"메모", "작성자"}, ShapeUnknown, ""},
		{"Sheet2", []string{"매출"}, ShapeUnknown, ""},
	}

	for _, c := range cases {
		res := r.Recognize(c.sheet, c.headers)
		if res.Shape != c.want {
			t.Fatalf("sheet %s headers %v: want=%s got=%s conf=%.2f", c.sheet, c.headers, c.want, res.Shape, res.Confidence)
		}
		if res.Category != c.category {
			t.Fatalf("sheet %s category want=%q got=%q", c.sheet, c.category, res.Category)
		}
	}
}

func TestSheetRecognizer_SalesBeatsCustomerOnSharedColumns(t *testing.T) {
	t.Parallel()

	r := NewSheetRecognizer(testFY)
	res := r.Recognize("raw", []string{"기간", "고객사", "매출"})
	if res.Shape != ShapeSales || res.Confidence != 1 {
		t.Fatalf("want sales with full confidence, got %s %.2f", res.Shape, res.Confidence)
	}
	if _, ok := res.Columns[FieldCustomer]; !ok {
		t.Fatalf("customer column should be mapped")
	}
}
