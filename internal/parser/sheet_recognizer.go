package parser

import (
	"github.com/dongha22/strategiccategory/internal/model"
)

// SheetRecognizer 按表头识别 sheet 形态（销售流水 / 月度实绩 / 客户份额）
type SheetRecognizer struct {
	mapper *FieldMapper
}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer(fy model.FiscalYear) *SheetRecognizer {
	return &SheetRecognizer{mapper: NewFieldMapper(fy)}
}

type shapeRule struct {
	shape    Shape
	required Field
	fields   []Field
}

// 同分时按此顺序取先者
var shapeRules = []shapeRule{
	{ShapePerformance, FieldMonth, []Field{FieldMonth, FieldLastYearActual, FieldThisYearTarget, FieldThisYearActual}},
	{ShapeSales, FieldPeriod, []Field{FieldPeriod, FieldCustomer, FieldRevenue}},
	{ShapeCustomer, FieldName, []Field{FieldName, FieldRevenueYTD, FieldGrowth, FieldShare}},
}

// Recognize 识别 Sheet 形态；sheet 名能解析为品类时一并返回
func (r *SheetRecognizer) Recognize(sheetName string, headers []string) SheetRecognitionResult {
	best := SheetRecognitionResult{
		SheetName: sheetName,
		Shape:     ShapeUnknown,
	}
	if c, ok := ResolveCategory(sheetName); ok {
		best.Category = c
	}

	for _, rule := range shapeRules {
		cols := r.mapper.MapColumns(headers, rule.fields...)
		if _, ok := cols[rule.required]; !ok {
			continue
		}
		confidence := float64(len(cols)) / float64(len(rule.fields))
		if confidence < 0.5 || confidence <= best.Confidence {
			continue
		}
		best.Shape = rule.shape
		best.Confidence = confidence
		best.Columns = cols
	}
	return best
}
