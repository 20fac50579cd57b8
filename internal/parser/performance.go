package parser

import (
	"fmt"
	"sort"

	"github.com/dongha22/strategiccategory/internal/model"
)

// ParsePerformanceRows 解析月度实绩行（월 / 전년실적 / 금년목표 / 금년실적）
//
// 月份取开头的整数且须在 1..12，否则整行丢弃；金额无法解析时取 0，
// 금년실적 为空或无法解析时视为未上报。结果按月份排序。
func ParsePerformanceRows(rows []Row) (out []model.MonthlyPerformance, dropped int) {
	for _, r := range rows {
		raw, ok := r.Lookup(staticAliases[FieldMonth]...)
		if !ok {
			dropped++
			continue
		}
		month, ok := ParseLeadingMonth(raw)
		if !ok {
			dropped++
			continue
		}
		p := model.MonthlyPerformance{
			Month:          month,
			LastYearActual: ExtractNumber(r, staticAliases[FieldLastYearActual], 0),
			ThisYearTarget: ExtractNumber(r, staticAliases[FieldThisYearTarget], 0),
		}
		if v, ok := ExtractOptionalNumber(r, staticAliases[FieldThisYearActual]); ok {
			p.ThisYearActual = model.Float(v)
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, dropped
}

// PerformanceSheet 单个品类 sheet 的解析结果
type PerformanceSheet struct {
	Category    model.ProductCategory
	SheetName   string
	Performance []model.MonthlyPerformance
	DroppedRows int
}

// ParsePerformanceWorkbook 每个 sheet 一个品类；无法识别的 sheet 跳过并记录警告
//
// 只有一个 sheet（含 CSV）且 sheet 名无法识别时，改用文件名中的品类标记。
func ParsePerformanceWorkbook(wb *Workbook) (map[model.ProductCategory]PerformanceSheet, []string) {
	out := make(map[model.ProductCategory]PerformanceSheet)
	var warnings []string
	for _, sheet := range wb.Sheets {
		category, ok := ResolveCategory(sheet.Name)
		if !ok && len(wb.Sheets) == 1 {
			category, ok = ResolveCategoryFromFilename(wb.Filename)
		}
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown category sheet: %s", sheet.Name))
			continue
		}
		perf, dropped := ParsePerformanceRows(sheet.Rows)
		if len(perf) == 0 {
			continue
		}
		out[category] = PerformanceSheet{
			Category:    category,
			SheetName:   sheet.Name,
			Performance: perf,
			DroppedRows: dropped,
		}
	}
	return out, warnings
}
