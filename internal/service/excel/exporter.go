package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dongha22/strategiccategory/internal/model"
)

const summarySheet = "요약"

// Exporter 数据集导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 导出数据集：每个品类一个月度实绩 sheet（可再次作为实绩工作簿上传），
// 外加一个上半年 / 下半年 / 全年汇总 sheet
func (e *Exporter) Export(ds model.Dataset) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	perfHeaders := []string{"월", "전년실적", "금년목표", "금년실적"}
	for i, c := range model.Categories {
		sheet := string(c)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			f.NewSheet(sheet)
		}

		for j, h := range perfHeaders {
			cell, _ := excelize.CoordinatesToCellName(j+1, 1)
			f.SetCellValue(sheet, cell, h)
		}
		f.SetRowStyle(sheet, 1, 1, headerStyle)

		for _, p := range model.FillMonths(ds[c].Performance) {
			row := p.Month + 1
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Month)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.LastYearActual)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.ThisYearTarget)
			if p.ThisYearActual != nil {
				f.SetCellValue(sheet, fmt.Sprintf("D%d", row), *p.ThisYearActual)
			}
		}
		f.SetColWidth(sheet, "A", "D", 14)
	}

	// 汇总表
	f.NewSheet(summarySheet)
	summaryHeaders := []string{"카테고리", "구간", "전년실적", "금년목표", "금년실적", "달성률", "성장률"}
	for j, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		f.SetCellValue(summarySheet, cell, h)
	}
	f.SetRowStyle(summarySheet, 1, 1, headerStyle)

	row := 2
	for _, c := range model.Categories {
		for _, s := range model.Summarize(ds[c].Performance) {
			f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), string(c))
			f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), string(s.Period))
			f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), s.LastYearActual)
			f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), s.ThisYearTarget)
			if s.ThisYearActual != nil {
				f.SetCellValue(summarySheet, fmt.Sprintf("E%d", row), *s.ThisYearActual)
			}
			if s.Achievement != nil {
				f.SetCellValue(summarySheet, fmt.Sprintf("F%d", row), fmt.Sprintf("%.1f%%", *s.Achievement))
			}
			if s.Growth != nil {
				f.SetCellValue(summarySheet, fmt.Sprintf("G%d", row), fmt.Sprintf("%.1f%%", *s.Growth))
			}
			row++
		}
	}
	f.SetColWidth(summarySheet, "A", "B", 14)
	f.SetColWidth(summarySheet, "C", "G", 12)

	f.SetActiveSheet(0)
	return f, nil
}
