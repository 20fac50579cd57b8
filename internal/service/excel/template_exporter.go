package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/parser"
)

// TemplateShape 上传模板类型
type TemplateShape string

const (
	TemplateSales       TemplateShape = "sales"
	TemplatePerformance TemplateShape = "performance"
	TemplateCustomer    TemplateShape = "customer"
)

// TemplateFormat 模板文件格式
type TemplateFormat string

const (
	FormatCSV  TemplateFormat = "csv"
	FormatXLSX TemplateFormat = "xlsx"
)

// ParseTemplateShape 解析模板类型（customers 视同 customer）
func ParseTemplateShape(s string) (TemplateShape, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TemplateSales):
		return TemplateSales, true
	case string(TemplatePerformance):
		return TemplatePerformance, true
	case string(TemplateCustomer), "customers":
		return TemplateCustomer, true
	}
	return "", false
}

// ParseTemplateFormat 解析模板格式，空值视为 csv
func ParseTemplateFormat(s string) (TemplateFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatCSV):
		return FormatCSV, true
	case string(FormatXLSX):
		return FormatXLSX, true
	}
	return "", false
}

// ContentType 下载用的 MIME 类型
func (f TemplateFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TemplateExporter 上传模板生成器；份额列名随本年变化
type TemplateExporter struct {
	fy     model.FiscalYear
	mapper *parser.FieldMapper
}

// NewTemplateExporter 创建模板生成器
func NewTemplateExporter(fy model.FiscalYear) *TemplateExporter {
	return &TemplateExporter{fy: fy, mapper: parser.NewFieldMapper(fy)}
}

// Headers 模板表头
func (e *TemplateExporter) Headers(shape TemplateShape) []string {
	switch shape {
	case TemplateSales:
		return []string{"기간", "고객명", "매출"}
	case TemplatePerformance:
		return []string{"월", "전년실적", "금년목표", "금년실적"}
	case TemplateCustomer:
		headers := []string{"고객사", "매출", "성장률"}
		for p := range e.fy.SharePeriods() {
			headers = append(headers,
				e.mapper.ShareAliases(parser.Cosmax, p)[0],
				e.mapper.ShareAliases(parser.Kolmar, p)[0],
			)
		}
		return headers
	}
	return nil
}

// Rows 模板的示例行；月度实绩模板预填 1~12 月
func (e *TemplateExporter) Rows(shape TemplateShape) [][]string {
	switch shape {
	case TemplatePerformance:
		rows := make([][]string, 0, model.MonthsPerYear)
		for m := 1; m <= model.MonthsPerYear; m++ {
			rows = append(rows, []string{strconv.Itoa(m) + "월"})
		}
		return rows
	case TemplateSales:
		return [][]string{{fmt.Sprintf("%d.01", e.fy.Year()), "", ""}}
	}
	return nil
}

// WriteCSV 写出带 BOM 的 CSV 模板
func (e *TemplateExporter) WriteCSV(w io.Writer, shape TemplateShape) error {
	headers := e.Headers(shape)
	if headers == nil {
		return fmt.Errorf("unknown template shape %q", shape)
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	for _, row := range e.Rows(shape) {
		if err := cw.Write(padRow(row, len(headers))); err != nil {
			return fmt.Errorf("failed to write template: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Workbook xlsx 模板：每个品类一个 sheet，sheet 名即品类名
func (e *TemplateExporter) Workbook(shape TemplateShape, categories []model.ProductCategory) (*excelize.File, error) {
	headers := e.Headers(shape)
	if headers == nil {
		return nil, fmt.Errorf("unknown template shape %q", shape)
	}
	if len(categories) == 0 {
		categories = model.Categories
	}

	f := excelize.NewFile()
	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, c := range categories {
		sheet := string(c)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, err
		}

		if err := writeTable(f, sheet, headers, e.Rows(shape)); err != nil {
			f.Close()
			return nil, err
		}
		_ = f.SetRowStyle(sheet, 1, 1, headerStyle)
		_ = f.SetColWidth(sheet, "A", "A", 14)
		last, _ := excelize.ColumnNumberToName(len(headers))
		_ = f.SetColWidth(sheet, "B", last, 14)
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteXLSX 写出 xlsx 模板
func (e *TemplateExporter) WriteXLSX(w io.Writer, shape TemplateShape, categories []model.ProductCategory) error {
	f, err := e.Workbook(shape, categories)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}

// TemplateFilename 模板下载文件名；带品类时以品类标记开头，上传时可由文件名识别品类
func TemplateFilename(shape TemplateShape, category model.ProductCategory, format TemplateFormat) string {
	name := string(shape) + "_template." + string(format)
	if token := category.FileToken(); token != "" {
		name = token + "_" + name
	}
	return name
}

func padRow(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for i, v := range row {
			if v == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func newHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}
