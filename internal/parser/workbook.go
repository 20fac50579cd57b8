package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingCP949 / EncodingUTF8 CSV 无 BOM 且非 UTF-8 时的回退编码
const (
	EncodingCP949 = "cp949"
	EncodingUTF8  = "utf-8"
)

// ReadOptions 读取选项
type ReadOptions struct {
	// FallbackEncoding CSV 既无 BOM 也不是合法 UTF-8 时使用，默认 cp949
	FallbackEncoding string
}

// Sheet 一个工作表：第一行为表头，其余为数据行（已跳过空行）
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Workbook 读取后的工作簿
type Workbook struct {
	Filename string
	Sheets   []Sheet
}

// FirstSheet 第一个工作表
func (w *Workbook) FirstSheet() (Sheet, error) {
	if len(w.Sheets) == 0 {
		return Sheet{}, fmt.Errorf("%w: %s", ErrEmptySheet, w.Filename)
	}
	return w.Sheets[0], nil
}

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// OpenWorkbook 读取 csv / xlsx / xls 内容
func OpenWorkbook(filename string, data []byte, opts ReadOptions) (*Workbook, error) {
	var (
		sheets []Sheet
		err    error
	)
	switch detectFormat(filename, data) {
	case "csv":
		sheets, err = readCSV(filename, data, opts)
	case "xlsx":
		sheets, err = readXLSX(data)
	case "xls":
		sheets, err = readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
	if err != nil {
		return nil, readFailed(filename, err)
	}
	return &Workbook{Filename: filename, Sheets: sheets}, nil
}

func detectFormat(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return "csv"
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".xls":
		if bytes.HasPrefix(data, zipMagic) {
			return "xlsx"
		}
		return "xls"
	}
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return "xlsx"
	case bytes.HasPrefix(data, oleMagic):
		return "xls"
	}
	return ""
}

func readCSV(filename string, data []byte, opts ReadOptions) ([]Sheet, error) {
	var fallback encoding.Encoding = korean.EUCKR
	if utf8.Valid(data) || strings.EqualFold(opts.FallbackEncoding, EncodingUTF8) {
		fallback = unicode.UTF8
	}
	// BOMOverride 识别 UTF-8 / UTF-16 BOM 并去除，无 BOM 时使用回退编码
	decoder := unicode.BOMOverride(fallback.NewDecoder())
	r := csv.NewReader(transform.NewReader(bytes.NewReader(data), decoder))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	sheet, ok := buildSheet(name, records)
	if !ok {
		return nil, nil
	}
	return []Sheet{sheet}, nil
}

func readXLSX(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		if sheet, ok := buildSheet(name, rows); ok {
			sheets = append(sheets, sheet)
		}
	}
	return sheets, nil
}

func readXLS(data []byte) ([]Sheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var sheets []Sheet
	for i := 0; i < wb.GetNumberSheets(); i++ {
		ws, err := wb.GetSheet(i)
		if err != nil {
			return nil, fmt.Errorf("sheet %d: %w", i, err)
		}
		var records [][]string
		for _, row := range ws.GetRows() {
			cols := row.GetCols()
			rec := make([]string, len(cols))
			for j, cell := range cols {
				rec[j] = cell.GetString()
			}
			records = append(records, rec)
		}
		if sheet, ok := buildSheet(ws.GetName(), records); ok {
			sheets = append(sheets, sheet)
		}
	}
	return sheets, nil
}

// buildSheet 第一个非空行作为表头，之后的非空行为数据
func buildSheet(name string, records [][]string) (Sheet, bool) {
	sheet := Sheet{Name: strings.TrimSpace(name)}
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		if sheet.Headers == nil {
			sheet.Headers = rec
			continue
		}
		sheet.Rows = append(sheet.Rows, NewRow(sheet.Headers, rec))
	}
	return sheet, sheet.Headers != nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
