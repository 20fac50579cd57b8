package parser

import (
	"errors"
	"testing"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

func TestOpenWorkbook_CSVEncodings(t *testing.T) {
	t.Parallel()

	const content = "고객사,매출\n알파,10\n\n베타,20\n"

	euckr, err := korean.EUCKR.NewEncoder().Bytes([]byte(content))
	if err != nil {
		t.Fatalf("encode euc-kr: %v", err)
	}
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(content))
	if err != nil {
		t.Fatalf("encode utf-16: %v", err)
	}

	inputs := map[string][]byte{
		"utf8":     []byte(content),
		"utf8-bom": append([]byte("\xEF\xBB\xBF"), content...),
		"cp949":    euckr,
		"utf16":    utf16,
	}
	for name, data := range inputs {
		wb, err := OpenWorkbook("cream.csv", data, ReadOptions{})
		if err != nil {
			t.Fatalf("%s: open: %v", name, err)
		}
		sheet, err := wb.FirstSheet()
		if err != nil {
			t.Fatalf("%s: first sheet: %v", name, err)
		}
		if sheet.Name != "cream" || len(sheet.Rows) != 2 {
			t.Fatalf("%s: unexpected sheet %q rows=%d", name, sheet.Name, len(sheet.Rows))
		}
		if v, _ := sheet.Rows[1].Lookup("고객사"); v != "베타" {
			t.Fatalf("%s: decode mismatch %q", name, v)
		}
	}
}

func TestOpenWorkbook_Errors(t *testing.T) {
	t.Parallel()

	if _, err := OpenWorkbook("cream.pdf", []byte("%PDF-1.4"), ReadOptions{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := OpenWorkbook("cream.xlsx", []byte("not a zip"), ReadOptions{}); !errors.Is(err, ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}

	wb, err := OpenWorkbook("cream.csv", []byte("\n\n"), ReadOptions{})
	if err != nil {
		t.Fatalf("open blank csv: %v", err)
	}
	if _, err := wb.FirstSheet(); !errors.Is(err, ErrEmptySheet) {
		t.Fatalf("expected ErrEmptySheet, got %v", err)
	}
}
