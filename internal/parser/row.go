package parser

import (
	"math"
	"strings"
)

// Row 一行数据，键为 NormalizeColumnName 处理后的表头
type Row map[string]string

// NewRow 按表头组装一行；空表头与重复表头（保留第一列）被忽略
func NewRow(headers, cells []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		key := NormalizeColumnName(h)
		if key == "" {
			continue
		}
		if _, dup := row[key]; dup {
			continue
		}
		if i < len(cells) {
			row[key] = cells[i]
		} else {
			row[key] = ""
		}
	}
	return row
}

// Lookup 按别名顺序取第一个存在且非空的值
func (r Row) Lookup(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := r[NormalizeColumnName(k)]; ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

// Has 是否包含任一别名列（不论是否为空）
func (r Row) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := r[NormalizeColumnName(k)]; ok {
			return true
		}
	}
	return false
}

// ExtractText 取文本字段，未命中返回 fallback
func ExtractText(row Row, keys []string, fallback string) string {
	if v, ok := row.Lookup(keys...); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

// ExtractOptionalNumber 按别名顺序取第一个可解析的数值；
// 某列存在但无法解析时继续尝试下一个别名
func ExtractOptionalNumber(row Row, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := row[NormalizeColumnName(k)]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if n, ok := parseNumber(v); ok {
			return n, true
		}
	}
	return 0, false
}

// ExtractNumber 同 ExtractOptionalNumber，未命中返回 fallback
func ExtractNumber(row Row, keys []string, fallback float64) float64 {
	if n, ok := ExtractOptionalNumber(row, keys); ok {
		return n
	}
	return fallback
}

// ExtractShare 取份额百分比：<=1 视为小数并 ×100 取整，>1 视为已是百分数
//
// "0.42" 与 "42" 都得到 42。
func ExtractShare(row Row, keys []string) (float64, bool) {
	n, ok := ExtractOptionalNumber(row, keys)
	if !ok {
		return 0, false
	}
	if n <= 1 {
		return math.Floor(n*100 + 0.5), true
	}
	return n, true
}
