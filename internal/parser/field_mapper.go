package parser

import (
	"github.com/dongha22/strategiccategory/internal/model"
)

// Field 逻辑字段
type Field string

const (
	FieldPeriod   Field = "period"
	FieldCustomer Field = "customer"
	FieldRevenue  Field = "revenue"

	FieldMonth          Field = "month"
	FieldLastYearActual Field = "lastYearActual"
	FieldThisYearTarget Field = "thisYearTarget"
	FieldThisYearActual Field = "thisYearActual"

	FieldName       Field = "name"
	FieldRevenueYTD Field = "revenueYTD"
	FieldGrowth     Field = "growth"
	FieldShare      Field = "share"
)

// Manufacturer 份额统计的制造商
type Manufacturer string

const (
	Cosmax Manufacturer = "cosmax"
	Kolmar Manufacturer = "kolmar"
)

var manufacturerPrefixes = map[Manufacturer][]string{
	Cosmax: {"코스맥스", "cosmax", "Cosmax"},
	Kolmar: {"콜마", "kolmar", "Kolmar"},
}

// 默认份额：整期缺失时使用
const (
	DefaultCosmaxShare = 30
	DefaultKolmarShare = 25
)

var staticAliases = map[Field][]string{
	FieldPeriod:   {"기간/연도", "기간", "연도", "연월", "period"},
	FieldCustomer: {"고객명", "고객사", "고객사명", "customer"},
	FieldRevenue:  {"매출", " 매출 ", "매출액", "revenue"},

	FieldMonth:          {"월", "month", "Month", "MONTH"},
	FieldLastYearActual: {"전년실적", "전년 실적", "lastYearActual", "Last Year Actual"},
	FieldThisYearTarget: {"금년목표", "금년 목표", "thisYearTarget", "This Year Target"},
	FieldThisYearActual: {"금년실적", "금년 실적", "thisYearActual", "This Year Actual"},

	FieldName:       {"고객사", "고객사명", "name", "Name", "고객"},
	FieldRevenueYTD: {"매출", "매출액", "revenueYTD", "Revenue"},
	FieldGrowth:     {"성장률", "growth", "Growth"},
}

// FieldMapper 字段别名表（份额列名随本年变化）
type FieldMapper struct {
	fy model.FiscalYear
}

// NewFieldMapper 创建字段映射器
func NewFieldMapper(fy model.FiscalYear) *FieldMapper {
	return &FieldMapper{fy: fy}
}

// Aliases 逻辑字段的表头别名
func (m *FieldMapper) Aliases(f Field) []string {
	if f == FieldShare {
		var all []string
		for _, maker := range []Manufacturer{Cosmax, Kolmar} {
			for p := range m.fy.SharePeriods() {
				all = append(all, m.ShareAliases(maker, p)...)
			}
		}
		return all
	}
	return staticAliases[f]
}

// ShareAliases 份额列别名，period 为 0 表示上年基期，1..4 为本年季度
//
// 本年 2026 时：코스맥스25 / cosmax25 / Cosmax 25，코스맥스26Q1 / cosmax26q1 / Cosmax 26 Q1 …
func (m *FieldMapper) ShareAliases(maker Manufacturer, period int) []string {
	var suffixes []string
	if period == 0 {
		suffixes = []string{m.fy.LastShort(), " " + m.fy.LastShort()}
	} else {
		q := string(rune('0' + period))
		suffixes = []string{
			m.fy.Short() + "Q" + q,
			m.fy.Short() + "q" + q,
			" " + m.fy.Short() + " Q" + q,
		}
	}
	var out []string
	for _, prefix := range manufacturerPrefixes[maker] {
		for _, s := range suffixes {
			out = append(out, prefix+s)
		}
	}
	return out
}

// MapColumns 逻辑字段到表头下标（只记录第一个命中的列）
func (m *FieldMapper) MapColumns(headers []string, fields ...Field) map[Field]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := NormalizeColumnName(h)
		if _, dup := index[key]; key != "" && !dup {
			index[key] = i
		}
	}

	out := make(map[Field]int)
	for _, f := range fields {
		for _, alias := range m.Aliases(f) {
			if i, ok := index[NormalizeColumnName(alias)]; ok {
				out[f] = i
				break
			}
		}
	}
	return out
}
