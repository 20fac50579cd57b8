package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dongha22/strategiccategory/internal/model"
)

// 单位换算：实绩以韩元计，展示单位为亿韩元；计划文件已预先缩放，只需除以 100
var (
	actualScale = decimal.NewFromInt(100_000_000)
	planScale   = decimal.NewFromInt(100)
)

// SalesRow 销售流水行
type SalesRow struct {
	Period   string
	Customer string
	Revenue  float64
}

// SalesAggregate 单个销售文件的聚合结果（已换算单位）
//
// Performance 只填充与 Role 对应的字段；客户级数据只在 lastYear / thisYear 角色时填充。
type SalesAggregate struct {
	Role              model.FileRole
	Performance       []model.MonthlyPerformance
	MonthlyTotals     map[int]float64
	CustomerTotals    map[string]float64
	CustomerByMonth   map[string]map[int]float64
	UnresolvedPeriods int
	Rows              int
}

// ExtractSalesRows 从 sheet 中取出 (期间, 客户, 金额) 行；期间为空的行丢弃
func ExtractSalesRows(sheet Sheet) (rows []SalesRow, dropped int) {
	for _, r := range sheet.Rows {
		period := ExtractText(r, staticAliases[FieldPeriod], "")
		if period == "" {
			dropped++
			continue
		}
		rows = append(rows, SalesRow{
			Period:   period,
			Customer: ExtractText(r, staticAliases[FieldCustomer], model.TotalCustomerLabel),
			Revenue:  ExtractNumber(r, staticAliases[FieldRevenue], 0),
		})
	}
	return rows, dropped
}

// ClassifyFileRole 判定销售文件角色（启发式）
//
//  1. 文件名含上年简写（"25"）→ lastYear
//  2. 含本年简写（"26"）且含 계획/목표/plan/target → plan
//  3. 含本年简写 → thisYear（실적/actual 与否结果相同）
//  4. 首行期间以上年/本年四位年份开头
//  5. 默认 lastYear
func ClassifyFileRole(filename string, rows []SalesRow, fy model.FiscalYear) model.FileRole {
	name := strings.ToLower(normalizeLabel(filename))
	hasLast := strings.Contains(name, fy.LastShort())
	hasThis := strings.Contains(name, fy.Short())
	hasPlan := ContainsAny(name, []string{"계획", "목표", "plan", "target"})

	switch {
	case hasLast:
		return model.RoleLastYear
	case hasThis && hasPlan:
		return model.RolePlan
	case hasThis:
		return model.RoleThisYear
	}

	if len(rows) > 0 {
		first := strings.TrimSpace(rows[0].Period)
		if strings.HasPrefix(first, strconv.Itoa(fy.LastYear())) {
			return model.RoleLastYear
		}
		if strings.HasPrefix(first, strconv.Itoa(fy.Year())) {
			return model.RoleThisYear
		}
	}
	return model.RoleLastYear
}

// AggregateSales 按角色聚合销售行
func AggregateSales(role model.FileRole, rows []SalesRow) SalesAggregate {
	monthly := make(map[int]decimal.Decimal)
	customers := make(map[string]decimal.Decimal)
	byMonth := make(map[string]map[int]decimal.Decimal)
	unresolved := 0

	for _, r := range rows {
		v := decimal.NewFromFloat(r.Revenue)
		customers[r.Customer] = customers[r.Customer].Add(v)

		month, ok := ParseMonth(r.Period)
		if !ok {
			unresolved++
			continue
		}
		monthly[month] = monthly[month].Add(v)
		if byMonth[r.Customer] == nil {
			byMonth[r.Customer] = make(map[int]decimal.Decimal)
		}
		byMonth[r.Customer][month] = byMonth[r.Customer][month].Add(v)
	}

	scale := actualScale
	if role == model.RolePlan {
		scale = planScale
	}

	out := SalesAggregate{
		Role:              role,
		Performance:       model.EmptyYear(),
		MonthlyTotals:     make(map[int]float64, len(monthly)),
		CustomerTotals:    map[string]float64{},
		CustomerByMonth:   map[string]map[int]float64{},
		UnresolvedPeriods: unresolved,
		Rows:              len(rows),
	}

	for month, sum := range monthly {
		value := sum.Div(scale).InexactFloat64()
		out.MonthlyTotals[month] = value
		p := &out.Performance[month-1]
		switch role {
		case model.RoleLastYear:
			p.LastYearActual = value
		case model.RolePlan:
			p.ThisYearTarget = value
		case model.RoleThisYear:
			p.ThisYearActual = model.Float(value)
		}
	}

	if !role.CarriesCustomers() {
		return out
	}
	for name, sum := range customers {
		out.CustomerTotals[name] = sum.Div(actualScale).InexactFloat64()
	}
	for name, months := range byMonth {
		m := make(map[int]float64, len(months))
		for month, sum := range months {
			m[month] = sum.Div(actualScale).InexactFloat64()
		}
		out.CustomerByMonth[name] = m
	}
	return out
}

// SalesFileResult 销售文件解析结果
type SalesFileResult struct {
	Category model.ProductCategory
	SalesAggregate
	DroppedRows int
}

// ParseSalesFile 解析文件名带品类标记的销售文件（只读取第一个 sheet）
//
// 文件名无法识别品类时返回 *CategoryError，不读取内容。
func ParseSalesFile(filename string, data []byte, fy model.FiscalYear, opts ReadOptions) (*SalesFileResult, error) {
	category, err := RequireCategoryFromFilename(filename)
	if err != nil {
		return nil, err
	}
	wb, err := OpenWorkbook(filename, data, opts)
	if err != nil {
		return nil, err
	}
	sheet, err := wb.FirstSheet()
	if err != nil {
		return nil, err
	}
	return AggregateSalesSheet(category, filename, sheet, fy), nil
}

// AggregateSalesSheet 对已读取的 sheet 做角色判定与聚合
func AggregateSalesSheet(category model.ProductCategory, filename string, sheet Sheet, fy model.FiscalYear) *SalesFileResult {
	rows, dropped := ExtractSalesRows(sheet)
	role := ClassifyFileRole(filename, rows, fy)
	return &SalesFileResult{
		Category:       category,
		SalesAggregate: AggregateSales(role, rows),
		DroppedRows:    dropped,
	}
}
