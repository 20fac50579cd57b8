// Package reconcile 将新解析的数据与已有数据集合并
package reconcile

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dongha22/strategiccategory/internal/model"
)

// Policy 月度实绩的合并策略
type Policy string

const (
	// PolicyReplace 整体替换
	PolicyReplace Policy = "replace"
	// PolicyMergeFields 逐月逐字段合并
	PolicyMergeFields Policy = "merge"
)

// ParsePolicy 解析策略名，空值为 replace
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyReplace:
		return PolicyReplace, nil
	case PolicyMergeFields:
		return PolicyMergeFields, nil
	}
	return "", fmt.Errorf("unknown performance policy %q", s)
}

// ReplacePerformance 新数据整体替换（补齐 12 个月）
func ReplacePerformance(_ []model.MonthlyPerformance, incoming []model.MonthlyPerformance) []model.MonthlyPerformance {
	return model.FillMonths(incoming)
}

// MergePerformanceFields 逐月合并：
// lastYearActual / thisYearTarget 仅在新值非 0 时覆盖，thisYearActual 仅在新值存在时覆盖
func MergePerformanceFields(existing, incoming []model.MonthlyPerformance) []model.MonthlyPerformance {
	out := model.FillMonths(existing)
	for _, n := range incoming {
		if n.Month < 1 || n.Month > model.MonthsPerYear {
			continue
		}
		cur := &out[n.Month-1]
		if n.LastYearActual != 0 {
			cur.LastYearActual = n.LastYearActual
		}
		if n.ThisYearTarget != 0 {
			cur.ThisYearTarget = n.ThisYearTarget
		}
		if n.ThisYearActual != nil {
			cur.ThisYearActual = model.Float(*n.ThisYearActual)
		}
	}
	return out
}

// CustomerUpload 客户文件路径的数据：整体替换客户列表与综合份额
type CustomerUpload struct {
	Customers      []model.CustomerData
	AggregateShare []model.MarketShare
}

// Update 一次合并的全部新数据，均按品类索引
type Update struct {
	Performance            map[model.ProductCategory][]model.MonthlyPerformance
	Customers              map[model.ProductCategory]CustomerUpload
	RevenueLastYear        map[model.ProductCategory]map[string]float64
	RevenueThisYear        map[model.ProductCategory]map[string]float64
	RevenueLastYearByMonth map[model.ProductCategory]map[string]map[int]float64
	// SalesOnly 月度实绩仅来自销售文件的品类：每份只填部分字段，始终逐字段合并
	SalesOnly              map[model.ProductCategory]bool
	Policy                 Policy
	FiscalYear             model.FiscalYear
}

// Categories 本次更新涉及的品类（按固定顺序）
func (u Update) Categories() []model.ProductCategory {
	var out []model.ProductCategory
	for _, c := range model.Categories {
		if u.touches(c) {
			out = append(out, c)
		}
	}
	return out
}

func (u Update) touches(c model.ProductCategory) bool {
	_, p := u.Performance[c]
	_, cu := u.Customers[c]
	return p || cu || len(u.RevenueThisYear[c]) > 0
}

// Merge 合并新数据，返回新的数据集；existing 不被修改
//
// 未涉及的品类原样保留；客户份额文件与销售文件两条路径互斥，
// 后者在本年客户营收非空时按 YTD 口径重建客户列表。
func Merge(existing model.Dataset, u Update) model.Dataset {
	out := existing.Clone()
	if out == nil {
		out = model.Dataset{}
	}

	for _, c := range model.Categories {
		if !u.touches(c) {
			continue
		}
		cur, ok := out[c]
		if !ok {
			cur = model.NewCategoryData(c)
		}

		if perf, ok := u.Performance[c]; ok {
			if u.Policy == PolicyMergeFields || u.SalesOnly[c] {
				cur.Performance = MergePerformanceFields(cur.Performance, perf)
			} else {
				cur.Performance = ReplacePerformance(cur.Performance, perf)
			}
		} else {
			cur.Performance = model.FillMonths(cur.Performance)
		}

		if upload, ok := u.Customers[c]; ok {
			cur.Customers = model.CustomerSet{
				TopCustomers:        upload.Customers,
				Top20AggregateShare: upload.AggregateShare,
			}.Clone()
		}

		if thisYear := u.RevenueThisYear[c]; len(thisYear) > 0 {
			maxYTD := model.MaxReportedMonth(cur.Performance)
			cur.Customers.TopCustomers = RebuildCustomers(
				thisYear, u.RevenueLastYear[c], u.RevenueLastYearByMonth[c], maxYTD, u.FiscalYear)
		}

		out[c] = cur
	}
	return out
}

// RebuildCustomers 由营收表重建客户列表
//
// 上年营收取按月明细中 1..maxYTDMonth 的合计（有明细且 maxYTDMonth > 0 时），否则取上年整年合计；
// 成长率只在两者都为正时计算。名称取两张表的并集（含无客户列时的 _total_）。结果按本年营收降序。
func RebuildCustomers(thisYear, lastYear map[string]float64, lastYearByMonth map[string]map[int]float64, maxYTDMonth int, fy model.FiscalYear) []model.CustomerData {
	names := make(map[string]struct{}, len(thisYear)+len(lastYear))
	for n := range thisYear {
		names[n] = struct{}{}
	}
	for n := range lastYear {
		names[n] = struct{}{}
	}

	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	hundred := decimal.NewFromInt(100)
	out := make([]model.CustomerData, 0, len(sorted))
	for _, name := range sorted {
		ytd := thisYear[name]

		last := decimal.NewFromFloat(lastYear[name])
		if months, ok := lastYearByMonth[name]; ok && len(months) > 0 && maxYTDMonth > 0 {
			last = decimal.Zero
			for m := 1; m <= maxYTDMonth; m++ {
				last = last.Add(decimal.NewFromFloat(months[m]))
			}
		}

		growth := 0.0
		if ytd > 0 && last.IsPositive() {
			g := decimal.NewFromFloat(ytd).Sub(last).Div(last).Mul(hundred)
			growth = g.Round(1).InexactFloat64()
		}

		out = append(out, model.CustomerData{
			Name:            name,
			RevenueLastYear: last.InexactFloat64(),
			RevenueYTD:      ytd,
			Growth:          growth,
			Status:          model.StatusStable,
			Shares:          model.EmptyShares(fy),
			Products:        []model.Product{},
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].RevenueYTD > out[j].RevenueYTD })
	for i := range out {
		out[i].ID = fmt.Sprintf("c-%d", i)
	}
	return out
}
