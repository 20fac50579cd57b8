package reconcile

import (
	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/parser"
)

// Batch 一次上传批次的累加器，值语义：每个 With* 返回新的 Batch，原值不变
//
// 同一批次内：销售文件的月度实绩逐字段合并（上年 / 计划 / 本年三份文件互补），
// 月度实绩工作簿整体替换，客户份额文件按品类整体替换。
// 只有销售文件的品类在持久化时与已有数据逐字段合并，不受替换策略影响。
type Batch struct {
	performance     map[model.ProductCategory][]model.MonthlyPerformance
	fromWorkbook    map[model.ProductCategory]bool
	customers       map[model.ProductCategory]CustomerUpload
	revenueLast     map[model.ProductCategory]map[string]float64
	revenueThis     map[model.ProductCategory]map[string]float64
	revenueLastByMo map[model.ProductCategory]map[string]map[int]float64
}

// NewBatch 空批次
func NewBatch() Batch {
	return Batch{}
}

// Empty 批次是否没有任何数据
func (b Batch) Empty() bool {
	return len(b.performance) == 0 && len(b.customers) == 0 && len(b.revenueThis) == 0 && len(b.revenueLast) == 0
}

func (b Batch) clone() Batch {
	out := Batch{
		performance:     make(map[model.ProductCategory][]model.MonthlyPerformance, len(b.performance)),
		fromWorkbook:    make(map[model.ProductCategory]bool, len(b.fromWorkbook)),
		customers:       make(map[model.ProductCategory]CustomerUpload, len(b.customers)),
		revenueLast:     make(map[model.ProductCategory]map[string]float64, len(b.revenueLast)),
		revenueThis:     make(map[model.ProductCategory]map[string]float64, len(b.revenueThis)),
		revenueLastByMo: make(map[model.ProductCategory]map[string]map[int]float64, len(b.revenueLastByMo)),
	}
	for k, v := range b.performance {
		out.performance[k] = v
	}
	for k, v := range b.fromWorkbook {
		out.fromWorkbook[k] = v
	}
	for k, v := range b.customers {
		out.customers[k] = v
	}
	for k, v := range b.revenueLast {
		out.revenueLast[k] = v
	}
	for k, v := range b.revenueThis {
		out.revenueThis[k] = v
	}
	for k, v := range b.revenueLastByMo {
		out.revenueLastByMo[k] = v
	}
	return out
}

// WithSales 加入一个销售文件的聚合结果
func (b Batch) WithSales(res *parser.SalesFileResult) Batch {
	out := b.clone()
	c := res.Category
	out.performance[c] = MergePerformanceFields(b.performance[c], res.Performance)

	switch res.Role {
	case model.RoleLastYear:
		out.revenueLast[c] = copyTotals(res.CustomerTotals)
		out.revenueLastByMo[c] = copyByMonth(res.CustomerByMonth)
	case model.RoleThisYear:
		out.revenueThis[c] = copyTotals(res.CustomerTotals)
	}
	return out
}

// WithPerformance 加入月度实绩工作簿中某个品类的数据
func (b Batch) WithPerformance(c model.ProductCategory, perf []model.MonthlyPerformance) Batch {
	out := b.clone()
	out.performance[c] = model.ClonePerformance(perf)
	out.fromWorkbook[c] = true
	return out
}

// WithCustomers 加入客户份额文件中某个品类的数据
func (b Batch) WithCustomers(upload parser.CustomerUpload) Batch {
	out := b.clone()
	out.customers[upload.Category] = CustomerUpload{
		Customers:      upload.Customers,
		AggregateShare: upload.AggregateShare,
	}
	return out
}

// Update 生成合并用的 Update
func (b Batch) Update(policy Policy, fy model.FiscalYear) Update {
	c := b.clone()
	salesOnly := make(map[model.ProductCategory]bool, len(c.performance))
	for cat := range c.performance {
		if !c.fromWorkbook[cat] {
			salesOnly[cat] = true
		}
	}
	return Update{
		Performance:            c.performance,
		Customers:              c.customers,
		RevenueLastYear:        c.revenueLast,
		RevenueThisYear:        c.revenueThis,
		RevenueLastYearByMonth: c.revenueLastByMo,
		SalesOnly:              salesOnly,
		Policy:                 policy,
		FiscalYear:             fy,
	}
}

func copyTotals(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyByMonth(in map[string]map[int]float64) map[string]map[int]float64 {
	out := make(map[string]map[int]float64, len(in))
	for k, months := range in {
		m := make(map[int]float64, len(months))
		for month, v := range months {
			m[month] = v
		}
		out[k] = m
	}
	return out
}
