package model

// CustomerSet 品类下的客户与综合份额
type CustomerSet struct {
	TopCustomers        []CustomerData `json:"topCustomers"`
	Top20AggregateShare []MarketShare  `json:"top20AggregateShare"`
}

// CategoryData 单个品类的完整数据
type CategoryData struct {
	Category     ProductCategory      `json:"category"`
	Performance  []MonthlyPerformance `json:"totalPerformance"`
	Customers    CustomerSet          `json:"customerData"`
	Facilitators []Facilitator        `json:"facilitators"`
}

// Dataset 全部品类数据
type Dataset map[ProductCategory]CategoryData

// NewCategoryData 空品类骨架：12 个月零值、份额为空
func NewCategoryData(c ProductCategory) CategoryData {
	return CategoryData{
		Category:     c,
		Performance:  EmptyYear(),
		Customers:    CustomerSet{TopCustomers: []CustomerData{}, Top20AggregateShare: []MarketShare{}},
		Facilitators: []Facilitator{},
	}
}

// NewDataset 全部品类的空骨架
func NewDataset() Dataset {
	ds := make(Dataset, len(Categories))
	for _, c := range Categories {
		ds[c] = NewCategoryData(c)
	}
	return ds
}

// Clone 深拷贝
func (d CategoryData) Clone() CategoryData {
	out := d
	out.Performance = ClonePerformance(d.Performance)
	out.Customers = d.Customers.Clone()
	out.Facilitators = cloneSlice(d.Facilitators)
	return out
}

// Clone 深拷贝
func (s CustomerSet) Clone() CustomerSet {
	out := CustomerSet{
		TopCustomers:        cloneSlice(s.TopCustomers),
		Top20AggregateShare: cloneSlice(s.Top20AggregateShare),
	}
	for i := range out.TopCustomers {
		out.TopCustomers[i].Shares = cloneSlice(out.TopCustomers[i].Shares)
		out.TopCustomers[i].Products = cloneSlice(out.TopCustomers[i].Products)
	}
	return out
}

// Clone 深拷贝
func (ds Dataset) Clone() Dataset {
	if ds == nil {
		return nil
	}
	out := make(Dataset, len(ds))
	for k, v := range ds {
		out[k] = v.Clone()
	}
	return out
}

// cloneSlice 复制切片，nil 与空切片保持区分
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// CategoryStats 品类数据概况
type CategoryStats struct {
	Category        ProductCategory `json:"category"`
	ReportedThrough int             `json:"reportedThrough"`
	Customers       int             `json:"customers"`
	Facilitators    int             `json:"facilitators"`
}
