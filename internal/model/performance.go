package model

// MonthsPerYear 每个品类固定 12 条月度记录
const MonthsPerYear = 12

// MonthlyPerformance 月度实绩（单位：亿韩元）
//
// ThisYearActual 为 nil 表示当月尚未发生/未上报，与 0 不同。
type MonthlyPerformance struct {
	Month          int      `json:"month" db:"month"`
	LastYearActual float64  `json:"lastYearActual" db:"last_year_actual"`
	ThisYearTarget float64  `json:"thisYearTarget" db:"this_year_target"`
	ThisYearActual *float64 `json:"thisYearActual" db:"this_year_actual"`
}

// Float 返回 v 的指针
func Float(v float64) *float64 {
	return &v
}

// EmptyYear 生成 12 个月的空骨架
func EmptyYear() []MonthlyPerformance {
	out := make([]MonthlyPerformance, MonthsPerYear)
	for i := range out {
		out[i] = MonthlyPerformance{Month: i + 1}
	}
	return out
}

// FillMonths 补齐为 1..12 月各一条，缺失月份以零值补齐；
// 同月多条时后出现者生效，越界月份丢弃。返回新切片。
func FillMonths(rows []MonthlyPerformance) []MonthlyPerformance {
	out := EmptyYear()
	for _, r := range rows {
		if r.Month < 1 || r.Month > MonthsPerYear {
			continue
		}
		out[r.Month-1] = r.clone()
	}
	return out
}

// MaxReportedMonth 已上报本年实绩的最大月份，无则为 0
func MaxReportedMonth(rows []MonthlyPerformance) int {
	max := 0
	for _, r := range rows {
		if r.ThisYearActual != nil && r.Month > max {
			max = r.Month
		}
	}
	return max
}

// ClonePerformance 深拷贝
func ClonePerformance(rows []MonthlyPerformance) []MonthlyPerformance {
	if rows == nil {
		return nil
	}
	out := make([]MonthlyPerformance, len(rows))
	for i, r := range rows {
		out[i] = r.clone()
	}
	return out
}

func (m MonthlyPerformance) clone() MonthlyPerformance {
	if m.ThisYearActual != nil {
		m.ThisYearActual = Float(*m.ThisYearActual)
	}
	return m
}
