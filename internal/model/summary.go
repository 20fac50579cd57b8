package model

import "github.com/shopspring/decimal"

// SummaryPeriod 汇总区间
type SummaryPeriod string

const (
	PeriodFirstHalf  SummaryPeriod = "상반기"
	PeriodSecondHalf SummaryPeriod = "하반기"
	PeriodAnnual     SummaryPeriod = "연간 합계"
)

// PeriodSummary 区间汇总
//
// ThisYearActual 只累计已上报月份，全部未上报时为 nil；
// Growth 与同期（相同已上报月份）的上年实绩比较。
type PeriodSummary struct {
	Period         SummaryPeriod `json:"period"`
	FromMonth      int           `json:"fromMonth"`
	ToMonth        int           `json:"toMonth"`
	LastYearActual float64       `json:"lastYearActual"`
	ThisYearTarget float64       `json:"thisYearTarget"`
	ThisYearActual *float64      `json:"thisYearActual"`
	Achievement    *float64      `json:"achievement"`
	Growth         *float64      `json:"growth"`
}

// Summarize 计算上半年、下半年、全年汇总
func Summarize(rows []MonthlyPerformance) []PeriodSummary {
	full := FillMonths(rows)
	return []PeriodSummary{
		summarizeRange(full, PeriodFirstHalf, 1, 6),
		summarizeRange(full, PeriodSecondHalf, 7, 12),
		summarizeRange(full, PeriodAnnual, 1, 12),
	}
}

func summarizeRange(full []MonthlyPerformance, period SummaryPeriod, from, to int) PeriodSummary {
	last := decimal.Zero
	target := decimal.Zero
	actual := decimal.Zero
	sameMonthsLast := decimal.Zero
	reported := 0

	for _, r := range full[from-1 : to] {
		last = last.Add(decimal.NewFromFloat(r.LastYearActual))
		target = target.Add(decimal.NewFromFloat(r.ThisYearTarget))
		if r.ThisYearActual != nil {
			reported++
			actual = actual.Add(decimal.NewFromFloat(*r.ThisYearActual))
			sameMonthsLast = sameMonthsLast.Add(decimal.NewFromFloat(r.LastYearActual))
		}
	}

	out := PeriodSummary{
		Period:         period,
		FromMonth:      from,
		ToMonth:        to,
		LastYearActual: last.InexactFloat64(),
		ThisYearTarget: target.InexactFloat64(),
	}
	if reported == 0 {
		return out
	}
	out.ThisYearActual = Float(actual.InexactFloat64())
	if target.IsPositive() {
		out.Achievement = Float(actual.Div(target).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64())
	}
	if sameMonthsLast.IsPositive() {
		g := actual.Sub(sameMonthsLast).Div(sameMonthsLast).Mul(decimal.NewFromInt(100)).Round(1)
		out.Growth = Float(g.InexactFloat64())
	}
	return out
}
