package model

import "fmt"

// DefaultFiscalYear 默认本年
const DefaultFiscalYear FiscalYear = 2026

// FiscalYear 本年（上年 = 本年 - 1）
//
// 文件角色判定、份额表头别名与份额期间标签都由它派生。
type FiscalYear int

// Year 本年（四位）
func (y FiscalYear) Year() int {
	if y <= 0 {
		return int(DefaultFiscalYear)
	}
	return int(y)
}

// LastYear 上年（四位）
func (y FiscalYear) LastYear() int {
	return y.Year() - 1
}

// Short 本年两位简写，如 "26"
func (y FiscalYear) Short() string {
	return fmt.Sprintf("%02d", y.Year()%100)
}

// LastShort 上年两位简写，如 "25"
func (y FiscalYear) LastShort() string {
	return fmt.Sprintf("%02d", y.LastYear()%100)
}

// SharePeriods 份额期间：上年基期 + 本年四个季度
func (y FiscalYear) SharePeriods() []string {
	s := y.Short()
	return []string{
		y.LastShort(),
		s + " Q1",
		s + " Q2",
		s + " Q3",
		s + " Q4",
	}
}
