package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	thousandthsPattern = regexp.MustCompile(`^\d+\.\d{3,}$`)
	yearMonthPattern   = regexp.MustCompile(`\d{4}\.(\d{1,3})`)
	koreanMonthPattern = regexp.MustCompile(`(\d{1,2})월`)
)

// ParseMonth 将期间字符串解析为月份 1..12
//
// 依次尝试：
//  1. 千分位小数 "2026.004"：小数部分 ×1000 取整，须在 1..12；
//     小数不足三位时按日历月读取："2026.01" 为 1 月，"2026.10" 为 10 月
//  2. "YYYY.NNN"：NNN 在 1..12 直接采用，否则按 12 取模回绕（1 起）
//  3. "N월"
func ParseMonth(period string) (int, bool) {
	s := strings.TrimSpace(period)
	if s == "" {
		return 0, false
	}

	if thousandthsPattern.MatchString(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(v, 0) {
			month := int(math.Round((v - math.Floor(v)) * 1000))
			if month >= 1 && month <= 12 {
				return month, true
			}
		}
	}

	if m := yearMonthPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n >= 1 && n <= 12 {
			return n, true
		}
		if n >= 1 {
			return ((n - 1) % 12) + 1, true
		}
	}

	if m := koreanMonthPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n >= 1 && n <= 12 {
			return n, true
		}
	}

	return 0, false
}

// ParseLeadingMonth 取字符串开头的整数作为月份（"3", "3월", "03"）
func ParseLeadingMonth(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 || n > 12 {
		return 0, false
	}
	return n, true
}
