package parser

import "testing"

func TestParseMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2026.04", 4, true},
		{"2026.01", 1, true},
		{"2026.1", 1, true},
		{"2026.10", 10, true},
		{"2026.12", 12, true},
		{"2026.004", 4, true},
		{"2026.012", 12, true},
		{"2025.007", 7, true},
		{"2026.13", 1, true},
		{"2026.24", 12, true},
		{"2026.025", 1, true},
		{"기간 2026.03 마감", 3, true},
		{"7월", 7, true},
		{"2026년 11월", 11, true},
		{" 3월 ", 3, true},
		{"13월", 0, false},
		{"2026.000", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseMonth(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParseMonth(%q) want=(%d,%v) got=(%d,%v)", c.in, c.want, c.ok, got, ok)
		}
	}
}

func TestParseMonth_WrapStaysInRange(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"2026.13", "2026.99", "2026.100", "2026.999"} {
		got, ok := ParseMonth(in)
		if !ok || got < 1 || got > 12 {
			t.Fatalf("ParseMonth(%q) should wrap into 1..12, got (%d,%v)", in, got, ok)
		}
	}
}

func TestParseMonth_TwoDigitFractionIsCalendarMonth(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"2026.01":  1,
		"2026.1":   1,
		"2026.10":  10,
		"2026.12":  12,
		"2026.001": 1,
		"2026.010": 10,
	}
	for in, want := range cases {
		if got, ok := ParseMonth(in); !ok || got != want {
			t.Fatalf("ParseMonth(%q) want=%d got=(%d,%v)", in, want, got, ok)
		}
	}
}

func TestParseLeadingMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{"03", 3, true},
		{"12월", 12, true},
		{"0", 0, false},
		{"13", 0, false},
		{"월", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseLeadingMonth(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParseLeadingMonth(%q) want=(%d,%v) got=(%d,%v)", c.in, c.want, c.ok, got, ok)
		}
	}
}
