package parser

import "testing"

func rowOf(pairs ...string) Row {
	var headers, cells []string
	for i := 0; i+1 < len(pairs); i += 2 {
		headers = append(headers, pairs[i])
		cells = append(cells, pairs[i+1])
	}
	return NewRow(headers, cells)
}

func TestExtractShare_FractionAndPercent(t *testing.T) {
	t.Parallel()

	keys := []string{"코스맥스25", "cosmax25", "Cosmax 25"}

	for _, raw := range []string{"0.42", "42", "42%"} {
		got, ok := ExtractShare(rowOf("cosmax25", raw), keys)
		if !ok || got != 42 {
			t.Fatalf("ExtractShare(%q) want=42 got=%v ok=%v", raw, got, ok)
		}
	}

	// 1 也被视为小数
	if got, _ := ExtractShare(rowOf("Cosmax 25", "1"), keys); got != 100 {
		t.Fatalf("ExtractShare(1) want=100 got=%v", got)
	}
	if got, _ := ExtractShare(rowOf("코스맥스25", "0.337"), keys); got != 34 {
		t.Fatalf("ExtractShare(0.337) want=34 got=%v", got)
	}
	if _, ok := ExtractShare(rowOf("kolmar25", "20"), keys); ok {
		t.Fatalf("expected missing share")
	}
}

func TestExtractNumber_FallsThroughUnparseable(t *testing.T) {
	t.Parallel()

	keys := []string{"매출", "매출액", "revenueYTD"}

	r := rowOf("매출", "n/a", "매출액", "1,200")
	if got := ExtractNumber(r, keys, 0); got != 1200 {
		t.Fatalf("want=1200 got=%v", got)
	}

	r = rowOf("매출", "", "revenueYTD", "7")
	if got := ExtractNumber(r, keys, 0); got != 7 {
		t.Fatalf("empty first alias should be skipped, got %v", got)
	}

	r = rowOf("고객사", "A")
	if got := ExtractNumber(r, keys, -1); got != -1 {
		t.Fatalf("fallback want=-1 got=%v", got)
	}

	if _, ok := ExtractOptionalNumber(rowOf("매출", "abc"), keys); ok {
		t.Fatalf("unparseable value should not resolve")
	}
}

func TestNewRow_NormalizesHeaders(t *testing.T) {
	t.Parallel()

	r := NewRow([]string{" 매출 ", "", "Cosmax 26 Q1", "매출"}, []string{"10", "x", "0.3"})
	if v, ok := r.Lookup("매출"); !ok || v != "10" {
		t.Fatalf("duplicate header should keep first column, got %q", v)
	}
	if v, ok := r.Lookup("cosmax26Q1"); !ok || v != "0.3" {
		t.Fatalf("normalized lookup failed: %q", v)
	}
	if len(r) != 2 {
		t.Fatalf("empty header should be dropped, got %d keys", len(r))
	}
	if got := ExtractText(r, []string{"고객사"}, "_total_"); got != "_total_" {
		t.Fatalf("ExtractText fallback got %q", got)
	}
}
