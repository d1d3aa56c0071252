package words

import (
	"math"
	"strings"
	"testing"
)

func TestNumberToWords(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Zero"},
		{-7, "Zero"},
		{1, "One"},
		{19, "Nineteen"},
		{20, "Twenty"},
		{21, "Twenty One"},
		{100, "One Hundred"},
		{105, "One Hundred Five"},
		{999, "Nine Hundred Ninety Nine"},
		{1000, "One Thousand"},
		{150000, "One Hundred Fifty Thousand"},
		{1000000, "One Million"},
		{1234567, "One Million Two Hundred Thirty Four Thousand Five Hundred Sixty Seven"},
		{1_000_000_000, "One Billion"},
		{2_500_000_000, "Two Billion Five Hundred Million"},
		{1_000_000_000_000, "One Trillion"},
		{10_000_000_000_000, "Ten Trillion"},
	}
	for _, c := range cases {
		if got := NumberToWords(c.in); got != c.want {
			t.Fatalf("NumberToWords(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

// A single valid row can push the total past two billion (for example
// qty 20000 at unit price 150000), so every whole int64 amount must render
// without faulting.
func TestNumberToWordsLargeTotals(t *testing.T) {
	if got := NumberToWords(20000 * 150000); got != "Three Billion" {
		t.Fatalf("NumberToWords(3000000000) = %q, want %q", got, "Three Billion")
	}
	want := "Nine Quintillion Two Hundred Twenty Three Quadrillion Three Hundred Seventy Two Trillion " +
		"Thirty Six Billion Eight Hundred Fifty Four Million Seven Hundred Seventy Five Thousand Eight Hundred Seven"
	if got := NumberToWords(math.MaxInt64); got != want {
		t.Fatalf("NumberToWords(MaxInt64) = %q, want %q", got, want)
	}
}

func TestNumberToWordsClean(t *testing.T) {
	for _, n := range []int64{0, 7, 40, 807, 1001, 20020, 1000001, 999999999, 3_000_000_000, 10_000_000_000_000} {
		got := NumberToWords(n)
		if strings.Contains(got, "  ") {
			t.Fatalf("NumberToWords(%d) contains double space: %q", n, got)
		}
		if got != strings.TrimSpace(got) {
			t.Fatalf("NumberToWords(%d) has surrounding whitespace: %q", n, got)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatInt(1234567); got != "1,234,567" {
		t.Fatalf("FormatInt = %q", got)
	}
	if got := FormatNumber(1500); got != "1,500" {
		t.Fatalf("FormatNumber whole = %q", got)
	}
	if got := FormatNumber(1500.5); got != "1,500.50" {
		t.Fatalf("FormatNumber fractional = %q", got)
	}
}
