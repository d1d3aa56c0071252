// Package words converts whole currency amounts to English words and formats
// numbers for display. Fractional currency is out of scope: amounts reach
// this package pre-rounded.
package words

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ones = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}

var tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}

var printer = message.NewPrinter(language.English)

// scales are the short-scale group names, largest first. The top scale keeps
// every group quotient under 1000 across the whole int64 range.
var scales = []struct {
	value int64
	name  string
}{
	{1_000_000_000_000_000_000, "Quintillion"},
	{1_000_000_000_000_000, "Quadrillion"},
	{1_000_000_000_000, "Trillion"},
	{1_000_000_000, "Billion"},
	{1_000_000, "Million"},
	{1_000, "Thousand"},
}

// inHundreds renders 0..999 as words, e.g. 150 -> "One Hundred Fifty".
func inHundreds(n int64) string {
	var b strings.Builder
	if n >= 100 {
		b.WriteString(ones[n/100])
		b.WriteString(" Hundred")
		n %= 100
		if n > 0 {
			b.WriteByte(' ')
		}
	}
	switch {
	case n >= 20:
		b.WriteString(tens[n/10])
		if n%10 > 0 {
			b.WriteByte(' ')
			b.WriteString(ones[n%10])
		}
	case n > 0:
		b.WriteString(ones[n])
	}
	return b.String()
}

// NumberToWords renders a non-negative whole amount in short-scale English,
// e.g. 1150000 -> "One Million One Hundred Fifty Thousand". Zero and
// anything below it render as "Zero".
func NumberToWords(amount int64) string {
	if amount <= 0 {
		return "Zero"
	}
	parts := make([]string, 0, 4)
	for _, s := range scales {
		if amount >= s.value {
			parts = append(parts, inHundreds(amount/s.value)+" "+s.name)
			amount %= s.value
		}
	}
	if amount > 0 {
		parts = append(parts, inHundreds(amount))
	}
	return strings.Join(parts, " ")
}

// FormatNumber renders a number with locale digit grouping for display only
// (never fed back into words output). Whole values drop the decimals.
func FormatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		n = 0
	}
	if n == math.Trunc(n) {
		return printer.Sprintf("%d", int64(n))
	}
	return printer.Sprintf("%.2f", n)
}

// FormatInt is FormatNumber for whole amounts.
func FormatInt(n int64) string {
	return printer.Sprintf("%d", n)
}
