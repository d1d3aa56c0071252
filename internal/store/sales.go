package store

import (
	"sort"
	"time"

	"github.com/batmedia/docpress/internal/models"
)

// DaySales is one calendar-day bucket of the sales report. The grouping is a
// view over the sales ledger, never persisted.
type DaySales struct {
	Day     string              `json:"day"` // YYYY-MM-DD
	Total   int64               `json:"total"`
	Records []models.SaleRecord `json:"records"`
}

// SalesSummary totals the whole ledger for the report header.
type SalesSummary struct {
	Entries int   `json:"entries"`
	Total   int64 `json:"total"`
}

// Summarize computes the ledger-wide entry count and amount.
func Summarize(records []models.SaleRecord) SalesSummary {
	sum := SalesSummary{Entries: len(records)}
	for _, r := range records {
		sum.Total += r.Total
	}
	return sum
}

// GroupSalesByDay buckets records by calendar day, newest day first. Records
// inside a bucket keep their ledger order (newest first). Records with an
// unparseable timestamp land in a bucket named by the raw value.
func GroupSalesByDay(records []models.SaleRecord) []DaySales {
	byDay := map[string]*DaySales{}
	var order []string
	for _, r := range records {
		day := r.CreatedAt
		if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			day = t.Format("2006-01-02")
		}
		b, ok := byDay[day]
		if !ok {
			b = &DaySales{Day: day}
			byDay[day] = b
			order = append(order, day)
		}
		b.Records = append(b.Records, r)
		b.Total += r.Total
	}
	sort.Sort(sort.Reverse(sort.StringSlice(order)))
	out := make([]DaySales, 0, len(order))
	for _, day := range order {
		out = append(out, *byDay[day])
	}
	return out
}
