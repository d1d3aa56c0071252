package ledger

import (
	"math"

	"github.com/batmedia/docpress/internal/models"
)

// Ledger is the canonical, ordered list of line items for one document plus
// its scalar fields. The preview never holds row data of its own; it is
// always re-projected from here.
type Ledger struct {
	Kind       string
	DocNumber  string
	Date       string
	BillTo     string
	Reason     string
	AmountPaid float64 // invoice only; receipts ignore it
	Items      []models.LineItem
}

func New(kind string) *Ledger {
	return &Ledger{Kind: kind}
}

// AddRow appends an empty row with the editor defaults ("", 1, 0).
func (l *Ledger) AddRow() {
	l.AddRowWith("", 1, 0)
}

// AddRowWith appends a row with explicit values.
func (l *Ledger) AddRowWith(desc string, qty, price float64) {
	l.Items = append(l.Items, models.LineItem{Description: desc, Quantity: qty, UnitPrice: price})
}

// RemoveRow deletes the row at index i. Out-of-range indices are a no-op and
// report false; receipt display numbering is recomputed on the next render,
// not here.
func (l *Ledger) RemoveRow(i int) bool {
	if i < 0 || i >= len(l.Items) {
		return false
	}
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
	return true
}

// Clear empties all rows and resets the scalar fields. The ledger itself is
// never deleted.
func (l *Ledger) Clear() {
	l.Items = nil
	l.DocNumber = ""
	l.Date = ""
	l.BillTo = ""
	l.Reason = ""
	l.AmountPaid = 0
}

// sanitize coerces the junk the editor can feed us (NaN from bad form input,
// negatives that slipped past the client) to zero so totals never fail.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Amount returns the sanitized quantity × unit price for one row.
func Amount(it models.LineItem) float64 {
	return sanitize(it.Quantity) * sanitize(it.UnitPrice)
}

// Total returns the sum of row amounts rounded to the nearest whole currency
// unit.
func (l *Ledger) Total() int64 {
	var sum float64
	for _, it := range l.Items {
		sum += Amount(it)
	}
	return int64(math.Round(sum))
}

// Balance returns max(0, total − amount paid). It is never negative.
func (l *Ledger) Balance() int64 {
	b := l.Total() - int64(math.Round(sanitize(l.AmountPaid)))
	if b < 0 {
		return 0
	}
	return b
}
