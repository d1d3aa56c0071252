// Package preview projects a ledger into the read-only styled document view.
// The projection is a pure function of the ledger and company fields; it
// carries pre-formatted strings so the HTML template and the rasterizer
// render the exact same document.
package preview

import (
	"strings"
	"time"

	"github.com/batmedia/docpress/internal/ledger"
	"github.com/batmedia/docpress/internal/models"
	"github.com/batmedia/docpress/internal/qr"
	"github.com/batmedia/docpress/internal/words"
)

// Placeholder sentinels shipped in the page markup. An image reference still
// equal to (or containing) its sentinel counts as unset and is not shown.
const (
	PlaceholderSignature = "INSERT_SIGNATURE_SRC_HERE"
	PlaceholderLogo      = "INSERT_LOGO_SRC_HERE"
)

// Row is one rendered line of the items table. Values are display strings;
// receipts additionally show the 1-based index.
type Row struct {
	Index       int
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// Document is the full view model of one preview region.
type Document struct {
	Kind         string
	CompanyName  string
	CompanyTag   string
	AddressLines []string
	DocNumber    string
	Date         string
	BillTo       string
	Reason       string
	Rows         []Row
	Total        int64
	TotalText    string
	PaidText     string
	BalanceText  string
	AmountWords  string
	QRPayload    string
	LogoRef      string
	SignatureRef string
}

// IsInvoice reports whether the paid/balance block applies.
func (d *Document) IsInvoice() bool { return d.Kind == models.KindInvoice }

// imageRef returns ref only when it has been set away from the placeholder.
func imageRef(ref, placeholder string) string {
	if ref == "" || strings.Contains(ref, placeholder) {
		return ""
	}
	return ref
}

// Project renders the ledger into a Document. The date defaults to today
// when unset; address newlines become separate lines.
func Project(l *ledger.Ledger, c models.Company) Document {
	date := l.Date
	if date == "" {
		date = time.Now().Format("2/1/2006")
	}

	d := Document{
		Kind:         l.Kind,
		CompanyName:  c.Name,
		CompanyTag:   c.Tag,
		DocNumber:    l.DocNumber,
		Date:         date,
		BillTo:       l.BillTo,
		Reason:       l.Reason,
		LogoRef:      imageRef(c.Logo, PlaceholderLogo),
		SignatureRef: imageRef(c.Signature, PlaceholderSignature),
	}
	if c.Address != "" {
		d.AddressLines = strings.Split(strings.ReplaceAll(c.Address, "\r\n", "\n"), "\n")
	}

	for i, it := range l.Items {
		d.Rows = append(d.Rows, Row{
			Index:       i + 1,
			Description: it.Description,
			Quantity:    words.FormatNumber(it.Quantity),
			UnitPrice:   words.FormatNumber(it.UnitPrice),
			Amount:      words.FormatNumber(ledger.Amount(it)),
		})
	}

	d.Total = l.Total()
	d.TotalText = words.FormatInt(d.Total)
	d.AmountWords = words.NumberToWords(d.Total) + " only"
	if l.Kind == models.KindInvoice {
		d.PaidText = words.FormatNumber(l.AmountPaid)
		d.BalanceText = words.FormatInt(l.Balance())
	}
	d.QRPayload = qr.Payload(l.Kind, l.DocNumber, l.Date, d.Total)
	return d
}
