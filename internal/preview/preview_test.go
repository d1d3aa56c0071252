package preview

import (
	"strings"
	"testing"
	"time"

	"github.com/batmedia/docpress/internal/ledger"
	"github.com/batmedia/docpress/internal/models"
)

func invoiceLedger() *ledger.Ledger {
	l := ledger.New(models.KindInvoice)
	l.DocNumber = "INV-42"
	l.Date = "1/2/2026"
	l.BillTo = "Acme Ltd"
	l.Reason = "Design work"
	l.AmountPaid = 10000
	l.AddRowWith("Design work", 1, 30000)
	l.AddRowWith("Hosting", 2, 5000)
	return l
}

func TestProjectInvoice(t *testing.T) {
	doc := Project(invoiceLedger(), models.Company{Name: "BAT Media", Tag: "We print things", Address: "Plot 1\nKampala"})
	if doc.Total != 40000 {
		t.Fatalf("total = %d, want 40000", doc.Total)
	}
	if doc.BalanceText != "30,000" {
		t.Fatalf("balance = %q, want 30,000", doc.BalanceText)
	}
	if doc.AmountWords != "Forty Thousand only" {
		t.Fatalf("words = %q", doc.AmountWords)
	}
	if len(doc.AddressLines) != 2 || doc.AddressLines[1] != "Kampala" {
		t.Fatalf("address lines = %#v", doc.AddressLines)
	}
	if !strings.HasPrefix(doc.QRPayload, "INVOICE|No:INV-42|Date:1/2/2026|Total:40000") {
		t.Fatalf("qr payload = %q", doc.QRPayload)
	}
	if len(doc.Rows) != 2 || doc.Rows[1].Index != 2 {
		t.Fatalf("rows = %#v", doc.Rows)
	}
}

func TestProjectDefaultsDateToToday(t *testing.T) {
	l := invoiceLedger()
	l.Date = ""
	doc := Project(l, models.Company{})
	want := time.Now().Format("2/1/2006")
	if doc.Date != want {
		t.Fatalf("date = %q, want today %q", doc.Date, want)
	}
}

func TestProjectBillionTotal(t *testing.T) {
	l := ledger.New(models.KindInvoice)
	l.AddRowWith("Campaign run", 20000, 150000)
	doc := Project(l, models.Company{})
	if doc.Total != 3_000_000_000 {
		t.Fatalf("total = %d", doc.Total)
	}
	if doc.AmountWords != "Three Billion only" {
		t.Fatalf("words = %q", doc.AmountWords)
	}
}

func TestProjectBalanceNeverNegative(t *testing.T) {
	l := invoiceLedger()
	l.AmountPaid = 1_000_000
	doc := Project(l, models.Company{})
	if doc.BalanceText != "0" {
		t.Fatalf("balance = %q, want 0", doc.BalanceText)
	}
}

func TestProjectReceiptHasNoPaidBlock(t *testing.T) {
	l := ledger.New(models.KindReceipt)
	l.AddRowWith("Design work", 1, 150000)
	doc := Project(l, models.Company{})
	if doc.IsInvoice() {
		t.Fatalf("receipt projected as invoice")
	}
	if doc.PaidText != "" || doc.BalanceText != "" {
		t.Fatalf("receipt should not carry paid/balance: %q %q", doc.PaidText, doc.BalanceText)
	}
	if !strings.HasPrefix(doc.QRPayload, "RECEIPT|") {
		t.Fatalf("qr payload = %q", doc.QRPayload)
	}
}

func TestPlaceholderImagesStayHidden(t *testing.T) {
	doc := Project(invoiceLedger(), models.Company{
		Logo:      PlaceholderLogo,
		Signature: PlaceholderSignature,
	})
	if doc.LogoRef != "" || doc.SignatureRef != "" {
		t.Fatalf("placeholder refs leaked: %q %q", doc.LogoRef, doc.SignatureRef)
	}
	doc = Project(invoiceLedger(), models.Company{Signature: "data:image/png;base64,AAAA"})
	if doc.SignatureRef == "" {
		t.Fatalf("real signature ref dropped")
	}
}
