package session

import (
	"reflect"
	"testing"

	"github.com/batmedia/docpress/internal/models"
)

func TestNewSeedsStarterRows(t *testing.T) {
	w := New()
	inv, _ := w.View(models.KindInvoice)
	rec, _ := w.View(models.KindReceipt)
	if len(inv.Items) != 1 || inv.Items[0].UnitPrice != 30000 {
		t.Fatalf("invoice starter row = %+v", inv.Items)
	}
	if len(rec.Items) != 1 || rec.Items[0].UnitPrice != 150000 {
		t.Fatalf("receipt starter row = %+v", rec.Items)
	}
	if w.Active() != models.KindInvoice {
		t.Fatalf("active = %q, want invoice", w.Active())
	}
}

func TestViewCopiesRows(t *testing.T) {
	w := New()
	l, _ := w.View(models.KindInvoice)
	l.Items[0].Description = "mutated copy"
	fresh, _ := w.View(models.KindInvoice)
	if fresh.Items[0].Description == "mutated copy" {
		t.Fatalf("View leaked a mutable reference to the canonical rows")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	w := New()
	w.Update(func(s *State) {
		s.Company.Name = "BAT Media"
		s.Company.Signature = "data:image/png;base64,SIG"
		s.Company.Logo = "data:image/png;base64,LOGO"
		s.Invoice.DocNumber = "INV-9"
		s.Invoice.BillTo = "Acme"
		s.Invoice.AmountPaid = 12000
		s.Receipt.DocNumber = "INV-9"
		s.Receipt.BillTo = "Acme"
		s.Invoice.AddRowWith("Extra", 2, 4000)
		s.SetActive(models.KindReceipt)
	})
	snap := w.Snapshot()
	if snap.Kind != models.KindReceipt || snap.Meta.DocNumber != "INV-9" || snap.Paid != 12000 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Total != 38000 {
		t.Fatalf("snapshot total = %d, want 38000", snap.Total)
	}

	// wreck the workspace, then restore
	restored := New()
	restored.ApplySnapshot(snap)
	inv, company := restored.View(models.KindInvoice)
	rec, _ := restored.View(models.KindReceipt)
	if company.Name != "BAT Media" || company.Signature != "data:image/png;base64,SIG" {
		t.Fatalf("company not restored: %+v", company)
	}
	if inv.DocNumber != "INV-9" || inv.BillTo != "Acme" || inv.AmountPaid != 12000 {
		t.Fatalf("invoice scalars not restored: %+v", inv)
	}
	if !reflect.DeepEqual(inv.Items, snap.Items) {
		t.Fatalf("invoice rows differ:\n got %+v\nwant %+v", inv.Items, snap.Items)
	}
	if !reflect.DeepEqual(rec.Items, snap.ReceiptItems) {
		t.Fatalf("receipt rows differ:\n got %+v\nwant %+v", rec.Items, snap.ReceiptItems)
	}
	if restored.Active() != models.KindReceipt {
		t.Fatalf("active kind not restored: %q", restored.Active())
	}
}

func TestLastPreviewConsumedOnce(t *testing.T) {
	w := New()
	if w.TakeLastPreview() != nil {
		t.Fatalf("fresh workspace should have no preview")
	}
	w.SetLastPreview([]byte("png-bytes"))
	if got := w.TakeLastPreview(); string(got) != "png-bytes" {
		t.Fatalf("take = %q", got)
	}
	if w.TakeLastPreview() != nil {
		t.Fatalf("preview must be cleared on consumption")
	}
}
