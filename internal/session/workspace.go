// Package session owns the editor's canonical state: both ledgers, the
// company fields and the active tab. Handlers mutate it under its lock and
// the preview is always re-projected from it, never the other way round.
package session

import (
	"sync"
	"time"

	"github.com/batmedia/docpress/internal/ledger"
	"github.com/batmedia/docpress/internal/models"
)

// Workspace is the single controller object for one running app instance.
// State lives for the process lifetime; History outlives it via the store.
type Workspace struct {
	mu      sync.Mutex
	company models.Company
	invoice *ledger.Ledger
	receipt *ledger.Ledger
	active  string

	// lastPreview holds the most recent preview capture for the modal's
	// download buttons; it is cleared when consumed.
	lastPreview []byte
}

// New creates a workspace with one seeded starter row per document.
func New() *Workspace {
	w := &Workspace{
		invoice: ledger.New(models.KindInvoice),
		receipt: ledger.New(models.KindReceipt),
		active:  models.KindInvoice,
	}
	w.invoice.AddRowWith("Design work", 1, 30000)
	w.receipt.AddRowWith("Design work", 1, 150000)
	return w
}

// Update runs fn with exclusive access to the workspace state.
func (w *Workspace) Update(fn func(s *State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&State{Company: &w.company, Invoice: w.invoice, Receipt: w.receipt, active: &w.active})
}

// State is the view handed to Update callbacks.
type State struct {
	Company *models.Company
	Invoice *ledger.Ledger
	Receipt *ledger.Ledger
	active  *string
}

// Ledger returns the ledger for a kind, defaulting to the invoice.
func (s *State) Ledger(kind string) *ledger.Ledger {
	if kind == models.KindReceipt {
		return s.Receipt
	}
	return s.Invoice
}

// SetActive switches the active tab if kind is valid.
func (s *State) SetActive(kind string) {
	if kind == models.KindInvoice || kind == models.KindReceipt {
		*s.active = kind
	}
}

// Active returns the kind the next export captures.
func (w *Workspace) Active() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// View copies out the state needed for a projection, so rendering happens
// outside the lock.
func (w *Workspace) View(kind string) (ledger.Ledger, models.Company) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var src *ledger.Ledger
	if kind == models.KindReceipt {
		src = w.receipt
	} else {
		src = w.invoice
	}
	l := *src
	l.Items = append([]models.LineItem(nil), src.Items...)
	return l, w.company
}

// SetLastPreview stores the preview capture for later modal downloads.
func (w *Workspace) SetLastPreview(data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastPreview = data
}

// TakeLastPreview returns and clears the stored preview capture.
func (w *Workspace) TakeLastPreview() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	data := w.lastPreview
	w.lastPreview = nil
	return data
}

// Snapshot captures the full workspace state as an immutable history record.
// The thumbnail is attached by the caller once rendered.
func (w *Workspace) Snapshot() models.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return models.Snapshot{
		ID:        time.Now().UnixMilli(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Kind:      w.active,
		Meta: models.SnapshotMeta{
			CompanyName: w.company.Name,
			DocNumber:   w.invoice.DocNumber,
			BillTo:      w.invoice.BillTo,
		},
		Images: models.SnapshotImages{
			Logo:      w.company.Logo,
			Signature: w.company.Signature,
		},
		Items:        append([]models.LineItem(nil), w.invoice.Items...),
		ReceiptItems: append([]models.LineItem(nil), w.receipt.Items...),
		Total:        w.invoice.Total(),
		Paid:         w.invoice.AmountPaid,
	}
}

// ApplySnapshot restores a saved snapshot: rows, scalar fields, images and
// the active kind reproduce the saved state exactly.
func (w *Workspace) ApplySnapshot(snap models.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.company.Name = snap.Meta.CompanyName
	if snap.Images.Signature != "" {
		w.company.Signature = snap.Images.Signature
	}
	if snap.Images.Logo != "" {
		w.company.Logo = snap.Images.Logo
	}
	for _, l := range []*ledger.Ledger{w.invoice, w.receipt} {
		l.DocNumber = snap.Meta.DocNumber
		l.BillTo = snap.Meta.BillTo
	}
	w.invoice.Items = append([]models.LineItem(nil), snap.Items...)
	w.receipt.Items = append([]models.LineItem(nil), snap.ReceiptItems...)
	w.invoice.AmountPaid = snap.Paid
	if snap.Kind == models.KindReceipt || snap.Kind == models.KindInvoice {
		w.active = snap.Kind
	}
}
