package models

import "encoding/json"

// Document kinds produced by the editor. Both previews coexist in the UI;
// the active kind decides which one an export captures.
const (
	KindInvoice = "invoice"
	KindReceipt = "receipt"
)

// LineItem is one editable row of a document ledger. It is never persisted
// on its own, only inside a Snapshot.
type LineItem struct {
	Description string  `json:"desc"`
	Quantity    float64 `json:"qty"`
	UnitPrice   float64 `json:"price"`
}

// UnmarshalJSON also accepts the unit price under "unit", the key older
// stores use for receipt rows. New writes always use "price".
func (it *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description string   `json:"desc"`
		Quantity    float64  `json:"qty"`
		Price       *float64 `json:"price"`
		Unit        *float64 `json:"unit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	it.Description = raw.Description
	it.Quantity = raw.Quantity
	switch {
	case raw.Price != nil:
		it.UnitPrice = *raw.Price
	case raw.Unit != nil:
		it.UnitPrice = *raw.Unit
	default:
		it.UnitPrice = 0
	}
	return nil
}

// Company holds the business identity shown in the document header plus the
// logo/signature image references (data URLs once the user sets them).
type Company struct {
	Name      string `json:"companyName"`
	Tag       string `json:"companyTag"`
	Address   string `json:"companyAddress"`
	Logo      string `json:"logo"`
	Signature string `json:"signature"`
}

// SnapshotMeta is the subset of scalar fields kept on a saved document.
type SnapshotMeta struct {
	CompanyName string `json:"companyName"`
	DocNumber   string `json:"docNo"`
	BillTo      string `json:"billTo"`
}

// SnapshotImages carries the image references captured at save time.
type SnapshotImages struct {
	Logo      string `json:"logo"`
	Signature string `json:"signature"`
}

// Snapshot is an immutable saved copy of the workspace: both ledgers, the
// derived totals and a small PNG thumbnail encoded as a data URL. The JSON
// field names are the store's wire format and may only grow, never change.
type Snapshot struct {
	ID           int64          `json:"id"`
	CreatedAt    string         `json:"createdAt"`
	Kind         string         `json:"type"`
	Meta         SnapshotMeta   `json:"meta"`
	Images       SnapshotImages `json:"images"`
	Items        []LineItem     `json:"items"`
	ReceiptItems []LineItem     `json:"ritems"`
	Total        int64          `json:"total"`
	Paid         float64        `json:"paid"`
	Thumb        string         `json:"thumb,omitempty"`
}

// SaleRecord is the lightweight sales-ledger entry written alongside each
// Snapshot.
type SaleRecord struct {
	ID        int64   `json:"id"`
	CreatedAt string  `json:"createdAt"`
	Kind      string  `json:"type"`
	DocNumber string  `json:"docNo"`
	Customer  string  `json:"customer"`
	Total     int64   `json:"total"`
	Paid      float64 `json:"paid"`
}
