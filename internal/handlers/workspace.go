package handlers

import (
	"net/http"
	"strconv"

	"github.com/batmedia/docpress/internal/httpx"
	"github.com/batmedia/docpress/internal/session"
)

// WorkspaceHandler mutates the canonical editor state. Every mutation
// redirects back to the page, which re-projects the preview from the ledger.
type WorkspaceHandler struct {
	ws *session.Workspace
}

func NewWorkspaceHandler(ws *session.Workspace) *WorkspaceHandler {
	return &WorkspaceHandler{ws: ws}
}

// number coerces form input to a float; anything non-numeric (or negative)
// silently becomes zero, it never surfaces as an error.
func number(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// Fields applies the scalar field edits. Document fields go to both ledgers
// since both previews coexist and either may be the active tab.
func (h *WorkspaceHandler) Fields(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_form", nil)
		return
	}
	h.ws.Update(func(s *session.State) {
		set := func(key string, dst *string) {
			if r.Form.Has(key) {
				*dst = r.FormValue(key)
			}
		}
		set("companyName", &s.Company.Name)
		set("companyTag", &s.Company.Tag)
		set("companyAddress", &s.Company.Address)
		set("logo", &s.Company.Logo)
		set("signature", &s.Company.Signature)
		for _, l := range []*string{&s.Invoice.DocNumber, &s.Receipt.DocNumber} {
			set("docNo", l)
		}
		for _, l := range []*string{&s.Invoice.Date, &s.Receipt.Date} {
			set("docDate", l)
		}
		for _, l := range []*string{&s.Invoice.BillTo, &s.Receipt.BillTo} {
			set("billTo", l)
		}
		for _, l := range []*string{&s.Invoice.Reason, &s.Receipt.Reason} {
			set("reason", l)
		}
		if r.Form.Has("amountPaid") {
			s.Invoice.AmountPaid = number(r.FormValue("amountPaid"))
		}
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// AddRow appends a row; missing values take the editor defaults ("", 1, 0).
func (h *WorkspaceHandler) AddRow(w http.ResponseWriter, r *http.Request) {
	kind := r.FormValue("kind")
	h.ws.Update(func(s *session.State) {
		l := s.Ledger(kind)
		if !r.Form.Has("desc") && !r.Form.Has("qty") && !r.Form.Has("price") {
			l.AddRow()
			return
		}
		qty := 1.0
		if r.Form.Has("qty") {
			qty = number(r.FormValue("qty"))
		}
		l.AddRowWith(r.FormValue("desc"), qty, number(r.FormValue("price")))
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// UpdateRow edits one row in place.
func (h *WorkspaceHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_index", nil)
		return
	}
	ok := false
	h.ws.Update(func(s *session.State) {
		l := s.Ledger(r.FormValue("kind"))
		if idx < 0 || idx >= len(l.Items) {
			return
		}
		it := &l.Items[idx]
		if r.Form.Has("desc") {
			it.Description = r.FormValue("desc")
		}
		if r.Form.Has("qty") {
			it.Quantity = number(r.FormValue("qty"))
		}
		if r.Form.Has("price") {
			it.UnitPrice = number(r.FormValue("price"))
		}
		ok = true
	})
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "row_not_found", nil)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteRow removes one row by index.
func (h *WorkspaceHandler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_index", nil)
		return
	}
	h.ws.Update(func(s *session.State) {
		s.Ledger(r.FormValue("kind")).RemoveRow(idx)
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ClearRows empties a ledger (rows removed, scalars reset).
func (h *WorkspaceHandler) ClearRows(w http.ResponseWriter, r *http.Request) {
	h.ws.Update(func(s *session.State) {
		s.Ledger(r.FormValue("kind")).Clear()
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Tab switches the active document kind.
func (h *WorkspaceHandler) Tab(w http.ResponseWriter, r *http.Request) {
	h.ws.Update(func(s *session.State) {
		s.SetActive(r.FormValue("kind"))
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
