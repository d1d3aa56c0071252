package handlers

import (
	"net/http"

	"github.com/batmedia/docpress/internal/httpx"
	"github.com/batmedia/docpress/internal/store"
)

// SalesHandler serves the sales ledger report. The day grouping is computed
// per request; only the flat ledger is persisted.
type SalesHandler struct {
	st *store.Store
}

func NewSalesHandler(st *store.Store) *SalesHandler {
	return &SalesHandler{st: st}
}

func (h *SalesHandler) Report(w http.ResponseWriter, r *http.Request) {
	records := h.st.LoadSales()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"summary":  store.Summarize(records),
		"currency": "UGX",
		"byDay":    store.GroupSalesByDay(records),
	})
}
