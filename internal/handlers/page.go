package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/batmedia/docpress/internal/config"
	"github.com/batmedia/docpress/internal/models"
	"github.com/batmedia/docpress/internal/preview"
	"github.com/batmedia/docpress/internal/session"
	"github.com/batmedia/docpress/internal/store"
	"github.com/batmedia/docpress/internal/view"
)

// PageHandler renders the single editor page with both previews, the saved
// history and the sales report.
type PageHandler struct {
	ws  *session.Workspace
	st  *store.Store
	cfg config.Config
	log *zap.Logger
}

func NewPageHandler(ws *session.Workspace, st *store.Store, cfg config.Config, log *zap.Logger) *PageHandler {
	return &PageHandler{ws: ws, st: st, cfg: cfg, log: log}
}

func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	invLedger, company := h.ws.View(models.KindInvoice)
	recLedger, _ := h.ws.View(models.KindReceipt)
	invDoc := preview.Project(&invLedger, company)
	recDoc := preview.Project(&recLedger, company)

	sales := h.st.LoadSales()
	data := map[string]any{
		"Active":     h.ws.Active(),
		"Company":    company,
		"Invoice":    invLedger,
		"Receipt":    recLedger,
		"InvoiceDoc": invDoc,
		"ReceiptDoc": recDoc,
		"History":    h.st.LoadHistory(),
		"Summary":    store.Summarize(sales),
		"SalesByDay": store.GroupSalesByDay(sales),
		"ExportDPI":  h.cfg.ExportDPI,
		"PDFQuality": h.cfg.PDFQuality,
	}
	if err := view.Render(w, "editor.html", data); err != nil {
		h.log.Error("render editor page", zap.Error(err))
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}
