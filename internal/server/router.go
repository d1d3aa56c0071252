package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/batmedia/docpress/internal/config"
	"github.com/batmedia/docpress/internal/export"
	"github.com/batmedia/docpress/internal/handlers"
	"github.com/batmedia/docpress/internal/httpx"
	"github.com/batmedia/docpress/internal/middleware"
	"github.com/batmedia/docpress/internal/session"
	"github.com/batmedia/docpress/internal/store"
)

// Deps bundles what the router needs.
type Deps struct {
	Config    config.Config
	Workspace *session.Workspace
	Store     *store.Store
	Exporter  *export.Exporter
	Log       *zap.Logger
}

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	page := handlers.NewPageHandler(d.Workspace, d.Store, d.Config, d.Log)
	mux.HandleFunc("GET /", page.Show)

	ws := handlers.NewWorkspaceHandler(d.Workspace)
	mux.HandleFunc("POST /workspace", ws.Fields)
	mux.HandleFunc("POST /rows", ws.AddRow)
	mux.HandleFunc("POST /rows/update", ws.UpdateRow)
	mux.HandleFunc("POST /rows/delete", ws.DeleteRow)
	mux.HandleFunc("POST /rows/clear", ws.ClearRows)
	mux.HandleFunc("POST /tab", ws.Tab)

	exp := handlers.NewExportHandler(d.Workspace, d.Exporter, d.Config.PDFOptions(), d.Config.ExportDPI, d.Log)
	mux.HandleFunc("GET /preview.png", exp.Preview)
	mux.HandleFunc("GET /export/png", exp.PNG)
	mux.HandleFunc("GET /export/pdf", exp.PDF)
	mux.HandleFunc("GET /preview/last.png", exp.LastPreviewPNG)
	mux.HandleFunc("GET /preview/last.pdf", exp.LastPreviewPDF)

	hist := handlers.NewHistoryHandler(d.Workspace, d.Store, d.Exporter, d.Log)
	mux.HandleFunc("GET /history", hist.List)
	mux.HandleFunc("POST /history", hist.Save)
	mux.HandleFunc("POST /history/delete", hist.Delete)
	mux.HandleFunc("POST /history/load", hist.Load)
	mux.HandleFunc("GET /history/download", hist.Download)

	sales := handlers.NewSalesHandler(d.Store)
	mux.HandleFunc("GET /sales", sales.Report)

	// editor assets plus the offline worker and install manifest, served as
	// plain files; their internals are the browser's business
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	mux.HandleFunc("GET /service-worker.js", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "static/service-worker.js")
	})
	mux.HandleFunc("GET /manifest.webmanifest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/manifest+json")
		http.ServeFile(w, r, "static/manifest.webmanifest")
	})

	return middleware.Recover(d.Log, middleware.RequestLog(d.Log, mux))
}
