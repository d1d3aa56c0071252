package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/batmedia/docpress/internal/export"
	"github.com/batmedia/docpress/internal/httpx"
	"github.com/batmedia/docpress/internal/paginate"
	"github.com/batmedia/docpress/internal/raster"
	"github.com/batmedia/docpress/internal/session"
)

// ExportHandler serves the capture endpoints. All failures surface as one
// toast-style JSON message; the busy-guard maps to 409 so the UI can tell
// "try again" apart from "it broke".
type ExportHandler struct {
	ws       *session.Workspace
	exporter *export.Exporter
	pdfOpts  paginate.Options
	dpiDef   int
	log      *zap.Logger
}

func NewExportHandler(ws *session.Workspace, exporter *export.Exporter, pdfOpts paginate.Options, defaultDPI int, log *zap.Logger) *ExportHandler {
	return &ExportHandler{ws: ws, exporter: exporter, pdfOpts: pdfOpts, dpiDef: defaultDPI, log: log}
}

func (h *ExportHandler) dpi(r *http.Request) int {
	if v := r.URL.Query().Get("dpi"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return h.dpiDef
}

func (h *ExportHandler) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, export.ErrBusy) {
		httpx.Toast(w, http.StatusConflict, "An export is already running")
		return
	}
	h.log.Warn("export failed", zap.String("op", op), zap.Error(err))
	httpx.Toast(w, http.StatusInternalServerError, "Export failed, please try again")
}

// Preview captures the active document at the requested resolution and
// returns it inline for the preview modal.
func (h *ExportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	data, err := h.exporter.Preview(h.ws, h.dpi(r))
	if err != nil {
		h.fail(w, "preview", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(data); err != nil {
		_ = err
	}
}

// PNG downloads the active document as a PNG capture.
func (h *ExportHandler) PNG(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.exporter.PNG(h.ws, h.dpi(r))
	if err != nil {
		h.fail(w, "png", err)
		return
	}
	httpx.Download(w, name, "image/png", data)
}

// PDF downloads the active document as a paginated PDF.
func (h *ExportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	quality := 0.0
	if v := r.URL.Query().Get("quality"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			quality = f
		}
	}
	name, data, err := h.exporter.PDF(h.ws, h.dpi(r), quality)
	if err != nil {
		h.fail(w, "pdf", err)
		return
	}
	httpx.Download(w, name, "application/pdf", data)
}

// LastPreviewPNG downloads the capture shown in the preview modal. The
// stored capture is consumed by the download.
func (h *ExportHandler) LastPreviewPNG(w http.ResponseWriter, r *http.Request) {
	data := h.ws.TakeLastPreview()
	if data == nil {
		httpx.Toast(w, http.StatusNotFound, "No preview to download")
		return
	}
	httpx.Download(w, fmt.Sprintf("preview_%d.png", time.Now().UnixMilli()), "image/png", data)
}

// LastPreviewPDF re-wraps the modal capture as a PDF.
func (h *ExportHandler) LastPreviewPDF(w http.ResponseWriter, r *http.Request) {
	data := h.ws.TakeLastPreview()
	if data == nil {
		httpx.Toast(w, http.StatusNotFound, "No preview to download")
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		h.fail(w, "preview-pdf", err)
		return
	}
	dpi := raster.ClampDPI(h.dpi(r))
	var buf bytes.Buffer
	if err := paginate.Assemble(&buf, img, dpi, h.pdfOpts); err != nil {
		h.fail(w, "preview-pdf", err)
		return
	}
	httpx.Download(w, fmt.Sprintf("preview_%d.pdf", time.Now().UnixMilli()), "application/pdf", buf.Bytes())
}
