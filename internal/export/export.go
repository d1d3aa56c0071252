// Package export drives the capture pipeline: sync the preview projection
// from the ledger, rasterize it, then encode to PNG or paginate into a PDF.
// One export runs at a time per workspace; a second request while busy is
// rejected instead of interleaving captures.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/batmedia/docpress/internal/paginate"
	"github.com/batmedia/docpress/internal/preview"
	"github.com/batmedia/docpress/internal/raster"
	"github.com/batmedia/docpress/internal/session"
)

// ErrBusy is returned when an export is requested while another is running.
var ErrBusy = errors.New("an export is already in progress")

// ThumbnailDPI and ThumbnailWidth size the history-list thumbnails.
const (
	ThumbnailDPI   = 150
	ThumbnailWidth = 220
)

// Exporter runs capture requests serially.
type Exporter struct {
	log      *zap.Logger
	renderer *raster.Renderer
	pdfOpts  paginate.Options
	busy     atomic.Bool
}

func New(log *zap.Logger, renderer *raster.Renderer, pdfOpts paginate.Options) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{log: log, renderer: renderer, pdfOpts: pdfOpts}
}

func (e *Exporter) acquire() error {
	if !e.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (e *Exporter) release() { e.busy.Store(false) }

// capture is the shared Syncing → Rasterizing front of every export path.
func (e *Exporter) capture(ws *session.Workspace, kind string, dpi int) (*image.RGBA, error) {
	start := time.Now()
	l, company := ws.View(kind)
	doc := preview.Project(&l, company)
	img, err := e.renderer.RenderToPage(&doc, dpi)
	if err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", kind, err)
	}
	e.log.Debug("capture complete",
		zap.String("kind", kind),
		zap.Int("dpi", dpi),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Duration("took", time.Since(start)))
	return img, nil
}

// Preview captures the active document as PNG bytes for the preview modal
// and remembers them as the workspace's last preview.
func (e *Exporter) Preview(ws *session.Workspace, dpi int) ([]byte, error) {
	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()

	img, err := e.capture(ws, ws.Active(), dpi)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	ws.SetLastPreview(buf.Bytes())
	return buf.Bytes(), nil
}

// PNG captures the active document and returns the download filename plus
// the encoded bytes.
func (e *Exporter) PNG(ws *session.Workspace, dpi int) (string, []byte, error) {
	if err := e.acquire(); err != nil {
		return "", nil, err
	}
	defer e.release()

	kind := ws.Active()
	img, err := e.capture(ws, kind, dpi)
	if err != nil {
		return "", nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, fmt.Errorf("encode png: %w", err)
	}
	l, _ := ws.View(kind)
	return Filename(kind, l.DocNumber, "png"), buf.Bytes(), nil
}

// PDF captures the active document, slices it into pages and returns the
// assembled document. quality overrides the configured JPEG quality when in
// (0,1]. The PDF is built fully in memory; a failure yields no bytes.
func (e *Exporter) PDF(ws *session.Workspace, dpi int, quality float64) (string, []byte, error) {
	if err := e.acquire(); err != nil {
		return "", nil, err
	}
	defer e.release()

	kind := ws.Active()
	img, err := e.capture(ws, kind, dpi)
	if err != nil {
		return "", nil, err
	}
	opts := e.pdfOpts
	if quality > 0 && quality <= 1 {
		opts.Quality = quality
	}
	var buf bytes.Buffer
	if err := paginate.Assemble(&buf, img, raster.ClampDPI(dpi), opts); err != nil {
		return "", nil, err
	}
	l, _ := ws.View(kind)
	return Filename(kind, l.DocNumber, "pdf"), buf.Bytes(), nil
}

// Thumbnail renders a small capture of the given document as a PNG data URL
// for the history list.
func (e *Exporter) Thumbnail(ws *session.Workspace, kind string) (string, error) {
	if err := e.acquire(); err != nil {
		return "", err
	}
	defer e.release()

	img, err := e.capture(ws, kind, ThumbnailDPI)
	if err != nil {
		return "", err
	}
	return raster.EncodePNGDataURL(raster.ScaleToWidth(img, ThumbnailWidth))
}

// Filename names a download `<kind>_<docNumber-or-timestamp>.<ext>`.
func Filename(kind, docNumber, ext string) string {
	if docNumber == "" {
		docNumber = fmt.Sprintf("%d", time.Now().UnixMilli())
	}
	return fmt.Sprintf("%s_%s.%s", kind, docNumber, ext)
}
