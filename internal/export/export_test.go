package export

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/batmedia/docpress/internal/models"
	"github.com/batmedia/docpress/internal/paginate"
	"github.com/batmedia/docpress/internal/qr"
	"github.com/batmedia/docpress/internal/raster"
	"github.com/batmedia/docpress/internal/session"
)

func newTestExporter() *Exporter {
	renderer := raster.NewRenderer(zap.NewNop(), qr.NewGenerator(zap.NewNop(), qr.DefaultSize))
	return New(zap.NewNop(), renderer, paginate.Options{Quality: 0.85, MultiPage: true})
}

func TestPNGExportWidthAndName(t *testing.T) {
	ws := session.New()
	ws.Update(func(s *session.State) { s.Invoice.DocNumber = "INV-5" })
	e := newTestExporter()

	name, data, err := e.PNG(ws, 100)
	if err != nil {
		t.Fatalf("png export: %v", err)
	}
	if name != "invoice_INV-5.png" {
		t.Fatalf("filename = %q", name)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if got, want := img.Bounds().Dx(), raster.PageWidthPx(100); got != want {
		t.Fatalf("export width = %d, want %d", got, want)
	}
}

func TestPDFExport(t *testing.T) {
	ws := session.New()
	e := newTestExporter()
	name, data, err := e.PDF(ws, 72, 0.7)
	if err != nil {
		t.Fatalf("pdf export: %v", err)
	}
	if !strings.HasSuffix(name, ".pdf") || !strings.HasPrefix(name, "invoice_") {
		t.Fatalf("filename = %q", name)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestBusyGuardRejectsConcurrentExport(t *testing.T) {
	ws := session.New()
	e := newTestExporter()
	if err := e.acquire(); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if _, _, err := e.PNG(ws, 72); !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	e.release()
	if _, _, err := e.PNG(ws, 72); err != nil {
		t.Fatalf("export after release: %v", err)
	}
}

func TestGuardReleasedAfterFailure(t *testing.T) {
	ws := session.New()
	e := newTestExporter()
	// a failed capture must not leave the exporter stuck busy
	if _, err := e.renderer.RenderToPage(nil, 100); err == nil {
		t.Fatalf("expected render failure")
	}
	if _, _, err := e.PNG(ws, 100); err != nil {
		t.Fatalf("export after failure: %v", err)
	}
}

func TestPreviewStoredForModal(t *testing.T) {
	ws := session.New()
	e := newTestExporter()
	data, err := e.Preview(ws, 72)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	stored := ws.TakeLastPreview()
	if !bytes.Equal(data, stored) {
		t.Fatalf("last preview differs from returned capture")
	}
}

func TestThumbnailDataURL(t *testing.T) {
	ws := session.New()
	e := newTestExporter()
	ref, err := e.Thumbnail(ws, models.KindReceipt)
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	img, err := raster.DecodeDataURL(ref)
	if err != nil {
		t.Fatalf("thumbnail is not a decodable data url: %v", err)
	}
	if img.Bounds().Dx() != ThumbnailWidth {
		t.Fatalf("thumbnail width = %d, want %d", img.Bounds().Dx(), ThumbnailWidth)
	}
}

func TestFilenameFallsBackToTimestamp(t *testing.T) {
	name := Filename(models.KindReceipt, "", "png")
	if !strings.HasPrefix(name, "receipt_") || !strings.HasSuffix(name, ".png") {
		t.Fatalf("filename = %q", name)
	}
	if name == "receipt_.png" {
		t.Fatalf("missing timestamp fallback")
	}
}
