// Package raster renders a projected document to a pixel bitmap sized for
// print. The output width is always exactly round(8.27in × dpi) so the PDF
// path gets a pixel-exact A4 capture; height flows with content and may
// exceed one page.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/batmedia/docpress/internal/models"
	"github.com/batmedia/docpress/internal/preview"
	"github.com/batmedia/docpress/internal/qr"
)

const (
	// PageWidthInches is the A4 portrait width.
	PageWidthInches = 8.27

	// MinDPI and MaxDPI bound the requested resolution; values outside are
	// clamped rather than rejected.
	MinDPI = 72
	MaxDPI = 600

	// baseWidth is the document width in CSS pixels (8.27in at 96dpi); all
	// layout metrics below are CSS pixels scaled up to the target width.
	baseWidth = 794.0

	// baseMinHeight keeps a short document at full A4 height (11.69in at
	// 96dpi) so a one-row invoice still fills a page.
	baseMinHeight = 1123.0
)

// ErrRenderTargetMissing is returned when there is no document to capture.
var ErrRenderTargetMissing = errors.New("render target missing")

var (
	white  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ink    = color.RGBA{0x20, 0x24, 0x2a, 0xff}
	muted  = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	accent = color.RGBA{0x0f, 0x62, 0xfe, 0xff}
	hair   = color.RGBA{0xd7, 0xdb, 0xe0, 0xff}
	shade  = color.RGBA{0xf2, 0xf4, 0xf7, 0xff}
)

// PageWidthPx returns the exact bitmap width for a resolution.
func PageWidthPx(dpi int) int {
	return int(math.Round(PageWidthInches * float64(dpi)))
}

// ClampDPI bounds a requested resolution to the supported range, defaulting
// zero/negative values to 200.
func ClampDPI(dpi int) int {
	if dpi == 0 {
		dpi = 200
	}
	if dpi < MinDPI {
		return MinDPI
	}
	if dpi > MaxDPI {
		return MaxDPI
	}
	return dpi
}

// Renderer draws documents. It pre-encodes the QR symbol as a static image
// before layout (live symbol surfaces cannot be captured) and decodes
// logo/signature references up front; a bad reference degrades to omission.
type Renderer struct {
	log   *zap.Logger
	qrgen *qr.Generator
}

func NewRenderer(log *zap.Logger, qrgen *qr.Generator) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	if qrgen == nil {
		qrgen = qr.NewGenerator(log, qr.DefaultSize)
	}
	return &Renderer{log: log, qrgen: qrgen}
}

// layout carries the per-render scale and cursor.
type layout struct {
	img   *image.RGBA
	s     float64 // CSS px -> device px
	width int
	y     float64 // cursor in CSS px
}

func (lo *layout) px(css float64) int { return int(math.Round(css * lo.s)) }

// RenderToPage renders doc at the requested resolution. A nil document fails
// with ErrRenderTargetMissing instead of faulting.
func (r *Renderer) RenderToPage(doc *preview.Document, dpi int) (*image.RGBA, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document to capture", ErrRenderTargetMissing)
	}
	dpi = ClampDPI(dpi)
	width := PageWidthPx(dpi)
	s := float64(width) / baseWidth

	logo := decodeRef(r.log, doc.LogoRef, "logo")
	signature := decodeRef(r.log, doc.SignatureRef, "signature")
	var symbol image.Image
	if doc.QRPayload != "" {
		symbol = r.qrgen.EncodeAt(doc.QRPayload, int(math.Round(96*s)))
	}

	cssH := contentHeight(doc)
	if cssH < baseMinHeight {
		cssH = baseMinHeight
	}
	height := int(math.Ceil(cssH * s))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	lo := &layout{img: img, s: s, width: width, y: marginY}
	fs := newFontSet(s)

	drawHeader(lo, fs, doc, logo)
	drawMeta(lo, fs, doc)
	drawTable(lo, fs, doc)
	drawTotals(lo, fs, doc)
	drawFooter(lo, fs, doc, signature, symbol)

	return img, nil
}

// Layout metrics in CSS pixels.
const (
	marginX   = 48.0
	marginY   = 48.0
	rowH      = 28.0
	tableHdrH = 32.0
)

// contentHeight computes the flowed document height in CSS pixels. It must
// stay in lockstep with the draw functions below.
func contentHeight(doc *preview.Document) float64 {
	h := marginY
	h += 78 // header block (logo/company name/tag)
	h += float64(len(doc.AddressLines)) * 16
	h += 46 // title bar + rule
	h += 84 // meta block
	h += tableHdrH
	h += float64(len(doc.Rows)) * rowH
	if doc.IsInvoice() {
		h += 3 * 24 // total / paid / balance
	} else {
		h += 24 // total
	}
	h += 30  // amount in words
	h += 150 // signature + QR block
	h += marginY
	return h
}

func drawHeader(lo *layout, fs *fontSet, doc *preview.Document, logo image.Image) {
	x := marginX
	if logo != nil {
		drawImageScaled(lo, logo, marginX, lo.y, 64, 160)
		x += 80
	}
	drawText(lo, fs.title, ink, x, lo.y+30, doc.CompanyName)
	drawText(lo, fs.small, muted, x, lo.y+52, doc.CompanyTag)
	ay := lo.y + 70
	for _, line := range doc.AddressLines {
		drawText(lo, fs.small, muted, x, ay, line)
		ay += 16
	}
	lo.y += 78 + float64(len(doc.AddressLines))*16

	// title bar with accent rule
	drawTextRight(lo, fs.heading, accent, float64(lo.width)/lo.s-marginX, lo.y+22, strings.ToUpper(doc.Kind))
	fillRect(lo, marginX, lo.y+34, float64(lo.width)/lo.s-2*marginX, 3, accent)
	lo.y += 46
}

func drawMeta(lo *layout, fs *fontSet, doc *preview.Document) {
	right := float64(lo.width)/lo.s - marginX
	drawText(lo, fs.label, muted, marginX, lo.y+18, "Bill To")
	drawText(lo, fs.body, ink, marginX, lo.y+38, doc.BillTo)
	drawText(lo, fs.label, muted, marginX, lo.y+58, "Reason")
	drawText(lo, fs.body, ink, marginX, lo.y+78, doc.Reason)
	drawTextRight(lo, fs.body, ink, right, lo.y+18, "No: "+doc.DocNumber)
	drawTextRight(lo, fs.body, ink, right, lo.y+38, "Date: "+doc.Date)
	lo.y += 84
}

// column layout as fractions of the content width
type column struct {
	title string
	frac  float64 // right edge as fraction of content width
	num   bool    // right-aligned numeric column
}

func columnsFor(kind string) []column {
	if kind == models.KindReceipt {
		return []column{
			{"#", 0.06, false},
			{"Description", 0.50, false},
			{"Qty", 0.62, true},
			{"Unit Price", 0.80, true},
			{"Total", 1.00, true},
		}
	}
	return []column{
		{"Description", 0.52, false},
		{"Qty", 0.64, true},
		{"Unit Price", 0.82, true},
		{"Amount", 1.00, true},
	}
}

func drawTable(lo *layout, fs *fontSet, doc *preview.Document) {
	left, right := marginX, float64(lo.width)/lo.s-marginX
	w := right - left
	cols := columnsFor(doc.Kind)

	fillRect(lo, left, lo.y, w, tableHdrH, shade)
	cx := left
	for _, c := range cols {
		edge := left + w*c.frac
		if c.num {
			drawTextRight(lo, fs.label, ink, edge-8, lo.y+21, c.title)
		} else {
			drawText(lo, fs.label, ink, cx+8, lo.y+21, c.title)
		}
		cx = edge
	}
	lo.y += tableHdrH

	for _, row := range doc.Rows {
		cells := cellsFor(doc.Kind, row)
		cx = left
		for i, c := range cols {
			edge := left + w*c.frac
			if c.num {
				drawTextRight(lo, fs.body, ink, edge-8, lo.y+19, cells[i])
			} else {
				drawText(lo, fs.body, ink, cx+8, lo.y+19, cells[i])
			}
			cx = edge
		}
		fillRect(lo, left, lo.y+rowH-1, w, 1, hair)
		lo.y += rowH
	}
}

func cellsFor(kind string, row preview.Row) []string {
	if kind == models.KindReceipt {
		return []string{fmt.Sprintf("%d", row.Index), row.Description, row.Quantity, row.UnitPrice, row.Amount}
	}
	return []string{row.Description, row.Quantity, row.UnitPrice, row.Amount}
}

func drawTotals(lo *layout, fs *fontSet, doc *preview.Document) {
	right := float64(lo.width)/lo.s - marginX
	lo.y += 4
	drawTextRight(lo, fs.bodyBold, ink, right-8, lo.y+18, "Total: "+doc.TotalText)
	lo.y += 24
	if doc.IsInvoice() {
		drawTextRight(lo, fs.body, ink, right-8, lo.y+18, "Paid: "+doc.PaidText)
		lo.y += 24
		drawTextRight(lo, fs.bodyBold, ink, right-8, lo.y+18, "Balance: "+doc.BalanceText)
		lo.y += 24
	}
	drawText(lo, fs.italic, muted, marginX, lo.y+20, "Amount in words: "+doc.AmountWords)
	lo.y += 30
}

func drawFooter(lo *layout, fs *fontSet, doc *preview.Document, signature, symbol image.Image) {
	right := float64(lo.width)/lo.s - marginX
	top := lo.y + 16
	if symbol != nil {
		drawImageScaled(lo, symbol, marginX, top, 96, 96)
	}
	if signature != nil {
		drawImageScaled(lo, signature, right-180, top, 56, 180)
	}
	lineY := top + 80
	fillRect(lo, right-180, lineY, 180, 1, ink)
	drawTextRight(lo, fs.small, muted, right, lineY+18, "Signature")
	lo.y = lineY + 54
}

func drawText(lo *layout, face font.Face, col color.Color, x, y float64, s string) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  lo.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(lo.px(x), lo.px(y)),
	}
	d.DrawString(s)
}

func drawTextRight(lo *layout, face font.Face, col color.Color, x, y float64, s string) {
	if s == "" {
		return
	}
	w := (&font.Drawer{Face: face}).MeasureString(s).Ceil()
	d := &font.Drawer{
		Dst:  lo.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(lo.px(x) - w), Y: fixed.I(lo.px(y))},
	}
	d.DrawString(s)
}

func fillRect(lo *layout, x, y, w, h float64, col color.Color) {
	r := image.Rect(lo.px(x), lo.px(y), lo.px(x+w), lo.px(y+h))
	if h > 0 && r.Dy() == 0 {
		r.Max.Y = r.Min.Y + 1 // hairlines survive rounding
	}
	draw.Draw(lo.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// drawImageScaled draws src at (x, y) scaled to cssH high, preserving aspect
// ratio, capped at cssMaxW wide.
func drawImageScaled(lo *layout, src image.Image, x, y, cssH, cssMaxW float64) {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}
	cssW := cssH * float64(sb.Dx()) / float64(sb.Dy())
	if cssW > cssMaxW {
		cssW = cssMaxW
		cssH = cssW * float64(sb.Dy()) / float64(sb.Dx())
	}
	dst := image.Rect(lo.px(x), lo.px(y), lo.px(x+cssW), lo.px(y+cssH))
	xdraw.ApproxBiLinear.Scale(lo.img, dst, src, sb, xdraw.Over, nil)
}

func decodeRef(log *zap.Logger, ref, what string) image.Image {
	if ref == "" {
		return nil
	}
	img, err := DecodeDataURL(ref)
	if err != nil {
		log.Warn("image reference skipped", zap.String("image", what), zap.Error(err))
		return nil
	}
	return img
}
