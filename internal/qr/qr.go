// Package qr builds the compact scan payload stamped on each document and
// encodes it with the barcode library. Encoding failures are logged and the
// document simply ships without a symbol; they never block a render.
package qr

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"go.uber.org/zap"
)

// DefaultSize is the square edge used in the preview, in CSS pixels.
const DefaultSize = 96

// Payload builds the pipe-delimited record embedded in the symbol:
// "INVOICE|No:<docNumber>|Date:<date>|Total:<total>". An unset date falls
// back to today, matching the preview.
func Payload(kind, docNumber, date string, total int64) string {
	if date == "" {
		date = time.Now().Format("2/1/2006")
	}
	return fmt.Sprintf("%s|No:%s|Date:%s|Total:%d", strings.ToUpper(kind), docNumber, date, total)
}

// Generator encodes payloads at a fixed square size.
type Generator struct {
	log  *zap.Logger
	size int
}

func NewGenerator(log *zap.Logger, size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{log: log, size: size}
}

// Encode returns the payload as a scaled square bitmap, or nil if the
// encoder rejects it. Callers must tolerate nil and leave the symbol blank.
func (g *Generator) Encode(payload string) image.Image {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		g.log.Warn("qr encode failed", zap.Error(err))
		return nil
	}
	scaled, err := barcode.Scale(code, g.size, g.size)
	if err != nil {
		g.log.Warn("qr scale failed", zap.Error(err))
		return nil
	}
	return scaled
}

// EncodeAt is Encode with a one-off pixel size, used by the rasterizer which
// needs the symbol at print resolution rather than preview resolution.
func (g *Generator) EncodeAt(payload string, size int) image.Image {
	if size <= 0 {
		size = g.size
	}
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		g.log.Warn("qr encode failed", zap.Error(err))
		return nil
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		g.log.Warn("qr scale failed", zap.Error(err))
		return nil
	}
	return scaled
}
