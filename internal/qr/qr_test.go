package qr

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestPayloadFormat(t *testing.T) {
	got := Payload("invoice", "INV-7", "1/2/2026", 40000)
	if got != "INVOICE|No:INV-7|Date:1/2/2026|Total:40000" {
		t.Fatalf("payload = %q", got)
	}
	got = Payload("receipt", "R-1", "", 99)
	if !strings.HasPrefix(got, "RECEIPT|No:R-1|Date:") || !strings.HasSuffix(got, "|Total:99") {
		t.Fatalf("payload with defaulted date = %q", got)
	}
}

func TestEncodeSquare(t *testing.T) {
	g := NewGenerator(zap.NewNop(), 96)
	img := g.Encode(Payload("invoice", "INV-7", "1/2/2026", 40000))
	if img == nil {
		t.Fatalf("encode returned nil for a valid payload")
	}
	b := img.Bounds()
	if b.Dx() != 96 || b.Dy() != 96 {
		t.Fatalf("symbol bounds = %v, want 96x96", b)
	}
	if big := g.EncodeAt("x", 200); big == nil || big.Bounds().Dx() != 200 {
		t.Fatalf("EncodeAt size not honored")
	}
}

func TestEncodeFailureReturnsNil(t *testing.T) {
	g := NewGenerator(zap.NewNop(), 4)
	// a QR of this payload cannot fit into 4x4 pixels; Scale must refuse
	if img := g.Encode(strings.Repeat("x", 500)); img != nil {
		t.Fatalf("expected nil symbol when scaling is impossible")
	}
}
