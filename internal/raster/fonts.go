package raster

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	italicFont  *opentype.Font
)

func loadFonts() {
	fontsOnce.Do(func() {
		regularFont = mustParse(goregular.TTF)
		boldFont = mustParse(gobold.TTF)
		italicFont = mustParse(goitalic.TTF)
	})
}

// mustParse parses a compiled-in gofont asset; these cannot fail at runtime.
func mustParse(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}

// fontSet holds the faces for one render, sized for the render scale.
type fontSet struct {
	title    font.Face
	heading  font.Face
	label    font.Face
	body     font.Face
	bodyBold font.Face
	small    font.Face
	italic   font.Face
}

func newFontSet(s float64) *fontSet {
	loadFonts()
	return &fontSet{
		title:    face(boldFont, 26*s),
		heading:  face(boldFont, 22*s),
		label:    face(boldFont, 13*s),
		body:     face(regularFont, 14*s),
		bodyBold: face(boldFont, 14*s),
		small:    face(regularFont, 12*s),
		italic:   face(italicFont, 13*s),
	}
}

// face builds a face whose glyph size is px pixels (Size in points at 72dpi
// maps 1:1 to pixels).
func face(fnt *opentype.Font, px float64) font.Face {
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		panic(err)
	}
	return f
}
