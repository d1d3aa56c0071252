// Package paginate slices an oversized capture into A4-height page chunks
// and assembles them into a PDF. The two historical export behaviors are
// reconciled here as Options instead of parallel code paths: multi-page vs
// single stretched page, and JPEG vs PNG page embedding.
package paginate

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/phpdave11/gofpdf"
)

const (
	// PageHeightInches is the A4 portrait height.
	PageHeightInches = 11.69

	// A4 physical page size handed to the PDF writer.
	A4WidthMM  = 210.0
	A4HeightMM = 297.0
)

// Supported page image encodings.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)

// Options controls how a capture becomes a PDF.
type Options struct {
	// Quality in (0,1] applies to JPEG encoding; out-of-range values fall
	// back to 0.85.
	Quality float64
	// Format is FormatJPEG (default, smaller files) or FormatPNG.
	Format string
	// MultiPage slices the capture into page-height chunks; when false the
	// whole capture lands on a single page at aspect-preserved height.
	MultiPage bool
}

func (o Options) normalized() Options {
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = 0.85
	}
	if o.Format != FormatPNG {
		o.Format = FormatJPEG
	}
	return o
}

// PageHeightPx returns the pixel height of one page at a resolution.
func PageHeightPx(dpi int) int {
	return int(math.Round(PageHeightInches * float64(dpi)))
}

// PageCount returns how many pages a capture of the given pixel height
// produces.
func PageCount(heightPx, dpi int) int {
	ph := PageHeightPx(dpi)
	if heightPx <= 0 || ph <= 0 {
		return 0
	}
	return (heightPx + ph - 1) / ph
}

type subImager interface {
	SubImage(image.Rectangle) image.Image
}

// SliceToPages cuts img into full-height page chunks, top to bottom; the
// last chunk keeps the remainder.
func SliceToPages(img image.Image, dpi int) []image.Image {
	b := img.Bounds()
	ph := PageHeightPx(dpi)
	if b.Dy() <= ph {
		return []image.Image{img}
	}
	si, ok := img.(subImager)
	var pages []image.Image
	for top := b.Min.Y; top < b.Max.Y; top += ph {
		bottom := top + ph
		if bottom > b.Max.Y {
			bottom = b.Max.Y
		}
		r := image.Rect(b.Min.X, top, b.Max.X, bottom)
		if ok {
			pages = append(pages, si.SubImage(r))
		} else {
			pages = append(pages, copyRegion(img, r))
		}
	}
	return pages
}

func copyRegion(img image.Image, r image.Rectangle) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.Set(x, y, img.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return dst
}

// Assemble encodes the capture into an A4 PDF and writes it to w. The PDF is
// built fully in memory first; on any failure nothing reaches w, so a failed
// export can never leave a half-written download behind.
func Assemble(w io.Writer, img image.Image, dpi int, opts Options) error {
	opts = opts.normalized()

	pages := []image.Image{img}
	if opts.MultiPage {
		pages = SliceToPages(img, dpi)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	imageType := "JPEG"
	if opts.Format == FormatPNG {
		imageType = "PNG"
	}

	for i, page := range pages {
		data, err := encodePage(page, opts)
		if err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
		b := page.Bounds()
		// drawn height scales with the slice so aspect ratio is preserved at
		// full page width; only the last slice is shorter than a page
		hMM := float64(b.Dy()) * A4WidthMM / float64(b.Dx())
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, A4WidthMM, hMM, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("assemble pdf: %w", err)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("deliver pdf: %w", err)
	}
	return nil
}

func encodePage(page image.Image, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if opts.Format == FormatPNG {
		if err := png.Encode(&buf, page); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := jpeg.Encode(&buf, page, &jpeg.Options{Quality: int(math.Round(opts.Quality * 100))}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
