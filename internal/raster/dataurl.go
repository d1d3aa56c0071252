package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/png"
	"net/url"
	"strings"

	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"
)

// DecodeDataURL decodes a data: URL into an image. Only inline references
// are supported; the editor stores logos and signatures as data URLs, never
// remote locations.
func DecodeDataURL(ref string) (image.Image, error) {
	if !strings.HasPrefix(ref, "data:") {
		return nil, fmt.Errorf("not a data url")
	}
	sep := strings.Index(ref, ",")
	if sep < 0 {
		return nil, fmt.Errorf("malformed data url")
	}
	meta, payload := ref[5:sep], ref[sep+1:]
	var (
		data []byte
		err  error
	)
	if strings.Contains(meta, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.QueryUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, fmt.Errorf("decode data url payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// EncodePNGDataURL encodes an image as a data:image/png;base64 reference,
// the form history thumbnails are stored in.
func EncodePNGDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ScaleToWidth resamples img to the given width, preserving aspect ratio.
func ScaleToWidth(img image.Image, width int) *image.RGBA {
	sb := img.Bounds()
	if sb.Dx() == 0 || width <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	height := int(float64(sb.Dy()) * float64(width) / float64(sb.Dx()))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, sb, xdraw.Src, nil)
	return dst
}
