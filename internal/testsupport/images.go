package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// SolidPNG encodes a w×h image filled with c.
func SolidPNG(t testing.TB, w, h int, c color.Color) []byte {
	t.Helper()
	return StripedPNG(t, w, h, c)
}

// StripedPNG encodes a w×h image with equal-width vertical stripes, one per
// color, left to right.
func StripedPNG(t testing.TB, w, h int, colors ...color.Color) []byte {
	t.Helper()

	if len(colors) == 0 {
		t.Fatal("StripedPNG requires at least one color")
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stripe := (w + len(colors) - 1) / len(colors)
	for x := 0; x < w; x++ {
		c := colors[x/stripe]
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
