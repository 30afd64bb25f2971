package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

// To8 quantizes a linear channel to 8 bits, clamping to [0,1]. NaN maps to 0.
func To8(x float32) uint8 {
	switch {
	case !(x > 0):
		return 0
	case x >= 1:
		return 0xff
	}
	return uint8(x*255 + 0.5)
}

// ToImage converts a framebuffer to an opaque NRGBA image.
func ToImage(buf []Color, dim Dimensions) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, dim.W, dim.H))
	for y := 0; y < dim.H; y++ {
		for x := 0; x < dim.W; x++ {
			c := buf[y*dim.W+x]
			img.SetNRGBA(x, y, color.NRGBA{R: To8(c.R), G: To8(c.G), B: To8(c.B), A: 0xff})
		}
	}
	return img
}

// RGB packs the framebuffer as 8-bit RGB triplets.
func RGB(buf []Color) []byte {
	out := make([]byte, 0, len(buf)*3)
	for _, c := range buf {
		out = append(out, To8(c.R), To8(c.G), To8(c.B))
	}
	return out
}

func EncodePNG(w io.Writer, buf []Color, dim Dimensions) error {
	return png.Encode(w, ToImage(buf, dim))
}
