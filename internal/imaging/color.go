package imaging

import (
	"fmt"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Grayscale reduces a 3-channel buffer to 1-channel luminance.
//
// Luminance uses the ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B),
// rounded to the nearest integer. A 1-channel buffer is already grayscale and
// is returned as a copy, which makes the operation idempotent.
func Grayscale(b *Buffer) (*Buffer, error) {
	if b.Channels == 1 {
		return b.Clone(), nil
	}
	return fromImage(imaging.Grayscale(b.Image()), 1)
}

// Brightness shifts the HSV value of every pixel by offset.
//
// Parameters:
//   - b: Source buffer (1 or 3 channels).
//   - offset: Signed shift in sample units, -255 to 255. The value channel
//     saturates at 0 and 255 instead of wrapping.
//
// Returns:
//   - *Buffer: New buffer with the same shape as b.
//   - error: ErrInvalidParameter if offset is out of range.
//
// Hue and saturation are preserved, so a pixel keeps its color while its
// brightest component moves by offset. On a 1-channel buffer the sample is its
// own value and the offset is added directly.
func Brightness(b *Buffer, offset int) (*Buffer, error) {
	if offset < -255 || offset > 255 {
		return nil, fmt.Errorf("%w: brightness offset %d outside -255..255", ErrInvalidParameter, offset)
	}

	out := newBuffer(b.Width, b.Height, b.Channels)
	if b.Channels == 1 {
		for i, v := range b.Pix {
			out.Pix[i] = clampSample(float64(int(v) + offset))
		}
		return out, nil
	}

	shift := float64(offset) / 255.0
	for i := 0; i < len(b.Pix); i += 3 {
		c := colorful.Color{
			R: float64(b.Pix[i]) / 255.0,
			G: float64(b.Pix[i+1]) / 255.0,
			B: float64(b.Pix[i+2]) / 255.0,
		}
		h, s, v := c.Hsv()
		v = math.Max(0, math.Min(1, v+shift))
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = colorful.Hsv(h, s, v).Clamped().RGB255()
	}
	return out, nil
}

// Contrast multiplies every sample by percent/100 and clamps to 0-255.
//
// 100 leaves the buffer unchanged, lower values darken and flatten it, higher
// values brighten and spread it. Negative or non-finite percentages fail with
// ErrInvalidParameter.
func Contrast(b *Buffer, percent float64) (*Buffer, error) {
	if percent < 0 || math.IsNaN(percent) || math.IsInf(percent, 0) {
		return nil, fmt.Errorf("%w: contrast percent %v must be a non-negative number", ErrInvalidParameter, percent)
	}

	factor := percent / 100.0
	var lut [256]uint8
	for i := range lut {
		lut[i] = clampSample(float64(i) * factor)
	}

	scaled := adjust.Apply(b.Image(), func(c color.RGBA) color.RGBA {
		return color.RGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
	return fromImage(scaled, b.Channels)
}

// clampSample rounds v to the nearest integer and saturates it to a sample.
func clampSample(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled color in several representations.
type ColorResult struct {
	X   int      `json:"x"`
	Y   int      `json:"y"`
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// SampleColor returns the color of the pixel at column x, row y.
//
// Coordinates are 0-based with the origin at the top-left corner. Gray
// buffers report the sample in all three RGB components.
func SampleColor(b *Buffer, x, y int) (*ColorResult, error) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return nil, fmt.Errorf("%w: coordinates (%d,%d) outside %dx%d image",
			ErrInvalidParameter, x, y, b.Width, b.Height)
	}

	var r, g, bl uint8
	if b.Channels == 1 {
		r = b.At(y, x, 0)
		g, bl = r, r
	} else {
		r, g, bl = b.At(y, x, 0), b.At(y, x, 1), b.At(y, x, 2)
	}

	c := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(bl) / 255.0}
	h, s, l := c.Hsl()

	return &ColorResult{
		X:   x,
		Y:   y,
		Hex: fmt.Sprintf("#%02X%02X%02X", r, g, bl),
		RGB: RGBColor{R: r, G: g, B: bl},
		HSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}
