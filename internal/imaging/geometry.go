package imaging

import (
	"fmt"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// FlipDirection selects the mirror axis for Flip.
type FlipDirection string

const (
	// FlipHorizontal mirrors left-right (around the vertical axis).
	FlipHorizontal FlipDirection = "horizontal"
	// FlipVertical mirrors top-bottom (around the horizontal axis).
	FlipVertical FlipDirection = "vertical"
)

// MaxResizePixels caps the pixel count Resize may produce.
const MaxResizePixels = 100_000_000

// Rotate turns the image counter-clockwise by degrees about its center.
//
// The output keeps the input's width and height: content rotated out of the
// frame is lost and newly exposed corners are filled with black. Quarter and
// half turns move whole pixels; other angles are interpolated. Any multiple of
// 360 returns an unchanged copy.
func Rotate(b *Buffer, degrees float64) (*Buffer, error) {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return nil, fmt.Errorf("%w: rotation angle %v is not a finite number", ErrInvalidParameter, degrees)
	}
	if math.Mod(degrees, 360) == 0 {
		return b.Clone(), nil
	}

	// The rotated image grows to hold every source pixel; center it on a
	// black frame of the original size to crop or pad it back.
	rotated := imaging.Rotate(b.Image(), degrees, color.Black)
	frame := imaging.New(b.Width, b.Height, color.Black)
	return fromImage(imaging.PasteCenter(frame, rotated), b.Channels)
}

// Flip mirrors the buffer along the axis named by dir. Any direction other
// than FlipHorizontal or FlipVertical fails with ErrInvalidParameter.
func Flip(b *Buffer, dir FlipDirection) (*Buffer, error) {
	switch dir {
	case FlipHorizontal:
		return fromImage(imaging.FlipH(b.Image()), b.Channels)
	case FlipVertical:
		return fromImage(imaging.FlipV(b.Image()), b.Channels)
	default:
		return nil, fmt.Errorf("%w: unknown flip direction %q (want %q or %q)",
			ErrInvalidParameter, dir, FlipHorizontal, FlipVertical)
	}
}

// Resize scales both dimensions by percent.
//
// The new size is max(1, round(dimension * percent / 100)) for each axis.
// Shrinking uses area (box) resampling and enlarging uses bilinear
// interpolation. When the size does not change the buffer is copied as is,
// so Resize(b, 100) is an exact identity.
//
// # Errors
//
//   - ErrInvalidParameter if percent is not a positive finite number
//   - ErrInvalidParameter if the result would exceed MaxResizePixels
func Resize(b *Buffer, percent float64) (*Buffer, error) {
	if !(percent > 0) || math.IsInf(percent, 0) {
		return nil, fmt.Errorf("%w: resize percent %v must be positive", ErrInvalidParameter, percent)
	}

	scale := percent / 100.0
	if math.Round(float64(b.Width)*scale)*math.Round(float64(b.Height)*scale) > MaxResizePixels {
		return nil, fmt.Errorf("%w: resize by %v%% exceeds %d pixels", ErrInvalidParameter, percent, MaxResizePixels)
	}

	width, height := ScaledSize(b.Width, b.Height, percent)
	if width == b.Width && height == b.Height {
		return b.Clone(), nil
	}

	filter := imaging.Linear
	if percent < 100 {
		filter = imaging.Box
	}
	return fromImage(imaging.Resize(b.Image(), width, height, filter), b.Channels)
}

// ScaledSize returns the dimensions Resize produces for percent.
func ScaledSize(width, height int, percent float64) (int, int) {
	scale := percent / 100.0
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
