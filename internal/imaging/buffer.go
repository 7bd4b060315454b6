package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	// ErrEmptyBuffer is returned when an operation needs an image and none is loaded.
	ErrEmptyBuffer = errors.New("no image loaded")

	// ErrInvalidParameter is returned when a transform parameter is out of range
	// or unrecognized. It is always returned before any state is modified.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Buffer is an owned raster of 8-bit samples.
//
// Samples are stored row-major with channels interleaved, so the sample for
// (row, col, ch) lives at Pix[(row*Width+col)*Channels+ch]. Channels is 1 for
// grayscale buffers and 3 for RGB buffers.
//
// A Buffer never shares Pix with another Buffer. Transforms always return a
// newly allocated Buffer, and Clone is the only way to duplicate one.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewBuffer allocates a zeroed buffer of the given shape.
func NewBuffer(width, height, channels int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidParameter, width, height)
	}
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: channel count %d (want 1 or 3)", ErrInvalidParameter, channels)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

func newBuffer(width, height, channels int) *Buffer {
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Validate reports whether the buffer satisfies its shape invariant.
func (b *Buffer) Validate() error {
	if b == nil {
		return ErrEmptyBuffer
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidParameter, b.Width, b.Height)
	}
	if b.Channels != 1 && b.Channels != 3 {
		return fmt.Errorf("%w: channel count %d (want 1 or 3)", ErrInvalidParameter, b.Channels)
	}
	if want := b.Width * b.Height * b.Channels; len(b.Pix) != want {
		return fmt.Errorf("%w: sample storage has %d bytes, want %d", ErrInvalidParameter, len(b.Pix), want)
	}
	return nil
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
		Pix:      pix,
	}
}

// At returns the sample at (row, col, ch). It panics if the coordinate is
// outside the buffer, like slice indexing.
func (b *Buffer) At(row, col, ch int) uint8 {
	return b.Pix[b.offset(row, col, ch)]
}

// Set writes the sample at (row, col, ch).
func (b *Buffer) Set(row, col, ch int, v uint8) {
	b.Pix[b.offset(row, col, ch)] = v
}

func (b *Buffer) offset(row, col, ch int) int {
	if row < 0 || row >= b.Height || col < 0 || col >= b.Width || ch < 0 || ch >= b.Channels {
		panic(fmt.Sprintf("imaging: sample (%d,%d,%d) outside %dx%dx%d buffer",
			row, col, ch, b.Height, b.Width, b.Channels))
	}
	return (row*b.Width+col)*b.Channels + ch
}

// Dimensions returns width, height and channel count.
func (b *Buffer) Dimensions() (width, height, channels int) {
	return b.Width, b.Height, b.Channels
}

// Equal reports whether two buffers have the same shape and identical samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Width == o.Width && b.Height == o.Height && b.Channels == o.Channels &&
		bytes.Equal(b.Pix, o.Pix)
}

// Image returns a newly allocated image.Image holding the buffer's samples:
// *image.Gray for 1-channel buffers and an opaque *image.NRGBA for 3-channel ones.
func (b *Buffer) Image() image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)
	if b.Channels == 1 {
		img := image.NewGray(rect)
		for y := 0; y < b.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+b.Width], b.Pix[y*b.Width:(y+1)*b.Width])
		}
		return img
	}

	img := image.NewNRGBA(rect)
	for y := 0; y < b.Height; y++ {
		row := img.Pix[y*img.Stride:]
		src := b.Pix[y*b.Width*3:]
		for x := 0; x < b.Width; x++ {
			row[x*4+0] = src[x*3+0]
			row[x*4+1] = src[x*3+1]
			row[x*4+2] = src[x*3+2]
			row[x*4+3] = 0xff
		}
	}
	return img
}

// FromImage copies img into a new Buffer. Gray sources become 1-channel
// buffers, everything else becomes a 3-channel RGB buffer composited over black.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, ErrEmptyBuffer
	}
	channels := 3
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		channels = 1
	}
	return fromImage(img, channels)
}

// fromImage copies img into a buffer with the requested channel count.
// Translucent pixels are composited over black, which is also the fill used
// for areas a transform exposes. For 1-channel output the red component is
// kept, which is exact for images produced from a gray buffer.
func fromImage(img image.Image, channels int) (*Buffer, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image has empty bounds %v", ErrInvalidParameter, bounds)
	}
	out := newBuffer(bounds.Dx(), bounds.Dy(), channels)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < out.Height; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < out.Width; x++ {
				i := (y*out.Width + x) * channels
				for c := 0; c < channels; c++ {
					out.Pix[i+c] = row[x]
				}
			}
		}
		return out, nil
	case *image.RGBA:
		// Premultiplied samples are already composited over black.
		for y := 0; y < out.Height; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < out.Width; x++ {
				i := (y*out.Width + x) * channels
				for c := 0; c < channels; c++ {
					out.Pix[i+c] = row[x*4+c]
				}
			}
		}
		return out, nil
	case *image.NRGBA:
		for y := 0; y < out.Height; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < out.Width; x++ {
				px := row[x*4 : x*4+4]
				i := (y*out.Width + x) * channels
				if px[3] == 0xff {
					for c := 0; c < channels; c++ {
						out.Pix[i+c] = px[c]
					}
					continue
				}
				r, g, b, _ := color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}.RGBA()
				setSamples(out.Pix[i:i+channels], r, g, b)
			}
		}
		return out, nil
	}

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			i := (y*out.Width + x) * channels
			setSamples(out.Pix[i:i+channels], r, g, b)
		}
	}
	return out, nil
}

// setSamples stores 16-bit premultiplied components as 8-bit samples.
func setSamples(dst []uint8, r, g, b uint32) {
	dst[0] = uint8(r >> 8)
	if len(dst) == 3 {
		dst[1] = uint8(g >> 8)
		dst[2] = uint8(b >> 8)
	}
}
