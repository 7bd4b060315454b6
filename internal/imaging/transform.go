package imaging

import (
	"fmt"
	"strconv"
)

// Default parameters for transforms that have them.
const (
	DefaultKernelSize    = 5
	DefaultThresholdLow  = 100
	DefaultThresholdHigh = 200
)

// Operation names accepted by Build.
const (
	OpGrayscale     = "grayscale"
	OpBlur          = "blur"
	OpEdgeDetection = "edge_detection"
	OpBrightness    = "brightness"
	OpContrast      = "contrast"
	OpRotate        = "rotate"
	OpFlip          = "flip"
	OpResize        = "resize"
)

// Transform maps a buffer to a newly allocated buffer. It never modifies its
// input, so a failed or discarded result leaves the caller's state intact.
type Transform func(*Buffer) (*Buffer, error)

// Library is the set of pixel transforms an editor can apply. Every method
// takes a non-nil, valid buffer; checking for a loaded image is the caller's job.
type Library interface {
	Grayscale(b *Buffer) (*Buffer, error)
	Blur(b *Buffer, kernelSize int) (*Buffer, error)
	EdgeDetect(b *Buffer, thresholdLow, thresholdHigh int) (*Buffer, error)
	Brightness(b *Buffer, offset int) (*Buffer, error)
	Contrast(b *Buffer, percent float64) (*Buffer, error)
	Rotate(b *Buffer, degrees float64) (*Buffer, error)
	Flip(b *Buffer, dir FlipDirection) (*Buffer, error)
	Resize(b *Buffer, percent float64) (*Buffer, error)
}

// Transforms is the default Library, backed by the package-level functions.
type Transforms struct{}

var _ Library = Transforms{}

func (Transforms) Grayscale(b *Buffer) (*Buffer, error) {
	return Grayscale(b)
}

func (Transforms) Blur(b *Buffer, kernelSize int) (*Buffer, error) {
	return Blur(b, kernelSize)
}

func (Transforms) EdgeDetect(b *Buffer, low, high int) (*Buffer, error) {
	return EdgeDetect(b, low, high)
}

func (Transforms) Brightness(b *Buffer, offset int) (*Buffer, error) {
	return Brightness(b, offset)
}

func (Transforms) Contrast(b *Buffer, percent float64) (*Buffer, error) {
	return Contrast(b, percent)
}

func (Transforms) Rotate(b *Buffer, degrees float64) (*Buffer, error) {
	return Rotate(b, degrees)
}

func (Transforms) Flip(b *Buffer, dir FlipDirection) (*Buffer, error) {
	return Flip(b, dir)
}

func (Transforms) Resize(b *Buffer, percent float64) (*Buffer, error) {
	return Resize(b, percent)
}

// Params carries the arguments of a named operation. Only the fields used by
// the selected operation are read. Every field is a pointer so that an absent
// argument can be told apart from zero; Build rejects a missing required one.
type Params struct {
	KernelSize    *int     `json:"kernel_size,omitempty"`
	ThresholdLow  *int     `json:"threshold_low,omitempty"`
	ThresholdHigh *int     `json:"threshold_high,omitempty"`
	Offset        *int     `json:"offset,omitempty"`
	Percent       *float64 `json:"percent,omitempty"`
	Angle         *float64 `json:"angle,omitempty"`
	Direction     *string  `json:"direction,omitempty"`
}

// has reports whether the argument with the given JSON name is set.
func (p Params) has(arg string) bool {
	switch arg {
	case "kernel_size":
		return p.KernelSize != nil
	case "threshold_low":
		return p.ThresholdLow != nil
	case "threshold_high":
		return p.ThresholdHigh != nil
	case "offset":
		return p.Offset != nil
	case "percent":
		return p.Percent != nil
	case "angle":
		return p.Angle != nil
	case "direction":
		return p.Direction != nil
	}
	return false
}

// ArgSpec describes a single operation argument for help text and tool schemas.
type ArgSpec struct {
	Name        string // JSON argument name
	Type        string // JSON schema type: "integer", "number" or "string"
	Required    bool
	Default     string // textual default, empty when required
	Enum        []string
	Description string
}

// OperationSpec describes a named operation.
type OperationSpec struct {
	Name        string
	Args        []ArgSpec
	Description string

	build func(lib Library, p Params) Transform
}

// Operations lists every operation Build accepts, in menu order.
var Operations = []OperationSpec{
	{
		Name:        OpGrayscale,
		Description: "Convert RGB to single-channel luminance (ITU-R BT.601 weights). No-op on gray images.",
		build: func(lib Library, _ Params) Transform {
			return lib.Grayscale
		},
	},
	{
		Name: OpBlur,
		Args: []ArgSpec{
			{Name: "kernel_size", Type: "integer", Default: strconv.Itoa(DefaultKernelSize), Description: "Odd Gaussian kernel side length"},
		},
		Description: "Gaussian blur with a square kernel; borders replicate the edge pixels.",
		build: func(lib Library, p Params) Transform {
			k := intOr(p.KernelSize, DefaultKernelSize)
			return func(b *Buffer) (*Buffer, error) { return lib.Blur(b, k) }
		},
	},
	{
		Name: OpEdgeDetection,
		Args: []ArgSpec{
			{Name: "threshold_low", Type: "integer", Default: strconv.Itoa(DefaultThresholdLow), Description: "Hysteresis low threshold (0-255)"},
			{Name: "threshold_high", Type: "integer", Default: strconv.Itoa(DefaultThresholdHigh), Description: "Hysteresis high threshold (0-255)"},
		},
		Description: "Canny edge detection producing a single-channel 0/255 edge map.",
		build: func(lib Library, p Params) Transform {
			low := intOr(p.ThresholdLow, DefaultThresholdLow)
			high := intOr(p.ThresholdHigh, DefaultThresholdHigh)
			return func(b *Buffer) (*Buffer, error) { return lib.EdgeDetect(b, low, high) }
		},
	},
	{
		Name: OpBrightness,
		Args: []ArgSpec{
			{Name: "offset", Type: "integer", Required: true, Description: "Signed offset added to the HSV value channel (-255..255)"},
		},
		Description: "Shift brightness in HSV space, saturating at black and white.",
		build: func(lib Library, p Params) Transform {
			offset := *p.Offset
			return func(b *Buffer) (*Buffer, error) { return lib.Brightness(b, offset) }
		},
	},
	{
		Name: OpContrast,
		Args: []ArgSpec{
			{Name: "percent", Type: "number", Required: true, Description: "Scale factor in percent; 100 leaves the image unchanged"},
		},
		Description: "Multiply every sample by percent/100, clamped to 0-255.",
		build: func(lib Library, p Params) Transform {
			percent := *p.Percent
			return func(b *Buffer) (*Buffer, error) { return lib.Contrast(b, percent) }
		},
	},
	{
		Name: OpRotate,
		Args: []ArgSpec{
			{Name: "angle", Type: "number", Required: true, Description: "Counter-clockwise rotation in degrees"},
		},
		Description: "Rotate about the image center keeping the frame size; exposed corners are black.",
		build: func(lib Library, p Params) Transform {
			angle := *p.Angle
			return func(b *Buffer) (*Buffer, error) { return lib.Rotate(b, angle) }
		},
	},
	{
		Name: OpFlip,
		Args: []ArgSpec{
			{Name: "direction", Type: "string", Required: true,
				Enum:        []string{string(FlipHorizontal), string(FlipVertical)},
				Description: "horizontal mirrors left-right, vertical mirrors top-bottom"},
		},
		Description: "Mirror the image along one axis.",
		build: func(lib Library, p Params) Transform {
			dir := FlipDirection(*p.Direction)
			return func(b *Buffer) (*Buffer, error) { return lib.Flip(b, dir) }
		},
	},
	{
		Name: OpResize,
		Args: []ArgSpec{
			{Name: "percent", Type: "number", Required: true, Description: "Scale percentage applied to both dimensions (> 0)"},
		},
		Description: "Scale both dimensions; area resampling when shrinking, bilinear when enlarging.",
		build: func(lib Library, p Params) Transform {
			percent := *p.Percent
			return func(b *Buffer) (*Buffer, error) { return lib.Resize(b, percent) }
		},
	},
}

// LookupOperation returns the spec for a named operation.
func LookupOperation(name string) (OperationSpec, bool) {
	for _, op := range Operations {
		if op.Name == name {
			return op, true
		}
	}
	return OperationSpec{}, false
}

// Build resolves a named operation and its parameters into a Transform bound
// to lib. Unknown names and missing required arguments fail with
// ErrInvalidParameter; parameter ranges are checked when the transform runs,
// before any output is produced.
func Build(lib Library, name string, p Params) (Transform, error) {
	op, ok := LookupOperation(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidParameter, name)
	}
	for _, arg := range op.Args {
		if arg.Required && !p.has(arg.Name) {
			return nil, fmt.Errorf("%w: %s requires argument %q", ErrInvalidParameter, name, arg.Name)
		}
	}
	if lib == nil {
		lib = Transforms{}
	}
	return op.build(lib, p), nil
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
