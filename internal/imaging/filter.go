package imaging

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// Blur smooths the buffer with a square Gaussian kernel of side kernelSize.
//
// The kernel is applied separably in both directions. Border pixels replicate
// the nearest edge sample, so a uniform image stays uniform up to rounding.
// kernelSize must be a positive odd number; 1 returns an unchanged copy.
func Blur(b *Buffer, kernelSize int) (*Buffer, error) {
	if kernelSize < 1 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("%w: blur kernel size %d must be a positive odd number", ErrInvalidParameter, kernelSize)
	}
	if kernelSize == 1 {
		return b.Clone(), nil
	}

	radius := float64(kernelSize-1) / 2
	return fromImage(blur.Gaussian(b.Image(), radius), b.Channels)
}

// EdgeDetect performs Canny edge detection and returns a 1-channel edge map.
//
// Edge pixels are 255 and everything else is 0. Thresholds are on the 0-255
// intensity scale and must satisfy 0 <= thresholdLow <= thresholdHigh <= 255.
//
// # Algorithm
//
//  1. Luminance: RGB -> gray using ITU-R BT.601 weights; gray buffers are used as is.
//  2. Noise reduction: 5x5 Gaussian blur.
//  3. Gradient: Sobel operators, magnitude = sqrt(Gx² + Gy²).
//  4. Non-maximum suppression: keep only local maxima across the gradient direction.
//  5. Hysteresis: pixels at or above thresholdHigh seed edges, and pixels at or
//     above thresholdLow are kept when connected (8-neighborhood) to a seed.
func EdgeDetect(b *Buffer, thresholdLow, thresholdHigh int) (*Buffer, error) {
	if thresholdLow < 0 || thresholdHigh > 255 || thresholdLow > thresholdHigh {
		return nil, fmt.Errorf("%w: edge thresholds low=%d high=%d (want 0 <= low <= high <= 255)",
			ErrInvalidParameter, thresholdLow, thresholdHigh)
	}

	width, height := b.Width, b.Height

	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if b.Channels == 1 {
				gray[y][x] = float64(b.At(y, x, 0)) / 255.0
				continue
			}
			rf := float64(b.At(y, x, 0)) / 255.0
			gf := float64(b.At(y, x, 1)) / 255.0
			bf := float64(b.At(y, x, 2)) / 255.0
			gray[y][x] = 0.299*rf + 0.587*gf + 0.114*bf
		}
	}

	blurred := gaussianBlur(gray, width, height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)
	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := blurred[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			} else {
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	out := newBuffer(width, height, 1)
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	// Seed from strong pixels and grow through weak ones.
	var stack []int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if v := suppressed[y][x]; v > 0 && v >= highThresh {
				out.Pix[y*width+x] = 255
				stack = append(stack, y*width+x)
			}
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		y, x := i/width, i%width
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				py, px := y+ky, x+kx
				if py < 0 || py >= height || px < 0 || px >= width {
					continue
				}
				j := py*width + px
				if out.Pix[j] != 0 {
					continue
				}
				if v := suppressed[py][px]; v > 0 && v >= lowThresh {
					out.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}

	return out, nil
}

// gaussianBlur applies a 5x5 Gaussian blur to reduce noise before edge detection.
//
// Uses a standard 5x5 Gaussian kernel with sigma ≈ 1.4:
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Total kernel sum = 273, used for normalization.
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(img [][]float64, width, height int) [][]float64 {
	kernel := [5][5]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273.0

	result := make([][]float64, height)
	for y := 0; y < height; y++ {
		result[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					sum += img[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)] * kernel[ky+2][kx+2]
				}
			}
			result[y][x] = sum / kernelSum
		}
	}
	return result
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
