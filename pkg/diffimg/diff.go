// Package diffimg performs deterministic per-pixel comparison of two RGBA
// raster buffers.
//
// The comparison canvas is the elementwise maximum of the two images'
// dimensions; pixels outside either image's bounds are treated as fully
// transparent black, so images of different sizes compare without error.
// A pixel counts as different when any channel's absolute difference
// strictly exceeds the threshold. The diff image paints different pixels
// white-opaque and identical pixels black-opaque.
//
// Diff is a pure function: fixed inputs always produce bit-identical
// results, and diff percentages are symmetric in their arguments.
package diffimg

import (
	"image"
	"image/color"
	"math"

	"github.com/brothertop/svgdiff/pkg/errors"
)

// DefaultThreshold is the default per-channel difference threshold.
const DefaultThreshold = 1

// Result holds the outcome of one pixel comparison. It is immutable after
// creation.
type Result struct {
	// TotalPixels is the number of canvas pixels compared.
	TotalPixels uint64 `json:"total_pixels"`

	// DifferentPixels is the number of pixels whose channel difference
	// exceeded the threshold.
	DifferentPixels uint64 `json:"different_pixels"`

	// DiffPercentage is 100 * DifferentPixels / TotalPixels at full
	// precision. Use RoundedPercentage for reporting.
	DiffPercentage float64 `json:"diff_percentage"`

	// Threshold echoes the threshold the comparison ran with, for
	// traceability.
	Threshold int `json:"threshold"`

	// DiffImage marks differing pixels white-opaque on black-opaque.
	DiffImage *image.RGBA `json:"-"`
}

// RoundedPercentage returns the diff percentage rounded to two decimal
// places, the form used in reports.
func (r Result) RoundedPercentage() float64 {
	return math.Round(r.DiffPercentage*100) / 100
}

// Diff compares two RGBA buffers channel-by-channel against a threshold.
// The threshold must be in [1, 255]; a channel delta equal to the threshold
// does not make a pixel different.
func Diff(img1, img2 *image.RGBA, threshold int) (Result, error) {
	if err := errors.ValidatePixelThreshold(threshold); err != nil {
		return Result{}, err
	}
	if img1 == nil || img2 == nil {
		return Result{}, errors.New(errors.ErrCodeValidation, "both images are required")
	}

	b1, b2 := img1.Bounds(), img2.Bounds()
	width := max(b1.Dx(), b2.Dx())
	height := max(b1.Dy(), b2.Dy())

	res := Result{
		TotalPixels: uint64(width) * uint64(height),
		Threshold:   threshold,
		DiffImage:   image.NewRGBA(image.Rect(0, 0, width, height)),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p1 := pixelAt(img1, x, y)
			p2 := pixelAt(img2, x, y)
			if exceeds(p1, p2, threshold) {
				res.DifferentPixels++
				res.DiffImage.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				res.DiffImage.SetRGBA(x, y, color.RGBA{A: 255})
			}
		}
	}

	if res.TotalPixels > 0 {
		res.DiffPercentage = 100 * float64(res.DifferentPixels) / float64(res.TotalPixels)
	}
	return res, nil
}

// pixelAt reads a pixel in canvas coordinates, treating anything outside
// the image bounds as fully transparent black.
func pixelAt(img *image.RGBA, x, y int) color.RGBA {
	b := img.Bounds()
	if x >= b.Dx() || y >= b.Dy() {
		return color.RGBA{}
	}
	return img.RGBAAt(b.Min.X+x, b.Min.Y+y)
}

// exceeds reports whether any channel's absolute difference is strictly
// greater than the threshold.
func exceeds(p1, p2 color.RGBA, threshold int) bool {
	return absDelta(p1.R, p2.R) > threshold ||
		absDelta(p1.G, p2.G) > threshold ||
		absDelta(p1.B, p2.B) > threshold ||
		absDelta(p1.A, p2.A) > threshold
}

func absDelta(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
