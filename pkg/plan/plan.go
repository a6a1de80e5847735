// Package plan computes the render plan for a document pair: the pixel
// dimensions at which each document is rasterized, the shared canvas size,
// and the alignment offset between the two documents' coordinate frames.
//
// Alignment and resolution policies are closed enums with exhaustive
// switches, so adding a mode is a compile-time-checked, localized change.
package plan

import (
	"context"
	"math"

	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/geometry"
)

// Default render dimensions used when a document declares no usable size.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// DefaultScaleFactor is the default multiplier applied to every planned
// dimension before rasterization.
const DefaultScaleFactor = 4

// Resolution selects the policy for deriving each document's render size.
type Resolution int

const (
	// ResolutionViewBox sizes each document by its width/height attributes
	// when present, else its viewBox dimensions, else the defaults. When a
	// document carries both a viewBox and attributes with differing aspect
	// ratios, the attributes define the intended rendered size.
	ResolutionViewBox Resolution = iota

	// ResolutionNominal sizes each document by its width/height attributes
	// alone, falling back to the defaults.
	ResolutionNominal

	// ResolutionFull uses the same fallback chain as ResolutionViewBox.
	// Content clipping is a rasterization-backend concern, not a sizing one.
	ResolutionFull

	// ResolutionScale sizes both documents to the elementwise maximum of
	// their viewbox-mode sizes; the smaller document is upscaled uniformly
	// by the backend.
	ResolutionScale

	// ResolutionStretch computes the same target as ResolutionScale; the
	// backend fits content non-uniformly instead of uniformly.
	ResolutionStretch

	// ResolutionClip sizes both documents to the elementwise minimum of
	// their viewbox-mode sizes.
	ResolutionClip
)

var resolutionNames = map[Resolution]string{
	ResolutionViewBox: "viewbox",
	ResolutionNominal: "nominal",
	ResolutionFull:    "full",
	ResolutionScale:   "scale",
	ResolutionStretch: "stretch",
	ResolutionClip:    "clip",
}

// String returns the mode name used on the command line and in reports.
func (r Resolution) String() string {
	if name, ok := resolutionNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseResolution converts a mode name into a Resolution.
// It fails with INVALID_MODE for unknown names.
func ParseResolution(s string) (Resolution, error) {
	for r, name := range resolutionNames {
		if name == s {
			return r, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidMode,
		"unknown resolution mode %q (valid: nominal, viewbox, full, scale, stretch, clip)", s)
}

// Size is a render target in device pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RenderPlan holds the planned render dimensions and alignment offsets for
// one document pair. All dimensions are strictly positive device pixels.
// The offset is attached to document 1; document 2 is the reference frame.
type RenderPlan struct {
	Doc1    Size    `json:"doc1"`
	Doc2    Size    `json:"doc2"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`

	CanvasWidth  int `json:"canvas_width"`
	CanvasHeight int `json:"canvas_height"`
}

// Options configures the planner.
type Options struct {
	Alignment  Alignment
	Resolution Resolution

	// Scale multiplies every planned dimension. Defaults to
	// DefaultScaleFactor when zero; must be >= 1 otherwise.
	Scale int
}

// Planner derives render plans from geometry records. Object-anchored
// alignment resolves element centroids through the injected resolver.
type Planner struct {
	resolver CentroidResolver
}

// NewPlanner creates a Planner. The resolver may be nil when object-mode
// alignment is never used.
func NewPlanner(resolver CentroidResolver) *Planner {
	return &Planner{resolver: resolver}
}

// Plan computes the render plan for one document pair. It is a pure
// computation except for object-anchor resolution, which consults the
// backend. It fails with PLAN_INVALID when a computed dimension is not
// strictly positive and ALIGNMENT_FAILED when a referenced element id is
// absent from either document.
func (p *Planner) Plan(ctx context.Context, svg1, svg2 string, info1, info2 geometry.Info, opts Options) (RenderPlan, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = DefaultScaleFactor
	}
	if err := errors.ValidateScaleFactor(scale); err != nil {
		return RenderPlan{}, err
	}

	w1, h1 := resolveSize(info1, opts.Resolution)
	w2, h2 := resolveSize(info2, opts.Resolution)

	switch opts.Resolution {
	case ResolutionScale, ResolutionStretch:
		w1, w2 = math.Max(w1, w2), math.Max(w1, w2)
		h1, h2 = math.Max(h1, h2), math.Max(h1, h2)
	case ResolutionClip:
		w1, w2 = math.Min(w1, w2), math.Min(w1, w2)
		h1, h2 = math.Min(h1, h2), math.Min(h1, h2)
	case ResolutionNominal, ResolutionViewBox, ResolutionFull:
		// Per-document sizes stand as resolved.
	default:
		return RenderPlan{}, errors.New(errors.ErrCodeInvalidMode, "unknown resolution mode %d", opts.Resolution)
	}

	plan := RenderPlan{
		Doc1: Size{Width: toPixels(w1, scale), Height: toPixels(h1, scale)},
		Doc2: Size{Width: toPixels(w2, scale), Height: toPixels(h2, scale)},
	}
	if plan.Doc1.Width <= 0 || plan.Doc1.Height <= 0 || plan.Doc2.Width <= 0 || plan.Doc2.Height <= 0 {
		return RenderPlan{}, errors.New(errors.ErrCodePlan,
			"planned dimensions must be positive: doc1 %dx%d, doc2 %dx%d",
			plan.Doc1.Width, plan.Doc1.Height, plan.Doc2.Width, plan.Doc2.Height)
	}

	plan.CanvasWidth = max(plan.Doc1.Width, plan.Doc2.Width)
	plan.CanvasHeight = max(plan.Doc1.Height, plan.Doc2.Height)

	anchor1, err := p.anchor(ctx, svg1, info1, opts.Alignment)
	if err != nil {
		return RenderPlan{}, err
	}
	anchor2, err := p.anchor(ctx, svg2, info2, opts.Alignment)
	if err != nil {
		return RenderPlan{}, err
	}
	plan.OffsetX = anchor1.X - anchor2.X
	plan.OffsetY = anchor1.Y - anchor2.Y

	return plan, nil
}

// resolveSize computes a document's pre-scale render size under the given
// resolution mode. scale/stretch/clip resolve through the viewbox chain;
// their elementwise combination happens in Plan.
func resolveSize(info geometry.Info, mode Resolution) (float64, float64) {
	switch mode {
	case ResolutionNominal:
		return attributeSize(info)
	case ResolutionViewBox, ResolutionFull, ResolutionScale, ResolutionStretch, ResolutionClip:
		return viewboxChainSize(info)
	}
	return viewboxChainSize(info)
}

// attributeSize returns the document's width/height attributes, falling
// back to the defaults per axis.
func attributeSize(info geometry.Info) (float64, float64) {
	w, h := float64(DefaultWidth), float64(DefaultHeight)
	if info.Width != nil && *info.Width > 0 {
		w = *info.Width
	}
	if info.Height != nil && *info.Height > 0 {
		h = *info.Height
	}
	return w, h
}

// viewboxChainSize prefers the width/height attributes, then the viewBox
// dimensions, then the defaults. The attributes win because they define the
// intended rendered size even when a viewBox with a different aspect ratio
// is present.
func viewboxChainSize(info geometry.Info) (float64, float64) {
	if info.Width != nil && info.Height != nil && *info.Width > 0 && *info.Height > 0 {
		return *info.Width, *info.Height
	}
	if vb := info.ViewBox; vb != nil && vb.Width > 0 && vb.Height > 0 {
		return vb.Width, vb.Height
	}
	return DefaultWidth, DefaultHeight
}

// toPixels applies the scale factor and rounds to whole device pixels.
func toPixels(v float64, scale int) int {
	return int(math.Round(v * float64(scale)))
}
