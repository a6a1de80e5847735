// Package pipeline provides the core visual comparison pipeline for svgdiff.
//
// This package implements the complete analyze → guard → plan → rasterize →
// diff pipeline that can be used by CLI and API components. By centralizing
// this logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline runs five stages per document pair:
//
//  1. Analyze: extract viewBox/width/height geometry from each document
//  2. Guard: short-circuit when aspect ratios diverge beyond a tolerance,
//     regenerating missing viewBoxes first
//  3. Plan: compute render dimensions and alignment offsets under the
//     chosen resolution and alignment policies
//  4. Rasterize: render both documents through the backend adapter
//  5. Diff: compare the two raster buffers pixel by pixel
//
// Stages within a pair are strictly sequential except the two rasterize
// calls, which run concurrently; the pair's raster buffers are released
// once the diff image is produced.
//
// # Usage
//
// Create a Runner and compare a pair:
//
//	runner := pipeline.NewRunner(raster.NewLocalBackend(), pipeline.RunnerOptions{})
//	opts := pipeline.Options{Resolution: plan.ResolutionViewBox, Scale: 1}
//	result, err := runner.ComparePaths(ctx, "before.svg", "after.svg", opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%.2f%% different\n", result.RoundedPercentage())
//
// Batch runs isolate failures per pair:
//
//	report, err := runner.RunBatch(ctx, pairs, opts)
//	// report.Failed counts pairs whose item carries an error
package pipeline

import (
	"encoding/json"
	"image"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/brothertop/svgdiff/pkg/diffimg"
	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/geometry"
	"github.com/brothertop/svgdiff/pkg/plan"
	"github.com/brothertop/svgdiff/pkg/raster"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultThreshold is the per-channel pixel difference threshold.
	DefaultThreshold = diffimg.DefaultThreshold

	// DefaultAspectTolerance is the aspect-ratio mismatch tolerance.
	DefaultAspectTolerance = geometry.DefaultAspectTolerance

	// DefaultScale is the render scale multiplier.
	DefaultScale = plan.DefaultScaleFactor

	// DefaultWorkers is the batch concurrency. Batches run sequentially
	// unless the caller sizes concurrency to the backend's capacity.
	DefaultWorkers = 1
)

// Backend is the full rendering backend contract the pipeline consumes:
// rasterization, geometry queries, and element centroid resolution.
// raster.LocalBackend implements it; tests inject fakes.
type Backend interface {
	geometry.Querier
	plan.CentroidResolver
	raster.Renderer
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one comparison or batch run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Threshold is the per-channel pixel difference threshold in [1, 255].
	Threshold int `json:"threshold,omitempty"`

	// AspectTolerance is the aspect-ratio mismatch tolerance in [0, 1].
	// Nil means DefaultAspectTolerance; an explicit zero demands exactly
	// matching ratios.
	AspectTolerance *float64 `json:"aspect_tolerance,omitempty"`

	// Scale multiplies every planned render dimension.
	Scale int `json:"scale,omitempty"`

	// Resolution selects the render sizing policy.
	Resolution plan.Resolution `json:"-"`

	// Alignment selects the anchor policy.
	Alignment plan.Alignment `json:"-"`

	// ForceRepair regenerates both documents' viewBoxes even when they
	// already carry usable geometry.
	ForceRepair bool `json:"force_repair,omitempty"`

	// FailOnMismatch records an aspect-ratio mismatch as a pair failure
	// instead of a successful 100%-different result.
	FailOnMismatch bool `json:"fail_on_mismatch,omitempty"`

	// Workers bounds batch concurrency across pairs. Each pair's internal
	// steps still complete before its raster buffers are released.
	Workers int `json:"workers,omitempty"`

	// Logger receives progress and diagnostics. Not serialized.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks ranges and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if err := errors.ValidatePixelThreshold(o.Threshold); err != nil {
		return err
	}
	if o.AspectTolerance == nil {
		tol := DefaultAspectTolerance
		o.AspectTolerance = &tol
	}
	if err := errors.ValidateAspectTolerance(*o.AspectTolerance); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if err := errors.ValidateScaleFactor(o.Scale); err != nil {
		return err
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Workers < 1 {
		return errors.New(errors.ErrCodeValidation, "workers must be >= 1, got %d", o.Workers)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// fit maps the resolution policy to the backend fit instruction: scale
// upsizes uniformly, every other mode maps the coordinate window onto the
// full canvas.
func (o *Options) fit() raster.Fit {
	if o.Resolution == plan.ResolutionScale {
		return raster.FitUniform
	}
	return raster.FitStretch
}

// =============================================================================
// Result - Comparison Outcome
// =============================================================================

// Result is the outcome of comparing one document pair. It is immutable
// after creation.
type Result struct {
	// Path1 and Path2 identify the compared documents when the comparison
	// was file-based.
	Path1 string `json:"svg1_path,omitempty"`
	Path2 string `json:"svg2_path,omitempty"`

	// TotalPixels and DifferentPixels are the diff statistics.
	TotalPixels     uint64 `json:"total_pixels"`
	DifferentPixels uint64 `json:"different_pixels"`

	// DiffPercentage is retained at full precision internally; JSON
	// serialization rounds it to two decimal places.
	DiffPercentage float64 `json:"-"`

	// Threshold echoes the threshold the comparison ran with.
	Threshold int `json:"threshold"`

	// AspectRatioMismatch reports that the guard short-circuited the
	// comparison; DiffPercentage is 100 by definition in that case.
	AspectRatioMismatch bool `json:"aspect_ratio_mismatch,omitempty"`

	// MismatchDiff is the absolute aspect ratio difference.
	MismatchDiff float64 `json:"mismatch_diff,omitempty"`

	// Plan records the render dimensions and alignment offsets used.
	// Empty when the guard short-circuited before planning.
	Plan plan.RenderPlan `json:"plan"`

	// DiffImage marks differing pixels white on black. Nil for
	// mismatch-short-circuited results.
	DiffImage *image.RGBA `json:"-"`

	// Duration is the wall time of the whole pair pipeline.
	Duration time.Duration `json:"duration_ms"`
}

// RoundedPercentage returns DiffPercentage rounded to two decimal places,
// the form used in reports.
func (r *Result) RoundedPercentage() float64 {
	return math.Round(r.DiffPercentage*100) / 100
}

// MarshalJSON serializes the result with the reporting form of the
// percentage and the duration in milliseconds.
func (r *Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(struct {
		*alias
		DiffPercentage float64 `json:"diff_percentage"`
		DurationMS     int64   `json:"duration_ms"`
	}{
		alias:          (*alias)(r),
		DiffPercentage: r.RoundedPercentage(),
		DurationMS:     r.Duration.Milliseconds(),
	})
}
