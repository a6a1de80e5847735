// Package geometry extracts and reconciles the intrinsic geometry of SVG
// documents before comparison.
//
// Two stages live here:
//
//  1. The Analyzer queries a document's root element for viewBox, width,
//     height and preserveAspectRatio through an injected backend.
//  2. The Guard compares the aspect ratios of two analyzed documents and
//     short-circuits the pipeline when they diverge beyond a tolerance,
//     optionally regenerating a missing viewBox first.
//
// Percentage-valued width/height attributes (e.g. "100%") are never parsed
// as pixel counts; they are treated as absent. A document with neither a
// viewBox nor numeric width/height cannot yield an aspect ratio and must be
// repaired before comparison.
package geometry

import (
	"github.com/brothertop/svgdiff/pkg/errors"
)

// ViewBox is the user-space coordinate window of an SVG document.
type ViewBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Info holds the geometric metadata extracted from one SVG document.
// Width and Height are nil when the attribute is missing or
// percentage-valued. The zero Info describes a document with no usable
// geometry at all.
type Info struct {
	ViewBox             *ViewBox `json:"view_box,omitempty"`
	Width               *float64 `json:"width,omitempty"`
	Height              *float64 `json:"height,omitempty"`
	PreserveAspectRatio string   `json:"preserve_aspect_ratio,omitempty"`
}

// RatioSource identifies where a document's aspect ratio came from.
type RatioSource int

const (
	// RatioFromViewBox means the ratio was derived from viewBox dimensions.
	RatioFromViewBox RatioSource = iota

	// RatioFromAttributes means the ratio was derived from the width and
	// height attributes because no viewBox was present.
	RatioFromAttributes

	// RatioRequiresRepair means the document carries neither a viewBox nor
	// numeric width/height and must be regenerated before it has a ratio.
	RatioRequiresRepair
)

// String returns the source name used in logs and reports.
func (s RatioSource) String() string {
	switch s {
	case RatioFromViewBox:
		return "viewbox"
	case RatioFromAttributes:
		return "attributes"
	case RatioRequiresRepair:
		return "regenerate"
	}
	return "unknown"
}

// Source classifies where this document's aspect ratio would come from.
// The viewBox is preferred; width/height attributes are the fallback.
func (i Info) Source() RatioSource {
	if i.ViewBox != nil && i.ViewBox.Width > 0 && i.ViewBox.Height > 0 {
		return RatioFromViewBox
	}
	if i.Width != nil && i.Height != nil && *i.Width > 0 && *i.Height > 0 {
		return RatioFromAttributes
	}
	return RatioRequiresRepair
}

// AspectRatio returns width divided by height, preferring viewBox
// dimensions and falling back to the width/height attributes. It returns
// an ANALYSIS_FAILED error when the document has neither.
func (i Info) AspectRatio() (float64, error) {
	switch i.Source() {
	case RatioFromViewBox:
		return i.ViewBox.Width / i.ViewBox.Height, nil
	case RatioFromAttributes:
		return *i.Width / *i.Height, nil
	}
	return 0, errors.New(errors.ErrCodeAnalysis,
		"document has neither a viewBox nor numeric width/height; viewBox repair is required")
}

// HasGeometry reports whether the document can yield an aspect ratio
// without repair.
func (i Info) HasGeometry() bool {
	return i.Source() != RatioRequiresRepair
}
