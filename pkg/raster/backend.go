// Package raster renders SVG documents to RGBA buffers through an injected
// backend.
//
// The Adapter wraps any Renderer with the policy the comparison pipeline
// needs: a font-settle delay before capture, a bounded per-call timeout,
// and optional caching of rendered buffers. Backends render with a
// transparent background at device pixel ratio 1 so repeated renders of
// the same document are deterministic.
//
// A local backend built on oksvg/rasterx is provided for use without an
// external rendering engine; tests inject fakes.
package raster

import (
	"context"
	"image"
)

// Fit tells the backend how to place document content into the requested
// canvas when the content's aspect ratio differs from the canvas's.
type Fit int

const (
	// FitStretch maps the document's coordinate window onto the full
	// canvas, scaling each axis independently.
	FitStretch Fit = iota

	// FitUniform scales both axes by the same factor and centers the
	// content, leaving transparent margins.
	FitUniform
)

// Renderer is the rendering contract of the backend.
type Renderer interface {
	// Rasterize renders the document at the given pixel dimensions with a
	// transparent background and device pixel ratio 1.
	Rasterize(ctx context.Context, svg string, width, height int, fit Fit) (*image.RGBA, error)
}
