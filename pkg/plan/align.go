package plan

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/geometry"
)

// Point is a location in a document's own user-space coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CentroidResolver locates the geometric centroid of the element with the
// given id. The second return value reports whether the element exists.
type CentroidResolver interface {
	ResolveElementCentroid(ctx context.Context, svg, id string) (Point, bool, error)
}

// AlignmentMode selects how the per-document anchor point is computed.
type AlignmentMode int

const (
	// AlignOrigin anchors both documents at (0,0).
	AlignOrigin AlignmentMode = iota

	// AlignViewBoxTopLeft anchors each document at its viewBox (x, y).
	AlignViewBoxTopLeft

	// AlignViewBoxCenter anchors each document at its viewBox center.
	AlignViewBoxCenter

	// AlignObject anchors each document at the centroid of the element
	// named by Alignment.ObjectID, resolved independently per document.
	AlignObject

	// AlignCustom anchors both documents at the same literal point.
	AlignCustom
)

// Alignment is a fully specified alignment policy: the mode plus the
// payload some modes need.
type Alignment struct {
	Mode     AlignmentMode
	ObjectID string // element id for AlignObject
	Custom   Point  // literal anchor for AlignCustom
}

// String returns the canonical command-line form of the alignment.
func (a Alignment) String() string {
	switch a.Mode {
	case AlignOrigin:
		return "origin"
	case AlignViewBoxTopLeft:
		return "viewbox-topleft"
	case AlignViewBoxCenter:
		return "viewbox-center"
	case AlignObject:
		return "object:" + a.ObjectID
	case AlignCustom:
		return fmt.Sprintf("custom:%g,%g", a.Custom.X, a.Custom.Y)
	}
	return "unknown"
}

// ParseAlignment converts a command-line alignment spec into an Alignment.
// Recognized forms: "origin", "viewbox-topleft", "viewbox-center",
// "object:<id>", "custom:<x>,<y>". It fails with INVALID_MODE for anything
// else.
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "origin":
		return Alignment{Mode: AlignOrigin}, nil
	case "viewbox-topleft":
		return Alignment{Mode: AlignViewBoxTopLeft}, nil
	case "viewbox-center":
		return Alignment{Mode: AlignViewBoxCenter}, nil
	}

	if id, ok := strings.CutPrefix(s, "object:"); ok {
		if err := errors.ValidateElementID(id); err != nil {
			return Alignment{}, err
		}
		return Alignment{Mode: AlignObject, ObjectID: id}, nil
	}

	if coords, ok := strings.CutPrefix(s, "custom:"); ok {
		xs, ys, ok := strings.Cut(coords, ",")
		if !ok {
			return Alignment{}, errors.New(errors.ErrCodeInvalidMode,
				"custom alignment must be custom:<x>,<y>, got %q", s)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if errX != nil || errY != nil {
			return Alignment{}, errors.New(errors.ErrCodeInvalidMode,
				"custom alignment coordinates must be numeric, got %q", coords)
		}
		return Alignment{Mode: AlignCustom, Custom: Point{X: x, Y: y}}, nil
	}

	return Alignment{}, errors.New(errors.ErrCodeInvalidMode,
		"unknown alignment mode %q (valid: origin, viewbox-topleft, viewbox-center, object:<id>, custom:<x>,<y>)", s)
}

// anchor computes one document's alignment anchor in its own user space.
func (p *Planner) anchor(ctx context.Context, svg string, info geometry.Info, a Alignment) (Point, error) {
	switch a.Mode {
	case AlignOrigin:
		return Point{}, nil

	case AlignViewBoxTopLeft:
		if vb := info.ViewBox; vb != nil {
			return Point{X: vb.X, Y: vb.Y}, nil
		}
		return Point{}, nil

	case AlignViewBoxCenter:
		if vb := info.ViewBox; vb != nil {
			return Point{X: vb.X + vb.Width/2, Y: vb.Y + vb.Height/2}, nil
		}
		w, h := viewboxChainSize(info)
		return Point{X: w / 2, Y: h / 2}, nil

	case AlignObject:
		if p.resolver == nil {
			return Point{}, errors.New(errors.ErrCodeAlignment,
				"object alignment requires a centroid resolver")
		}
		pt, found, err := p.resolver.ResolveElementCentroid(ctx, svg, a.ObjectID)
		if err != nil {
			return Point{}, errors.Wrap(errors.ErrCodeAlignment, err,
				"resolve centroid of element %q", a.ObjectID)
		}
		if !found {
			return Point{}, errors.New(errors.ErrCodeAlignment,
				"element %q not found in document", a.ObjectID)
		}
		return pt, nil

	case AlignCustom:
		return a.Custom, nil
	}

	return Point{}, errors.New(errors.ErrCodeInvalidMode, "unknown alignment mode %d", a.Mode)
}
