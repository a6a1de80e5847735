package repair

import (
	"context"
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/brothertop/svgdiff/pkg/errors"
)

// BoundsRepairer regenerates a viewBox from the union of the document's
// basic shape bounds (rect, circle, ellipse, line, polygon, polyline).
// Documents whose content is entirely paths or text have no computable
// bounds here and fail with REPAIR_FAILED; use a CommandRepairer with a
// full rendering tool for those.
type BoundsRepairer struct{}

// NewBoundsRepairer creates an in-process repairer.
func NewBoundsRepairer() *BoundsRepairer {
	return &BoundsRepairer{}
}

// Repair returns a copy of the document whose root element carries a
// content-fitting viewBox and matching width/height.
func (r *BoundsRepairer) Repair(ctx context.Context, svg string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	bounds, ok, err := contentBounds(svg)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New(errors.ErrCodeRepair,
			"document has no basic shapes to derive a viewBox from")
	}

	w, h := bounds.maxX-bounds.minX, bounds.maxY-bounds.minY
	if w <= 0 || h <= 0 {
		return "", errors.New(errors.ErrCodeRepair,
			"computed content bounds are degenerate: %gx%g", w, h)
	}

	patched, err := rewriteRoot(svg, bounds.minX, bounds.minY, w, h)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRepair, err, "rewrite root element")
	}
	return patched, nil
}

type bbox struct {
	minX, minY, maxX, maxY float64
}

func (b *bbox) extend(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.minY = math.Min(b.minY, y)
	b.maxX = math.Max(b.maxX, x)
	b.maxY = math.Max(b.maxY, y)
}

// contentBounds unions the bounds of every basic shape in the document.
func contentBounds(svg string) (bbox, bool, error) {
	b := bbox{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	found := false

	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return b, found, nil
		}
		if err != nil {
			return bbox{}, false, errors.Wrap(errors.ErrCodeRepair, err, "scan svg document")
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch el.Name.Local {
		case "rect":
			x, y := attr(el, "x"), attr(el, "y")
			w, h := attr(el, "width"), attr(el, "height")
			if w > 0 && h > 0 {
				b.extend(x, y)
				b.extend(x+w, y+h)
				found = true
			}
		case "circle":
			cx, cy, rad := attr(el, "cx"), attr(el, "cy"), attr(el, "r")
			if rad > 0 {
				b.extend(cx-rad, cy-rad)
				b.extend(cx+rad, cy+rad)
				found = true
			}
		case "ellipse":
			cx, cy := attr(el, "cx"), attr(el, "cy")
			rx, ry := attr(el, "rx"), attr(el, "ry")
			if rx > 0 && ry > 0 {
				b.extend(cx-rx, cy-ry)
				b.extend(cx+rx, cy+ry)
				found = true
			}
		case "line":
			b.extend(attr(el, "x1"), attr(el, "y1"))
			b.extend(attr(el, "x2"), attr(el, "y2"))
			found = true
		case "polygon", "polyline":
			if extendPoints(&b, attrString(el, "points")) {
				found = true
			}
		}
	}
}

func attr(el xml.StartElement, name string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(attrString(el, name)), 64)
	return v
}

func attrString(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func extendPoints(b *bbox, points string) bool {
	fields := strings.FieldsFunc(points, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' })
	if len(fields) < 2 || len(fields)%2 != 0 {
		return false
	}
	any := false
	for i := 0; i < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(fields[i], 64)
		y, errY := strconv.ParseFloat(fields[i+1], 64)
		if errX != nil || errY != nil {
			continue
		}
		b.extend(x, y)
		any = true
	}
	return any
}
