package raster

import (
	"context"
	"encoding/xml"
	"image"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/geometry"
	"github.com/brothertop/svgdiff/pkg/plan"
)

// LocalBackend renders SVG documents in-process with oksvg/rasterx. It
// implements the full backend contract: rendering, geometry queries, and
// element centroid resolution. Renders are deterministic, so callers
// normally pair it with a zero settle delay.
type LocalBackend struct{}

// NewLocalBackend creates an in-process rendering backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{}
}

// Rasterize renders the document onto a transparent canvas of the given
// dimensions at device pixel ratio 1.
func (b *LocalBackend) Rasterize(ctx context.Context, svg string, width, height int, fit Fit) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterization, err, "parse svg document")
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	tx, ty, tw, th := 0.0, 0.0, float64(width), float64(height)
	if fit == FitUniform && icon.ViewBox.W > 0 && icon.ViewBox.H > 0 {
		scale := math.Min(float64(width)/icon.ViewBox.W, float64(height)/icon.ViewBox.H)
		tw = icon.ViewBox.W * scale
		th = icon.ViewBox.H * scale
		tx = (float64(width) - tw) / 2
		ty = (float64(height) - th) / 2
	}
	icon.SetTarget(tx, ty, tw, th)

	scanner := rasterx.NewScannerGV(width, height, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)
	return dst, nil
}

// QueryGeometry scans the document's root element for viewBox, width,
// height and preserveAspectRatio. Percentage-valued width/height are
// reported as absent. It fails with ANALYSIS_FAILED when the first element
// is not an svg root.
func (b *LocalBackend) QueryGeometry(ctx context.Context, svg string) (geometry.Info, error) {
	if err := ctx.Err(); err != nil {
		return geometry.Info{}, err
	}

	root, err := rootElement(svg)
	if err != nil {
		return geometry.Info{}, err
	}

	var info geometry.Info
	for _, attr := range root.Attr {
		switch attr.Name.Local {
		case "viewBox":
			if vb, ok := parseViewBox(attr.Value); ok {
				info.ViewBox = vb
			}
		case "width":
			info.Width = parseLength(attr.Value)
		case "height":
			info.Height = parseLength(attr.Value)
		case "preserveAspectRatio":
			info.PreserveAspectRatio = strings.TrimSpace(attr.Value)
		}
	}
	return info, nil
}

// ResolveElementCentroid locates the element with the given id and returns
// the centroid of its geometric bounds. Supported shapes: rect, circle,
// ellipse, line, polygon, polyline.
func (b *LocalBackend) ResolveElementCentroid(ctx context.Context, svg, id string) (plan.Point, bool, error) {
	if err := ctx.Err(); err != nil {
		return plan.Point{}, false, err
	}

	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return plan.Point{}, false, nil
		}
		if err != nil {
			return plan.Point{}, false, errors.Wrap(errors.ErrCodeAnalysis, err, "scan svg document")
		}
		el, ok := tok.(xml.StartElement)
		if !ok || attrValue(el, "id") != id {
			continue
		}
		pt, err := shapeCentroid(el)
		if err != nil {
			return plan.Point{}, false, err
		}
		return pt, true, nil
	}
}

// rootElement returns the first start element, which must be an svg root.
func rootElement(svg string) (xml.StartElement, error) {
	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, errors.Wrap(errors.ErrCodeAnalysis, err, "locate root svg element")
		}
		if el, ok := tok.(xml.StartElement); ok {
			if el.Name.Local != "svg" {
				return xml.StartElement{}, errors.New(errors.ErrCodeAnalysis,
					"root element is <%s>, not <svg>", el.Name.Local)
			}
			return el, nil
		}
	}
}

// parseViewBox parses "x y w h" with spaces or commas as separators.
func parseViewBox(s string) (*geometry.ViewBox, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' })
	if len(fields) != 4 {
		return nil, false
	}
	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
	}
	return &geometry.ViewBox{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, true
}

// parseLength parses a width/height attribute in pixels. Percentage values
// are not pixel counts and yield nil, as do values with units the engine
// does not resolve.
func parseLength(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return nil
	}
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func attrValue(el xml.StartElement, name string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

func attrFloat(el xml.StartElement, name string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(attrValue(el, name)), 64)
	return v
}

// shapeCentroid computes the centroid of a basic shape's geometric bounds.
func shapeCentroid(el xml.StartElement) (plan.Point, error) {
	switch el.Name.Local {
	case "rect":
		return plan.Point{
			X: attrFloat(el, "x") + attrFloat(el, "width")/2,
			Y: attrFloat(el, "y") + attrFloat(el, "height")/2,
		}, nil
	case "circle", "ellipse":
		return plan.Point{X: attrFloat(el, "cx"), Y: attrFloat(el, "cy")}, nil
	case "line":
		return plan.Point{
			X: (attrFloat(el, "x1") + attrFloat(el, "x2")) / 2,
			Y: (attrFloat(el, "y1") + attrFloat(el, "y2")) / 2,
		}, nil
	case "polygon", "polyline":
		return pointsCentroid(attrValue(el, "points"))
	}
	return plan.Point{}, errors.New(errors.ErrCodeAlignment,
		"element <%s> is not a supported anchor shape", el.Name.Local)
}

// pointsCentroid returns the center of the bounding box of a points list.
func pointsCentroid(points string) (plan.Point, error) {
	fields := strings.FieldsFunc(points, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' })
	if len(fields) < 2 || len(fields)%2 != 0 {
		return plan.Point{}, errors.New(errors.ErrCodeAlignment, "malformed points attribute %q", points)
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(fields[i], 64)
		y, errY := strconv.ParseFloat(fields[i+1], 64)
		if errX != nil || errY != nil {
			return plan.Point{}, errors.New(errors.ErrCodeAlignment, "malformed points attribute %q", points)
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return plan.Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}, nil
}
