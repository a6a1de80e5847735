package raster

import (
	"context"
	"testing"

	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/geometry"
)

func TestLocalQueryGeometry(t *testing.T) {
	b := NewLocalBackend()
	ctx := context.Background()

	tests := []struct {
		name string
		svg  string
		want geometry.Info
	}{
		{
			"viewbox and attributes",
			`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50" width="200" height="100"/>`,
			geometry.Info{
				ViewBox: &geometry.ViewBox{X: 0, Y: 0, Width: 100, Height: 50},
				Width:   f64(200), Height: f64(100),
			},
		},
		{
			"comma separated viewbox",
			`<svg viewBox="10,20,30,40"/>`,
			geometry.Info{ViewBox: &geometry.ViewBox{X: 10, Y: 20, Width: 30, Height: 40}},
		},
		{
			"px units stripped",
			`<svg width="640px" height="480px"/>`,
			geometry.Info{Width: f64(640), Height: f64(480)},
		},
		{
			"percentage treated as absent",
			`<svg width="100%" height="50%"/>`,
			geometry.Info{},
		},
		{
			"preserveAspectRatio",
			`<svg viewBox="0 0 1 1" preserveAspectRatio="xMidYMid meet"/>`,
			geometry.Info{
				ViewBox:             &geometry.ViewBox{Width: 1, Height: 1},
				PreserveAspectRatio: "xMidYMid meet",
			},
		},
		{
			"no geometry at all",
			`<svg><rect width="5" height="5"/></svg>`,
			geometry.Info{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.QueryGeometry(ctx, tt.svg)
			if err != nil {
				t.Fatalf("QueryGeometry: %v", err)
			}
			if !infoEqual(got, tt.want) {
				t.Errorf("QueryGeometry = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLocalQueryGeometryRootless(t *testing.T) {
	b := NewLocalBackend()
	ctx := context.Background()

	for _, svg := range []string{"", "plain text", `<html><body/></html>`} {
		_, err := b.QueryGeometry(ctx, svg)
		if !errors.Is(err, errors.ErrCodeAnalysis) {
			t.Errorf("QueryGeometry(%q) error = %v, want ANALYSIS_FAILED", svg, err)
		}
	}
}

func TestLocalResolveElementCentroid(t *testing.T) {
	b := NewLocalBackend()
	ctx := context.Background()
	doc := `<svg viewBox="0 0 100 100">
		<rect id="box" x="10" y="20" width="30" height="40"/>
		<circle id="dot" cx="50" cy="60" r="5"/>
		<line id="edge" x1="0" y1="0" x2="10" y2="20"/>
		<polygon id="tri" points="0,0 10,0 5,10"/>
		<g id="group"><rect width="1" height="1"/></g>
	</svg>`

	tests := []struct {
		id       string
		wantX    float64
		wantY    float64
		found    bool
		wantErr  bool
	}{
		{"box", 25, 40, true, false},
		{"dot", 50, 60, true, false},
		{"edge", 5, 10, true, false},
		{"tri", 5, 5, true, false},
		{"missing", 0, 0, false, false},
		{"group", 0, 0, false, true}, // unsupported anchor shape
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			pt, found, err := b.ResolveElementCentroid(ctx, doc, tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if found && (pt.X != tt.wantX || pt.Y != tt.wantY) {
				t.Errorf("centroid = (%g, %g), want (%g, %g)", pt.X, pt.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestLocalRasterize(t *testing.T) {
	b := NewLocalBackend()
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
		<rect x="0" y="0" width="10" height="10" fill="#ff0000"/>
	</svg>`

	img, err := b.Rasterize(context.Background(), svg, 20, 20, FitStretch)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if bounds := img.Bounds(); bounds.Dx() != 20 || bounds.Dy() != 20 {
		t.Fatalf("bounds = %v, want 20x20", bounds)
	}
	center := img.RGBAAt(10, 10)
	if center.R < 200 || center.A < 200 {
		t.Errorf("center pixel = %+v, want opaque red", center)
	}
}

func TestLocalRasterizeTransparentBackground(t *testing.T) {
	b := NewLocalBackend()
	// Small shape in the corner leaves the rest of the canvas untouched.
	svg := `<svg viewBox="0 0 100 100"><rect width="1" height="1" fill="#000"/></svg>`

	img, err := b.Rasterize(context.Background(), svg, 50, 50, FitStretch)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if px := img.RGBAAt(40, 40); px.A != 0 {
		t.Errorf("background pixel = %+v, want fully transparent", px)
	}
}

func TestLocalRasterizeInvalid(t *testing.T) {
	b := NewLocalBackend()

	_, err := b.Rasterize(context.Background(), "not xml at all <", 10, 10, FitStretch)
	if !errors.Is(err, errors.ErrCodeRasterization) {
		t.Errorf("error = %v, want RASTERIZATION_FAILED", err)
	}
}

func f64(v float64) *float64 { return &v }

func infoEqual(a, b geometry.Info) bool {
	if (a.ViewBox == nil) != (b.ViewBox == nil) {
		return false
	}
	if a.ViewBox != nil && *a.ViewBox != *b.ViewBox {
		return false
	}
	if !floatPtrEqual(a.Width, b.Width) || !floatPtrEqual(a.Height, b.Height) {
		return false
	}
	return a.PreserveAspectRatio == b.PreserveAspectRatio
}

func floatPtrEqual(a, b *float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}
