package plan

import (
	"context"
	"testing"

	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/geometry"
)

func f64(v float64) *float64 { return &v }

func infoVB(w, h float64) geometry.Info {
	return geometry.Info{ViewBox: &geometry.ViewBox{Width: w, Height: h}}
}

func infoAttrs(w, h float64) geometry.Info {
	return geometry.Info{Width: f64(w), Height: f64(h)}
}

func mustPlan(t *testing.T, p *Planner, info1, info2 geometry.Info, opts Options) RenderPlan {
	t.Helper()
	rp, err := p.Plan(context.Background(), "<a/>", "<b/>", info1, info2, opts)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	return rp
}

func TestPlanViewBoxMode(t *testing.T) {
	p := NewPlanner(nil)

	tests := []struct {
		name         string
		info1, info2 geometry.Info
		want1, want2 Size
	}{
		{
			"viewbox dims when no attributes",
			infoVB(100, 100), infoVB(50, 50),
			Size{100, 100}, Size{50, 50},
		},
		{
			"attributes win over viewbox",
			geometry.Info{ViewBox: &geometry.ViewBox{Width: 300, Height: 100}, Width: f64(120), Height: f64(60)},
			infoVB(50, 50),
			Size{120, 60}, Size{50, 50},
		},
		{
			"default fallback",
			geometry.Info{}, infoVB(10, 10),
			Size{800, 600}, Size{10, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := mustPlan(t, p, tt.info1, tt.info2, Options{Resolution: ResolutionViewBox, Scale: 1})
			if rp.Doc1 != tt.want1 || rp.Doc2 != tt.want2 {
				t.Errorf("sizes = %+v/%+v, want %+v/%+v", rp.Doc1, rp.Doc2, tt.want1, tt.want2)
			}
		})
	}
}

func TestPlanNominalMode(t *testing.T) {
	p := NewPlanner(nil)

	// Nominal ignores the viewBox entirely.
	info1 := geometry.Info{ViewBox: &geometry.ViewBox{Width: 999, Height: 999}}
	rp := mustPlan(t, p, info1, infoAttrs(200, 100), Options{Resolution: ResolutionNominal, Scale: 1})
	if rp.Doc1 != (Size{800, 600}) {
		t.Errorf("doc1 = %+v, want default 800x600 in nominal mode", rp.Doc1)
	}
	if rp.Doc2 != (Size{200, 100}) {
		t.Errorf("doc2 = %+v, want 200x100", rp.Doc2)
	}
}

func TestPlanScaleAndClip(t *testing.T) {
	p := NewPlanner(nil)
	a, b := infoVB(200, 100), infoVB(100, 100)

	// scale: both sized to the elementwise maximum
	rp := mustPlan(t, p, a, b, Options{Resolution: ResolutionScale, Scale: 1})
	want := Size{200, 100}
	if rp.Doc1 != want || rp.Doc2 != want {
		t.Errorf("scale sizes = %+v/%+v, want both %+v", rp.Doc1, rp.Doc2, want)
	}

	// stretch: identical target computation
	rs := mustPlan(t, p, a, b, Options{Resolution: ResolutionStretch, Scale: 1})
	if rs.Doc1 != want || rs.Doc2 != want {
		t.Errorf("stretch sizes = %+v/%+v, want both %+v", rs.Doc1, rs.Doc2, want)
	}

	// clip: elementwise minimum
	rc := mustPlan(t, p, a, b, Options{Resolution: ResolutionClip, Scale: 1})
	wantClip := Size{100, 100}
	if rc.Doc1 != wantClip || rc.Doc2 != wantClip {
		t.Errorf("clip sizes = %+v/%+v, want both %+v", rc.Doc1, rc.Doc2, wantClip)
	}
}

func TestPlanScaleFactor(t *testing.T) {
	p := NewPlanner(nil)

	rp := mustPlan(t, p, infoVB(100, 50), infoVB(100, 50), Options{Resolution: ResolutionViewBox, Scale: 4})
	if rp.Doc1 != (Size{400, 200}) {
		t.Errorf("doc1 = %+v, want 400x200 at scale 4", rp.Doc1)
	}
	if rp.CanvasWidth != 400 || rp.CanvasHeight != 200 {
		t.Errorf("canvas = %dx%d, want 400x200", rp.CanvasWidth, rp.CanvasHeight)
	}
}

func TestPlanDefaultScale(t *testing.T) {
	p := NewPlanner(nil)

	// Zero scale falls back to the default factor of 4.
	rp := mustPlan(t, p, infoVB(10, 10), infoVB(10, 10), Options{Resolution: ResolutionViewBox})
	if rp.Doc1 != (Size{40, 40}) {
		t.Errorf("doc1 = %+v, want 40x40 at default scale", rp.Doc1)
	}
}

func TestPlanCanvasIsElementwiseMax(t *testing.T) {
	p := NewPlanner(nil)

	rp := mustPlan(t, p, infoVB(300, 50), infoVB(100, 200), Options{Resolution: ResolutionViewBox, Scale: 1})
	if rp.CanvasWidth != 300 || rp.CanvasHeight != 200 {
		t.Errorf("canvas = %dx%d, want 300x200", rp.CanvasWidth, rp.CanvasHeight)
	}
}

func TestPlanDeterminism(t *testing.T) {
	p := NewPlanner(nil)
	opts := Options{Resolution: ResolutionScale, Scale: 2, Alignment: Alignment{Mode: AlignViewBoxCenter}}
	a := geometry.Info{ViewBox: &geometry.ViewBox{X: 5, Y: 10, Width: 200, Height: 100}}
	b := infoVB(100, 100)

	first := mustPlan(t, p, a, b, opts)
	for i := 0; i < 10; i++ {
		if got := mustPlan(t, p, a, b, opts); got != first {
			t.Fatalf("plan not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestPlanNonPositiveDimensions(t *testing.T) {
	p := NewPlanner(nil)

	// Sub-pixel attribute collapses to zero after rounding.
	_, err := p.Plan(context.Background(), "<a/>", "<b/>", infoAttrs(0.1, 100), infoVB(10, 10),
		Options{Resolution: ResolutionViewBox, Scale: 1})
	if !errors.Is(err, errors.ErrCodePlan) {
		t.Errorf("error = %v, want PLAN_INVALID", err)
	}
}

func TestPlanInvalidScale(t *testing.T) {
	p := NewPlanner(nil)

	_, err := p.Plan(context.Background(), "<a/>", "<b/>", infoVB(10, 10), infoVB(10, 10),
		Options{Resolution: ResolutionViewBox, Scale: -1})
	if err == nil {
		t.Fatal("expected error for negative scale")
	}
}

func TestParseResolution(t *testing.T) {
	for _, name := range []string{"nominal", "viewbox", "full", "scale", "stretch", "clip"} {
		r, err := ParseResolution(name)
		if err != nil {
			t.Errorf("ParseResolution(%q): %v", name, err)
		}
		if r.String() != name {
			t.Errorf("round trip %q -> %q", name, r.String())
		}
	}

	if _, err := ParseResolution("bilinear"); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("ParseResolution(bilinear) error = %v, want INVALID_MODE", err)
	}
}
