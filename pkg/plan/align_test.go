package plan

import (
	"context"
	"testing"

	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/geometry"
)

// fakeResolver maps (svg, id) to canned centroids.
type fakeResolver struct {
	centroids map[string]Point // keyed by svg + "#" + id
}

func (r *fakeResolver) ResolveElementCentroid(_ context.Context, svg, id string) (Point, bool, error) {
	pt, ok := r.centroids[svg+"#"+id]
	return pt, ok, nil
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		in      string
		want    Alignment
		wantErr bool
	}{
		{"origin", Alignment{Mode: AlignOrigin}, false},
		{"viewbox-topleft", Alignment{Mode: AlignViewBoxTopLeft}, false},
		{"viewbox-center", Alignment{Mode: AlignViewBoxCenter}, false},
		{"object:logo", Alignment{Mode: AlignObject, ObjectID: "logo"}, false},
		{"custom:10,20", Alignment{Mode: AlignCustom, Custom: Point{10, 20}}, false},
		{"custom:-1.5, 2.25", Alignment{Mode: AlignCustom, Custom: Point{-1.5, 2.25}}, false},
		{"custom:abc,def", Alignment{}, true},
		{"custom:10", Alignment{}, true},
		{"object:", Alignment{}, true},
		{"centered", Alignment{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlignment(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlignment(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAlignment(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAlignmentString(t *testing.T) {
	specs := []string{"origin", "viewbox-topleft", "viewbox-center", "object:logo", "custom:1,2"}
	for _, s := range specs {
		a, err := ParseAlignment(s)
		if err != nil {
			t.Fatalf("ParseAlignment(%q): %v", s, err)
		}
		if a.String() != s {
			t.Errorf("round trip %q -> %q", s, a.String())
		}
	}
}

func TestAnchorOffsets(t *testing.T) {
	p := NewPlanner(nil)
	info1 := geometry.Info{ViewBox: &geometry.ViewBox{X: 10, Y: 20, Width: 100, Height: 100}}
	info2 := geometry.Info{ViewBox: &geometry.ViewBox{X: 0, Y: 0, Width: 100, Height: 100}}

	tests := []struct {
		name             string
		align            Alignment
		wantOffX, wantY  float64
	}{
		{"origin is always zero", Alignment{Mode: AlignOrigin}, 0, 0},
		{"viewbox topleft", Alignment{Mode: AlignViewBoxTopLeft}, 10, 20},
		{"viewbox center", Alignment{Mode: AlignViewBoxCenter}, 10, 20},
		{"custom cancels out", Alignment{Mode: AlignCustom, Custom: Point{42, 7}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := mustPlan(t, p, info1, info2, Options{
				Resolution: ResolutionViewBox,
				Scale:      1,
				Alignment:  tt.align,
			})
			if rp.OffsetX != tt.wantOffX || rp.OffsetY != tt.wantY {
				t.Errorf("offset = (%g, %g), want (%g, %g)", rp.OffsetX, rp.OffsetY, tt.wantOffX, tt.wantY)
			}
		})
	}
}

func TestObjectAnchor(t *testing.T) {
	resolver := &fakeResolver{centroids: map[string]Point{
		"<a/>#logo": {X: 30, Y: 40},
		"<b/>#logo": {X: 10, Y: 15},
	}}
	p := NewPlanner(resolver)

	rp := mustPlan(t, p, infoVB(100, 100), infoVB(100, 100), Options{
		Resolution: ResolutionViewBox,
		Scale:      1,
		Alignment:  Alignment{Mode: AlignObject, ObjectID: "logo"},
	})
	if rp.OffsetX != 20 || rp.OffsetY != 25 {
		t.Errorf("offset = (%g, %g), want (20, 25)", rp.OffsetX, rp.OffsetY)
	}
}

func TestObjectAnchorMissingElement(t *testing.T) {
	resolver := &fakeResolver{centroids: map[string]Point{
		"<a/>#logo": {X: 1, Y: 1},
		// "<b/>" has no #logo
	}}
	p := NewPlanner(resolver)

	_, err := p.Plan(context.Background(), "<a/>", "<b/>", infoVB(100, 100), infoVB(100, 100), Options{
		Resolution: ResolutionViewBox,
		Scale:      1,
		Alignment:  Alignment{Mode: AlignObject, ObjectID: "logo"},
	})
	if !errors.Is(err, errors.ErrCodeAlignment) {
		t.Errorf("error = %v, want ALIGNMENT_FAILED", err)
	}
}

func TestObjectAnchorNoResolver(t *testing.T) {
	p := NewPlanner(nil)

	_, err := p.Plan(context.Background(), "<a/>", "<b/>", infoVB(10, 10), infoVB(10, 10), Options{
		Resolution: ResolutionViewBox,
		Scale:      1,
		Alignment:  Alignment{Mode: AlignObject, ObjectID: "logo"},
	})
	if !errors.Is(err, errors.ErrCodeAlignment) {
		t.Errorf("error = %v, want ALIGNMENT_FAILED", err)
	}
}
