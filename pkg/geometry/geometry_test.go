package geometry

import (
	"context"
	"fmt"
	"testing"
)

func f64(v float64) *float64 { return &v }

// fakeQuerier maps document markup to canned geometry records.
type fakeQuerier struct {
	infos map[string]Info
	errs  map[string]error
}

func (q *fakeQuerier) QueryGeometry(_ context.Context, svg string) (Info, error) {
	if err, ok := q.errs[svg]; ok {
		return Info{}, err
	}
	info, ok := q.infos[svg]
	if !ok {
		return Info{}, fmt.Errorf("no root svg element")
	}
	return info, nil
}

func TestInfoSource(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want RatioSource
	}{
		{
			"viewbox preferred",
			Info{ViewBox: &ViewBox{0, 0, 100, 50}, Width: f64(10), Height: f64(10)},
			RatioFromViewBox,
		},
		{
			"attributes fallback",
			Info{Width: f64(200), Height: f64(100)},
			RatioFromAttributes,
		},
		{
			"empty requires repair",
			Info{},
			RatioRequiresRepair,
		},
		{
			"width only requires repair",
			Info{Width: f64(200)},
			RatioRequiresRepair,
		},
		{
			"degenerate viewbox falls back",
			Info{ViewBox: &ViewBox{0, 0, 0, 0}, Width: f64(200), Height: f64(100)},
			RatioFromAttributes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Source(); got != tt.want {
				t.Errorf("Source() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInfoAspectRatio(t *testing.T) {
	tests := []struct {
		name    string
		info    Info
		want    float64
		wantErr bool
	}{
		{"from viewbox", Info{ViewBox: &ViewBox{0, 0, 200, 100}}, 2.0, false},
		{"from attributes", Info{Width: f64(100), Height: f64(100)}, 1.0, false},
		{
			"viewbox wins over attributes",
			Info{ViewBox: &ViewBox{0, 0, 300, 100}, Width: f64(100), Height: f64(100)},
			3.0, false,
		},
		{"no geometry", Info{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.info.AspectRatio()
			if (err != nil) != tt.wantErr {
				t.Fatalf("AspectRatio() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("AspectRatio() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestRatioSourceString(t *testing.T) {
	if RatioFromViewBox.String() != "viewbox" {
		t.Errorf("RatioFromViewBox.String() = %q", RatioFromViewBox.String())
	}
	if RatioFromAttributes.String() != "attributes" {
		t.Errorf("RatioFromAttributes.String() = %q", RatioFromAttributes.String())
	}
	if RatioRequiresRepair.String() != "regenerate" {
		t.Errorf("RatioRequiresRepair.String() = %q", RatioRequiresRepair.String())
	}
}

func TestAnalyze(t *testing.T) {
	q := &fakeQuerier{infos: map[string]Info{
		"<svg/>": {ViewBox: &ViewBox{0, 0, 100, 100}},
	}}
	a := NewAnalyzer(q)

	info, err := a.Analyze(context.Background(), "<svg/>")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if info.ViewBox == nil || info.ViewBox.Width != 100 {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestAnalyzeRootless(t *testing.T) {
	a := NewAnalyzer(&fakeQuerier{})

	_, err := a.Analyze(context.Background(), "<p>not svg</p>")
	if err == nil {
		t.Fatal("expected error for rootless document")
	}
}
