package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/brothertop/svgdiff/pkg/cache"
	"github.com/brothertop/svgdiff/pkg/errors"
)

// fakeRenderer returns a uniform image and records call counts.
type fakeRenderer struct {
	calls int
	color color.RGBA
	err   error
	delay time.Duration
}

func (r *fakeRenderer) Rasterize(ctx context.Context, svg string, width, height int, fit Fit) (*image.RGBA, error) {
	r.calls++
	if r.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.delay):
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, r.color)
		}
	}
	return img, nil
}

func noSettle() *time.Duration {
	d := time.Duration(0)
	return &d
}

func TestAdapterRender(t *testing.T) {
	backend := &fakeRenderer{color: color.RGBA{R: 255, A: 255}}
	a := NewAdapter(backend, AdapterOptions{SettleDelay: noSettle()})

	img, err := a.Render(context.Background(), "<svg/>", 10, 20, FitStretch)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 20 {
		t.Errorf("bounds = %v, want 10x20", b)
	}
}

func TestAdapterRejectsNonPositiveDimensions(t *testing.T) {
	a := NewAdapter(&fakeRenderer{}, AdapterOptions{SettleDelay: noSettle()})

	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 10}} {
		if _, err := a.Render(context.Background(), "<svg/>", dims[0], dims[1], FitStretch); err == nil {
			t.Errorf("Render(%dx%d) succeeded, want error", dims[0], dims[1])
		}
	}
}

func TestAdapterTimeout(t *testing.T) {
	backend := &fakeRenderer{delay: time.Second}
	a := NewAdapter(backend, AdapterOptions{SettleDelay: noSettle(), Timeout: 10 * time.Millisecond})

	_, err := a.Render(context.Background(), "<svg/>", 4, 4, FitStretch)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("error = %v, want TIMEOUT", err)
	}
}

func TestAdapterBackendFailure(t *testing.T) {
	backend := &fakeRenderer{err: fmt.Errorf("renderer crashed")}
	a := NewAdapter(backend, AdapterOptions{SettleDelay: noSettle()})

	_, err := a.Render(context.Background(), "<svg/>", 4, 4, FitStretch)
	if !errors.Is(err, errors.ErrCodeRasterization) {
		t.Errorf("error = %v, want RASTERIZATION_FAILED", err)
	}
}

func TestAdapterCache(t *testing.T) {
	backend := &fakeRenderer{color: color.RGBA{G: 255, A: 255}}
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := NewAdapter(backend, AdapterOptions{SettleDelay: noSettle(), Cache: c})
	ctx := context.Background()

	first, err := a.Render(ctx, "<svg/>", 8, 8, FitStretch)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := a.Render(ctx, "<svg/>", 8, 8, FitStretch)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1 (second render from cache)", backend.calls)
	}
	if first.RGBAAt(3, 3) != second.RGBAAt(3, 3) {
		t.Error("cached buffer differs from rendered buffer")
	}

	// Different dimensions miss the cache
	if _, err := a.Render(ctx, "<svg/>", 16, 16, FitStretch); err != nil {
		t.Fatalf("third render: %v", err)
	}
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2 after dimension change", backend.calls)
	}
}

// fitRenderer colors by fit mode so cached buffers from one fit are
// distinguishable from renders under the other.
type fitRenderer struct {
	calls int
}

func (r *fitRenderer) Rasterize(ctx context.Context, svg string, width, height int, fit Fit) (*image.RGBA, error) {
	r.calls++
	c := color.RGBA{R: 255, A: 255}
	if fit == FitUniform {
		c = color.RGBA{B: 255, A: 255}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

func TestAdapterCacheSeparatesFitModes(t *testing.T) {
	backend := &fitRenderer{}
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := NewAdapter(backend, AdapterOptions{SettleDelay: noSettle(), Cache: c})
	ctx := context.Background()

	stretch, err := a.Render(ctx, "<svg/>", 8, 8, FitStretch)
	if err != nil {
		t.Fatalf("stretch render: %v", err)
	}
	uniform, err := a.Render(ctx, "<svg/>", 8, 8, FitUniform)
	if err != nil {
		t.Fatalf("uniform render: %v", err)
	}
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2 (fit change must miss the cache)", backend.calls)
	}
	if stretch.RGBAAt(4, 4) != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("stretch pixel = %v, want red", stretch.RGBAAt(4, 4))
	}
	if uniform.RGBAAt(4, 4) != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("uniform pixel = %v, want blue (stale stretch buffer served)", uniform.RGBAAt(4, 4))
	}

	// Repeats under each fit hit their own entries.
	if _, err := a.Render(ctx, "<svg/>", 8, 8, FitUniform); err != nil {
		t.Fatalf("repeat uniform render: %v", err)
	}
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2 after cached repeat", backend.calls)
	}
}

func TestAdapterSettleDelayRespectsCancellation(t *testing.T) {
	settle := time.Minute
	a := NewAdapter(&fakeRenderer{}, AdapterOptions{SettleDelay: &settle, Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := a.Render(context.Background(), "<svg/>", 4, 4, FitStretch)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("error = %v, want TIMEOUT", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("settle delay ignored timeout, took %s", elapsed)
	}
}
