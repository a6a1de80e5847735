package observability

import (
	"context"
	"testing"
	"time"
)

// recordingPipelineHooks counts received events.
type recordingPipelineHooks struct {
	NoopPipelineHooks
	compareStarts  int
	compareDones   int
	batchStarts    int
}

func (h *recordingPipelineHooks) OnCompareStart(context.Context, string, string) {
	h.compareStarts++
}

func (h *recordingPipelineHooks) OnCompareComplete(context.Context, string, string, float64, time.Duration, error) {
	h.compareDones++
}

func (h *recordingPipelineHooks) OnBatchStart(context.Context, int) {
	h.batchStarts++
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	// Must not panic
	ctx := context.Background()
	Pipeline().OnCompareStart(ctx, "a.svg", "b.svg")
	Pipeline().OnCompareComplete(ctx, "a.svg", "b.svg", 0, time.Second, nil)
	Pipeline().OnBatchComplete(ctx, 1, 0, time.Second)
	Cache().OnCacheHit(ctx, "raster")
	Cache().OnCacheMiss(ctx, "raster")
	Cache().OnCacheSet(ctx, "raster", 128)
}

func TestSetPipelineHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)

	ctx := context.Background()
	Pipeline().OnCompareStart(ctx, "a.svg", "b.svg")
	Pipeline().OnCompareComplete(ctx, "a.svg", "b.svg", 1.5, time.Millisecond, nil)
	Pipeline().OnBatchStart(ctx, 3)

	if rec.compareStarts != 1 || rec.compareDones != 1 || rec.batchStarts != 1 {
		t.Errorf("events = %d/%d/%d, want 1/1/1", rec.compareStarts, rec.compareDones, rec.batchStarts)
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	SetPipelineHooks(nil)

	Pipeline().OnCompareStart(context.Background(), "a", "b")
	if rec.compareStarts != 1 {
		t.Error("nil registration replaced existing hooks")
	}
}

func TestReset(t *testing.T) {
	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	Reset()

	Pipeline().OnCompareStart(context.Background(), "a", "b")
	if rec.compareStarts != 0 {
		t.Error("Reset did not restore no-op hooks")
	}
}
