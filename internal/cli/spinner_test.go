package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("working")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner("idle")
	s.Start()
	s.Stop()
}

func TestSpinnerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "cancellable")
	s.Start()

	cancel()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
}

func TestSpinnerDoubleStop(t *testing.T) {
	s := newSpinner("twice")
	s.Start()
	s.Stop()
	// Second Stop must not panic or deadlock.
	s.Stop()
}
