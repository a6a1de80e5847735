package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/observability"
)

// =============================================================================
// Batch Execution
// =============================================================================

// Pair names the two documents of one batch comparison.
type Pair struct {
	SVG1Path string `json:"svg1_path"`
	SVG2Path string `json:"svg2_path"`
}

// ItemStatus is the terminal state of one batch item.
type ItemStatus string

const (
	StatusSucceeded ItemStatus = "succeeded"
	StatusFailed    ItemStatus = "failed"
)

// BatchItem is the outcome of one pair within a batch. Exactly one of
// Result and Err is set.
type BatchItem struct {
	Pair   Pair       `json:"pair"`
	Status ItemStatus `json:"status"`
	Result *Result    `json:"result,omitempty"`
	Err    string     `json:"error,omitempty"`
}

// BatchReport aggregates a whole batch run. Items preserve input order.
type BatchReport struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Items      []BatchItem   `json:"items"`
	Duration   time.Duration `json:"duration_ms"`
}

// RunBatch compares every pair, isolating failures: a failing pair is
// recorded in its item and the batch continues. The returned error covers
// batch-level problems only (invalid options, empty input).
func (r *Runner) RunBatch(ctx context.Context, pairs []Pair, opts Options) (*BatchReport, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidBatch, "batch contains no pairs")
	}

	start := time.Now()
	observability.Pipeline().OnBatchStart(ctx, len(pairs))
	opts.Logger.Info("starting batch", "pairs", len(pairs), "workers", opts.Workers)

	items := make([]BatchItem, len(pairs))
	if opts.Workers == 1 {
		for i, pair := range pairs {
			items[i] = r.runPair(ctx, pair, opts)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, opts.Workers)
		for i, pair := range pairs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				items[i] = r.runPair(ctx, pair, opts)
			}()
		}
		wg.Wait()
	}

	report := &BatchReport{
		Total:    len(pairs),
		Items:    items,
		Duration: time.Since(start),
	}
	for i := range items {
		if items[i].Status == StatusSucceeded {
			report.Successful++
		} else {
			report.Failed++
		}
	}

	opts.Logger.Info("batch complete",
		"successful", report.Successful, "failed", report.Failed, "duration", report.Duration)
	observability.Pipeline().OnBatchComplete(ctx, report.Successful, report.Failed, time.Since(start))
	return report, nil
}

// runPair executes one pair and folds the outcome into a BatchItem.
func (r *Runner) runPair(ctx context.Context, pair Pair, opts Options) BatchItem {
	result, err := r.ComparePaths(ctx, pair.SVG1Path, pair.SVG2Path, opts)
	if err != nil {
		opts.Logger.Warn("pair failed",
			"svg1", pair.SVG1Path, "svg2", pair.SVG2Path, "err", errors.UserMessage(err))
		return BatchItem{Pair: pair, Status: StatusFailed, Err: errors.UserMessage(err)}
	}
	return BatchItem{Pair: pair, Status: StatusSucceeded, Result: result}
}
