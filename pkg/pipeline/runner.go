package pipeline

import (
	"context"
	"image"
	"os"
	"time"

	"github.com/brothertop/svgdiff/pkg/cache"
	"github.com/brothertop/svgdiff/pkg/diffimg"
	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/geometry"
	"github.com/brothertop/svgdiff/pkg/observability"
	"github.com/brothertop/svgdiff/pkg/plan"
	"github.com/brothertop/svgdiff/pkg/raster"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Runner - Pipeline Execution
// =============================================================================

// Runner executes the comparison pipeline. It is safe for concurrent use.
type Runner struct {
	backend  Backend
	analyzer *geometry.Analyzer
	planner  *plan.Planner
	adapter  *raster.Adapter
	repairer geometry.Repairer
	logger   *log.Logger
}

// RunnerOptions configures pipeline-level collaborators. The zero value
// pairs the backend with an in-process repairer, no cache, and a discard
// logger.
type RunnerOptions struct {
	// Repairer regenerates missing viewBoxes. Nil leaves mandatory
	// repairs failing with a repair error.
	Repairer geometry.Repairer

	// Cache stores raster buffers keyed by document content, size, and
	// fit mode.
	Cache cache.Cache

	// Logger receives pipeline diagnostics.
	Logger *log.Logger

	// SettleDelay overrides the adapter's post-load settle delay.
	SettleDelay *time.Duration

	// Timeout bounds a single rasterization.
	Timeout time.Duration
}

// NewRunner creates a Runner around the given backend.
func NewRunner(backend Backend, opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	adapter := raster.NewAdapter(backend, raster.AdapterOptions{
		SettleDelay: opts.SettleDelay,
		Timeout:     opts.Timeout,
		Cache:       opts.Cache,
		Logger:      logger,
	})
	return &Runner{
		backend:  backend,
		analyzer: geometry.NewAnalyzer(backend),
		planner:  plan.NewPlanner(backend),
		adapter:  adapter,
		repairer: opts.Repairer,
		logger:   logger,
	}
}

// Compare runs the full pipeline on two SVG documents given as source text.
func (r *Runner) Compare(ctx context.Context, svg1, svg2 string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	logger := opts.Logger
	info1, err := r.analyzer.Analyze(ctx, svg1)
	if err != nil {
		return nil, err
	}
	info2, err := r.analyzer.Analyze(ctx, svg2)
	if err != nil {
		return nil, err
	}
	guard, err := r.analyzer.Guard(ctx, svg1, svg2, info1, info2, geometry.GuardOptions{
		Tolerance:   *opts.AspectTolerance,
		ForceRepair: opts.ForceRepair,
		Repairer:    r.repairer,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	if !guard.Proceed {
		logger.Info("aspect ratios diverge, skipping render",
			"ratio1", guard.Ratio1, "ratio2", guard.Ratio2, "diff", guard.MismatchDiff)
		result := &Result{
			DiffPercentage:      100,
			Threshold:           opts.Threshold,
			AspectRatioMismatch: true,
			MismatchDiff:        guard.MismatchDiff,
			Duration:            time.Since(start),
		}
		if opts.FailOnMismatch {
			return result, errors.New(errors.ErrCodeValidation,
				"aspect ratio mismatch: %.6f exceeds tolerance %.6f", guard.MismatchDiff, *opts.AspectTolerance)
		}
		return result, nil
	}

	// Repairs may have rewritten either document.
	svg1, svg2 = guard.SVG1, guard.SVG2

	renderPlan, err := r.planner.Plan(ctx, svg1, svg2, guard.Info1, guard.Info2, plan.Options{
		Alignment:  opts.Alignment,
		Resolution: opts.Resolution,
		Scale:      opts.Scale,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("render plan",
		"doc1", renderPlan.Doc1, "doc2", renderPlan.Doc2,
		"canvas_w", renderPlan.CanvasWidth, "canvas_h", renderPlan.CanvasHeight,
		"offset_x", renderPlan.OffsetX, "offset_y", renderPlan.OffsetY)

	fit := opts.fit()
	img1, img2, err := r.renderPair(ctx, svg1, svg2, renderPlan, fit)
	if err != nil {
		return nil, err
	}

	diff, err := diffimg.Diff(img1, img2, opts.Threshold)
	if err != nil {
		return nil, err
	}

	result := &Result{
		TotalPixels:     diff.TotalPixels,
		DifferentPixels: diff.DifferentPixels,
		DiffPercentage:  diff.DiffPercentage,
		Threshold:       diff.Threshold,
		MismatchDiff:    guard.MismatchDiff,
		Plan:            renderPlan,
		DiffImage:       diff.DiffImage,
		Duration:        time.Since(start),
	}
	logger.Info("comparison complete",
		"different", result.DifferentPixels, "total", result.TotalPixels,
		"percent", result.RoundedPercentage())
	return result, nil
}

// ComparePaths reads both documents from disk and runs Compare. The
// resulting Result carries the input paths.
func (r *Runner) ComparePaths(ctx context.Context, path1, path2 string, opts Options) (*Result, error) {
	start := time.Now()
	observability.Pipeline().OnCompareStart(ctx, path1, path2)
	result, err := r.comparePaths(ctx, path1, path2, opts)
	pct := 0.0
	if result != nil {
		pct = result.DiffPercentage
	}
	observability.Pipeline().OnCompareComplete(ctx, path1, path2, pct, time.Since(start), err)
	return result, err
}

func (r *Runner) comparePaths(ctx context.Context, path1, path2 string, opts Options) (*Result, error) {
	svg1, err := readDocument(path1)
	if err != nil {
		return nil, err
	}
	svg2, err := readDocument(path2)
	if err != nil {
		return nil, err
	}
	result, err := r.Compare(ctx, svg1, svg2, opts)
	if result != nil {
		result.Path1 = path1
		result.Path2 = path2
	}
	return result, err
}

// renderPair rasterizes both documents concurrently.
func (r *Runner) renderPair(ctx context.Context, svg1, svg2 string, p plan.RenderPlan, fit raster.Fit) (*image.RGBA, *image.RGBA, error) {
	type rendered struct {
		img *image.RGBA
		err error
	}
	ch := make(chan rendered, 1)
	go func() {
		img, err := r.adapter.Render(ctx, svg1, p.Doc1.Width, p.Doc1.Height, fit)
		ch <- rendered{img, err}
	}()
	img2, err2 := r.adapter.Render(ctx, svg2, p.Doc2.Width, p.Doc2.Height, fit)
	first := <-ch
	if first.err != nil {
		return nil, nil, first.err
	}
	if err2 != nil {
		return nil, nil, err2
	}
	return first.img, img2, nil
}

func readDocument(path string) (string, error) {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeFileNotFound, "SVG file not found: %s", path)
		}
		return "", errors.Wrap(errors.ErrCodeValidation, err, "failed to read SVG file: %s", path)
	}
	return string(data), nil
}
