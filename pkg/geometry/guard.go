package geometry

import (
	"context"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/brothertop/svgdiff/pkg/errors"
)

// DefaultAspectTolerance is the default aspect-ratio mismatch tolerance.
// Two documents whose ratios differ by more than this are considered
// incomparable and reported as 100% different.
const DefaultAspectTolerance = 0.001

// Repairer regenerates a valid, content-fitting viewBox for a document
// that lacks usable geometry. Implementations return a patched copy of the
// markup; the input is never modified.
type Repairer interface {
	Repair(ctx context.Context, svg string) (string, error)
}

// GuardOptions configures the aspect ratio guard.
type GuardOptions struct {
	// Tolerance is the maximum allowed |ratio1 - ratio2|. Must be in
	// [0, 1]. Zero means ratios must match exactly.
	Tolerance float64

	// ForceRepair regenerates the viewBox of both documents even when
	// they already carry usable geometry. Repair is always performed for
	// documents with no geometry, regardless of this flag.
	ForceRepair bool

	// Repairer performs viewBox regeneration. Required when either
	// document needs repair or ForceRepair is set; ignored otherwise.
	Repairer Repairer

	// Logger receives non-fatal diagnostics such as preserveAspectRatio
	// mismatches. Defaults to a discarding logger.
	Logger *log.Logger
}

// GuardResult is the outcome of the aspect ratio guard.
type GuardResult struct {
	// Proceed reports whether pixel comparison is meaningful. When false
	// the pair is defined as 100% different; this is a normal result, not
	// an error.
	Proceed bool

	// SVG1 and SVG2 are the documents to compare, replaced by repaired
	// copies when regeneration ran.
	SVG1, SVG2 string

	// Info1 and Info2 are the geometry records, re-analyzed after any
	// repair.
	Info1, Info2 Info

	// Ratio1 and Ratio2 are the resolved aspect ratios.
	Ratio1, Ratio2 float64

	// MismatchDiff is |Ratio1 - Ratio2|, populated whether or not it
	// exceeds the tolerance.
	MismatchDiff float64

	// Reason describes why Proceed is false. Empty when Proceed is true.
	Reason string
}

// Guard compares the aspect ratios of two documents, regenerating missing
// viewBoxes first. It returns Proceed=false (not an error) when the ratios
// diverge beyond the tolerance. A REPAIR_FAILED or ANALYSIS_FAILED error is
// returned when regeneration or re-analysis fails.
func (a *Analyzer) Guard(ctx context.Context, svg1, svg2 string, info1, info2 Info, opts GuardOptions) (GuardResult, error) {
	if err := errors.ValidateAspectTolerance(opts.Tolerance); err != nil {
		return GuardResult{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	res := GuardResult{SVG1: svg1, SVG2: svg2, Info1: info1, Info2: info2}

	var err error
	res.SVG1, res.Info1, err = a.ensureGeometry(ctx, svg1, info1, opts)
	if err != nil {
		return GuardResult{}, err
	}
	res.SVG2, res.Info2, err = a.ensureGeometry(ctx, svg2, info2, opts)
	if err != nil {
		return GuardResult{}, err
	}

	res.Ratio1, err = res.Info1.AspectRatio()
	if err != nil {
		return GuardResult{}, err
	}
	res.Ratio2, err = res.Info2.AspectRatio()
	if err != nil {
		return GuardResult{}, err
	}

	res.MismatchDiff = math.Abs(res.Ratio1 - res.Ratio2)
	if res.MismatchDiff > opts.Tolerance {
		res.Proceed = false
		res.Reason = "aspect ratio mismatch: pixel comparison between mismatched aspect ratios is meaningless"
		logger.Debug("aspect ratio mismatch",
			"ratio1", res.Ratio1,
			"ratio2", res.Ratio2,
			"diff", res.MismatchDiff,
			"tolerance", opts.Tolerance)
		return res, nil
	}

	res.Proceed = true
	if p1, p2 := res.Info1.PreserveAspectRatio, res.Info2.PreserveAspectRatio; p1 != "" && p2 != "" && p1 != p2 {
		logger.Warn("documents carry different preserveAspectRatio values; comparison continues",
			"doc1", p1, "doc2", p2)
	}
	return res, nil
}

// ensureGeometry repairs and re-analyzes a document when it lacks usable
// geometry, or when the caller forced regeneration.
func (a *Analyzer) ensureGeometry(ctx context.Context, svg string, info Info, opts GuardOptions) (string, Info, error) {
	needsRepair := info.Source() == RatioRequiresRepair
	if !needsRepair && !opts.ForceRepair {
		return svg, info, nil
	}

	if opts.Repairer == nil {
		if needsRepair {
			return "", Info{}, errors.New(errors.ErrCodeRepair,
				"document requires viewBox regeneration but no repairer is configured")
		}
		return "", Info{}, errors.New(errors.ErrCodeRepair,
			"forced viewBox regeneration requested but no repairer is configured")
	}

	repaired, err := opts.Repairer.Repair(ctx, svg)
	if err != nil {
		if errors.GetCode(err) != "" {
			return "", Info{}, err
		}
		return "", Info{}, errors.Wrap(errors.ErrCodeRepair, err, "regenerate viewBox")
	}

	newInfo, err := a.Analyze(ctx, repaired)
	if err != nil {
		return "", Info{}, err
	}
	if newInfo.Source() == RatioRequiresRepair {
		return "", Info{}, errors.New(errors.ErrCodeRepair,
			"repaired document still has no usable geometry")
	}
	return repaired, newInfo, nil
}
