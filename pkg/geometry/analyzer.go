package geometry

import (
	"context"

	"github.com/brothertop/svgdiff/pkg/errors"
)

// Querier is the geometry query contract of the rendering backend.
// Implementations parse the document's root SVG element and report its
// declared geometry without mutating the document.
type Querier interface {
	// QueryGeometry extracts the root element's geometric attributes.
	// Percentage-valued width/height must be reported as absent, not as
	// pixel counts. Implementations return an error when no root SVG
	// element can be located.
	QueryGeometry(ctx context.Context, svg string) (Info, error)
}

// Analyzer extracts geometric metadata from SVG documents.
type Analyzer struct {
	backend Querier
}

// NewAnalyzer creates an Analyzer that queries geometry through backend.
func NewAnalyzer(backend Querier) *Analyzer {
	return &Analyzer{backend: backend}
}

// Analyze extracts the geometry of one SVG document. The input document is
// never mutated. It fails with ANALYSIS_FAILED when the backend cannot
// locate a root SVG element.
func (a *Analyzer) Analyze(ctx context.Context, svg string) (Info, error) {
	info, err := a.backend.QueryGeometry(ctx, svg)
	if err != nil {
		if errors.GetCode(err) != "" {
			return Info{}, err
		}
		return Info{}, errors.Wrap(errors.ErrCodeAnalysis, err, "query document geometry")
	}
	return info, nil
}
