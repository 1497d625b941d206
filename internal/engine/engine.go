// Package engine implements the analysis engine behind the comparison workflow: a remote HTTP
// client, an Elasticsearch adapter, an in-process bleve engine, and an HTTP server exposing any
// of them over the same JSON contract.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sha1n/analyzer-lab/internal/domain"
)

// Engine tokenizes text with predefined or custom analyzers.
type Engine interface {
	// ListAnalyzers returns the predefined analyzers, base analyzers first.
	ListAnalyzers(ctx context.Context) ([]domain.AnalyzerDescriptor, error)

	// Analyze tokenizes both sides of req and marks the tokens they share.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error)

	// Location describes where the engine is reached.
	Location() string
}

// ErrBadRequest marks failures caused by the request itself, such as an unknown analyzer or an
// unsupported pipeline stage. The engine server answers them with 400.
var ErrBadRequest = errors.New("bad request")

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// checkRequest rejects requests an engine cannot run regardless of backend.
func checkRequest(req domain.AnalysisRequest) error {
	for _, side := range []domain.Side{domain.SideIndex, domain.SideQuery} {
		if req.Analyzer(side).IsZero() {
			return badRequest("no %s analyzer given", side)
		}
	}
	if err := req.Autocomplete.Validate(); err != nil {
		return badRequest("%v", err)
	}
	return nil
}
