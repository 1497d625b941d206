package workflow

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// Analyzer runs an analysis against an engine.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error)
}

// Orchestrator submits analysis requests, allowing one in flight at a time.
type Orchestrator struct {
	engine     Analyzer
	timeout    time.Duration
	logger     *slog.Logger
	newID      func() string
	submitting atomic.Bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds each submission. Zero leaves the transport's own timeout in charge.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithLogger sets the logger used for submission records.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithRequestIDs overrides how submission ids are generated.
func WithRequestIDs(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

// NewOrchestrator creates an idle orchestrator over engine.
func NewOrchestrator(engine Analyzer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine: engine,
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submitting reports whether a submission is in flight.
func (o *Orchestrator) Submitting() bool {
	return o.submitting.Load()
}

// Begin moves the orchestrator to Submitting. It returns false when a submission is already in flight.
func (o *Orchestrator) Begin() bool {
	return o.submitting.CompareAndSwap(false, true)
}

// End moves the orchestrator back to Idle.
func (o *Orchestrator) End() {
	o.submitting.Store(false)
}

// Run performs the engine call for a submission started with Begin. It is safe to call from
// another goroutine. Failures are returned as *SubmissionError.
func (o *Orchestrator) Run(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	id := o.newID()
	ctx = domain.WithRequestID(ctx, id)
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	o.logger.Info("Submitting analysis",
		"request_id", id,
		"index_analyzer", req.IndexAnalyzer.DisplayName(),
		"query_analyzer", req.QueryAnalyzer.DisplayName(),
		"autocomplete", req.Autocomplete.Enabled)

	result, err := o.engine.Analyze(ctx, req)
	if err != nil {
		o.logger.Error("Analysis failed", "request_id", id, "error", err, "duration", time.Since(start))
		return nil, &SubmissionError{RequestID: id, Err: err}
	}

	o.logger.Info("Analysis completed",
		"request_id", id,
		"index_tokens", len(result.IndexTokens),
		"query_tokens", len(result.QueryTokens),
		"duration", time.Since(start))
	return result, nil
}

// Submit runs one submission end to end. It returns ErrSubmissionInFlight without calling
// the engine when another submission has not resolved yet.
func (o *Orchestrator) Submit(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	if !o.Begin() {
		return nil, ErrSubmissionInFlight
	}
	defer o.End()
	return o.Run(ctx, req)
}
