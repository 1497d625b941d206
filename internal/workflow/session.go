package workflow

import (
	"context"
	"errors"

	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// Session owns one user's state and drives build, submit and render against a surface.
// It is not safe for concurrent use; only Execute may run on another goroutine.
type Session struct {
	state        State
	catalog      *catalog.Catalog
	orchestrator *Orchestrator
	surface      Surface
	result       *domain.AnalysisResult
}

// NewSession starts a session over an already loaded catalog. preferred is the analyzer
// both sides start with when the catalog offers it; see catalog.Catalog.Default.
func NewSession(cat *catalog.Catalog, orchestrator *Orchestrator, surface Surface, preferred string) *Session {
	defaultName := ""
	if cat != nil {
		defaultName = cat.Default(preferred)
	}
	return &Session{
		state:        NewState(defaultName),
		catalog:      cat,
		orchestrator: orchestrator,
		surface:      surface,
	}
}

// StartSession loads the catalog and starts a session. When the catalog cannot be loaded the
// failure is shown on surface and returned; no session is created.
func StartSession(ctx context.Context, lister catalog.Lister, orchestrator *Orchestrator, surface Surface, preferred string) (*Session, error) {
	cat, err := catalog.Load(ctx, lister)
	if err != nil {
		surface.Alert(err.Error())
		return nil, err
	}
	return NewSession(cat, orchestrator, surface, preferred), nil
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Catalog returns the session's catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Result returns the last rendered result, or nil.
func (s *Session) Result() *domain.AnalysisResult { return s.result }

// Submitting reports whether an analysis is in flight.
func (s *Session) Submitting() bool { return s.orchestrator.Submitting() }

// Dispatch applies a user event.
func (s *Session) Dispatch(e Event) State {
	s.state = Reduce(s.state, e)
	return s.state
}

// Start validates the current state and marks a submission in flight. Validation failures are
// alerted on the surface and recorded in state. The returned request must be passed to Execute
// and its outcome to Finish.
func (s *Session) Start() (domain.AnalysisRequest, error) {
	req, err := BuildState(s.state, s.catalog)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.Dispatch(RaiseAlert{Err: verr})
		}
		s.surface.Alert(err.Error())
		return domain.AnalysisRequest{}, err
	}

	if !s.orchestrator.Begin() {
		return domain.AnalysisRequest{}, ErrSubmissionInFlight
	}
	s.Dispatch(DismissAlert{})
	s.surface.SetBusy(true)
	return req, nil
}

// Execute calls the engine for a request returned by Start.
func (s *Session) Execute(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	return s.orchestrator.Run(ctx, req)
}

// Finish applies the outcome of Execute. On failure the generic message is alerted and the
// previous result stays on the surface.
func (s *Session) Finish(result *domain.AnalysisResult, err error) {
	s.orchestrator.End()
	s.surface.SetBusy(false)

	if err != nil {
		s.surface.Alert(SubmissionFailedMessage)
		return
	}
	s.result = result
	Render(result, s.surface)
}

// Analyze runs Start, Execute and Finish in sequence.
func (s *Session) Analyze(ctx context.Context) error {
	req, err := s.Start()
	if err != nil {
		return err
	}
	result, err := s.Execute(ctx, req)
	s.Finish(result, err)
	return err
}

// Reset hides the results and forgets the last result. Inputs are kept.
func (s *Session) Reset() {
	s.result = nil
	Reset(s.surface)
}
