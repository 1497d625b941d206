package workflow

import (
	"errors"

	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// SubmissionFailedMessage is shown for every failed analysis, whatever the cause.
const SubmissionFailedMessage = "Error analyzing text. Please try again."

// ErrSubmissionInFlight is returned when an analysis is submitted while another is still running.
var ErrSubmissionInFlight = errors.New("an analysis is already in progress")

// Scope identifies the input a validation error refers to.
type Scope int

const (
	ScopeTexts Scope = iota
	ScopeIndexAnalyzer
	ScopeQueryAnalyzer
	ScopeAutocomplete
)

func analyzerScope(side domain.Side) Scope {
	if side == domain.SideQuery {
		return ScopeQueryAnalyzer
	}
	return ScopeIndexAnalyzer
}

// ValidationError reports input the user has to fix before submitting. Entered data is kept.
type ValidationError struct {
	Scope   Scope
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// SubmissionError reports a failed analysis call. The user only sees SubmissionFailedMessage;
// the cause is kept for logging.
type SubmissionError struct {
	RequestID string
	Err       error
}

func (e *SubmissionError) Error() string { return SubmissionFailedMessage }

func (e *SubmissionError) Unwrap() error { return e.Err }

// CatalogLoadError is returned when the analyzer catalog cannot be fetched at startup.
type CatalogLoadError = catalog.LoadError
