package workflow

import "github.com/sha1n/analyzer-lab/internal/domain"

// StatusKind styles a side's status message.
type StatusKind int

const (
	StatusSuccess StatusKind = iota
	StatusNeutral
)

// Surface is everything the workflow needs from a user interface. Implementations draw;
// they never decide what to draw.
type Surface interface {
	// RenderTokenCards replaces the side's cards with one card per token.
	RenderTokenCards(side domain.Side, tokens []domain.TokenInfo)
	ClearTokenCards(side domain.Side)
	SetStatus(side domain.Side, kind StatusKind, message string)
	ShowResults()
	HideResults()
	ScrollToResults()
	// SetBusy toggles the submit control between idle and submitting.
	SetBusy(busy bool)
	// Alert shows a message the user has to acknowledge.
	Alert(message string)
}
