package workflow

import (
	"fmt"

	"github.com/sha1n/analyzer-lab/internal/domain"
)

// Card is one rendered token.
type Card struct {
	Text    string
	Length  int
	Matched bool
}

// Caption returns the card's length line, e.g. "5 characters".
func (c Card) Caption() string {
	return fmt.Sprintf("%d characters", c.Length)
}

// Status is a side's status message.
type Status struct {
	Kind    StatusKind
	Message string
}

// Panel holds what is drawn for one side.
type Panel struct {
	Cards  []Card
	Status *Status
}

// Board is an in-memory Surface. The terminal UI, the CLI and the MCP tools draw from it.
type Board struct {
	Index    Panel
	Query    Panel
	Visible  bool
	Busy     bool
	Scrolls  int
	Alerts   []string
	Rendered int
}

var _ Surface = (*Board)(nil)

// NewBoard returns an empty, hidden board.
func NewBoard() *Board {
	return &Board{}
}

// Panel returns the panel for side.
func (b *Board) Panel(side domain.Side) *Panel {
	if side == domain.SideQuery {
		return &b.Query
	}
	return &b.Index
}

// LastAlert returns the most recent alert, or "".
func (b *Board) LastAlert() string {
	if len(b.Alerts) == 0 {
		return ""
	}
	return b.Alerts[len(b.Alerts)-1]
}

func (b *Board) RenderTokenCards(side domain.Side, tokens []domain.TokenInfo) {
	cards := make([]Card, len(tokens))
	for i, t := range tokens {
		cards[i] = Card{Text: t.Text, Length: t.Length, Matched: t.Matched}
	}
	b.Panel(side).Cards = cards
	b.Rendered++
}

func (b *Board) ClearTokenCards(side domain.Side) {
	b.Panel(side).Cards = nil
}

func (b *Board) SetStatus(side domain.Side, kind StatusKind, message string) {
	b.Panel(side).Status = &Status{Kind: kind, Message: message}
}

func (b *Board) ShowResults() { b.Visible = true }

func (b *Board) HideResults() { b.Visible = false }

func (b *Board) ScrollToResults() { b.Scrolls++ }

func (b *Board) SetBusy(busy bool) { b.Busy = busy }

func (b *Board) Alert(message string) {
	b.Alerts = append(b.Alerts, message)
}
