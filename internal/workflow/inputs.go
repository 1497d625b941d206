package workflow

import (
	"strings"

	"github.com/sha1n/analyzer-lab/internal/domain"
)

// Inputs is everything a user would enter on the interactive surface, given in one go.
// The CLI and the MCP tools use it to drive a Session.
type Inputs struct {
	IndexText     string
	QueryText     string
	IndexAnalyzer string
	QueryAnalyzer string

	// IndexCustom and QueryCustom hold raw pipeline definitions. A non-empty value, even
	// whitespace, puts the side in custom mode and wins over the analyzer name. The
	// CustomMode flags do the same for a definition given explicitly as "".
	IndexCustom     string
	QueryCustom     string
	IndexCustomMode bool
	QueryCustomMode bool

	Autocomplete     bool
	AutocompleteType string
	MinGrams         int
	MaxGrams         int
}

// Events returns the events that turn a fresh State into one holding these inputs.
// Zero autocomplete parameters fall back to the defaults.
func (in Inputs) Events() []Event {
	events := []Event{
		SetText{Side: domain.SideIndex, Text: in.IndexText},
		SetText{Side: domain.SideQuery, Text: in.QueryText},
	}
	events = append(events, sideEvents(domain.SideIndex, in.IndexAnalyzer, in.IndexCustom, in.IndexCustomMode)...)
	events = append(events, sideEvents(domain.SideQuery, in.QueryAnalyzer, in.QueryCustom, in.QueryCustomMode)...)

	if in.Autocomplete {
		def := domain.DefaultAutocompleteConfig()
		kind := domain.AutocompleteKind(strings.TrimSpace(in.AutocompleteType))
		if kind == "" {
			kind = def.Kind
		}
		minGrams, maxGrams := in.MinGrams, in.MaxGrams
		if minGrams == 0 {
			minGrams = def.MinGrams
		}
		if maxGrams == 0 {
			maxGrams = def.MaxGrams
		}
		events = append(events,
			ToggleAutocomplete{},
			SetAutocomplete{Kind: kind, MinGrams: minGrams, MaxGrams: maxGrams})
	}
	return events
}

func sideEvents(side domain.Side, analyzer, custom string, customMode bool) []Event {
	if customMode || custom != "" {
		return []Event{
			SetMode{Side: side, Mode: ModeCustom},
			EditCustomText{Side: side, Text: custom},
		}
	}
	if analyzer != "" {
		return []Event{SelectAnalyzer{Side: side, Name: analyzer}}
	}
	return nil
}

// Apply dispatches in.Events() on the session.
func (s *Session) Apply(in Inputs) State {
	for _, e := range in.Events() {
		s.Dispatch(e)
	}
	return s.state
}
