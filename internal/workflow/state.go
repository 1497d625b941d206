package workflow

import "github.com/sha1n/analyzer-lab/internal/domain"

// Mode is the input mode of one side.
type Mode int

const (
	// ModePredefined selects a named analyzer from the catalog.
	ModePredefined Mode = iota
	// ModeCustom edits an inline pipeline definition.
	ModeCustom
)

func (m Mode) String() string {
	if m == ModeCustom {
		return "custom"
	}
	return "predefined"
}

// SideState is the analyzer input of one side. CustomText survives mode switches.
type SideState struct {
	Mode         Mode
	AnalyzerName string
	CustomText   string
}

// State is the whole user-editable application state. It is a value: Reduce returns a new one.
type State struct {
	IndexText    string
	QueryText    string
	Index        SideState
	Query        SideState
	Autocomplete domain.AutocompleteConfig

	// Alert is the pending validation error, if any.
	Alert *ValidationError
}

// NewState returns the initial state: both sides predefined with defaultAnalyzer, autocomplete off.
func NewState(defaultAnalyzer string) State {
	return State{
		Index:        SideState{AnalyzerName: defaultAnalyzer},
		Query:        SideState{AnalyzerName: defaultAnalyzer},
		Autocomplete: domain.DefaultAutocompleteConfig(),
	}
}

// Side returns the analyzer input for side.
func (s State) Side(side domain.Side) SideState {
	if side == domain.SideQuery {
		return s.Query
	}
	return s.Index
}

// Text returns the text for side.
func (s State) Text(side domain.Side) string {
	if side == domain.SideQuery {
		return s.QueryText
	}
	return s.IndexText
}

func (s State) withSide(side domain.Side, ss SideState) State {
	if side == domain.SideQuery {
		s.Query = ss
	} else {
		s.Index = ss
	}
	return s
}

// Event is a user action that changes State.
type Event interface {
	isEvent()
}

// SetText replaces the index or query text.
type SetText struct {
	Side domain.Side
	Text string
}

// ToggleMode flips a side between predefined and custom.
type ToggleMode struct {
	Side domain.Side
}

// SetMode puts a side in the given mode.
type SetMode struct {
	Side domain.Side
	Mode Mode
}

// SelectAnalyzer picks a predefined analyzer for a side.
type SelectAnalyzer struct {
	Side domain.Side
	Name string
}

// EditCustomText replaces a side's raw custom definition.
type EditCustomText struct {
	Side domain.Side
	Text string
}

// LoadExample overwrites a side's custom text with the example pipeline. Ignored in predefined mode.
type LoadExample struct {
	Side domain.Side
}

// ToggleAutocomplete enables or disables autocomplete expansion.
type ToggleAutocomplete struct{}

// SetAutocomplete replaces the autocomplete parameters, keeping the enabled flag.
type SetAutocomplete struct {
	Kind     domain.AutocompleteKind
	MinGrams int
	MaxGrams int
}

// RaiseAlert records a validation failure.
type RaiseAlert struct {
	Err *ValidationError
}

// DismissAlert clears the pending validation failure.
type DismissAlert struct{}

func (SetText) isEvent()            {}
func (ToggleMode) isEvent()         {}
func (SetMode) isEvent()            {}
func (SelectAnalyzer) isEvent()     {}
func (EditCustomText) isEvent()     {}
func (LoadExample) isEvent()        {}
func (ToggleAutocomplete) isEvent() {}
func (SetAutocomplete) isEvent()    {}
func (RaiseAlert) isEvent()         {}
func (DismissAlert) isEvent()       {}

// Reduce applies e to s and returns the new state. It has no side effects.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case SetText:
		if e.Side == domain.SideQuery {
			s.QueryText = e.Text
		} else {
			s.IndexText = e.Text
		}

	case ToggleMode:
		next := ModeCustom
		if s.Side(e.Side).Mode == ModeCustom {
			next = ModePredefined
		}
		return Reduce(s, SetMode{Side: e.Side, Mode: next})

	case SetMode:
		ss := s.Side(e.Side)
		if ss.Mode == e.Mode {
			return s
		}
		ss.Mode = e.Mode
		s = s.withSide(e.Side, ss)
		if s.Alert != nil && s.Alert.Scope == analyzerScope(e.Side) {
			s.Alert = nil
		}

	case SelectAnalyzer:
		ss := s.Side(e.Side)
		ss.AnalyzerName = e.Name
		s = s.withSide(e.Side, ss)

	case EditCustomText:
		ss := s.Side(e.Side)
		ss.CustomText = e.Text
		s = s.withSide(e.Side, ss)

	case LoadExample:
		ss := s.Side(e.Side)
		if ss.Mode != ModeCustom {
			return s
		}
		ss.CustomText = domain.ExamplePipelineJSON
		s = s.withSide(e.Side, ss)

	case ToggleAutocomplete:
		s.Autocomplete.Enabled = !s.Autocomplete.Enabled

	case SetAutocomplete:
		s.Autocomplete.Kind = e.Kind
		s.Autocomplete.MinGrams = e.MinGrams
		s.Autocomplete.MaxGrams = e.MaxGrams

	case RaiseAlert:
		s.Alert = e.Err

	case DismissAlert:
		s.Alert = nil
	}
	return s
}
