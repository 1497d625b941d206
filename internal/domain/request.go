package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// AutocompleteKind selects the n-gram expansion used for autocomplete tokens.
type AutocompleteKind string

// Supported autocomplete kinds.
const (
	AutocompleteEdgeGram AutocompleteKind = "edgeGram"
	AutocompleteNGram    AutocompleteKind = "nGram"
)

// Default autocomplete parameters.
const (
	DefaultMinGrams = 3
	DefaultMaxGrams = 15
)

// Valid reports whether the kind is one of the supported kinds.
func (k AutocompleteKind) Valid() bool {
	return k == AutocompleteEdgeGram || k == AutocompleteNGram
}

// AutocompleteConfig controls n-gram expansion. It is only meaningful when Enabled is true,
// but it is always carried so surfaces keep the user's values.
type AutocompleteConfig struct {
	Enabled  bool
	Kind     AutocompleteKind
	MinGrams int
	MaxGrams int
}

// DefaultAutocompleteConfig returns a disabled config with edgeGram 3..15.
func DefaultAutocompleteConfig() AutocompleteConfig {
	return AutocompleteConfig{
		Kind:     AutocompleteEdgeGram,
		MinGrams: DefaultMinGrams,
		MaxGrams: DefaultMaxGrams,
	}
}

// Validate checks kind and gram bounds. Disabled configs are always valid.
func (c AutocompleteConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("unknown autocomplete type %q (expected %q or %q)", c.Kind, AutocompleteEdgeGram, AutocompleteNGram)
	}
	if c.MinGrams < 1 {
		return fmt.Errorf("min grams must be at least 1, got %d", c.MinGrams)
	}
	if c.MaxGrams < c.MinGrams {
		return fmt.Errorf("max grams (%d) must not be less than min grams (%d)", c.MaxGrams, c.MinGrams)
	}
	return nil
}

// AnalysisRequest is a single submission covering both sides.
type AnalysisRequest struct {
	IndexText     string
	QueryText     string
	IndexAnalyzer AnalyzerChoice
	QueryAnalyzer AnalyzerChoice
	Autocomplete  AutocompleteConfig
}

// Analyzer returns the choice for the given side.
func (r AnalysisRequest) Analyzer(side Side) AnalyzerChoice {
	if side == SideQuery {
		return r.QueryAnalyzer
	}
	return r.IndexAnalyzer
}

// Text returns the text for the given side.
func (r AnalysisRequest) Text(side Side) string {
	if side == SideQuery {
		return r.QueryText
	}
	return r.IndexText
}

type autocompleteWire struct {
	AutocompleteType AutocompleteKind `json:"autocompleteType"`
	MinGrams         int              `json:"minGrams"`
	MaxGrams         int              `json:"maxGrams"`
}

// analysisRequestWire is the engine's POST /analyze body.
type analysisRequestWire struct {
	IndexText           string              `json:"indexText"`
	QueryText           string              `json:"queryText"`
	IndexAnalyzer       *string             `json:"indexAnalyzer"`
	QueryAnalyzer       *string             `json:"queryAnalyzer"`
	CustomIndexAnalyzer *PipelineDefinition `json:"customIndexAnalyzer"`
	CustomQueryAnalyzer *PipelineDefinition `json:"customQueryAnalyzer"`
	UseAutocomplete     bool                `json:"useAutocomplete"`
	AutocompleteConfig  *autocompleteWire   `json:"autocompleteConfig"`
}

// MarshalJSON encodes the request in the engine wire format: for each side exactly one of
// the named and custom analyzer fields is non-null.
func (r AnalysisRequest) MarshalJSON() ([]byte, error) {
	w := analysisRequestWire{
		IndexText:       r.IndexText,
		QueryText:       r.QueryText,
		UseAutocomplete: r.Autocomplete.Enabled,
		AutocompleteConfig: &autocompleteWire{
			AutocompleteType: r.Autocomplete.Kind,
			MinGrams:         r.Autocomplete.MinGrams,
			MaxGrams:         r.Autocomplete.MaxGrams,
		},
	}
	w.IndexAnalyzer, w.CustomIndexAnalyzer = choiceToWire(r.IndexAnalyzer)
	w.QueryAnalyzer, w.CustomQueryAnalyzer = choiceToWire(r.QueryAnalyzer)
	return json.Marshal(w)
}

// UnmarshalJSON decodes the engine wire format. A side with both or neither analyzer field set is an error.
func (r *AnalysisRequest) UnmarshalJSON(data []byte) error {
	var w analysisRequestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	index, err := choiceFromWire(SideIndex, w.IndexAnalyzer, w.CustomIndexAnalyzer)
	if err != nil {
		return err
	}
	query, err := choiceFromWire(SideQuery, w.QueryAnalyzer, w.CustomQueryAnalyzer)
	if err != nil {
		return err
	}

	ac := DefaultAutocompleteConfig()
	ac.Enabled = w.UseAutocomplete
	if w.AutocompleteConfig != nil {
		ac.Kind = w.AutocompleteConfig.AutocompleteType
		ac.MinGrams = w.AutocompleteConfig.MinGrams
		ac.MaxGrams = w.AutocompleteConfig.MaxGrams
	}

	*r = AnalysisRequest{
		IndexText:     w.IndexText,
		QueryText:     w.QueryText,
		IndexAnalyzer: index,
		QueryAnalyzer: query,
		Autocomplete:  ac,
	}
	return nil
}

func choiceToWire(c AnalyzerChoice) (*string, *PipelineDefinition) {
	if c.IsCustom() {
		return nil, c.Definition()
	}
	if c.AnalyzerName() == "" {
		return nil, nil
	}
	name := c.AnalyzerName()
	return &name, nil
}

// ErrAmbiguousAnalyzer is returned when a wire request names an analyzer and a custom definition for the same side.
var ErrAmbiguousAnalyzer = errors.New("both a named and a custom analyzer were given")

func choiceFromWire(side Side, name *string, custom *PipelineDefinition) (AnalyzerChoice, error) {
	hasName := name != nil && *name != ""
	switch {
	case hasName && custom != nil:
		return AnalyzerChoice{}, fmt.Errorf("%s analyzer: %w", side, ErrAmbiguousAnalyzer)
	case custom != nil:
		return Custom(custom), nil
	case hasName:
		return Predefined(*name), nil
	default:
		return AnalyzerChoice{}, nil
	}
}
