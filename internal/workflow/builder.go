package workflow

import (
	"strings"

	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// Build validates the inputs and assembles an analysis request. Checks run in order and the
// first failure is returned as a *ValidationError: texts, index analyzer, query analyzer,
// then autocomplete parameters when autocomplete is enabled.
func Build(indexText, queryText string, index, query SideState, autocomplete domain.AutocompleteConfig, cat *catalog.Catalog) (domain.AnalysisRequest, error) {
	indexText = strings.TrimSpace(indexText)
	queryText = strings.TrimSpace(queryText)

	if indexText == "" || queryText == "" {
		return domain.AnalysisRequest{}, &ValidationError{
			Scope:   ScopeTexts,
			Message: "Please enter both index text and query text",
		}
	}

	indexChoice, err := Resolve(domain.SideIndex, index, cat)
	if err != nil {
		return domain.AnalysisRequest{}, err
	}

	queryChoice, err := Resolve(domain.SideQuery, query, cat)
	if err != nil {
		return domain.AnalysisRequest{}, err
	}

	if err := autocomplete.Validate(); err != nil {
		return domain.AnalysisRequest{}, &ValidationError{
			Scope:   ScopeAutocomplete,
			Message: "Invalid autocomplete settings: " + err.Error(),
			Err:     err,
		}
	}

	return domain.AnalysisRequest{
		IndexText:     indexText,
		QueryText:     queryText,
		IndexAnalyzer: indexChoice,
		QueryAnalyzer: queryChoice,
		Autocomplete:  autocomplete,
	}, nil
}

// BuildState is Build over a State.
func BuildState(s State, cat *catalog.Catalog) (domain.AnalysisRequest, error) {
	return Build(s.IndexText, s.QueryText, s.Index, s.Query, s.Autocomplete, cat)
}
