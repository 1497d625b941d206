package workflow

import (
	"errors"
	"strings"

	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// Resolve turns a side's input into an analyzer choice. Predefined names must be selectable
// in cat; custom text must parse into a pipeline-shaped document.
func Resolve(side domain.Side, ss SideState, cat *catalog.Catalog) (domain.AnalyzerChoice, error) {
	scope := analyzerScope(side)

	if ss.Mode == ModeCustom {
		raw := strings.TrimSpace(ss.CustomText)
		if raw == "" {
			return domain.AnalyzerChoice{}, &ValidationError{
				Scope:   scope,
				Message: "Please enter a custom " + side.String() + " analyzer definition",
			}
		}

		def, err := domain.ParsePipeline(raw)
		if err != nil {
			prefix := "Invalid JSON in custom " + side.String() + " analyzer: "
			if errors.Is(err, domain.ErrNotPipeline) {
				prefix = "Invalid custom " + side.String() + " analyzer: "
			}
			return domain.AnalyzerChoice{}, &ValidationError{Scope: scope, Message: prefix + err.Error(), Err: err}
		}
		return domain.Custom(def), nil
	}

	selectMsg := "Please select " + article(side) + " " + side.String() + " analyzer"
	if ss.AnalyzerName == "" || cat == nil {
		return domain.AnalyzerChoice{}, &ValidationError{Scope: scope, Message: selectMsg}
	}
	if err := cat.Selectable(ss.AnalyzerName); err != nil {
		return domain.AnalyzerChoice{}, &ValidationError{Scope: scope, Message: selectMsg + ": " + err.Error(), Err: err}
	}
	return domain.Predefined(ss.AnalyzerName), nil
}

func article(side domain.Side) string {
	if side == domain.SideIndex {
		return "an"
	}
	return "a"
}
