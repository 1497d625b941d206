package workflow

import (
	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// SelectOption is one entry of an analyzer selector.
type SelectOption struct {
	Name     string
	Label    string
	Disabled bool
}

// OptionGroup is a labelled run of selector entries. The base group has no label.
type OptionGroup struct {
	Label   string
	Options []SelectOption
}

// SelectionGroups lays out cat for a selector: base analyzers first, then language analyzers
// under their own label. A nil catalog offers nothing.
func SelectionGroups(cat *catalog.Catalog) []OptionGroup {
	if cat == nil {
		return nil
	}

	var groups []OptionGroup
	if base := cat.Base(); len(base) > 0 {
		groups = append(groups, OptionGroup{Options: toOptions(base)})
	}
	if lang := cat.Language(); len(lang) > 0 {
		groups = append(groups, OptionGroup{Label: catalog.LanguageGroupLabel, Options: toOptions(lang)})
	}
	return groups
}

func toOptions(ds []domain.AnalyzerDescriptor) []SelectOption {
	out := make([]SelectOption, len(ds))
	for i, d := range ds {
		out[i] = SelectOption{Name: d.Name, Label: d.Label(), Disabled: d.Disabled}
	}
	return out
}
