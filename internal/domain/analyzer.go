package domain

// Category groups analyzers for selection surfaces.
type Category string

// Analyzer categories reported by the engine.
const (
	CategoryBase     Category = "base"
	CategoryLanguage Category = "language"
)

// AnalyzerDescriptor describes a predefined analyzer offered by the engine.
// Descriptors are created once from the catalog fetch and are read-only thereafter.
type AnalyzerDescriptor struct {
	// Name is the unique analyzer identifier, e.g. "lucene.standard".
	Name string `json:"name"`

	// Category is either CategoryBase or CategoryLanguage.
	Category Category `json:"category"`

	// AdditionalLabel is an optional hint shown next to the name, e.g. "(not yet supported)".
	AdditionalLabel string `json:"additionalLabel,omitempty"`

	// Disabled analyzers are listed but cannot be selected.
	Disabled bool `json:"disabled,omitempty"`
}

// Label returns the display text for the analyzer: its name followed by the additional label, if any.
func (d AnalyzerDescriptor) Label() string {
	if d.AdditionalLabel == "" {
		return d.Name
	}
	return d.Name + " " + d.AdditionalLabel
}

// Side identifies one of the two texts being compared.
type Side int

const (
	// SideIndex is the text that would be stored in an index.
	SideIndex Side = iota
	// SideQuery is the text a user would search with.
	SideQuery
)

// String returns "index" or "query".
func (s Side) String() string {
	if s == SideQuery {
		return "query"
	}
	return "index"
}
