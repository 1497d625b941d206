package domain

// CustomAnalyzerName is reported for custom pipelines that do not carry a name.
const CustomAnalyzerName = "custom"

// AnalyzerChoice is the analyzer picked for one side: either a predefined analyzer
// referenced by name, or an inline custom pipeline definition. Exactly one is set.
type AnalyzerChoice struct {
	analyzerName string
	definition   *PipelineDefinition
}

// Predefined returns a choice referencing a named analyzer owned by the engine.
func Predefined(analyzerName string) AnalyzerChoice {
	return AnalyzerChoice{analyzerName: analyzerName}
}

// Custom returns a choice carrying an inline pipeline definition.
func Custom(definition *PipelineDefinition) AnalyzerChoice {
	return AnalyzerChoice{definition: definition}
}

// IsZero reports whether no analyzer was chosen.
func (c AnalyzerChoice) IsZero() bool {
	return c.analyzerName == "" && c.definition == nil
}

// IsCustom reports whether the choice is an inline pipeline definition.
func (c AnalyzerChoice) IsCustom() bool {
	return c.definition != nil
}

// AnalyzerName returns the predefined analyzer name, or "" for custom choices.
func (c AnalyzerChoice) AnalyzerName() string {
	return c.analyzerName
}

// Definition returns the custom pipeline, or nil for predefined choices.
func (c AnalyzerChoice) Definition() *PipelineDefinition {
	return c.definition
}

// DisplayName returns a human readable name for the choice.
func (c AnalyzerChoice) DisplayName() string {
	if c.definition == nil {
		return c.analyzerName
	}
	if name := c.definition.Name(); name != "" {
		return name
	}
	return CustomAnalyzerName
}
