package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Pipeline document keys.
const (
	PipelineKeyName         = "name"
	PipelineKeyCharFilters  = "charFilters"
	PipelineKeyTokenizer    = "tokenizer"
	PipelineKeyTokenFilters = "tokenFilters"
	StageKeyType            = "type"
)

// ErrNotPipeline is returned when a well-formed document does not have the shape of a pipeline definition.
var ErrNotPipeline = errors.New("not a pipeline definition")

// ExamplePipelineJSON is the canonical custom pipeline definition seeded by the "load example" action.
const ExamplePipelineJSON = `{
  "name": "myCustomAnalyzer",
  "charFilters": [
    {
      "type": "mapping",
      "mappings": {
        "&": "and"
      }
    }
  ],
  "tokenizer": {
    "type": "standard",
    "maxTokenLength": 255
  },
  "tokenFilters": [
    {
      "type": "lowercase"
    },
    {
      "type": "stopword",
      "tokens": [
        "the",
        "a",
        "an"
      ],
      "ignoreCase": true
    },
    {
      "type": "length",
      "min": 2,
      "max": 100
    }
  ]
}`

// PipelineDefinition is a user-authored analyzer: char filters, a tokenizer and token filters.
// Only the overall shape is checked here; stage-specific parameters are validated by the engine.
type PipelineDefinition struct {
	doc Value
}

// Stage is one step of a pipeline: a char filter, the tokenizer or a token filter.
type Stage struct {
	Value
}

// Type returns the stage's "type" discriminator, or "" when absent.
func (s Stage) Type() string {
	t, _ := s.Get(StageKeyType)
	name, _ := t.Text()
	return name
}

// ParsePipeline parses raw text into a pipeline definition.
// Syntax errors carry the parser's own message; shape errors wrap ErrNotPipeline.
func ParsePipeline(raw string) (*PipelineDefinition, error) {
	doc, err := ParseValue([]byte(raw))
	if err != nil {
		return nil, err
	}
	return NewPipelineDefinition(doc)
}

// NewPipelineDefinition checks that doc has the shape of a pipeline and wraps it.
func NewPipelineDefinition(doc Value) (*PipelineDefinition, error) {
	if doc.Kind() != KindMap {
		return nil, fmt.Errorf("%w: expected an object, got %s", ErrNotPipeline, doc.Kind())
	}

	if name, ok := doc.Get(PipelineKeyName); ok && name.Kind() != KindString {
		return nil, fmt.Errorf("%w: %q must be a string", ErrNotPipeline, PipelineKeyName)
	}

	tokenizer, ok := doc.Get(PipelineKeyTokenizer)
	if !ok || tokenizer.IsNull() {
		return nil, fmt.Errorf("%w: %q is required", ErrNotPipeline, PipelineKeyTokenizer)
	}
	if tokenizer.Kind() != KindMap {
		return nil, fmt.Errorf("%w: %q must be an object", ErrNotPipeline, PipelineKeyTokenizer)
	}

	for _, key := range []string{PipelineKeyCharFilters, PipelineKeyTokenFilters} {
		stages, ok := doc.Get(key)
		if !ok {
			continue
		}
		if stages.Kind() != KindList {
			return nil, fmt.Errorf("%w: %q must be a list", ErrNotPipeline, key)
		}
		for i, stage := range stages.List() {
			if stage.Kind() != KindMap {
				return nil, fmt.Errorf("%w: %s[%d] must be an object", ErrNotPipeline, key, i)
			}
		}
	}

	return &PipelineDefinition{doc: doc}, nil
}

// ExamplePipeline returns the canonical example definition.
func ExamplePipeline() *PipelineDefinition {
	def, err := ParsePipeline(ExamplePipelineJSON)
	if err != nil {
		panic("invalid example pipeline: " + err.Error())
	}
	return def
}

// Name returns the definition's name, or "" when unnamed.
func (p *PipelineDefinition) Name() string {
	v, _ := p.doc.Get(PipelineKeyName)
	name, _ := v.Text()
	return strings.TrimSpace(name)
}

// Tokenizer returns the tokenizer stage.
func (p *PipelineDefinition) Tokenizer() Stage {
	v, _ := p.doc.Get(PipelineKeyTokenizer)
	return Stage{v}
}

// CharFilters returns the char filter stages in order.
func (p *PipelineDefinition) CharFilters() []Stage {
	return p.stages(PipelineKeyCharFilters)
}

// TokenFilters returns the token filter stages in order.
func (p *PipelineDefinition) TokenFilters() []Stage {
	return p.stages(PipelineKeyTokenFilters)
}

func (p *PipelineDefinition) stages(key string) []Stage {
	v, _ := p.doc.Get(key)
	items := v.List()
	stages := make([]Stage, len(items))
	for i, item := range items {
		stages[i] = Stage{item}
	}
	return stages
}

// MarshalJSON encodes the original document, keys in document order.
func (p *PipelineDefinition) MarshalJSON() ([]byte, error) {
	return p.doc.MarshalJSON()
}

// UnmarshalJSON decodes and shape-checks a pipeline document.
func (p *PipelineDefinition) UnmarshalJSON(data []byte) error {
	doc, err := ParseValue(data)
	if err != nil {
		return err
	}
	def, err := NewPipelineDefinition(doc)
	if err != nil {
		return err
	}
	*p = *def
	return nil
}
