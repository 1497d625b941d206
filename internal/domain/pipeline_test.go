package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestExamplePipeline(t *testing.T) {
	def := ExamplePipeline()

	if def.Name() != "myCustomAnalyzer" {
		t.Errorf("Unexpected name: %q", def.Name())
	}
	if def.Tokenizer().Type() != "standard" {
		t.Errorf("Unexpected tokenizer: %q", def.Tokenizer().Type())
	}

	chars := def.CharFilters()
	if len(chars) != 1 || chars[0].Type() != "mapping" {
		t.Errorf("Unexpected char filters: %+v", chars)
	}

	filters := def.TokenFilters()
	var types []string
	for _, f := range filters {
		types = append(types, f.Type())
	}
	if len(types) != 3 || types[0] != "lowercase" || types[1] != "stopword" || types[2] != "length" {
		t.Errorf("Unexpected token filters: %v", types)
	}

	var keys []string
	for _, f := range filters[1].Fields() {
		keys = append(keys, f.Key)
	}
	if len(keys) != 3 || keys[0] != StageKeyType || keys[1] != "tokens" || keys[2] != "ignoreCase" {
		t.Errorf("Unexpected stopword keys: %v", keys)
	}
}

func TestExamplePipelineJSON_IsPretty(t *testing.T) {
	raw, err := ExamplePipeline().MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		t.Fatalf("Indent failed: %v", err)
	}
	if got := pretty.String(); got != ExamplePipelineJSON {
		t.Errorf("Example text is not the pretty form of the example document:\n%s", got)
	}
}

func TestParsePipeline_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not an object", `[1, 2]`},
		{"missing tokenizer", `{"name": "x"}`},
		{"null tokenizer", `{"tokenizer": null}`},
		{"tokenizer not object", `{"tokenizer": "standard"}`},
		{"name not string", `{"name": 3, "tokenizer": {"type": "standard"}}`},
		{"filters not list", `{"tokenizer": {"type": "standard"}, "tokenFilters": {}}`},
		{"filter not object", `{"tokenizer": {"type": "standard"}, "charFilters": ["x"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePipeline(tt.raw)
			if !errors.Is(err, ErrNotPipeline) {
				t.Errorf("Expected ErrNotPipeline, got %v", err)
			}
		})
	}
}

func TestParsePipeline_SyntaxErrorIsVerbatim(t *testing.T) {
	_, err := ParsePipeline(`{"tokenizer": `)
	if err == nil {
		t.Fatal("Expected error")
	}
	if errors.Is(err, ErrNotPipeline) {
		t.Errorf("Syntax error must not be reported as a shape error: %v", err)
	}
}

func TestParsePipeline_EmptyStageListsAllowed(t *testing.T) {
	def, err := ParsePipeline(`{"tokenizer": {"type": "whitespace"}, "charFilters": [], "tokenFilters": []}`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(def.CharFilters()) != 0 || len(def.TokenFilters()) != 0 {
		t.Error("Expected empty stage lists")
	}
	if def.Name() != "" {
		t.Errorf("Expected empty name, got %q", def.Name())
	}
}

func TestPipelineDefinition_MarshalKeepsDocument(t *testing.T) {
	raw := `{"tokenizer":{"type":"keyword"},"name":"k"}`
	def, err := ParsePipeline(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	out, err := def.MarshalJSON()
	if err != nil {
		t.Fatalf("Unexpected marshal error: %v", err)
	}
	if string(out) != raw {
		t.Errorf("Expected %s, got %s", raw, out)
	}
}
