package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAnalysisRequest_MarshalPredefined(t *testing.T) {
	req := AnalysisRequest{
		IndexText:     "The quick fox",
		QueryText:     "fox",
		IndexAnalyzer: Predefined("lucene.standard"),
		QueryAnalyzer: Predefined("lucene.standard"),
		Autocomplete:  DefaultAutocompleteConfig(),
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	var wire map[string]interface{}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Failed to decode wire form: %v", err)
	}

	if wire["indexAnalyzer"] != "lucene.standard" || wire["queryAnalyzer"] != "lucene.standard" {
		t.Errorf("Unexpected analyzer names: %v %v", wire["indexAnalyzer"], wire["queryAnalyzer"])
	}
	for _, key := range []string{"customIndexAnalyzer", "customQueryAnalyzer"} {
		v, present := wire[key]
		if !present || v != nil {
			t.Errorf("Expected %s to be present and null, got %v (present=%v)", key, v, present)
		}
	}
	if wire["useAutocomplete"] != false {
		t.Errorf("Expected useAutocomplete=false, got %v", wire["useAutocomplete"])
	}

	ac, ok := wire["autocompleteConfig"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected autocompleteConfig object, got %T", wire["autocompleteConfig"])
	}
	if ac["autocompleteType"] != "edgeGram" || ac["minGrams"] != float64(3) || ac["maxGrams"] != float64(15) {
		t.Errorf("Unexpected autocomplete config: %v", ac)
	}
}

func TestAnalysisRequest_MarshalCustom(t *testing.T) {
	req := AnalysisRequest{
		IndexText:     "a",
		QueryText:     "b",
		IndexAnalyzer: Custom(ExamplePipeline()),
		QueryAnalyzer: Predefined("lucene.keyword"),
		Autocomplete:  DefaultAutocompleteConfig(),
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	var wire map[string]interface{}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Failed to decode wire form: %v", err)
	}

	if wire["indexAnalyzer"] != nil {
		t.Errorf("Expected null indexAnalyzer, got %v", wire["indexAnalyzer"])
	}
	custom, ok := wire["customIndexAnalyzer"].(map[string]interface{})
	if !ok || custom["name"] != "myCustomAnalyzer" {
		t.Errorf("Unexpected customIndexAnalyzer: %v", wire["customIndexAnalyzer"])
	}
	if wire["queryAnalyzer"] != "lucene.keyword" || wire["customQueryAnalyzer"] != nil {
		t.Errorf("Unexpected query side: %v %v", wire["queryAnalyzer"], wire["customQueryAnalyzer"])
	}
}

func TestAnalysisRequest_RoundTrip(t *testing.T) {
	req := AnalysisRequest{
		IndexText:     "hello world",
		QueryText:     "hel",
		IndexAnalyzer: Custom(ExamplePipeline()),
		QueryAnalyzer: Predefined("lucene.simple"),
		Autocomplete:  AutocompleteConfig{Enabled: true, Kind: AutocompleteNGram, MinGrams: 2, MaxGrams: 4},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	var decoded AnalysisRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal request: %v", err)
	}

	if !decoded.IndexAnalyzer.IsCustom() || decoded.IndexAnalyzer.DisplayName() != "myCustomAnalyzer" {
		t.Errorf("Unexpected index analyzer: %+v", decoded.IndexAnalyzer)
	}
	if decoded.QueryAnalyzer.AnalyzerName() != "lucene.simple" {
		t.Errorf("Unexpected query analyzer: %+v", decoded.QueryAnalyzer)
	}
	if decoded.Autocomplete != req.Autocomplete {
		t.Errorf("Autocomplete mismatch: got %+v, want %+v", decoded.Autocomplete, req.Autocomplete)
	}
}

func TestAnalysisRequest_UnmarshalAmbiguous(t *testing.T) {
	body := `{"indexText":"a","queryText":"b","indexAnalyzer":"lucene.standard",
		"customIndexAnalyzer":{"tokenizer":{"type":"standard"}},"queryAnalyzer":"lucene.standard"}`

	var req AnalysisRequest
	err := json.Unmarshal([]byte(body), &req)
	if !errors.Is(err, ErrAmbiguousAnalyzer) {
		t.Errorf("Expected ErrAmbiguousAnalyzer, got %v", err)
	}
}

func TestAnalysisRequest_UnmarshalMissingConfigUsesDefaults(t *testing.T) {
	var req AnalysisRequest
	if err := json.Unmarshal([]byte(`{"indexText":"a","queryText":"b","indexAnalyzer":"x","queryAnalyzer":"y"}`), &req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Autocomplete != DefaultAutocompleteConfig() {
		t.Errorf("Expected default autocomplete config, got %+v", req.Autocomplete)
	}
}

func TestAutocompleteConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  AutocompleteConfig
		wantErr bool
	}{
		{"disabled ignores values", AutocompleteConfig{Kind: "bogus", MinGrams: 0, MaxGrams: -1}, false},
		{"default enabled", AutocompleteConfig{Enabled: true, Kind: AutocompleteEdgeGram, MinGrams: 3, MaxGrams: 15}, false},
		{"equal bounds", AutocompleteConfig{Enabled: true, Kind: AutocompleteNGram, MinGrams: 2, MaxGrams: 2}, false},
		{"unknown kind", AutocompleteConfig{Enabled: true, Kind: "prefix", MinGrams: 1, MaxGrams: 2}, true},
		{"zero min", AutocompleteConfig{Enabled: true, Kind: AutocompleteNGram, MinGrams: 0, MaxGrams: 2}, true},
		{"max below min", AutocompleteConfig{Enabled: true, Kind: AutocompleteEdgeGram, MinGrams: 5, MaxGrams: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnalyzerChoice(t *testing.T) {
	if !(AnalyzerChoice{}).IsZero() {
		t.Error("Expected zero choice")
	}
	if Predefined("x").IsCustom() {
		t.Error("Predefined choice reported as custom")
	}

	unnamed, err := ParsePipeline(`{"tokenizer":{"type":"standard"}}`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := Custom(unnamed).DisplayName(); got != CustomAnalyzerName {
		t.Errorf("Expected %q, got %q", CustomAnalyzerName, got)
	}
}

func TestAnalyzerDescriptor_Label(t *testing.T) {
	d := AnalyzerDescriptor{Name: "lucene.cjk", Category: CategoryLanguage, AdditionalLabel: "(Chinese, Japanese, Korean)"}
	if d.Label() != "lucene.cjk (Chinese, Japanese, Korean)" {
		t.Errorf("Unexpected label: %q", d.Label())
	}
	if (AnalyzerDescriptor{Name: "lucene.standard"}).Label() != "lucene.standard" {
		t.Error("Expected bare name without additional label")
	}
}
