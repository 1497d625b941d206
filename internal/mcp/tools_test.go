package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/analyzer-lab/internal/domain"
	"github.com/sha1n/analyzer-lab/internal/engine"
	"github.com/sha1n/analyzer-lab/internal/workflow"
)

// stubEngine serves a fixed catalog and a fixed answer.
type stubEngine struct {
	mu          sync.Mutex
	listErr     error
	analyzeErr  error
	result      *domain.AnalysisResult
	listCalls   int
	lastRequest domain.AnalysisRequest
}

func (s *stubEngine) ListAnalyzers(_ context.Context) ([]domain.AnalyzerDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []domain.AnalyzerDescriptor{
		{Name: "lucene.standard", Category: domain.CategoryBase},
		{Name: "lucene.keyword", Category: domain.CategoryBase},
		{Name: "lucene.english", Category: domain.CategoryLanguage},
		{Name: "lucene.bengali", Category: domain.CategoryLanguage, AdditionalLabel: "(not yet supported)", Disabled: true},
	}, nil
}

func (s *stubEngine) Analyze(_ context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRequest = req
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return s.result, nil
}

func (s *stubEngine) Location() string { return "http://engine.test/api" }

var _ engine.Engine = (*stubEngine)(nil)

func newTools(e engine.Engine) *Toolset {
	return NewToolset(ServerConfig{Engine: e, DefaultAnalyzer: "lucene.standard"})
}

func extractTextContent(result *mcp.CallToolResult) string {
	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestListAnalyzersHandler_Grouped(t *testing.T) {
	handler := NewListAnalyzersHandler(newTools(&stubEngine{}))

	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, ListAnalyzersArgument{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected tool error: %s", extractTextContent(result))
	}

	text := extractTextContent(result)
	for _, want := range []string{
		"4 analyzers available from http://engine.test/api",
		"- `lucene.standard`",
		"### Language Analyzers",
		"- `lucene.bengali` (not yet supported) (unavailable)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
	if strings.Index(text, "lucene.keyword") > strings.Index(text, "### Language Analyzers") {
		t.Errorf("Expected base analyzers before the language group:\n%s", text)
	}
}

func TestListAnalyzersHandler_LoadFailure(t *testing.T) {
	handler := NewListAnalyzersHandler(newTools(&stubEngine{listErr: errors.New("connection refused")}))

	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, ListAnalyzersArgument{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected an error result")
	}
	want := "Failed to load analyzers. Please ensure the analysis engine is reachable at http://engine.test/api"
	if !strings.Contains(extractTextContent(result), want) {
		t.Errorf("Expected %q, got %q", want, extractTextContent(result))
	}
}

func TestToolset_CachesCatalog(t *testing.T) {
	stub := &stubEngine{result: &domain.AnalysisResult{}}
	tools := newTools(stub)
	list := NewListAnalyzersHandler(tools)
	analyze := NewAnalyzeHandler(tools)
	ctx := context.Background()

	_, _, _ = list.Handle(ctx, &mcp.CallToolRequest{}, ListAnalyzersArgument{})
	_, _, _ = analyze.Handle(ctx, &mcp.CallToolRequest{}, AnalyzeArgument{IndexText: "a", QueryText: "b"})
	_, _, _ = list.Handle(ctx, &mcp.CallToolRequest{}, ListAnalyzersArgument{})

	if stub.listCalls != 1 {
		t.Errorf("Expected the catalog to be fetched once, got %d fetches", stub.listCalls)
	}
}

func TestToolset_RetriesAfterLoadFailure(t *testing.T) {
	stub := &stubEngine{listErr: errors.New("connection refused")}
	handler := NewListAnalyzersHandler(newTools(stub))
	ctx := context.Background()

	first, _, _ := handler.Handle(ctx, &mcp.CallToolRequest{}, ListAnalyzersArgument{})
	stub.listErr = nil
	second, _, _ := handler.Handle(ctx, &mcp.CallToolRequest{}, ListAnalyzersArgument{})

	if !first.IsError || second.IsError {
		t.Errorf("Expected failure then success, got %v then %v", first.IsError, second.IsError)
	}
}

func TestAnalyzeHandler_RendersBoard(t *testing.T) {
	stub := &stubEngine{result: &domain.AnalysisResult{
		IndexTokens:    []domain.TokenInfo{{Text: "quick", Length: 5}, {Text: "fox", Length: 3, Matched: true}},
		QueryTokens:    []domain.TokenInfo{{Text: "fox", Length: 3, Matched: true}},
		MatchingTokens: []string{"fox"},
		AnalyzerUsed:   "lucene.standard",
	}}
	handler := NewAnalyzeHandler(newTools(stub))

	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, AnalyzeArgument{
		IndexText: "The quick fox",
		QueryText: "fox",
	})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected tool error: %s", extractTextContent(result))
	}

	text := extractTextContent(result)
	for _, want := range []string{
		"## Index tokens",
		"Huzzah! 2 unique tokens were created.",
		"You used the lucene.standard analyzer, try a different one to see changes.",
		"| quick | 5 characters |  |",
		"| fox | 3 characters | yes |",
		"## Query tokens",
		"Huzzah! 1 unique tokens were created.",
		"**Matching tokens**: fox",
		"**Matched**: 1 of 2 index tokens, 1 of 1 query tokens",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
	if stub.lastRequest.IndexAnalyzer.AnalyzerName() != "lucene.standard" {
		t.Errorf("Expected the default analyzer, got %q", stub.lastRequest.IndexAnalyzer.AnalyzerName())
	}
}

func TestAnalyzeHandler_EmptySide(t *testing.T) {
	stub := &stubEngine{result: &domain.AnalysisResult{
		IndexTokens:  []domain.TokenInfo{{Text: "quick", Length: 5}},
		AnalyzerUsed: "lucene.english",
	}}
	handler := NewAnalyzeHandler(newTools(stub))

	result, _, _ := handler.Handle(context.Background(), &mcp.CallToolRequest{}, AnalyzeArgument{
		IndexText: "quick",
		QueryText: "the",
	})

	text := extractTextContent(result)
	if !strings.Contains(text, workflow.NoTokensMessage) {
		t.Errorf("Expected the no-tokens message, got:\n%s", text)
	}
	if !strings.Contains(text, "**Matching tokens**: none") {
		t.Errorf("Expected no matching tokens, got:\n%s", text)
	}
}

func TestAnalyzeHandler_CustomAndAutocompleteArguments(t *testing.T) {
	stub := &stubEngine{result: &domain.AnalysisResult{}}
	handler := NewAnalyzeHandler(newTools(stub))

	result, _, _ := handler.Handle(context.Background(), &mcp.CallToolRequest{}, AnalyzeArgument{
		IndexText:           "The Cats & A Dog",
		QueryText:           "cats",
		CustomIndexAnalyzer: domain.ExamplePipelineJSON,
		QueryAnalyzer:       "lucene.english",
		Autocomplete:        true,
		AutocompleteType:    "nGram",
		MaxGrams:            4,
	})
	if result.IsError {
		t.Fatalf("Unexpected tool error: %s", extractTextContent(result))
	}

	req := stub.lastRequest
	if !req.IndexAnalyzer.IsCustom() || req.IndexAnalyzer.Definition().Name() != "myCustomAnalyzer" {
		t.Errorf("Expected the custom index pipeline, got %+v", req.IndexAnalyzer)
	}
	if req.QueryAnalyzer.AnalyzerName() != "lucene.english" {
		t.Errorf("Unexpected query analyzer: %+v", req.QueryAnalyzer)
	}
	want := domain.AutocompleteConfig{Enabled: true, Kind: domain.AutocompleteNGram, MinGrams: 3, MaxGrams: 4}
	if req.Autocomplete != want {
		t.Errorf("Expected %+v, got %+v", want, req.Autocomplete)
	}
}

func TestAnalyzeHandler_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args AnalyzeArgument
		want string
	}{
		{
			name: "missing texts",
			args: AnalyzeArgument{IndexText: "  "},
			want: "Please enter both index text and query text",
		},
		{
			name: "disabled analyzer",
			args: AnalyzeArgument{IndexText: "a", QueryText: "b", QueryAnalyzer: "lucene.bengali"},
			want: "Please select a query analyzer",
		},
		{
			name: "bad custom json",
			args: AnalyzeArgument{IndexText: "a", QueryText: "b", CustomIndexAnalyzer: "{"},
			want: "Invalid JSON in custom index analyzer",
		},
		{
			name: "bad gram range",
			args: AnalyzeArgument{IndexText: "a", QueryText: "b", Autocomplete: true, MinGrams: 4, MaxGrams: 2},
			want: "Invalid autocomplete settings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubEngine{result: &domain.AnalysisResult{}}
			handler := NewAnalyzeHandler(newTools(stub))

			result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, tt.args)
			if err != nil {
				t.Fatalf("Handle failed: %v", err)
			}
			if !result.IsError {
				t.Fatal("Expected an error result")
			}
			if !strings.Contains(extractTextContent(result), tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, extractTextContent(result))
			}
		})
	}
}

func TestAnalyzeHandler_SubmissionFailureCarriesCause(t *testing.T) {
	stub := &stubEngine{analyzeErr: errors.New("HTTP 503: overloaded")}
	handler := NewAnalyzeHandler(newTools(stub))

	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, AnalyzeArgument{
		IndexText: "a",
		QueryText: "b",
	})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected an error result")
	}
	want := workflow.SubmissionFailedMessage + " (HTTP 503: overloaded)"
	if extractTextContent(result) != want {
		t.Errorf("Expected %q, got %q", want, extractTextContent(result))
	}
}

func TestEscapeCell(t *testing.T) {
	if got := escapeCell("a|b\nc"); got != `a\|b c` {
		t.Errorf("Unexpected escape: %q", got)
	}
}

func TestToolDefinitions(t *testing.T) {
	tools := newTools(&stubEngine{})
	if name := NewListAnalyzersHandler(tools).GetToolDefinition().Name; name != "list_analyzers" {
		t.Errorf("Unexpected name %q", name)
	}
	def := NewAnalyzeHandler(tools).GetToolDefinition()
	if def.Name != "analyze_text" || def.Description == "" {
		t.Errorf("Unexpected definition %+v", def)
	}
}
