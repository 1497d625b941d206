package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sha1n/analyzer-lab/internal/auth"
	"github.com/sha1n/analyzer-lab/internal/config"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

func newLocalServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewHandler(newLocal(t), quietLogger()))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPEngine_AgainstLocalServer(t *testing.T) {
	srv := newLocalServer(t)
	client := NewHTTPEngine(srv.URL + APIPrefix + "/")

	descriptors, err := client.ListAnalyzers(context.Background())
	if err != nil {
		t.Fatalf("ListAnalyzers: %v", err)
	}
	if len(descriptors) == 0 || descriptors[0].Name != AnalyzerStandard {
		t.Fatalf("unexpected catalog: %+v", descriptors)
	}

	result, err := client.Analyze(context.Background(), domain.AnalysisRequest{
		IndexText:     "The quick brown fox",
		QueryText:     "quick fox",
		IndexAnalyzer: domain.Custom(domain.ExamplePipeline()),
		QueryAnalyzer: domain.Predefined(AnalyzerStandard),
		Autocomplete:  domain.DefaultAutocompleteConfig(),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(result.MatchingTokens, []string{"quick", "fox"}) {
		t.Errorf("MatchingTokens = %v", result.MatchingTokens)
	}
	if result.AnalyzerUsed != "myCustomAnalyzer" {
		t.Errorf("AnalyzerUsed = %q", result.AnalyzerUsed)
	}
}

func TestHTTPEngine_BadRequestIsPreserved(t *testing.T) {
	srv := newLocalServer(t)
	client := NewHTTPEngine(srv.URL + APIPrefix)

	_, err := client.Analyze(context.Background(), domain.AnalysisRequest{
		IndexText:     "a",
		QueryText:     "a",
		IndexAnalyzer: domain.Predefined("lucene.klingon"),
		QueryAnalyzer: domain.Predefined(AnalyzerStandard),
	})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	if !strings.Contains(err.Error(), "lucene.klingon") {
		t.Errorf("expected the server message in %q", err)
	}
}

func TestHTTPEngine_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPEngine(srv.URL).ListAnalyzers(context.Background())
	if err == nil || errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected a non-request error, got %v", err)
	}
	if !strings.Contains(err.Error(), "HTTP 500") || !strings.Contains(err.Error(), "engine exploded") {
		t.Errorf("unexpected error %q", err)
	}
}

func TestHTTPEngine_SendsHeaders(t *testing.T) {
	var gotID, gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(RequestIDHeader)
		gotKey = r.Header.Get(auth.APIKeyHeader)
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"indexTokens":[],"queryTokens":[],"analyzerUsed":"x"}`))
	}))
	defer srv.Close()

	creds, err := auth.NewCredentials(config.AuthSettings{Type: config.AuthTypeAPIKey, APIKeys: []string{"k1"}})
	if err != nil {
		t.Fatalf("NewCredentials: %v", err)
	}
	client := NewHTTPEngine(srv.URL+"/api", WithCredentials(creds))

	ctx := domain.WithRequestID(context.Background(), "req-7")
	if _, err := client.Analyze(ctx, domain.AnalysisRequest{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if gotID != "req-7" {
		t.Errorf("request id header = %q", gotID)
	}
	if gotKey != "k1" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotPath != "/api/analyze" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestHTTPEngine_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewHTTPEngine(srv.URL, WithClientTimeout(50*time.Millisecond))
	if _, err := client.ListAnalyzers(context.Background()); err == nil {
		t.Fatal("expected a timeout error")
	}
}

func TestHTTPEngine_Location(t *testing.T) {
	if got := NewHTTPEngine("http://localhost:8181/api/").Location(); got != "http://localhost:8181/api" {
		t.Errorf("Location = %q", got)
	}
}
