package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// ElasticConfig holds connection settings for an Elasticsearch cluster.
type ElasticConfig struct {
	URLs     []string
	Username string
	Password string
	APIKey   string
	CloudID  string

	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// ElasticEngine analyzes text with the _analyze API of an Elasticsearch cluster.
type ElasticEngine struct {
	client   *elasticsearch.Client
	location string
}

// analyzeResponse is the body of an _analyze response.
type analyzeResponse struct {
	Tokens []struct {
		Token       string `json:"token"`
		StartOffset int    `json:"start_offset"`
		EndOffset   int    `json:"end_offset"`
		Position    int    `json:"position"`
	} `json:"tokens"`
}

// NewElasticEngine creates an engine over the configured cluster. No request is made until the
// catalog is listed.
func NewElasticEngine(cfg ElasticConfig) (*ElasticEngine, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.URLs,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
		CloudID:   cfg.CloudID,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	location := strings.Join(cfg.URLs, ", ")
	if cfg.CloudID != "" {
		location = "Elastic Cloud deployment " + strings.SplitN(cfg.CloudID, ":", 2)[0]
	}
	return &ElasticEngine{client: client, location: location}, nil
}

// ListAnalyzers checks that the cluster answers and returns the built-in analyzers it offers.
func (e *ElasticEngine) ListAnalyzers(ctx context.Context) ([]domain.AnalyzerDescriptor, error) {
	res, err := esapi.InfoRequest{}.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, fmt.Errorf("Elasticsearch connection error: %s", res.String())
	}

	descriptors := []domain.AnalyzerDescriptor{
		{Name: AnalyzerStandard, Category: domain.CategoryBase},
		{Name: AnalyzerWhitespace, Category: domain.CategoryBase},
		{Name: AnalyzerSimple, Category: domain.CategoryBase},
		{Name: AnalyzerKeyword, Category: domain.CategoryBase},
	}
	for _, lang := range languageAnalyzers {
		descriptors = append(descriptors, domain.AnalyzerDescriptor{
			Name:            lang.name,
			Category:        domain.CategoryLanguage,
			AdditionalLabel: lang.label,
		})
	}
	return descriptors, nil
}

// Analyze runs one _analyze call per side and compares the token sets.
func (e *ElasticEngine) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	indexBody, err := elasticAnalyzeBody(req.IndexAnalyzer, req.IndexText)
	if err != nil {
		return nil, err
	}
	queryBody, err := elasticAnalyzeBody(req.QueryAnalyzer, req.QueryText)
	if err != nil {
		return nil, err
	}

	indexTokens, err := e.analyze(ctx, indexBody)
	if err != nil {
		return nil, err
	}
	queryTokens, err := e.analyze(ctx, queryBody)
	if err != nil {
		return nil, err
	}

	indexTerms := sideTerms(indexTokens, domain.SideIndex, req.Autocomplete)
	queryTerms := sideTerms(queryTokens, domain.SideQuery, req.Autocomplete)
	return compare(indexTerms, queryTerms, req.IndexAnalyzer.DisplayName()), nil
}

// Location lists the cluster addresses.
func (e *ElasticEngine) Location() string {
	return e.location
}

func (e *ElasticEngine) analyze(ctx context.Context, body map[string]interface{}) (analysis.TokenStream, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	res, err := esapi.IndicesAnalyzeRequest{Body: &buf}.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute analyze: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusBadRequest {
		return nil, badRequest("Elasticsearch rejected the analyzer: %s", res.String())
	}
	if res.IsError() {
		return nil, fmt.Errorf("analyze failed: %s", res.String())
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse analyze response: %w", err)
	}

	ts := make(analysis.TokenStream, 0, len(parsed.Tokens))
	for _, t := range parsed.Tokens {
		ts = append(ts, &analysis.Token{
			Term:     []byte(t.Token),
			Start:    t.StartOffset,
			End:      t.EndOffset,
			Position: t.Position + 1,
			Type:     analysis.AlphaNumeric,
		})
	}
	return ts, nil
}
