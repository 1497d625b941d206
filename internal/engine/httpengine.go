package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sha1n/analyzer-lab/internal/auth"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// RequestIDHeader carries the submission's request id to the remote engine.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is quoted back.
const maxErrorBody = 4096

// HTTPEngine is a client of a remote analysis engine speaking the JSON contract served by Server.
type HTTPEngine struct {
	baseURL     string
	client      *http.Client
	credentials auth.Credentials
}

// HTTPOption configures an HTTPEngine.
type HTTPOption func(*HTTPEngine)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(e *HTTPEngine) { e.client = c }
}

// WithClientTimeout sets the HTTP client timeout. Zero means no timeout.
func WithClientTimeout(d time.Duration) HTTPOption {
	return func(e *HTTPEngine) { e.client.Timeout = d }
}

// WithCredentials decorates every request with the given credentials.
func WithCredentials(c auth.Credentials) HTTPOption {
	return func(e *HTTPEngine) { e.credentials = c }
}

// NewHTTPEngine creates a client for the engine at baseURL, e.g. "http://localhost:8181/api".
func NewHTTPEngine(baseURL string, opts ...HTTPOption) *HTTPEngine {
	e := &HTTPEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListAnalyzers fetches GET {base}/analyzers.
func (e *HTTPEngine) ListAnalyzers(ctx context.Context) ([]domain.AnalyzerDescriptor, error) {
	var descriptors []domain.AnalyzerDescriptor
	if err := e.do(ctx, http.MethodGet, "/analyzers", nil, &descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}

// Analyze posts the request to {base}/analyze.
func (e *HTTPEngine) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var result domain.AnalysisResult
	if err := e.do(ctx, http.MethodPost, "/analyze", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Location returns the engine's base address.
func (e *HTTPEngine) Location() string {
	return e.baseURL
}

func (e *HTTPEngine) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := domain.RequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	e.credentials.Apply(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.Body)
		if resp.StatusCode == http.StatusBadRequest {
			return badRequest("%s", msg)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// errorMessage extracts the "error" field of a JSON error body, or returns the raw body.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
