package workflow

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

type fakeEngine struct {
	mu       sync.Mutex
	result   *domain.AnalysisResult
	err      error
	requests []domain.AnalysisRequest
	ids      []string

	// started and release, when set, make Analyze block until release is closed.
	started chan struct{}
	release chan struct{}
}

func (f *fakeEngine) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.ids = append(f.ids, domain.RequestID(ctx))
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeEngine) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeEngine) ListAnalyzers(_ context.Context) ([]domain.AnalyzerDescriptor, error) {
	return testDescriptors(), nil
}

func (f *fakeEngine) Location() string { return "test" }

func testDescriptors() []domain.AnalyzerDescriptor {
	return []domain.AnalyzerDescriptor{
		{Name: "lucene.standard", Category: domain.CategoryBase},
		{Name: "lucene.whitespace", Category: domain.CategoryBase},
		{Name: "lucene.keyword", Category: domain.CategoryBase},
		{Name: "lucene.english", Category: domain.CategoryLanguage},
		{Name: "lucene.bengali", Category: domain.CategoryLanguage, AdditionalLabel: "(not yet supported)", Disabled: true},
	}
}

func testCatalog() *catalog.Catalog {
	return catalog.New(testDescriptors())
}

func quietOrchestrator(engine Analyzer, opts ...Option) *Orchestrator {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewOrchestrator(engine, opts...)
}
