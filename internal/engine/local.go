package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/whitespace"
	"github.com/blevesearch/bleve/v2/registry"
	"github.com/sha1n/analyzer-lab/internal/domain"

	// Language analyzers and stemmers register themselves with the bleve registry
	_ "github.com/blevesearch/bleve/v2/analysis/lang/ar"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/ckb"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/da"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/de"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/en"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/es"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/fa"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/fi"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/fr"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/hi"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/hu"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/it"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/nl"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/no"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/pt"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/ro"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/ru"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/sv"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/tr"
)

// Predefined analyzer names.
const (
	AnalyzerStandard   = "lucene.standard"
	AnalyzerWhitespace = "lucene.whitespace"
	AnalyzerSimple     = "lucene.simple"
	AnalyzerKeyword    = "lucene.keyword"
)

// NotSupportedLabel marks analyzers that are listed but cannot be used.
const NotSupportedLabel = "(not yet supported)"

// LocalLocation is reported as the location of the in-process engine.
const LocalLocation = "the in-process bleve engine"

// languageAnalyzer maps a catalog name to its bleve analyzer; an empty bleve name means the
// language is listed but has no local implementation.
type languageAnalyzer struct {
	name  string
	bleve string
	label string
}

// languageAnalyzers lists the language analyzers in catalog order.
var languageAnalyzers = []languageAnalyzer{
	{name: "lucene.arabic", bleve: "ar"},
	{name: "lucene.armenian"},
	{name: "lucene.basque"},
	{name: "lucene.bengali"},
	{name: "lucene.brazilian"},
	{name: "lucene.bulgarian"},
	{name: "lucene.catalan"},
	{name: "lucene.cjk", bleve: "cjk", label: "(Chinese, Japanese, Korean)"},
	{name: "lucene.czech"},
	{name: "lucene.danish", bleve: "da"},
	{name: "lucene.dutch", bleve: "nl"},
	{name: "lucene.english", bleve: "en"},
	{name: "lucene.finnish", bleve: "fi"},
	{name: "lucene.french", bleve: "fr"},
	{name: "lucene.galician"},
	{name: "lucene.german", bleve: "de"},
	{name: "lucene.greek"},
	{name: "lucene.hindi", bleve: "hi"},
	{name: "lucene.hungarian", bleve: "hu"},
	{name: "lucene.indonesian"},
	{name: "lucene.irish"},
	{name: "lucene.italian", bleve: "it"},
	{name: "lucene.latvian"},
	{name: "lucene.norwegian", bleve: "no"},
	{name: "lucene.persian", bleve: "fa"},
	{name: "lucene.portuguese", bleve: "pt"},
	{name: "lucene.romanian", bleve: "ro"},
	{name: "lucene.russian", bleve: "ru"},
	{name: "lucene.sorani", bleve: "ckb"},
	{name: "lucene.spanish", bleve: "es"},
	{name: "lucene.swedish", bleve: "sv"},
	{name: "lucene.thai"},
	{name: "lucene.turkish", bleve: "tr"},
}

// LocalEngine analyzes text in-process with bleve's analysis chain.
type LocalEngine struct {
	// mu guards cache, whose lookups populate it lazily
	mu    sync.Mutex
	cache *registry.Cache

	catalog   []domain.AnalyzerDescriptor
	analyzers map[string]analysis.Analyzer
}

// NewLocalEngine builds the predefined analyzers. Language analyzers bleve cannot construct are
// listed as disabled.
func NewLocalEngine() (*LocalEngine, error) {
	e := &LocalEngine{
		cache:     registry.NewCache(),
		analyzers: make(map[string]analysis.Analyzer),
	}

	if err := e.addBaseAnalyzers(); err != nil {
		return nil, err
	}

	for _, lang := range languageAnalyzers {
		desc := domain.AnalyzerDescriptor{
			Name:            lang.name,
			Category:        domain.CategoryLanguage,
			AdditionalLabel: lang.label,
		}
		var a analysis.Analyzer
		if lang.bleve != "" {
			a, _ = e.cache.AnalyzerNamed(lang.bleve)
		}
		if a == nil {
			desc.AdditionalLabel = NotSupportedLabel
			desc.Disabled = true
		} else {
			e.analyzers[lang.name] = a
		}
		e.catalog = append(e.catalog, desc)
	}

	return e, nil
}

func (e *LocalEngine) addBaseAnalyzers() error {
	unicodeTokenizer, err := e.cache.TokenizerNamed(unicode.Name)
	if err != nil {
		return fmt.Errorf("failed to create unicode tokenizer: %w", err)
	}
	whitespaceTokenizer, err := e.cache.TokenizerNamed(whitespace.Name)
	if err != nil {
		return fmt.Errorf("failed to create whitespace tokenizer: %w", err)
	}
	toLower, err := e.cache.TokenFilterNamed(lowercase.Name)
	if err != nil {
		return fmt.Errorf("failed to create lowercase filter: %w", err)
	}
	simpleAnalyzer, err := e.cache.AnalyzerNamed(simple.Name)
	if err != nil {
		return fmt.Errorf("failed to create simple analyzer: %w", err)
	}
	keywordAnalyzer, err := e.cache.AnalyzerNamed(keyword.Name)
	if err != nil {
		return fmt.Errorf("failed to create keyword analyzer: %w", err)
	}

	base := []struct {
		name     string
		analyzer analysis.Analyzer
	}{
		// Lucene's standard analyzer carries no stop words by default
		{AnalyzerStandard, &analysis.DefaultAnalyzer{
			Tokenizer:    unicodeTokenizer,
			TokenFilters: []analysis.TokenFilter{toLower},
		}},
		{AnalyzerWhitespace, &analysis.DefaultAnalyzer{Tokenizer: whitespaceTokenizer}},
		{AnalyzerSimple, simpleAnalyzer},
		{AnalyzerKeyword, keywordAnalyzer},
	}
	for _, b := range base {
		e.analyzers[b.name] = b.analyzer
		e.catalog = append(e.catalog, domain.AnalyzerDescriptor{Name: b.name, Category: domain.CategoryBase})
	}
	return nil
}

// ListAnalyzers returns the base analyzers followed by the language analyzers.
func (e *LocalEngine) ListAnalyzers(ctx context.Context) ([]domain.AnalyzerDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.AnalyzerDescriptor(nil), e.catalog...), nil
}

// Analyze tokenizes both texts and compares the resulting token sets.
func (e *LocalEngine) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	indexAnalyzer, err := e.analyzerFor(req.IndexAnalyzer)
	if err != nil {
		return nil, err
	}
	queryAnalyzer, err := e.analyzerFor(req.QueryAnalyzer)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indexTerms, err := sideTerms(ctx, indexAnalyzer.Analyze([]byte(req.IndexText)), domain.SideIndex, req.Autocomplete)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	queryTerms, err := sideTerms(ctx, queryAnalyzer.Analyze([]byte(req.QueryText)), domain.SideQuery, req.Autocomplete)
	if err != nil {
		return nil, err
	}

	return compare(indexTerms, queryTerms, req.IndexAnalyzer.DisplayName()), nil
}

// Location describes the in-process engine.
func (e *LocalEngine) Location() string {
	return LocalLocation
}

func (e *LocalEngine) analyzerFor(choice domain.AnalyzerChoice) (analysis.Analyzer, error) {
	if choice.IsCustom() {
		e.mu.Lock()
		defer e.mu.Unlock()
		return buildPipeline(e.cache, choice.Definition())
	}

	name := choice.AnalyzerName()
	if a, ok := e.analyzers[name]; ok {
		return a, nil
	}
	for _, d := range e.catalog {
		if d.Name == name {
			return nil, badRequest("analyzer %q is not supported by %s", name, LocalLocation)
		}
	}
	return nil, badRequest("unknown analyzer: %s", name)
}
