package engine

import (
	"context"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/shingle"
	"github.com/blevesearch/bleve/v2/analysis/token/truncate"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// Autocomplete shingle sizes for the index side.
const (
	minShingleSize = 2
	maxShingleSize = 3
)

// sideTerms turns an analyzer's output into the unique terms reported for one side. Expansion
// stops with ctx's error once ctx is done.
func sideTerms(ctx context.Context, ts analysis.TokenStream, side domain.Side, ac domain.AutocompleteConfig) ([]string, error) {
	if !ac.Enabled {
		return dedupe(termsOf(ts)), nil
	}
	expand := expandIndex
	if side == domain.SideQuery {
		expand = expandQuery
	}
	terms, err := expand(ctx, ts, ac)
	if err != nil {
		return nil, err
	}
	return dedupe(terms), nil
}

// expandIndex emits, for each word shingle (unigrams included), the shingle truncated to
// MaxGrams followed by its grams.
func expandIndex(ctx context.Context, ts analysis.TokenStream, ac domain.AutocompleteConfig) ([]string, error) {
	shingles := shingle.NewShingleFilter(minShingleSize, maxShingleSize, true, " ", "_").Filter(cloneStream(ts))
	trunc := truncate.NewTruncateTokenFilter(ac.MaxGrams)
	grams := newGramFilter(ac.Kind != domain.AutocompleteNGram, ac.MinGrams, ac.MaxGrams)

	var out []string
	for _, tok := range shingles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		term := string(tok.Term)
		out = append(out, termsOf(trunc.Filter(streamOf(term)))...)
		out = append(out, termsOf(trunc.Filter(grams.Filter(streamOf(term))))...)
	}
	return out, nil
}

// expandQuery emits each token truncated to MaxGrams followed by the token itself.
func expandQuery(ctx context.Context, ts analysis.TokenStream, ac domain.AutocompleteConfig) ([]string, error) {
	trunc := truncate.NewTruncateTokenFilter(ac.MaxGrams)

	var out []string
	for _, tok := range ts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		term := string(tok.Term)
		out = append(out, termsOf(trunc.Filter(streamOf(term)))...)
		out = append(out, term)
	}
	return out, nil
}

// compare marks every term present on both sides and reports the shared terms in index order.
func compare(indexTerms, queryTerms []string, analyzerUsed string) *domain.AnalysisResult {
	indexSet := toSet(indexTerms)
	querySet := toSet(queryTerms)

	result := &domain.AnalysisResult{
		IndexTokens:  tokenInfos(indexTerms, querySet),
		QueryTokens:  tokenInfos(queryTerms, indexSet),
		AnalyzerUsed: analyzerUsed,
	}
	for _, t := range result.IndexTokens {
		if t.Matched {
			result.MatchingTokens = append(result.MatchingTokens, t.Text)
		}
	}
	return result
}

func tokenInfos(terms []string, other map[string]struct{}) []domain.TokenInfo {
	infos := make([]domain.TokenInfo, 0, len(terms))
	for _, term := range terms {
		_, matched := other[term]
		infos = append(infos, domain.TokenInfo{
			Text:    term,
			Length:  utf8.RuneCountInString(term),
			Matched: matched,
		})
	}
	return infos
}

// dedupe drops repeated and empty terms, keeping first-seen order.
func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

func toSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		set[term] = struct{}{}
	}
	return set
}

func termsOf(ts analysis.TokenStream) []string {
	terms := make([]string, 0, len(ts))
	for _, tok := range ts {
		terms = append(terms, string(tok.Term))
	}
	return terms
}

// streamOf returns a single-token stream holding term.
func streamOf(term string) analysis.TokenStream {
	return analysis.TokenStream{{
		Term:     []byte(term),
		Start:    0,
		End:      len(term),
		Position: 1,
		Type:     analysis.AlphaNumeric,
	}}
}

// cloneStream copies tokens so filters that rewrite terms in place leave ts untouched.
func cloneStream(ts analysis.TokenStream) analysis.TokenStream {
	out := make(analysis.TokenStream, len(ts))
	for i, tok := range ts {
		cp := *tok
		cp.Term = append([]byte(nil), tok.Term...)
		out[i] = &cp
	}
	return out
}
