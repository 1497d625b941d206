package engine

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/edgengram"
	"github.com/blevesearch/bleve/v2/analysis/token/ngram"
)

// Pipeline stages bleve has no direct equivalent for. They implement bleve's analysis interfaces
// so they compose with the built-in components in an analysis.DefaultAnalyzer.

// mappingCharFilter replaces literal substrings, longest match first.
type mappingCharFilter struct {
	replacer *strings.Replacer
}

func newMappingCharFilter(pairs [][2]string) *mappingCharFilter {
	sorted := append([][2]string(nil), pairs...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i][0]) > len(sorted[j][0]) })

	oldnew := make([]string, 0, 2*len(sorted))
	for _, p := range sorted {
		oldnew = append(oldnew, p[0], p[1])
	}
	return &mappingCharFilter{replacer: strings.NewReplacer(oldnew...)}
}

func (f *mappingCharFilter) Filter(input []byte) []byte {
	return []byte(f.replacer.Replace(string(input)))
}

// maxLengthTokenizer splits tokens longer than max runes into consecutive chunks.
type maxLengthTokenizer struct {
	inner analysis.Tokenizer
	max   int
}

func (t *maxLengthTokenizer) Tokenize(input []byte) analysis.TokenStream {
	in := t.inner.Tokenize(input)
	out := make(analysis.TokenStream, 0, len(in))
	for _, tok := range in {
		if utf8.RuneCount(tok.Term) <= t.max {
			out = append(out, tok)
			continue
		}
		term, start := tok.Term, tok.Start
		for len(term) > 0 {
			n := prefixBytes(term, t.max)
			out = append(out, &analysis.Token{
				Term:  append([]byte(nil), term[:n]...),
				Start: start,
				End:   start + n,
				Type:  tok.Type,
			})
			term, start = term[n:], start+n
		}
	}
	return renumber(out)
}

// prefixBytes returns the byte length of the first n runes of b.
func prefixBytes(b []byte, n int) int {
	i := 0
	for n > 0 && i < len(b) {
		_, size := utf8.DecodeRune(b[i:])
		i += size
		n--
	}
	return i
}

// regexpSplitTokenizer emits the text between matches of a pattern.
type regexpSplitTokenizer struct {
	re *regexp.Regexp
}

func (t *regexpSplitTokenizer) Tokenize(input []byte) analysis.TokenStream {
	var out analysis.TokenStream
	start := 0
	emit := func(end int) {
		if end > start {
			out = append(out, newToken(input, start, end))
		}
	}
	for _, loc := range t.re.FindAllIndex(input, -1) {
		emit(loc[0])
		start = loc[1]
	}
	emit(len(input))
	return renumber(out)
}

// regexpGroupTokenizer emits one capture group of every match of a pattern.
type regexpGroupTokenizer struct {
	re    *regexp.Regexp
	group int
}

func (t *regexpGroupTokenizer) Tokenize(input []byte) analysis.TokenStream {
	var out analysis.TokenStream
	for _, loc := range t.re.FindAllSubmatchIndex(input, -1) {
		start, end := loc[2*t.group], loc[2*t.group+1]
		if start < 0 || end <= start {
			continue
		}
		out = append(out, newToken(input, start, end))
	}
	return renumber(out)
}

// stopFilter removes stop words, optionally ignoring case.
type stopFilter struct {
	words      analysis.TokenMap
	ignoreCase bool
}

func newStopFilter(words []string, ignoreCase bool) *stopFilter {
	tm := analysis.NewTokenMap()
	for _, w := range words {
		if ignoreCase {
			w = strings.ToLower(w)
		}
		tm.AddToken(w)
	}
	return &stopFilter{words: tm, ignoreCase: ignoreCase}
}

func (f *stopFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	out := input[:0]
	for _, tok := range input {
		term := string(tok.Term)
		if f.ignoreCase {
			term = strings.ToLower(term)
		}
		if !f.words[term] {
			out = append(out, tok)
		}
	}
	return out
}

// gramFilter emits edge grams or n-grams of each token. The upper bound is clamped to the
// token's rune count, so a large max costs no more than the token itself allows.
type gramFilter struct {
	edge     bool
	min, max int
}

func newGramFilter(edge bool, minGram, maxGram int) *gramFilter {
	return &gramFilter{edge: edge, min: minGram, max: maxGram}
}

func (f *gramFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	var out analysis.TokenStream
	for _, tok := range input {
		n := utf8.RuneCount(tok.Term)
		if n < f.min {
			continue
		}
		out = append(out, f.bounded(min(f.max, n)).Filter(analysis.TokenStream{tok})...)
	}
	return out
}

func (f *gramFilter) bounded(maxGram int) analysis.TokenFilter {
	if f.edge {
		return edgengram.NewEdgeNgramFilter(edgengram.FRONT, f.min, maxGram)
	}
	return ngram.NewNgramFilter(f.min, maxGram)
}

// boundedGramFilter runs a gram filter per token and keeps the original term when its length
// falls outside the gram bounds and keepOutOfBounds is set.
type boundedGramFilter struct {
	grams           analysis.TokenFilter
	min, max        int
	keepOutOfBounds bool
}

func (f *boundedGramFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	var out analysis.TokenStream
	for _, tok := range input {
		n := utf8.RuneCount(tok.Term)
		keep := f.keepOutOfBounds && (n < f.min || n > f.max)
		var original analysis.Token
		if keep {
			original = *tok
			original.Term = append([]byte(nil), tok.Term...)
		}
		out = append(out, f.grams.Filter(analysis.TokenStream{tok})...)
		if keep {
			out = append(out, &original)
		}
	}
	return out
}

// trimFilter strips leading and trailing whitespace from every term.
type trimFilter struct{}

func (trimFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	for _, tok := range input {
		tok.Term = bytes.TrimSpace(tok.Term)
	}
	return input
}

// regexpReplaceFilter rewrites terms matching a pattern.
type regexpReplaceFilter struct {
	re          *regexp.Regexp
	replacement []byte
	all         bool
}

func (f *regexpReplaceFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	for _, tok := range input {
		if f.all {
			tok.Term = f.re.ReplaceAll(tok.Term, f.replacement)
			continue
		}
		if loc := f.re.FindSubmatchIndex(tok.Term); loc != nil {
			var term []byte
			term = append(term, tok.Term[:loc[0]]...)
			term = f.re.Expand(term, f.replacement, tok.Term, loc)
			term = append(term, tok.Term[loc[1]:]...)
			tok.Term = term
		}
	}
	return input
}

// identityFilter passes tokens through unchanged.
type identityFilter struct{}

func (identityFilter) Filter(input analysis.TokenStream) analysis.TokenStream { return input }

func newToken(input []byte, start, end int) *analysis.Token {
	return &analysis.Token{
		Term:  append([]byte(nil), input[start:end]...),
		Start: start,
		End:   end,
		Type:  analysis.AlphaNumeric,
	}
}

// renumber assigns consecutive positions starting at 1.
func renumber(ts analysis.TokenStream) analysis.TokenStream {
	for i, tok := range ts {
		tok.Position = i + 1
	}
	return ts
}
