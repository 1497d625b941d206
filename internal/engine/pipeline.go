package engine

import (
	"regexp"
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/char/html"
	"github.com/blevesearch/bleve/v2/analysis/token/length"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/porter"
	"github.com/blevesearch/bleve/v2/analysis/token/reverse"
	"github.com/blevesearch/bleve/v2/analysis/token/shingle"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/token/truncate"
	"github.com/blevesearch/bleve/v2/analysis/token/unique"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/web"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/whitespace"
	"github.com/blevesearch/bleve/v2/registry"
	"github.com/sha1n/analyzer-lab/internal/domain"
)

// Lucene's default maximum token length for the standard family of tokenizers.
const defaultMaxTokenLength = 255

// snowballStemmers maps snowball stemmer names to bleve token filter names.
var snowballStemmers = map[string]string{
	"danish":    "stemmer_da_snowball",
	"dutch":     "stemmer_nl_snowball",
	"english":   "stemmer_en_snowball",
	"finnish":   "stemmer_fi_snowball",
	"french":    "stemmer_fr_snowball",
	"german":    "stemmer_de_snowball",
	"hungarian": "stemmer_hu_snowball",
	"italian":   "stemmer_it_snowball",
	"norwegian": "stemmer_no_snowball",
	"romanian":  "stemmer_ro_snowball",
	"russian":   "stemmer_ru_snowball",
	"spanish":   "stemmer_es_snowball",
	"swedish":   "stemmer_sv_snowball",
	"turkish":   "stemmer_tr_snowball",
}

// buildPipeline assembles a bleve analyzer from a custom pipeline definition. cache resolves
// built-in bleve components by name and must not be used concurrently.
func buildPipeline(cache *registry.Cache, def *domain.PipelineDefinition) (analysis.Analyzer, error) {
	a := &analysis.DefaultAnalyzer{}

	for _, stage := range def.CharFilters() {
		cf, err := buildCharFilter(cache, stage)
		if err != nil {
			return nil, err
		}
		a.CharFilters = append(a.CharFilters, cf)
	}

	tokenizer, leading, err := buildTokenizer(cache, def.Tokenizer())
	if err != nil {
		return nil, err
	}
	a.Tokenizer = tokenizer
	if leading != nil {
		a.TokenFilters = append(a.TokenFilters, leading)
	}

	for _, stage := range def.TokenFilters() {
		tf, err := buildTokenFilter(cache, stage)
		if err != nil {
			return nil, err
		}
		a.TokenFilters = append(a.TokenFilters, tf)
	}

	return a, nil
}

func buildCharFilter(cache *registry.Cache, stage domain.Stage) (analysis.CharFilter, error) {
	p := paramsOf("char filter", stage)

	switch stage.Type() {
	case "htmlStrip":
		if tags, err := p.list("ignoredTags"); err != nil || len(tags) > 0 {
			if err != nil {
				return nil, err
			}
			return nil, badRequest("char filter htmlStrip: ignoredTags is not supported by %s", LocalLocation)
		}
		return cache.CharFilterNamed(html.Name)

	case "mapping":
		fields, err := p.pairs("mappings")
		if err != nil {
			return nil, err
		}
		pairs := make([][2]string, 0, len(fields))
		for _, f := range fields {
			if f.Key == "" {
				return nil, badRequest("char filter mapping: keys must not be empty")
			}
			to, _ := f.Value.Text()
			pairs = append(pairs, [2]string{f.Key, to})
		}
		return newMappingCharFilter(pairs), nil

	case "":
		return nil, badRequest("char filter: %q is required", domain.StageKeyType)
	default:
		return nil, badRequest("char filter %q is not supported by %s", stage.Type(), LocalLocation)
	}
}

// buildTokenizer returns the tokenizer for stage, plus a token filter that must run first when
// the stage is a gram tokenizer expressed as a single token followed by grams.
func buildTokenizer(cache *registry.Cache, stage domain.Stage) (analysis.Tokenizer, analysis.TokenFilter, error) {
	p := paramsOf("tokenizer", stage)

	switch stage.Type() {
	case "standard", "whitespace", "uaxUrlEmail":
		maxLen, err := p.integer("maxTokenLength", defaultMaxTokenLength)
		if err != nil {
			return nil, nil, err
		}
		if maxLen < 1 {
			return nil, nil, badRequest("tokenizer %s: maxTokenLength must be positive", stage.Type())
		}
		name := map[string]string{
			"standard":    unicode.Name,
			"whitespace":  whitespace.Name,
			"uaxUrlEmail": web.Name,
		}[stage.Type()]
		inner, err := cache.TokenizerNamed(name)
		if err != nil {
			return nil, nil, err
		}
		return &maxLengthTokenizer{inner: inner, max: maxLen}, nil, nil

	case "keyword":
		t, err := cache.TokenizerNamed(single.Name)
		return t, nil, err

	case "edgeGram", "nGram":
		minGram, maxGram, err := p.gramBounds()
		if err != nil {
			return nil, nil, err
		}
		t, err := cache.TokenizerNamed(single.Name)
		if err != nil {
			return nil, nil, err
		}
		return t, newGramFilter(stage.Type() == "edgeGram", minGram, maxGram), nil

	case "regexSplit":
		re, err := compilePattern(p, "pattern")
		if err != nil {
			return nil, nil, err
		}
		return &regexpSplitTokenizer{re: re}, nil, nil

	case "regexCaptureGroup":
		re, err := compilePattern(p, "pattern")
		if err != nil {
			return nil, nil, err
		}
		group, err := p.integer("group", 0)
		if err != nil {
			return nil, nil, err
		}
		if group < 0 || group > re.NumSubexp() {
			return nil, nil, badRequest("tokenizer regexCaptureGroup: group %d is out of range", group)
		}
		return &regexpGroupTokenizer{re: re, group: group}, nil, nil

	case "":
		return nil, nil, badRequest("tokenizer: %q is required", domain.StageKeyType)
	default:
		return nil, nil, badRequest("tokenizer %q is not supported by %s", stage.Type(), LocalLocation)
	}
}

func buildTokenFilter(cache *registry.Cache, stage domain.Stage) (analysis.TokenFilter, error) {
	p := paramsOf("token filter", stage)

	switch stage.Type() {
	case "lowercase":
		return lowercase.NewLowerCaseFilter(), nil

	case "stopword":
		words, err := p.list("tokens")
		if err != nil {
			return nil, err
		}
		ignoreCase, err := p.boolean("ignoreCase", true)
		if err != nil {
			return nil, err
		}
		if !ignoreCase {
			tm := analysis.NewTokenMap()
			for _, w := range words {
				tm.AddToken(w)
			}
			return stop.NewStopTokensFilter(tm), nil
		}
		return newStopFilter(words, true), nil

	case "length":
		minLen, err := p.integer("min", 0)
		if err != nil {
			return nil, err
		}
		maxLen, err := p.integer("max", 0)
		if err != nil {
			return nil, err
		}
		if minLen < 0 || maxLen < 0 || (maxLen > 0 && maxLen < minLen) {
			return nil, badRequest("token filter length: need 0 <= min <= max, got %d..%d", minLen, maxLen)
		}
		return length.NewLengthFilter(minLen, maxLen), nil

	case "edgeGram", "nGram":
		minGram, maxGram, err := p.gramBounds()
		if err != nil {
			return nil, err
		}
		mode, err := p.str("termNotInBounds", "omit")
		if err != nil {
			return nil, err
		}
		mode = strings.ToLower(mode)
		if mode != "omit" && mode != "include" {
			return nil, badRequest("token filter %s: termNotInBounds must be \"omit\" or \"include\"", stage.Type())
		}
		grams := newGramFilter(stage.Type() == "edgeGram", minGram, maxGram)
		return &boundedGramFilter{grams: grams, min: minGram, max: maxGram, keepOutOfBounds: mode == "include"}, nil

	case "shingle":
		minSize, err := p.integer("minShingleSize", 2)
		if err != nil {
			return nil, err
		}
		maxSize, err := p.integer("maxShingleSize", 2)
		if err != nil {
			return nil, err
		}
		if minSize < 2 || maxSize < minSize {
			return nil, badRequest("token filter shingle: need 2 <= minShingleSize <= maxShingleSize, got %d..%d", minSize, maxSize)
		}
		return shingle.NewShingleFilter(minSize, maxSize, false, " ", "_"), nil

	case "reverse":
		return reverse.NewReverseFilter(), nil

	case "porterStemming":
		return porter.NewPorterStemmer(), nil

	case "snowballStemming":
		stemmer, err := p.requiredStr("stemmerName")
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(stemmer, "porter") {
			return porter.NewPorterStemmer(), nil
		}
		name, ok := snowballStemmers[strings.ToLower(stemmer)]
		if !ok {
			return nil, badRequest("token filter snowballStemming: stemmer %q is not supported by %s", stemmer, LocalLocation)
		}
		return cache.TokenFilterNamed(name)

	case "englishPossessive":
		return cache.TokenFilterNamed("possessive_en")

	case "removeDuplicates":
		return unique.NewUniqueTermFilter(), nil

	case "truncate":
		n, err := p.integer("length", 0)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, badRequest("token filter truncate: length must be positive")
		}
		return truncate.NewTruncateTokenFilter(n), nil

	case "trim":
		return trimFilter{}, nil

	case "regex":
		re, err := compilePattern(p, "pattern")
		if err != nil {
			return nil, err
		}
		replacement, err := p.str("replacement", "")
		if err != nil {
			return nil, err
		}
		matches, err := p.str("matches", "all")
		if err != nil {
			return nil, err
		}
		matches = strings.ToLower(matches)
		if matches != "all" && matches != "first" {
			return nil, badRequest("token filter regex: matches must be \"all\" or \"first\"")
		}
		return &regexpReplaceFilter{re: re, replacement: []byte(replacement), all: matches == "all"}, nil

	case "flattenGraph":
		return identityFilter{}, nil

	case "":
		return nil, badRequest("token filter: %q is required", domain.StageKeyType)
	default:
		return nil, badRequest("token filter %q is not supported by %s", stage.Type(), LocalLocation)
	}
}

func compilePattern(p stageParams, key string) (*regexp.Regexp, error) {
	pattern, err := p.requiredStr(key)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, badRequest("%s %s: invalid %s: %v", p.kind, p.stage.Type(), key, err)
	}
	return re, nil
}
