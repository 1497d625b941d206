package engine

import (
	"strings"

	"github.com/sha1n/analyzer-lab/internal/domain"
)

// elasticAnalyzerPrefix is stripped from catalog names to get the Elasticsearch built-in name.
const elasticAnalyzerPrefix = "lucene."

type esObject = map[string]interface{}

// elasticAnalyzeBody builds an _analyze body for one side: a built-in analyzer name, or an
// inline char_filter/tokenizer/filter chain for custom pipelines.
func elasticAnalyzeBody(choice domain.AnalyzerChoice, text string) (esObject, error) {
	if !choice.IsCustom() {
		name := choice.AnalyzerName()
		if !strings.HasPrefix(name, elasticAnalyzerPrefix) {
			return nil, badRequest("unknown analyzer: %s", name)
		}
		return esObject{
			"analyzer": strings.TrimPrefix(name, elasticAnalyzerPrefix),
			"text":     text,
		}, nil
	}

	def := choice.Definition()
	body := esObject{"text": text}

	if stages := def.CharFilters(); len(stages) > 0 {
		charFilters := make([]interface{}, 0, len(stages))
		for _, stage := range stages {
			cf, err := elasticCharFilter(stage)
			if err != nil {
				return nil, err
			}
			charFilters = append(charFilters, cf)
		}
		body["char_filter"] = charFilters
	}

	tokenizer, err := elasticTokenizer(def.Tokenizer())
	if err != nil {
		return nil, err
	}
	body["tokenizer"] = tokenizer

	if stages := def.TokenFilters(); len(stages) > 0 {
		filters := make([]interface{}, 0, len(stages))
		for _, stage := range stages {
			f, err := elasticTokenFilter(stage)
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		}
		body["filter"] = filters
	}

	return body, nil
}

func elasticCharFilter(stage domain.Stage) (esObject, error) {
	p := paramsOf("char filter", stage)

	switch stage.Type() {
	case "htmlStrip":
		tags, err := p.list("ignoredTags")
		if err != nil {
			return nil, err
		}
		cf := esObject{"type": "html_strip"}
		if len(tags) > 0 {
			cf["escaped_tags"] = tags
		}
		return cf, nil

	case "mapping":
		fields, err := p.pairs("mappings")
		if err != nil {
			return nil, err
		}
		mappings := make([]string, 0, len(fields))
		for _, f := range fields {
			to, _ := f.Value.Text()
			mappings = append(mappings, f.Key+" => "+to)
		}
		return esObject{"type": "mapping", "mappings": mappings}, nil

	case "icuNormalize":
		return esObject{"type": "icu_normalizer"}, nil

	case "":
		return nil, badRequest("char filter: %q is required", domain.StageKeyType)
	default:
		return nil, badRequest("char filter %q is not supported by Elasticsearch", stage.Type())
	}
}

func elasticTokenizer(stage domain.Stage) (esObject, error) {
	p := paramsOf("tokenizer", stage)

	switch stage.Type() {
	case "standard", "whitespace", "uaxUrlEmail":
		t := esObject{"type": map[string]string{
			"standard":    "standard",
			"whitespace":  "whitespace",
			"uaxUrlEmail": "uax_url_email",
		}[stage.Type()]}
		if p.has("maxTokenLength") {
			n, err := p.integer("maxTokenLength", defaultMaxTokenLength)
			if err != nil {
				return nil, err
			}
			t["max_token_length"] = n
		}
		return t, nil

	case "keyword":
		return esObject{"type": "keyword"}, nil

	case "edgeGram", "nGram":
		minGram, maxGram, err := p.gramBounds()
		if err != nil {
			return nil, err
		}
		typ := "ngram"
		if stage.Type() == "edgeGram" {
			typ = "edge_ngram"
		}
		return esObject{"type": typ, "min_gram": minGram, "max_gram": maxGram}, nil

	case "regexSplit":
		pattern, err := p.requiredStr("pattern")
		if err != nil {
			return nil, err
		}
		return esObject{"type": "pattern", "pattern": pattern}, nil

	case "regexCaptureGroup":
		pattern, err := p.requiredStr("pattern")
		if err != nil {
			return nil, err
		}
		group, err := p.integer("group", 0)
		if err != nil {
			return nil, err
		}
		return esObject{"type": "pattern", "pattern": pattern, "group": group}, nil

	case "":
		return nil, badRequest("tokenizer: %q is required", domain.StageKeyType)
	default:
		return nil, badRequest("tokenizer %q is not supported by Elasticsearch", stage.Type())
	}
}

// elasticSimpleFilters are token filters without parameters, keyed by pipeline type.
var elasticSimpleFilters = map[string]string{
	"lowercase":          "lowercase",
	"reverse":            "reverse",
	"porterStemming":     "porter_stem",
	"removeDuplicates":   "remove_duplicates",
	"trim":               "trim",
	"keywordRepeat":      "keyword_repeat",
	"kStemming":          "kstem",
	"flattenGraph":       "flatten_graph",
	"wordDelimiterGraph": "word_delimiter_graph",
	"icuFolding":         "icu_folding",
}

func elasticTokenFilter(stage domain.Stage) (interface{}, error) {
	p := paramsOf("token filter", stage)

	if name, ok := elasticSimpleFilters[stage.Type()]; ok {
		return name, nil
	}

	switch stage.Type() {
	case "stopword":
		words, err := p.list("tokens")
		if err != nil {
			return nil, err
		}
		ignoreCase, err := p.boolean("ignoreCase", true)
		if err != nil {
			return nil, err
		}
		if words == nil {
			words = []string{}
		}
		return esObject{"type": "stop", "stopwords": words, "ignore_case": ignoreCase}, nil

	case "length":
		f := esObject{"type": "length"}
		for _, key := range []string{"min", "max"} {
			if !p.has(key) {
				continue
			}
			n, err := p.integer(key, 0)
			if err != nil {
				return nil, err
			}
			f[key] = n
		}
		return f, nil

	case "edgeGram", "nGram":
		minGram, maxGram, err := p.gramBounds()
		if err != nil {
			return nil, err
		}
		mode, err := p.str("termNotInBounds", "omit")
		if err != nil {
			return nil, err
		}
		typ := "ngram"
		if stage.Type() == "edgeGram" {
			typ = "edge_ngram"
		}
		return esObject{
			"type":              typ,
			"min_gram":          minGram,
			"max_gram":          maxGram,
			"preserve_original": strings.EqualFold(mode, "include"),
		}, nil

	case "shingle":
		minSize, err := p.integer("minShingleSize", 2)
		if err != nil {
			return nil, err
		}
		maxSize, err := p.integer("maxShingleSize", 2)
		if err != nil {
			return nil, err
		}
		return esObject{
			"type":             "shingle",
			"min_shingle_size": minSize,
			"max_shingle_size": maxSize,
			"output_unigrams":  false,
		}, nil

	case "snowballStemming":
		stemmer, err := p.requiredStr("stemmerName")
		if err != nil {
			return nil, err
		}
		return esObject{"type": "snowball", "language": snowballLanguage(stemmer)}, nil

	case "englishPossessive":
		return esObject{"type": "stemmer", "language": "possessive_english"}, nil

	case "truncate":
		n, err := p.integer("length", 10)
		if err != nil {
			return nil, err
		}
		return esObject{"type": "truncate", "length": n}, nil

	case "asciiFolding":
		preserve, err := p.boolean("preserveOriginal", false)
		if err != nil {
			return nil, err
		}
		return esObject{"type": "asciifolding", "preserve_original": preserve}, nil

	case "icuNormalizer":
		form, err := p.str("normalizationForm", "nfc")
		if err != nil {
			return nil, err
		}
		return esObject{"type": "icu_normalizer", "name": strings.ToLower(form)}, nil

	case "regex":
		pattern, err := p.requiredStr("pattern")
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
		return esObject{
			"type":        "pattern_replace",
			"pattern":     pattern,
			"replacement": replacement,
			"all":         strings.EqualFold(matches, "all"),
		}, nil

	case "":
		return nil, badRequest("token filter: %q is required", domain.StageKeyType)
	default:
		return nil, badRequest("token filter %q is not supported by Elasticsearch", stage.Type())
	}
}

// snowballLanguage converts a stemmer name such as "english" to Elasticsearch's "English".
func snowballLanguage(stemmer string) string {
	if stemmer == "" {
		return stemmer
	}
	lower := strings.ToLower(stemmer)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
