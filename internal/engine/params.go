package engine

import (
	"math"

	"github.com/sha1n/analyzer-lab/internal/domain"
)

// stageParams reads typed parameters of a pipeline stage. Missing or null values fall back to the
// given default; values of the wrong type are bad requests.
type stageParams struct {
	kind  string
	stage domain.Stage
}

func paramsOf(kind string, stage domain.Stage) stageParams {
	return stageParams{kind: kind, stage: stage}
}

func (p stageParams) lookup(key string) (domain.Value, bool) {
	v, ok := p.stage.Get(key)
	if !ok || v.IsNull() {
		return domain.Value{}, false
	}
	return v, true
}

func (p stageParams) has(key string) bool {
	_, ok := p.lookup(key)
	return ok
}

func (p stageParams) integer(key string, def int) (int, error) {
	v, ok := p.lookup(key)
	if !ok {
		return def, nil
	}
	f, isNum := v.Float()
	if !isNum || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, badRequest("%s %s: %q must be an integer", p.kind, p.stage.Type(), key)
	}
	return int(f), nil
}

func (p stageParams) str(key, def string) (string, error) {
	v, ok := p.lookup(key)
	if !ok {
		return def, nil
	}
	s, isStr := v.Text()
	if !isStr {
		return "", badRequest("%s %s: %q must be a string", p.kind, p.stage.Type(), key)
	}
	return s, nil
}

func (p stageParams) requiredStr(key string) (string, error) {
	s, err := p.str(key, "")
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", badRequest("%s %s: %q is required", p.kind, p.stage.Type(), key)
	}
	return s, nil
}

func (p stageParams) boolean(key string, def bool) (bool, error) {
	v, ok := p.lookup(key)
	if !ok {
		return def, nil
	}
	b, isBool := v.Bool()
	if !isBool {
		return false, badRequest("%s %s: %q must be a boolean", p.kind, p.stage.Type(), key)
	}
	return b, nil
}

func (p stageParams) list(key string) ([]string, error) {
	v, ok := p.lookup(key)
	if !ok {
		return nil, nil
	}
	if v.Kind() != domain.KindList {
		return nil, badRequest("%s %s: %q must be a list of strings", p.kind, p.stage.Type(), key)
	}
	out := make([]string, 0, len(v.List()))
	for _, item := range v.List() {
		s, isStr := item.Text()
		if !isStr {
			return nil, badRequest("%s %s: %q must be a list of strings", p.kind, p.stage.Type(), key)
		}
		out = append(out, s)
	}
	return out, nil
}

// pairs reads an object of string to string, keeping document order.
func (p stageParams) pairs(key string) ([]domain.Field, error) {
	v, ok := p.lookup(key)
	if !ok {
		return nil, nil
	}
	if v.Kind() != domain.KindMap {
		return nil, badRequest("%s %s: %q must be an object of strings", p.kind, p.stage.Type(), key)
	}
	for _, f := range v.Fields() {
		if _, isStr := f.Value.Text(); !isStr {
			return nil, badRequest("%s %s: %q must be an object of strings", p.kind, p.stage.Type(), key)
		}
	}
	return v.Fields(), nil
}

// gramBounds reads minGram/maxGram, defaulting to Lucene's 1..2.
func (p stageParams) gramBounds() (int, int, error) {
	minGram, err := p.integer("minGram", 1)
	if err != nil {
		return 0, 0, err
	}
	maxGram, err := p.integer("maxGram", 2)
	if err != nil {
		return 0, 0, err
	}
	if minGram < 1 || maxGram < minGram {
		return 0, 0, badRequest("%s %s: need 1 <= minGram <= maxGram, got %d..%d", p.kind, p.stage.Type(), minGram, maxGram)
	}
	return minGram, maxGram, nil
}
