// Package catalog holds the list of predefined analyzers offered by the analysis engine.
package catalog

import (
	"context"
	"fmt"

	"github.com/sha1n/analyzer-lab/internal/domain"
)

// DefaultAnalyzer is the analyzer preselected on both sides when the catalog offers it.
const DefaultAnalyzer = "lucene.standard"

// LanguageGroupLabel labels the language analyzers subgroup in selection surfaces.
const LanguageGroupLabel = "Language Analyzers"

// Lister fetches the predefined analyzers from an engine.
type Lister interface {
	ListAnalyzers(ctx context.Context) ([]domain.AnalyzerDescriptor, error)

	// Location describes where the engine is reached, for user-facing messages.
	Location() string
}

// LoadError is returned when the catalog cannot be fetched. The workflow cannot
// continue without a catalog, so surfaces show its message and offer no analyzers.
type LoadError struct {
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return "Failed to load analyzers. Please ensure the analysis engine is reachable at " + e.Location
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Catalog is an immutable, engine-ordered list of analyzer descriptors.
type Catalog struct {
	all      []domain.AnalyzerDescriptor
	base     []domain.AnalyzerDescriptor
	language []domain.AnalyzerDescriptor
	byName   map[string]domain.AnalyzerDescriptor
}

// Load fetches the catalog once. There is no retry; on failure a *LoadError is returned.
func Load(ctx context.Context, lister Lister) (*Catalog, error) {
	descriptors, err := lister.ListAnalyzers(ctx)
	if err != nil {
		return nil, &LoadError{Location: lister.Location(), Err: err}
	}
	return New(descriptors), nil
}

// New builds a catalog from descriptors, keeping their order. Descriptors whose category
// is not "language" are grouped as base analyzers. The first descriptor wins on duplicate names.
func New(descriptors []domain.AnalyzerDescriptor) *Catalog {
	c := &Catalog{
		all:    make([]domain.AnalyzerDescriptor, 0, len(descriptors)),
		byName: make(map[string]domain.AnalyzerDescriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		if _, dup := c.byName[d.Name]; dup || d.Name == "" {
			continue
		}
		c.byName[d.Name] = d
		c.all = append(c.all, d)
		if d.Category == domain.CategoryLanguage {
			c.language = append(c.language, d)
		} else {
			c.base = append(c.base, d)
		}
	}
	return c
}

// All returns every descriptor in engine order.
func (c *Catalog) All() []domain.AnalyzerDescriptor { return c.all }

// Base returns the base analyzers in engine order.
func (c *Catalog) Base() []domain.AnalyzerDescriptor { return c.base }

// Language returns the language analyzers in engine order.
func (c *Catalog) Language() []domain.AnalyzerDescriptor { return c.language }

// Len returns the number of analyzers.
func (c *Catalog) Len() int { return len(c.all) }

// Lookup returns the descriptor with the given name.
func (c *Catalog) Lookup(name string) (domain.AnalyzerDescriptor, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// Selectable returns nil when name references an enabled analyzer, or an error describing why not.
func (c *Catalog) Selectable(name string) error {
	d, ok := c.byName[name]
	if !ok {
		return fmt.Errorf("unknown analyzer %q", name)
	}
	if d.Disabled {
		return fmt.Errorf("analyzer %q is not available", d.Name)
	}
	return nil
}

// Default returns preferred when it is selectable, otherwise the first enabled base analyzer,
// otherwise "".
func (c *Catalog) Default(preferred string) string {
	if preferred != "" && c.Selectable(preferred) == nil {
		return preferred
	}
	for _, d := range c.base {
		if !d.Disabled {
			return d.Name
		}
	}
	return ""
}
