package extract

import (
	"fmt"

	"PageIngest/internal/domain"
)

// Result is the outcome of converting one HTML page.
type Result struct {
	Title string
	Text  string
}

// Extractor captures a single HTML conversion strategy (plain text, markdown, etc.).
type Extractor interface {
	Format() domain.Format
	Extract(body []byte, pageURL string) (Result, error)
}

// Registry keeps a mapping from formats to their extractors.
// Populate it during wiring; lookups are safe for concurrent use afterwards.
type Registry struct {
	extractors map[domain.Format]Extractor
}

// NewRegistry builds a registry holding the given extractors.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{extractors: map[domain.Format]Extractor{}}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds or replaces an extractor implementation.
func (r *Registry) Register(e Extractor) {
	if r.extractors == nil {
		r.extractors = map[domain.Format]Extractor{}
	}
	r.extractors[e.Format()] = e
}

// Resolve returns an extractor by format or an error if it is absent.
func (r *Registry) Resolve(format domain.Format) (Extractor, error) {
	if r != nil {
		if e, ok := r.extractors[format]; ok {
			return e, nil
		}
	}
	return nil, fmt.Errorf("extractor %q is not registered", format)
}
