package source

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/worldcup-etl/internal/normalize"
)

// Registry maps source names to their transformers. Registration order is
// the merge order the consolidator receives, which makes first-occurrence
// deduplication and ID assignment reproducible.
type Registry struct {
	sources map[string]Source
	order   []string
}

// NewRegistry creates a registry with the four match sources in merge
// order: historic, wc2014, wc2022, wc2018.
func NewRegistry(n *normalize.Normalizer, historicExcludeYear int) *Registry {
	r := &Registry{
		sources: make(map[string]Source),
	}

	r.Register(NewHistoric(n, historicExcludeYear))
	r.Register(NewWorldCup2014(n))
	r.Register(NewWorldCup2022(n))
	r.Register(NewWorldCup2018(n))

	return r
}

// Register adds a source to the registry.
func (r *Registry) Register(s Source) {
	name := s.Name()
	if _, ok := r.sources[name]; !ok {
		r.order = append(r.order, name)
	}
	r.sources[name] = s
}

// Get returns a source by name.
func (r *Registry) Get(name string) (Source, error) {
	s, ok := r.sources[name]
	if !ok {
		return nil, eris.Errorf("source: unknown source %q", name)
	}
	return s, nil
}

// All returns all sources in registration order.
func (r *Registry) All() []Source {
	result := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.sources[name])
	}
	return result
}

// Names returns all registered source names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
