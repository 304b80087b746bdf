package filter

import (
	"sync"

	"github.com/yaklabco/bookpress/pkg/doctree"
)

// Registry holds registered filters and an index from node kind to the
// filters interested in it (the filter-callback table).
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Filter
	order  []string
}

// NewRegistry creates an empty filter registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Filter),
	}
}

// Register adds a filter to the registry.
// If a filter with the same name already exists, it is replaced but keeps
// its original position in the invocation order.
func (r *Registry) Register(f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[f.Name()]; !exists {
		r.order = append(r.order, f.Name())
	}
	r.byName[f.Name()] = f
}

// Get retrieves a filter by name.
func (r *Registry) Get(name string) (Filter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byName[name]
	return f, ok
}

// Filters returns all registered filters in registration order.
func (r *Registry) Filters() []Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Filter, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.byName[name])
	}
	return result
}

// Names returns all registered filter names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, len(r.order))
	copy(result, r.order)
	return result
}

// ForKind returns the filters registered for a node kind, in registration
// order.
func (r *Registry) ForKind(kind doctree.NodeKind) []Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Filter
	for _, name := range r.order {
		f := r.byName[name]
		for _, k := range f.Kinds() {
			if k == kind {
				result = append(result, f)
				break
			}
		}
	}
	return result
}

// DefaultRegistry is the global registry for built-in filters.
// Filters register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for filter registration
var DefaultRegistry = NewRegistry()
