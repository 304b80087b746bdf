package filters

import "github.com/yaklabco/bookpress/pkg/filter"

// RegisterAll registers all built-in filters with the given registry, in
// the order they run when a node matches more than one.
func RegisterAll(registry *filter.Registry) {
	registry.Register(NewFootnoteStyler())
	registry.Register(NewCodeLang())
}

// init registers all built-in filters with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic filter registration
func init() {
	RegisterAll(filter.DefaultRegistry)
}
