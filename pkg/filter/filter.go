// Package filter provides the node-filter engine bookpress runs between
// parsing and rendering. Filters register for the node kinds they care
// about; the engine walks the document tree once per output format and
// gives each matching filter the chance to rewrite a node in place.
package filter

import "github.com/yaklabco/bookpress/pkg/doctree"

// Filter defines the interface all node filters implement.
type Filter interface {
	// Name returns the unique name of the filter (e.g., "footnote-spans").
	Name() string

	// Description returns a short description of what the filter does.
	Description() string

	// DefaultEnabled returns whether the filter runs unless disabled.
	DefaultEnabled() bool

	// Kinds returns the node kinds this filter is registered for.
	// The engine only invokes Apply on nodes of these kinds.
	Kinds() []doctree.NodeKind

	// Apply inspects one node and optionally returns a replacement.
	//
	// Filters must:
	//   - Return (nil, nil) to leave the node unchanged.
	//   - Return a detached replacement node to swap it in at the same
	//     tree position. Replacements are not visited again.
	//   - Mutate only the visited node's payload, never its siblings.
	//   - Respect context cancellation via fctx.Cancelled().
	//   - Return an error only for internal failures; "no rewrite" is
	//     the nil result, not an error.
	Apply(fctx *Context, node *doctree.Node) (*doctree.Node, error)
}

// BaseFilter provides a default implementation of the Filter interface.
// Embed this in filter implementations and override methods as needed.
//
// Fields are unexported to avoid stutter and name collisions with
// interface methods.
type BaseFilter struct {
	name  string
	desc  string
	kinds []doctree.NodeKind
}

// NewBaseFilter creates a BaseFilter with the given properties.
func NewBaseFilter(name, desc string, kinds ...doctree.NodeKind) BaseFilter {
	return BaseFilter{
		name:  name,
		desc:  desc,
		kinds: kinds,
	}
}

// Name returns the unique name of the filter.
func (f *BaseFilter) Name() string {
	return f.name
}

// Description returns a short description of what the filter does.
func (f *BaseFilter) Description() string {
	return f.desc
}

// DefaultEnabled returns whether the filter runs unless disabled.
// Override this method to change the default.
func (f *BaseFilter) DefaultEnabled() bool {
	return true
}

// Kinds returns the node kinds this filter is registered for.
func (f *BaseFilter) Kinds() []doctree.NodeKind {
	return f.kinds
}

// Apply must be overridden by concrete filter implementations.
// The default implementation leaves every node unchanged.
func (f *BaseFilter) Apply(_ *Context, _ *doctree.Node) (*doctree.Node, error) {
	return nil, nil
}
