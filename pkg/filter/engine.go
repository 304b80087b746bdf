package filter

import (
	"context"
	"fmt"

	"github.com/yaklabco/bookpress/pkg/doctree"
)

// Result captures what one engine run did to a document.
type Result struct {
	// NodesVisited is the number of nodes the traversal saw.
	NodesVisited int

	// Replacements is the number of nodes swapped for filter output.
	Replacements int

	// ByFilter maps filter names to their replacement counts.
	ByFilter map[string]int
}

// Engine runs registered filters over a document tree.
type Engine struct {
	// Registry holds the available filters.
	Registry *Registry

	// Enable lists filter names forced on regardless of their default.
	Enable []string

	// Disable lists filter names that must not run. Disable wins over
	// Enable.
	Disable []string
}

// NewEngine creates an Engine over the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{Registry: registry}
}

// Run walks doc in post-order and applies every active filter registered
// for each node's kind, in registration order. The first filter returning
// a replacement wins: the node is swapped at its tree position and the
// replacement is not visited again (children of the replaced node were
// already visited by then). Replacing the document root is not supported;
// such a result is ignored.
//
// format is the output format identifier for this run, handed to filters
// verbatim. A filter error aborts the run wrapped with the filter name.
func (e *Engine) Run(
	ctx context.Context,
	doc *doctree.Node,
	format string,
	meta map[string]string,
) (*Result, error) {
	result := &Result{ByFilter: make(map[string]int)}

	table := e.callbackTable()
	if len(table) == 0 {
		return result, nil
	}

	fctx := NewContext(ctx, doc, format, meta)

	err := doctree.WalkPost(doc, func(node *doctree.Node) error {
		select {
		case <-ctx.Done():
			return fmt.Errorf("filtering cancelled: %w", ctx.Err())
		default:
		}

		result.NodesVisited++

		for _, f := range table[node.Kind] {
			replacement, err := f.Apply(fctx, node)
			if err != nil {
				return fmt.Errorf("filter %s: %w", f.Name(), err)
			}
			if replacement == nil || replacement == node {
				continue
			}

			if node.Parent == nil {
				// Root replacement: nothing to rewire, keep the tree.
				continue
			}

			doctree.ReplaceChild(node.Parent, node, replacement)
			result.Replacements++
			result.ByFilter[f.Name()]++
			break
		}

		return nil
	})
	if err != nil {
		return result, err
	}

	return result, nil
}

// callbackTable resolves the active filters into a kind-indexed table.
func (e *Engine) callbackTable() map[doctree.NodeKind][]Filter {
	disabled := make(map[string]bool, len(e.Disable))
	for _, name := range e.Disable {
		disabled[name] = true
	}
	enabled := make(map[string]bool, len(e.Enable))
	for _, name := range e.Enable {
		enabled[name] = true
	}

	table := make(map[doctree.NodeKind][]Filter)
	for _, f := range e.Registry.Filters() {
		if disabled[f.Name()] {
			continue
		}
		if !f.DefaultEnabled() && !enabled[f.Name()] {
			continue
		}
		for _, kind := range f.Kinds() {
			table[kind] = append(table[kind], f)
		}
	}
	return table
}
