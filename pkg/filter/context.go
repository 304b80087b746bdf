package filter

import (
	"context"

	"github.com/yaklabco/bookpress/pkg/doctree"
)

// Context provides all context a filter needs for one invocation.
//
// Design note: Context stores context.Context as a field (Ctx) rather than
// passing it as a method parameter. This is acceptable because Context is a
// short-lived parameter object created per conversion run, not a long-lived
// struct. This design keeps the Filter interface to a single Apply method
// while still providing cancellation support via the Cancelled() helper.
type Context struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// Doc is the document root the visited node belongs to.
	Doc *doctree.Node

	// Format is the output format identifier for this conversion run,
	// passed verbatim from the build. Filters that branch on it match
	// however they see fit; the engine imposes no format vocabulary.
	Format string

	// Meta is the flattened book metadata (may be nil).
	Meta map[string]string

	// Source is the collated manuscript with its line index (may be nil
	// for synthetic trees).
	Source *doctree.Source
}

// NewContext creates a Context for one conversion run.
func NewContext(ctx context.Context, doc *doctree.Node, format string, meta map[string]string) *Context {
	return &Context{
		Ctx:    ctx,
		Doc:    doc,
		Format: format,
		Meta:   meta,
	}
}

// Cancelled returns true if the context has been cancelled.
func (fc *Context) Cancelled() bool {
	select {
	case <-fc.Ctx.Done():
		return true
	default:
		return false
	}
}

// MetaValue returns a metadata value and whether it is set.
func (fc *Context) MetaValue(key string) (string, bool) {
	if fc.Meta == nil {
		return "", false
	}
	val, ok := fc.Meta[key]
	return val, ok
}
