// Package filters contains the built-in node filters that ship with
// bookpress. Each filter registers itself with filter.DefaultRegistry
// during init().
package filters
