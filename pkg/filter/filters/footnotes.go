package filters

import (
	"strings"

	"github.com/yaklabco/bookpress/pkg/doctree"
	"github.com/yaklabco/bookpress/pkg/filter"
)

// StyleFootnote rewrites a footnote node into an inline span carrying
// class="footnote", so CSS-driven targets can style footnotes (the print
// stylesheets render them as margin notes). The footnote's block body is
// flattened into inlines with doctree.BlocksToInlines, preserving reading
// order and all inline content.
//
// The format check is a case-sensitive substring match: any format
// identifier containing "pdf" or "html" qualifies, so "html5" and
// "pdf-6x9" both match. This is deliberately loose rather than an exact
// comparison; it also means a custom format whose name merely contains
// those letters (say "xhtml-strict") would be styled. Keep that in mind
// when naming formats.
//
// Returns nil when the format does not match; callers leave the node
// unchanged in that case. The function is pure: no state, no side
// effects beyond the returned span.
func StyleFootnote(node *doctree.Node, outputFormat string) *doctree.Node {
	if !strings.Contains(outputFormat, "pdf") && !strings.Contains(outputFormat, "html") {
		return nil
	}

	span := doctree.NewSpan(map[string]string{"class": "footnote"})
	for _, inline := range doctree.BlocksToInlines(node.Children()) {
		doctree.AppendChild(span, inline)
	}
	return span
}

// FootnoteStyler applies StyleFootnote to every footnote node.
type FootnoteStyler struct {
	filter.BaseFilter
}

// NewFootnoteStyler creates the footnote styling filter.
func NewFootnoteStyler() *FootnoteStyler {
	return &FootnoteStyler{
		BaseFilter: filter.NewBaseFilter(
			"footnote-spans",
			"Rewrite footnotes as class=\"footnote\" spans for CSS-styled targets",
			doctree.NodeFootnote,
		),
	}
}

// Apply implements filter.Filter.
func (f *FootnoteStyler) Apply(fctx *filter.Context, node *doctree.Node) (*doctree.Node, error) {
	if fctx.Cancelled() {
		return nil, fctx.Ctx.Err()
	}
	return StyleFootnote(node, fctx.Format), nil
}
