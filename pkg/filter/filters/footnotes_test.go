package filters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bookpress/pkg/doctree"
	"github.com/yaklabco/bookpress/pkg/filter"
)

func textNode(s string) *doctree.Node {
	return doctree.NewText([]byte(s))
}

func paragraph(inlines ...*doctree.Node) *doctree.Node {
	p := doctree.NewNode(doctree.NodeParagraph)
	for _, in := range inlines {
		doctree.AppendChild(p, in)
	}
	return p
}

func footnote(blocks ...*doctree.Node) *doctree.Node {
	fn := doctree.NewNode(doctree.NodeFootnote)
	for _, b := range blocks {
		doctree.AppendChild(fn, b)
	}
	return fn
}

func TestStyleFootnote_FormatMatch(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantStyled bool
	}{
		{name: "pdf", format: "pdf", wantStyled: true},
		{name: "html", format: "html", wantStyled: true},
		{name: "html5 contains html", format: "html5", wantStyled: true},
		{name: "pdf-6x9 contains pdf", format: "pdf-6x9", wantStyled: true},
		{name: "print-pdf contains pdf", format: "print-pdf", wantStyled: true},
		{name: "xhtml contains html", format: "xhtml-strict", wantStyled: true},
		{name: "docx", format: "docx", wantStyled: false},
		{name: "latex", format: "latex", wantStyled: false},
		{name: "epub", format: "epub", wantStyled: false},
		{name: "empty format", format: "", wantStyled: false},
		{name: "match is case sensitive", format: "PDF", wantStyled: false},
		{name: "mixed case html", format: "Html", wantStyled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := footnote(paragraph(textNode("Hello world.")))

			styled := StyleFootnote(fn, tt.format)

			if !tt.wantStyled {
				assert.Nil(t, styled)
				return
			}
			require.NotNil(t, styled)
			assert.Equal(t, doctree.NodeSpan, styled.Kind)
		})
	}
}

func TestStyleFootnote_SpanAttributes(t *testing.T) {
	fn := footnote(paragraph(textNode("Hello world.")))

	styled := StyleFootnote(fn, "pdf")

	require.NotNil(t, styled)
	assert.Equal(t, map[string]string{"class": "footnote"}, styled.Attrs)
}

func TestStyleFootnote_UnwrapsSingleParagraph(t *testing.T) {
	fn := footnote(paragraph(textNode("Hello world.")))

	styled := StyleFootnote(fn, "pdf")

	require.NotNil(t, styled)
	require.Equal(t, 1, styled.ChildCount())

	child := styled.FirstChild
	assert.Equal(t, doctree.NodeText, child.Kind)
	assert.Equal(t, "Hello world.", string(child.Literal()))
}

func TestStyleFootnote_PreservesInlineFormatting(t *testing.T) {
	em := doctree.NewNode(doctree.NodeEmphasis)
	doctree.AppendChild(em, textNode("really"))
	fn := footnote(paragraph(textNode("see "), em, textNode(" this")))

	styled := StyleFootnote(fn, "html")

	require.NotNil(t, styled)
	kinds := make([]doctree.NodeKind, 0, styled.ChildCount())
	for _, child := range styled.Children() {
		kinds = append(kinds, child.Kind)
	}
	assert.Equal(t, []doctree.NodeKind{
		doctree.NodeText, doctree.NodeEmphasis, doctree.NodeText,
	}, kinds)
	assert.Equal(t, "see really this", string(doctree.PlainText(styled)))
}

func TestStyleFootnote_JoinsMultipleBlocks(t *testing.T) {
	fn := footnote(
		paragraph(textNode("First.")),
		paragraph(textNode("Second.")),
	)

	styled := StyleFootnote(fn, "pdf")

	require.NotNil(t, styled)
	assert.Equal(t, "First. Second.", string(doctree.PlainText(styled)))
}

func TestStyleFootnote_EmptyBody(t *testing.T) {
	fn := footnote()

	styled := StyleFootnote(fn, "pdf")

	require.NotNil(t, styled)
	assert.Equal(t, 0, styled.ChildCount())
}

func TestStyleFootnote_NonMatchingFormatLeavesNodeIntact(t *testing.T) {
	fn := footnote(paragraph(textNode("Hello world.")))

	styled := StyleFootnote(fn, "docx")

	assert.Nil(t, styled)
	// The body must not be detached when the format does not match.
	require.Equal(t, 1, fn.ChildCount())
	assert.Equal(t, doctree.NodeParagraph, fn.FirstChild.Kind)
	assert.Equal(t, "Hello world.", string(doctree.PlainText(fn)))
}

func TestFootnoteStyler_Metadata(t *testing.T) {
	f := NewFootnoteStyler()

	assert.Equal(t, "footnote-spans", f.Name())
	assert.NotEmpty(t, f.Description())
	assert.True(t, f.DefaultEnabled())
	assert.Equal(t, []doctree.NodeKind{doctree.NodeFootnote}, f.Kinds())
}

func TestFootnoteStyler_Apply(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		wantSpan bool
	}{
		{name: "styling format", format: "pdf", wantSpan: true},
		{name: "passthrough format", format: "docx", wantSpan: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := footnote(paragraph(textNode("Hello world.")))
			fctx := filter.NewContext(context.Background(), fn, tt.format, nil)

			replacement, err := NewFootnoteStyler().Apply(fctx, fn)
			require.NoError(t, err)

			if tt.wantSpan {
				require.NotNil(t, replacement)
				assert.Equal(t, doctree.NodeSpan, replacement.Kind)
			} else {
				assert.Nil(t, replacement)
			}
		})
	}
}

func TestFootnoteStyler_ApplyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fn := footnote(paragraph(textNode("Hello world.")))
	fctx := filter.NewContext(ctx, fn, "pdf", nil)

	_, err := NewFootnoteStyler().Apply(fctx, fn)
	require.Error(t, err)
}

func TestFootnoteStyler_EngineReplacesAtReferencePosition(t *testing.T) {
	doc := doctree.NewDocument()
	p := paragraph(
		textNode("before "),
		footnote(paragraph(textNode("Note text."))),
		textNode(" after"),
	)
	doctree.AppendChild(doc, p)

	registry := filter.NewRegistry()
	registry.Register(NewFootnoteStyler())
	engine := filter.NewEngine(registry)

	result, err := engine.Run(context.Background(), doc, "pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Replacements)
	assert.Equal(t, 1, result.ByFilter["footnote-spans"])

	kinds := make([]doctree.NodeKind, 0, p.ChildCount())
	for _, child := range p.Children() {
		kinds = append(kinds, child.Kind)
	}
	assert.Equal(t, []doctree.NodeKind{
		doctree.NodeText, doctree.NodeSpan, doctree.NodeText,
	}, kinds)
	assert.Equal(t, "before Note text. after", string(doctree.PlainText(doc)))
}

func TestFootnoteStyler_NeverReappliedToOwnOutput(t *testing.T) {
	doc := doctree.NewDocument()
	doctree.AppendChild(doc, paragraph(footnote(paragraph(textNode("Once.")))))

	registry := filter.NewRegistry()
	registry.Register(NewFootnoteStyler())
	engine := filter.NewEngine(registry)

	first, err := engine.Run(context.Background(), doc, "pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Replacements)

	// A second run sees only the styled span, which no filter targets.
	second, err := engine.Run(context.Background(), doc, "pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Replacements)
	assert.Equal(t, "Once.", string(doctree.PlainText(doc)))
}
