package render_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bookpress/pkg/config"
	"github.com/yaklabco/bookpress/pkg/doctree"
	"github.com/yaklabco/bookpress/pkg/filter"
	"github.com/yaklabco/bookpress/pkg/filter/filters"
	"github.com/yaklabco/bookpress/pkg/parser/goldmark"
	"github.com/yaklabco/bookpress/pkg/render"
)

func parseDoc(t *testing.T, markdown string) *doctree.Node {
	t.Helper()
	doc, err := goldmark.New().ParseBytes(context.Background(), []byte(markdown))
	require.NoError(t, err)
	return doc
}

func renderHTML(t *testing.T, markdown string, opts render.Options) string {
	t.Helper()
	out, err := render.NewHTMLRenderer(opts).Render(context.Background(), parseDoc(t, markdown))
	require.NoError(t, err)
	return string(out)
}

func TestHTMLRendererPage(t *testing.T) {
	meta := config.NewMetadata(map[string]any{
		"title":  "Moby-Dick & Co",
		"author": "Herman Melville",
		"lang":   "fr",
		"date":   "1851-10-18",
	})

	page := renderHTML(t, "# The Sea\n\nCall me Ishmael.\n", render.Options{Meta: meta})

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, `<html lang="fr">`)
	assert.Contains(t, page, "<title>Moby-Dick &amp; Co</title>")
	assert.Contains(t, page, `<meta name="author" content="Herman Melville">`)
	assert.Contains(t, page, `<meta name="dcterms.date" content="1851-10-18">`)
	assert.Contains(t, page, `<meta name="generator" content="bookpress">`)
	assert.Contains(t, page, `<h1 id="the-sea">The Sea</h1>`)
	assert.Contains(t, page, "<p>Call me Ishmael.</p>")

	// built-in screen stylesheet is embedded
	assert.Contains(t, page, "<style>")
	assert.Contains(t, page, "max-width: 38em")
}

func TestHTMLRendererNilMeta(t *testing.T) {
	page := renderHTML(t, "plain\n", render.Options{})

	assert.Contains(t, page, `<html lang="en">`)
	assert.Contains(t, page, "<title>Untitled</title>")
	assert.NotContains(t, page, `<meta name="author"`)
	assert.NotContains(t, page, `<meta name="dcterms.date"`)
}

func TestHTMLRendererCSSLinks(t *testing.T) {
	page := renderHTML(t, "text\n", render.Options{
		CSS: []string{"styles/serif.css", "https://example.com/print.css"},
	})

	assert.Contains(t, page, `<link rel="stylesheet" href="styles/serif.css">`)
	assert.Contains(t, page, `<link rel="stylesheet" href="https://example.com/print.css">`)
}

func TestHTMLRendererHeadingIDs(t *testing.T) {
	page := renderHTML(t, "# Intro\n\n# Intro\n\n## Notes {#my-anchor}\n", render.Options{})

	assert.Contains(t, page, `<h1 id="intro">Intro</h1>`)
	assert.Contains(t, page, `<h1 id="intro-1">Intro</h1>`)
	assert.Contains(t, page, `<h2 id="my-anchor">Notes</h2>`)
}

func TestHTMLRendererInlineMarkup(t *testing.T) {
	page := renderHTML(t, "*em* **strong** ~~gone~~ `x < y` [out](https://example.com \"Visit\")\n", render.Options{})

	assert.Contains(t, page, "<em>em</em>")
	assert.Contains(t, page, "<strong>strong</strong>")
	assert.Contains(t, page, "<del>gone</del>")
	assert.Contains(t, page, "<code>x &lt; y</code>")
	assert.Contains(t, page, `<a href="https://example.com" title="Visit">out</a>`)
}

func TestHTMLRendererImage(t *testing.T) {
	page := renderHTML(t, "![The cover](cover.png \"Front\")\n", render.Options{})

	assert.Contains(t, page, `<img src="cover.png" alt="The cover" title="Front">`)
}

func TestHTMLRendererCodeBlock(t *testing.T) {
	page := renderHTML(t, "```python\nprint(1 < 2)\n```\n", render.Options{})

	assert.Contains(t, page, `<pre><code class="language-python">print(1 &lt; 2)`)
	assert.Contains(t, page, "</code></pre>")
}

func TestHTMLRendererLists(t *testing.T) {
	t.Run("tight unordered", func(t *testing.T) {
		page := renderHTML(t, "- one\n- two\n", render.Options{})
		assert.Contains(t, page, "<ul>\n<li>one</li>\n<li>two</li>\n</ul>")
	})

	t.Run("ordered with start", func(t *testing.T) {
		page := renderHTML(t, "3. three\n4. four\n", render.Options{})
		assert.Contains(t, page, `<ol start="3">`)
		assert.Contains(t, page, "<li>three</li>")
	})

	t.Run("loose keeps paragraphs", func(t *testing.T) {
		page := renderHTML(t, "- one\n\n- two\n", render.Options{})
		assert.Contains(t, page, "<li>\n<p>one</p>\n</li>")
	})
}

func TestHTMLRendererBlockquoteAndRule(t *testing.T) {
	page := renderHTML(t, "> quoted\n\n---\n", render.Options{})

	assert.Contains(t, page, "<blockquote>\n<p>quoted</p>\n</blockquote>")
	assert.Contains(t, page, "<hr>")
}

func TestHTMLRendererTable(t *testing.T) {
	page := renderHTML(t, "| Name | N |\n|:-----|--:|\n| ant  | 1 |\n", render.Options{})

	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<thead>")
	assert.Contains(t, page, `<th style="text-align: left">Name</th>`)
	assert.Contains(t, page, `<th style="text-align: right">N</th>`)
	assert.Contains(t, page, `<td style="text-align: right">1</td>`)
	assert.Contains(t, page, "</tbody>")
}

func TestHTMLRendererHTMLPassthrough(t *testing.T) {
	page := renderHTML(t, "<div class=\"aside\">raw</div>\n", render.Options{})

	assert.Contains(t, page, `<div class="aside">raw</div>`)
}

func TestHTMLRendererFootnoteEndnotes(t *testing.T) {
	page := renderHTML(t, "Ahab[^1] waits.\n\n[^1]: The captain.\n", render.Options{})

	assert.Contains(t, page, `<sup class="footnote-ref" id="fnref:1"><a href="#fn:1">1</a></sup>`)
	assert.Contains(t, page, `<section class="footnotes" role="doc-endnotes">`)
	assert.Contains(t, page, `<li id="fn:1">`)
	assert.Contains(t, page, "The captain.")
	assert.Contains(t, page, `<a href="#fnref:1" class="footnote-backref" role="doc-backlink">&#x21a9;&#xfe0e;</a>`)
}

func TestHTMLRendererRepeatedFootnoteRef(t *testing.T) {
	page := renderHTML(t, "One[^a] and again[^a].\n\n[^a]: Shared note.\n", render.Options{})

	// backlink target id appears once, the note body once
	assert.Equal(t, 1, strings.Count(page, `id="fnref:1"`))
	assert.Equal(t, 1, strings.Count(page, `<li id="fn:1">`))
	assert.Equal(t, 2, strings.Count(page, `href="#fn:1"`))
}

func TestHTMLRendererStyledFootnoteSpan(t *testing.T) {
	registry := filter.NewRegistry()
	filters.RegisterAll(registry)
	engine := filter.NewEngine(registry)

	doc := parseDoc(t, "Ahab[^1] waits.\n\n[^1]: The captain.\n")
	_, err := engine.Run(context.Background(), doc, "pdf", nil)
	require.NoError(t, err)

	out, err := render.NewHTMLRenderer(render.Options{}).Render(context.Background(), doc)
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, `<span class="footnote">The captain.</span>`)
	assert.NotContains(t, page, `<section class="footnotes"`)
	assert.NotContains(t, page, "fnref")
}

func TestHTMLRendererSpanAttrsSorted(t *testing.T) {
	doc := doctree.NewDocument()
	para := doctree.NewNode(doctree.NodeParagraph)
	span := doctree.NewSpan(map[string]string{"id": "n1", "class": "note"})
	doctree.AppendChild(span, doctree.NewText([]byte("hi")))
	doctree.AppendChild(para, span)
	doctree.AppendChild(doc, para)

	out, err := render.NewHTMLRenderer(render.Options{}).Render(context.Background(), doc)
	require.NoError(t, err)

	assert.Contains(t, string(out), `<span class="note" id="n1">hi</span>`)
}

func TestHTMLRendererCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := render.NewHTMLRenderer(render.Options{}).Render(ctx, parseDoc(t, "x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render cancelled")
}
