package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"sort"
	"strconv"
	"text/template"

	"github.com/yaklabco/bookpress/pkg/config"
	"github.com/yaklabco/bookpress/pkg/doctree"
)

// pageTemplate is the standalone page shell. All injected values are
// escaped before execution; Body and Style carry pre-rendered markup.
const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="generator" content="bookpress">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- if .Author}}
<meta name="author" content="{{.Author}}">
{{- end}}
{{- if .Date}}
<meta name="dcterms.date" content="{{.Date}}">
{{- end}}
{{- range .Links}}
<link rel="stylesheet" href="{{.}}">
{{- end}}
{{- if .Style}}
<style>
{{.Style}}</style>
{{- end}}
</head>
<body>
{{.Body}}</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	Lang   string
	Title  string
	Author string
	Date   string
	Links  []string
	Style  string
	Body   string
}

// HTMLRenderer writes a standalone HTML5 page for a document tree.
type HTMLRenderer struct {
	opts Options

	// format picks the built-in stylesheet; the PDF backend reuses
	// this renderer with its own format.
	format config.Format

	// inlineUserCSS embeds readable stylesheet files instead of
	// linking them, for outputs that leave the working directory.
	inlineUserCSS bool
}

// NewHTMLRenderer creates the HTML backend.
func NewHTMLRenderer(opts Options) *HTMLRenderer {
	return &HTMLRenderer{opts: opts, format: config.FormatHTML}
}

// newPageRenderer creates an HTML renderer carrying another format's
// built-in stylesheet, with readable user stylesheets inlined rather
// than linked. The PDF backend feeds its engine with this, since the
// intermediate page is written away from the working directory.
func newPageRenderer(format config.Format, opts Options) *HTMLRenderer {
	return &HTMLRenderer{opts: opts, format: format, inlineUserCSS: true}
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(ctx context.Context, doc *doctree.Node) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	w := newHTMLWriter(false)
	w.writeChildren(doc)
	w.writeFootnoteSection()

	style := DefaultCSS(r.format)
	var links []string
	if r.inlineUserCSS {
		inline, rest := splitCSS(r.opts.CSS)
		for _, css := range inline {
			style += "\n" + string(css)
		}
		links = rest
	} else {
		links = r.opts.CSS
	}

	vals := metaFrom(r.opts.Meta)
	data := pageData{
		Lang:   html.EscapeString(vals.Lang),
		Title:  html.EscapeString(vals.Title),
		Author: html.EscapeString(vals.Author),
		Date:   html.EscapeString(vals.Date),
		Style:  style,
		Body:   w.String(),
	}
	for _, link := range links {
		data.Links = append(data.Links, html.EscapeString(link))
	}

	var out bytes.Buffer
	if err := pageTmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return out.Bytes(), nil
}

// htmlWriter walks a document tree emitting body markup. With xhtml
// set, void elements self-close so the output stays well-formed XML
// for EPUB content documents.
type htmlWriter struct {
	buf        bytes.Buffer
	xhtml      bool
	headingIDs map[string]int

	// footnotes collects distinct unstyled footnote nodes, in first
	// reference order, for the end-of-document section.
	footnotes []*doctree.Node
	seenNotes map[int]bool
}

func newHTMLWriter(xhtml bool) *htmlWriter {
	return &htmlWriter{
		xhtml:      xhtml,
		headingIDs: make(map[string]int),
		seenNotes:  make(map[int]bool),
	}
}

func (w *htmlWriter) String() string { return w.buf.String() }

func (w *htmlWriter) writeChildren(n *doctree.Node) {
	for child := n.FirstChild; child != nil; child = child.Next {
		w.writeNode(child)
	}
}

func (w *htmlWriter) writeNode(n *doctree.Node) {
	switch n.Kind {
	case doctree.NodeDocument:
		w.writeChildren(n)

	case doctree.NodeParagraph:
		w.buf.WriteString("<p>")
		w.writeChildren(n)
		w.buf.WriteString("</p>\n")

	case doctree.NodeHeading:
		w.writeHeading(n)

	case doctree.NodeList:
		w.writeList(n)

	case doctree.NodeListItem:
		// handled by writeList; stray items render their content
		w.writeChildren(n)

	case doctree.NodeBlockquote:
		w.buf.WriteString("<blockquote>\n")
		w.writeChildren(n)
		w.buf.WriteString("</blockquote>\n")

	case doctree.NodeCodeBlock:
		w.writeCodeBlock(n)

	case doctree.NodeThematicBreak:
		w.buf.WriteString(w.voidTag("hr"))
		w.buf.WriteByte('\n')

	case doctree.NodeHTMLBlock:
		w.buf.Write(n.Literal())

	case doctree.NodeTable:
		w.writeTable(n)

	case doctree.NodeText:
		w.buf.WriteString(html.EscapeString(string(n.Literal())))

	case doctree.NodeEmphasis:
		w.wrap(n, "em")

	case doctree.NodeStrong:
		w.wrap(n, "strong")

	case doctree.NodeStrikethrough:
		w.wrap(n, "del")

	case doctree.NodeCodeSpan:
		w.buf.WriteString("<code>")
		w.buf.WriteString(html.EscapeString(string(n.Literal())))
		w.buf.WriteString("</code>")

	case doctree.NodeLink:
		w.writeLink(n)

	case doctree.NodeImage:
		w.writeImage(n)

	case doctree.NodeSoftBreak:
		w.buf.WriteByte('\n')

	case doctree.NodeHardBreak:
		w.buf.WriteString(w.voidTag("br"))
		w.buf.WriteByte('\n')

	case doctree.NodeHTMLInline:
		w.buf.Write(n.Literal())

	case doctree.NodeSpan:
		w.writeSpan(n)

	case doctree.NodeFootnote:
		w.writeFootnoteRef(n, true)

	case doctree.NodeFootnoteRef:
		w.writeFootnoteRef(n, false)

	default:
		w.writeChildren(n)
	}
}

func (w *htmlWriter) wrap(n *doctree.Node, tag string) {
	w.buf.WriteString("<" + tag + ">")
	w.writeChildren(n)
	w.buf.WriteString("</" + tag + ">")
}

func (w *htmlWriter) voidTag(tag string) string {
	if w.xhtml {
		return "<" + tag + " />"
	}
	return "<" + tag + ">"
}

func (w *htmlWriter) writeHeading(n *doctree.Node) {
	level := 1
	if n.Block != nil && n.Block.HeadingLevel > 0 {
		level = n.Block.HeadingLevel
	}
	tag := "h" + strconv.Itoa(level)

	id, explicit := n.Attr("id")
	if !explicit {
		id = w.uniqueID(Slugify(string(doctree.PlainText(n))))
	}

	w.buf.WriteString("<" + tag)
	if id != "" {
		w.buf.WriteString(` id="` + html.EscapeString(id) + `"`)
	}
	w.writeExtraAttrs(n.Attrs, "id")
	w.buf.WriteString(">")
	w.writeChildren(n)
	w.buf.WriteString("</" + tag + ">\n")
}

// uniqueID disambiguates repeated slugs with -1, -2 suffixes.
func (w *htmlWriter) uniqueID(slug string) string {
	if slug == "" {
		return ""
	}
	count := w.headingIDs[slug]
	w.headingIDs[slug] = count + 1
	if count == 0 {
		return slug
	}
	return slug + "-" + strconv.Itoa(count)
}

func (w *htmlWriter) writeList(n *doctree.Node) {
	ordered := false
	start := 1
	tight := false
	if n.Block != nil && n.Block.List != nil {
		ordered = n.Block.List.Ordered
		start = n.Block.List.Start
		tight = n.Block.List.Tight
	}

	tag := "ul"
	if ordered {
		tag = "ol"
	}
	w.buf.WriteString("<" + tag)
	if ordered && start != 1 {
		w.buf.WriteString(` start="` + strconv.Itoa(start) + `"`)
	}
	w.writeExtraAttrs(n.Attrs)
	w.buf.WriteString(">\n")

	for item := n.FirstChild; item != nil; item = item.Next {
		w.writeListItem(item, tight)
	}

	w.buf.WriteString("</" + tag + ">\n")
}

func (w *htmlWriter) writeListItem(item *doctree.Node, tight bool) {
	w.buf.WriteString("<li>")
	if tight {
		// tight items drop the paragraph wrapper
		for child := item.FirstChild; child != nil; child = child.Next {
			if child.Kind == doctree.NodeParagraph {
				w.writeChildren(child)
				if child.Next != nil {
					w.buf.WriteByte('\n')
				}
				continue
			}
			w.writeNode(child)
		}
	} else {
		w.buf.WriteByte('\n')
		w.writeChildren(item)
	}
	w.buf.WriteString("</li>\n")
}

func (w *htmlWriter) writeCodeBlock(n *doctree.Node) {
	lang := ""
	if n.Block != nil {
		lang = n.Block.Code.Language()
	}

	w.buf.WriteString("<pre><code")
	if lang != "" {
		w.buf.WriteString(` class="language-` + html.EscapeString(lang) + `"`)
	}
	w.buf.WriteString(">")
	w.buf.WriteString(html.EscapeString(string(n.Literal())))
	w.buf.WriteString("</code></pre>\n")
}

func (w *htmlWriter) writeTable(n *doctree.Node) {
	w.buf.WriteString("<table>\n")
	inBody := false
	for row := n.FirstChild; row != nil; row = row.Next {
		if header, _ := row.Attr("header"); header == "true" {
			w.buf.WriteString("<thead>\n")
			w.writeTableRow(row, true)
			w.buf.WriteString("</thead>\n")
			continue
		}
		if !inBody {
			w.buf.WriteString("<tbody>\n")
			inBody = true
		}
		w.writeTableRow(row, false)
	}
	if inBody {
		w.buf.WriteString("</tbody>\n")
	}
	w.buf.WriteString("</table>\n")
}

func (w *htmlWriter) writeTableRow(row *doctree.Node, header bool) {
	tag := "td"
	if header {
		tag = "th"
	}
	w.buf.WriteString("<tr>\n")
	for cell := row.FirstChild; cell != nil; cell = cell.Next {
		w.buf.WriteString("<" + tag)
		if align, ok := cell.Attr("align"); ok && align != "" {
			w.buf.WriteString(` style="text-align: ` + html.EscapeString(align) + `"`)
		}
		w.buf.WriteString(">")
		w.writeChildren(cell)
		w.buf.WriteString("</" + tag + ">\n")
	}
	w.buf.WriteString("</tr>\n")
}

func (w *htmlWriter) writeLink(n *doctree.Node) {
	dest, title := "", ""
	if n.Inline != nil && n.Inline.Link != nil {
		dest = n.Inline.Link.Destination
		title = n.Inline.Link.Title
	}
	w.buf.WriteString(`<a href="` + html.EscapeString(dest) + `"`)
	if title != "" {
		w.buf.WriteString(` title="` + html.EscapeString(title) + `"`)
	}
	w.writeExtraAttrs(n.Attrs)
	w.buf.WriteString(">")
	w.writeChildren(n)
	w.buf.WriteString("</a>")
}

func (w *htmlWriter) writeImage(n *doctree.Node) {
	src, title := "", ""
	if n.Inline != nil && n.Inline.Link != nil {
		src = n.Inline.Link.Destination
		title = n.Inline.Link.Title
	}
	alt := string(doctree.PlainText(n))

	w.buf.WriteString(`<img src="` + html.EscapeString(src) + `"`)
	w.buf.WriteString(` alt="` + html.EscapeString(alt) + `"`)
	if title != "" {
		w.buf.WriteString(` title="` + html.EscapeString(title) + `"`)
	}
	if w.xhtml {
		w.buf.WriteString(" />")
	} else {
		w.buf.WriteString(">")
	}
}

func (w *htmlWriter) writeSpan(n *doctree.Node) {
	w.buf.WriteString("<span")
	w.writeExtraAttrs(n.Attrs)
	w.buf.WriteString(">")
	w.writeChildren(n)
	w.buf.WriteString("</span>")
}

// writeExtraAttrs emits attributes in sorted key order, skipping any
// keys already written by the caller.
func (w *htmlWriter) writeExtraAttrs(attrs map[string]string, skip ...string) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		skipped := false
		for _, s := range skip {
			if k == s {
				skipped = true
				break
			}
		}
		if skipped {
			continue
		}
		w.buf.WriteString(" " + k + `="` + html.EscapeString(attrs[k]) + `"`)
	}
}

// writeFootnoteRef emits the numbered superscript reference. The first
// reference to each note carries the backlink target id and registers
// the body for the end-of-document section when collect is set.
func (w *htmlWriter) writeFootnoteRef(n *doctree.Node, collect bool) {
	index := 0
	if n.Inline != nil {
		index = n.Inline.FootnoteIndex
	}
	num := strconv.Itoa(index)

	first := !w.seenNotes[index]
	if first {
		w.seenNotes[index] = true
		if collect {
			w.footnotes = append(w.footnotes, n)
		}
	}

	w.buf.WriteString(`<sup class="footnote-ref"`)
	if first {
		w.buf.WriteString(` id="fnref:` + num + `"`)
	}
	w.buf.WriteString(`><a href="#fn:` + num + `">` + num + `</a></sup>`)
}

// writeFootnoteSection emits collected footnote bodies with backlinks,
// in the shape goldmark's own footnote renderer produces.
func (w *htmlWriter) writeFootnoteSection() {
	if len(w.footnotes) == 0 {
		return
	}

	w.buf.WriteString(`<section class="footnotes" role="doc-endnotes">` + "\n")
	w.buf.WriteString(w.voidTag("hr"))
	w.buf.WriteString("\n<ol>\n")

	for _, note := range w.footnotes {
		index := 0
		if note.Inline != nil {
			index = note.Inline.FootnoteIndex
		}
		num := strconv.Itoa(index)
		backlink := `<a href="#fnref:` + num + `" class="footnote-backref" role="doc-backlink">&#x21a9;&#xfe0e;</a>`

		w.buf.WriteString(`<li id="fn:` + num + `">` + "\n")

		children := note.Children()
		for i, child := range children {
			last := i == len(children)-1
			if last && child.Kind == doctree.NodeParagraph {
				w.buf.WriteString("<p>")
				w.writeChildren(child)
				w.buf.WriteString(" " + backlink + "</p>\n")
				continue
			}
			w.writeNode(child)
			if last {
				w.buf.WriteString("<p>" + backlink + "</p>\n")
			}
		}
		if len(children) == 0 {
			w.buf.WriteString("<p>" + backlink + "</p>\n")
		}

		w.buf.WriteString("</li>\n")
	}

	w.buf.WriteString("</ol>\n</section>\n")
}

// renderBlocks walks a run of sibling blocks, emitting body markup
// plus any footnote section they reference. The EPUB backend renders
// each chapter's blocks through this without reparenting the tree.
func renderBlocks(blocks []*doctree.Node, xhtml bool) string {
	w := newHTMLWriter(xhtml)
	for _, block := range blocks {
		w.writeNode(block)
	}
	w.writeFootnoteSection()
	return w.String()
}
