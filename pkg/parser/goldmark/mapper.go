package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/bookpress/pkg/doctree"
)

// mapper converts a goldmark AST into a doctree.
type mapper struct {
	src *doctree.Source

	// footnotes holds the mapped body of each footnote definition,
	// keyed by the 1-based index goldmark assigned at parse time.
	footnotes map[int]*doctree.Node
}

// newMapper creates a mapper for the given source.
func newMapper(src *doctree.Source) *mapper {
	return &mapper{
		src:       src,
		footnotes: make(map[int]*doctree.Node),
	}
}

// mapDocument converts a goldmark document into a doctree document.
// Footnote definitions are collected first so that references can be
// resolved in a single pass regardless of where goldmark placed the
// definition list.
func (m *mapper) mapDocument(gmDoc ast.Node) *doctree.Node {
	m.collectFootnotes(gmDoc)

	doc := doctree.NewDocument()
	m.mapChildren(gmDoc, doc)
	return doc
}

// collectFootnotes maps every footnote definition body into a detached
// holder. goldmark has already pruned unreferenced definitions and
// assigned display indexes by the time the transformer ran.
func (m *mapper) collectFootnotes(gmDoc ast.Node) {
	for child := gmDoc.FirstChild(); child != nil; child = child.NextSibling() {
		list, ok := child.(*east.FootnoteList)
		if !ok {
			continue
		}
		for def := list.FirstChild(); def != nil; def = def.NextSibling() {
			fn, ok := def.(*east.Footnote)
			if !ok || fn.Index < 0 {
				continue
			}
			holder := doctree.NewDocument()
			m.mapChildren(fn, holder)
			m.footnotes[fn.Index] = holder
		}
	}
}

// mapChildren recursively maps all children of a goldmark node.
//
// goldmark records soft and hard line breaks as flags on the text node
// that ends the line, not as separate nodes. The break is emitted as a
// sibling after the text so neither is lost.
func (m *mapper) mapChildren(gmParent ast.Node, parent *doctree.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		if node := m.mapNode(child); node != nil {
			doctree.AppendChild(parent, node)
		}
		if t, ok := child.(*ast.Text); ok {
			if br := breakNode(t); br != nil {
				doctree.AppendChild(parent, br)
			}
		}
	}
}

// breakNode returns the break node a text node's flags call for, if any.
func breakNode(t *ast.Text) *doctree.Node {
	switch {
	case t.HardLineBreak():
		return doctree.NewNode(doctree.NodeHardBreak)
	case t.SoftLineBreak():
		return doctree.NewNode(doctree.NodeSoftBreak)
	default:
		return nil
	}
}

// mapNode converts a single goldmark node. It returns nil for nodes that
// have no doctree representation; those are dropped.
func (m *mapper) mapNode(gmNode ast.Node) *doctree.Node {
	var node *doctree.Node

	switch gmn := gmNode.(type) {
	// Block-level nodes.
	case *ast.Document:
		node = doctree.NewDocument()
		m.mapChildren(gmNode, node)

	case *ast.Heading:
		node = m.mapHeading(gmn)

	case *ast.Paragraph:
		node = doctree.NewNode(doctree.NodeParagraph)
		m.mapChildren(gmNode, node)

	case *ast.TextBlock:
		// Tight list items wrap their content in a TextBlock instead of
		// a Paragraph. The renderer decides p-tag emission from the
		// list's Tight flag, so one kind covers both.
		node = doctree.NewNode(doctree.NodeParagraph)
		m.mapChildren(gmNode, node)

	case *ast.List:
		node = m.mapList(gmn)

	case *ast.ListItem:
		node = doctree.NewNode(doctree.NodeListItem)
		m.mapChildren(gmNode, node)

	case *ast.Blockquote:
		node = doctree.NewNode(doctree.NodeBlockquote)
		m.mapChildren(gmNode, node)

	case *ast.FencedCodeBlock:
		node = m.mapFencedCodeBlock(gmn)

	case *ast.CodeBlock:
		node = m.mapIndentedCodeBlock(gmn)

	case *ast.ThematicBreak:
		node = doctree.NewNode(doctree.NodeThematicBreak)

	case *ast.HTMLBlock:
		node = m.mapHTMLBlock(gmn)

	// Inline-level nodes.
	case *ast.Text:
		node = m.mapText(gmn)

	case *ast.Emphasis:
		node = m.mapEmphasis(gmn)

	case *ast.CodeSpan:
		node = m.mapCodeSpan(gmn)

	case *ast.Link:
		node = m.mapLink(gmn)

	case *ast.Image:
		node = m.mapImage(gmn)

	case *ast.AutoLink:
		node = m.mapAutoLink(gmn)

	case *ast.RawHTML:
		node = m.mapRawHTML(gmn)

	case *ast.String:
		node = doctree.NewText(gmn.Value)

	// GFM extension nodes.
	case *east.Strikethrough:
		node = doctree.NewNode(doctree.NodeStrikethrough)
		m.mapChildren(gmNode, node)

	case *east.TaskCheckBox:
		node = m.mapTaskCheckBox(gmn)

	case *east.Table:
		node = doctree.NewNode(doctree.NodeTable)
		m.mapChildren(gmNode, node)

	case *east.TableHeader:
		node = doctree.NewNode(doctree.NodeTableRow)
		node.SetAttr("header", "true")
		m.mapChildren(gmNode, node)

	case *east.TableRow:
		node = doctree.NewNode(doctree.NodeTableRow)
		m.mapChildren(gmNode, node)

	case *east.TableCell:
		node = m.mapTableCell(gmn)

	// Footnote machinery. Definitions were collected up front; the
	// reference position gets the resolved body, and list plumbing and
	// backlinks have no place in the tree.
	case *east.FootnoteLink:
		node = m.mapFootnoteLink(gmn)

	case *east.FootnoteList, *east.Footnote, *east.FootnoteBacklink:
		return nil

	default:
		return nil
	}

	m.position(node, gmNode)
	return node
}

// mapHeading converts a heading, carrying explicit {#id .class}
// attributes into the node's attribute map.
func (m *mapper) mapHeading(h *ast.Heading) *doctree.Node {
	node := doctree.NewNode(doctree.NodeHeading)
	node.Block = doctree.NewBlockAttrs().WithHeadingLevel(h.Level)

	for _, attr := range h.Attributes() {
		node.SetAttr(string(attr.Name), attrValue(attr.Value))
	}

	m.mapChildren(h, node)
	return node
}

// attrValue renders a goldmark attribute value as a string.
func attrValue(v any) string {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return ""
	}
}

// mapList converts a list block.
func (m *mapper) mapList(list *ast.List) *doctree.Node {
	node := doctree.NewNode(doctree.NodeList)
	node.Block = doctree.NewBlockAttrs().WithList(&doctree.ListAttrs{
		Ordered: list.IsOrdered(),
		Start:   list.Start,
		Tight:   list.IsTight,
	})
	m.mapChildren(list, node)
	return node
}

// mapFencedCodeBlock converts a fenced code block, keeping the info
// string and the literal content.
func (m *mapper) mapFencedCodeBlock(cb *ast.FencedCodeBlock) *doctree.Node {
	info := ""
	if cb.Info != nil {
		info = string(cb.Info.Value(m.src.Content))
	}

	node := doctree.NewNode(doctree.NodeCodeBlock)
	node.Block = doctree.NewBlockAttrs().WithCode(&doctree.CodeAttrs{
		Info:   info,
		Fenced: true,
	})
	doctree.AppendChild(node, doctree.NewText(m.blockLiteral(cb)))
	return node
}

// mapIndentedCodeBlock converts an indented code block.
func (m *mapper) mapIndentedCodeBlock(cb *ast.CodeBlock) *doctree.Node {
	node := doctree.NewNode(doctree.NodeCodeBlock)
	node.Block = doctree.NewBlockAttrs().WithCode(&doctree.CodeAttrs{})
	doctree.AppendChild(node, doctree.NewText(m.blockLiteral(cb)))
	return node
}

// mapHTMLBlock converts an HTML block, keeping the raw lines including
// the closure line when the block form has one.
func (m *mapper) mapHTMLBlock(hb *ast.HTMLBlock) *doctree.Node {
	literal := m.blockLiteral(hb)
	if hb.HasClosure() {
		literal = append(literal, hb.ClosureLine.Value(m.src.Content)...)
	}

	node := doctree.NewNode(doctree.NodeHTMLBlock)
	doctree.AppendChild(node, doctree.NewText(literal))
	return node
}

// blockLiteral joins a block's source lines.
func (m *mapper) blockLiteral(gmn ast.Node) []byte {
	var buf bytes.Buffer
	lines := gmn.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(m.src.Content))
	}
	return buf.Bytes()
}

// mapText converts a text node's content. Break flags are handled by
// mapChildren; empty segments produce no node.
func (m *mapper) mapText(t *ast.Text) *doctree.Node {
	value := t.Value(m.src.Content)
	if len(value) == 0 {
		return nil
	}
	return doctree.NewText(value)
}

// mapEmphasis converts emphasis; level 2 is strong.
func (m *mapper) mapEmphasis(em *ast.Emphasis) *doctree.Node {
	kind := doctree.NodeEmphasis
	if em.Level == 2 {
		kind = doctree.NodeStrong
	}
	node := doctree.NewNode(kind)
	m.mapChildren(em, node)
	return node
}

// mapCodeSpan converts a code span, joining its text segments.
func (m *mapper) mapCodeSpan(cs *ast.CodeSpan) *doctree.Node {
	var text []byte
	for child := cs.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			text = append(text, t.Value(m.src.Content)...)
		}
	}

	node := doctree.NewNode(doctree.NodeCodeSpan)
	node.Inline = doctree.NewInlineAttrs().WithText(text)
	return node
}

// mapLink converts a link.
func (m *mapper) mapLink(link *ast.Link) *doctree.Node {
	node := doctree.NewNode(doctree.NodeLink)
	node.Inline = doctree.NewInlineAttrs().WithLink(&doctree.LinkAttrs{
		Destination: string(link.Destination),
		Title:       string(link.Title),
	})
	m.mapChildren(link, node)
	return node
}

// mapImage converts an image; children are the alt text inlines.
func (m *mapper) mapImage(img *ast.Image) *doctree.Node {
	node := doctree.NewNode(doctree.NodeImage)
	node.Inline = doctree.NewInlineAttrs().WithLink(&doctree.LinkAttrs{
		Destination: string(img.Destination),
		Title:       string(img.Title),
	})
	m.mapChildren(img, node)
	return node
}

// mapAutoLink converts an autolink into a link with a text child.
func (m *mapper) mapAutoLink(al *ast.AutoLink) *doctree.Node {
	dest := string(al.URL(m.src.Content))
	if al.AutoLinkType == ast.AutoLinkEmail {
		dest = "mailto:" + dest
	}

	node := doctree.NewNode(doctree.NodeLink)
	node.Inline = doctree.NewInlineAttrs().WithLink(&doctree.LinkAttrs{
		Destination: dest,
	})
	doctree.AppendChild(node, doctree.NewText(al.Label(m.src.Content)))
	return node
}

// mapRawHTML converts inline raw HTML, joining its segments.
func (m *mapper) mapRawHTML(raw *ast.RawHTML) *doctree.Node {
	var buf bytes.Buffer
	for i := 0; i < raw.Segments.Len(); i++ {
		seg := raw.Segments.At(i)
		buf.Write(seg.Value(m.src.Content))
	}

	node := doctree.NewNode(doctree.NodeHTMLInline)
	node.Inline = doctree.NewInlineAttrs().WithText(buf.Bytes())
	return node
}

// mapTaskCheckBox converts a task-list checkbox to a literal marker.
func (m *mapper) mapTaskCheckBox(cb *east.TaskCheckBox) *doctree.Node {
	marker := "[ ] "
	if cb.IsChecked {
		marker = "[x] "
	}
	return doctree.NewText([]byte(marker))
}

// mapTableCell converts a table cell, recording its alignment.
func (m *mapper) mapTableCell(tc *east.TableCell) *doctree.Node {
	node := doctree.NewNode(doctree.NodeTableCell)

	switch tc.Alignment {
	case east.AlignLeft:
		node.SetAttr("align", "left")
	case east.AlignCenter:
		node.SetAttr("align", "center")
	case east.AlignRight:
		node.SetAttr("align", "right")
	case east.AlignNone:
	}

	m.mapChildren(tc, node)
	return node
}

// mapFootnoteLink resolves a footnote reference to its definition and
// attaches a clone of the body blocks at the reference position. Cloning
// keeps a definition referenced twice independent in the tree.
func (m *mapper) mapFootnoteLink(link *east.FootnoteLink) *doctree.Node {
	holder, ok := m.footnotes[link.Index]
	if !ok {
		return nil
	}

	node := doctree.NewNode(doctree.NodeFootnote)
	node.Inline = doctree.NewInlineAttrs().WithFootnoteIndex(link.Index)

	for _, block := range doctree.Clone(holder).Children() {
		doctree.Detach(block)
		doctree.AppendChild(node, block)
	}
	return node
}

// position assigns 1-based source lines to a mapped node. Container
// blocks without their own line records inherit from their children.
func (m *mapper) position(node *doctree.Node, gmNode ast.Node) {
	if node == nil {
		return
	}

	start, end := byteRange(gmNode)
	if start >= 0 {
		node.StartLine = m.src.LineOf(start)
		node.EndLine = node.StartLine
		if end > start {
			node.EndLine = m.src.LineOf(end - 1)
		}
		return
	}

	first, last := 0, 0
	for child := node.FirstChild; child != nil; child = child.Next {
		if child.StartLine == 0 {
			continue
		}
		if first == 0 || child.StartLine < first {
			first = child.StartLine
		}
		if child.EndLine > last {
			last = child.EndLine
		}
	}
	node.StartLine, node.EndLine = first, last
}

// byteRange extracts the source byte range covered by a goldmark node,
// or (-1, -1) when the node has no recorded segments.
func byteRange(gmNode ast.Node) (int, int) {
	if gmNode.Type() == ast.TypeInline {
		return inlineByteRange(gmNode)
	}

	lines := gmNode.Lines()
	if lines.Len() == 0 {
		return -1, -1
	}
	return lines.At(0).Start, lines.At(lines.Len() - 1).Stop
}

// inlineByteRange derives an inline node's range from its text segments.
func inlineByteRange(gmNode ast.Node) (int, int) {
	start, end := -1, -1

	grow := func(segStart, segStop int) {
		if start == -1 || segStart < start {
			start = segStart
		}
		if segStop > end {
			end = segStop
		}
	}

	if raw, ok := gmNode.(*ast.RawHTML); ok {
		for i := 0; i < raw.Segments.Len(); i++ {
			seg := raw.Segments.At(i)
			grow(seg.Start, seg.Stop)
		}
		return start, end
	}

	if t, ok := gmNode.(*ast.Text); ok {
		return t.Segment.Start, t.Segment.Stop
	}

	for child := gmNode.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			grow(t.Segment.Start, t.Segment.Stop)
		}
	}
	return start, end
}
