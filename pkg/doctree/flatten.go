package doctree

import "bytes"

// BlocksToInlines converts an ordered sequence of block-level nodes into an
// equivalent ordered sequence of inline nodes, discarding block boundaries
// while preserving reading order and all inline formatting and text.
//
// Policy per block kind:
//   - paragraphs and headings contribute their inline children
//   - container blocks (lists, list items, blockquotes) recurse in order
//   - code blocks become a code span carrying the literal text
//   - HTML blocks become a raw inline carrying the literal text
//   - thematic breaks are dropped (they have no textual content)
//
// A single space text node separates adjacent non-empty blocks so flattened
// text never fuses words across block boundaries. A lone paragraph flattens
// to exactly its own inlines. Inline nodes in the input pass through
// unchanged.
//
// The inlines are detached from their original parents; callers own the
// returned nodes.
func BlocksToInlines(blocks []*Node) []*Node {
	var out []*Node

	for _, block := range blocks {
		group := flattenOne(block)
		if len(group) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, NewText([]byte(" ")))
		}
		out = append(out, group...)
	}

	return out
}

// flattenOne flattens a single node into its inline equivalent.
func flattenOne(n *Node) []*Node {
	if n == nil {
		return nil
	}

	if n.IsInline() {
		Detach(n)
		return []*Node{n}
	}

	switch n.Kind {
	case NodeParagraph, NodeHeading:
		children := n.Children()
		for _, child := range children {
			Detach(child)
		}
		return children

	case NodeCodeBlock:
		span := NewNode(NodeCodeSpan)
		span.Inline = NewInlineAttrs().WithText(n.Literal())
		span.StartLine = n.StartLine
		span.EndLine = n.EndLine
		return []*Node{span}

	case NodeHTMLBlock:
		raw := NewNode(NodeHTMLInline)
		raw.Inline = NewInlineAttrs().WithText(n.Literal())
		raw.StartLine = n.StartLine
		raw.EndLine = n.EndLine
		return []*Node{raw}

	case NodeThematicBreak:
		return nil

	default:
		// Container blocks: flatten each child block in reading order.
		return BlocksToInlines(n.Children())
	}
}

// PlainText returns the concatenated textual content of a subtree.
// Text runs, code spans and raw HTML contribute their bytes; soft and hard
// breaks contribute a single space.
func PlainText(root *Node) []byte {
	var buf bytes.Buffer

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(n *Node) error {
		switch n.Kind {
		case NodeText, NodeCodeSpan, NodeHTMLInline:
			if n.Inline != nil {
				buf.Write(n.Inline.Text)
			}
		case NodeSoftBreak, NodeHardBreak:
			buf.WriteByte(' ')
		}
		return nil
	})

	return buf.Bytes()
}
