// Package doctree provides the document tree bookpress builds from a
// collated manuscript and hands to filters and renderers. It defines:
// - Node: blocks and inlines with parent/child/sibling links
// - builders and walkers for tree construction and traversal
// - BlocksToInlines: the block-to-inline flattening utility
// - Source: the manuscript bytes with a line index for positions
package doctree

//go:generate stringer -type=NodeKind -trimprefix=Node

// NodeKind classifies the type of a document tree node.
type NodeKind uint16

// Node kinds for block-level and inline-level elements.
const (
	NodeDocument NodeKind = iota

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeList
	NodeListItem
	NodeBlockquote
	NodeCodeBlock
	NodeThematicBreak
	NodeHTMLBlock

	// Inline-level nodes.
	NodeText
	NodeEmphasis
	NodeStrong
	NodeCodeSpan
	NodeLink
	NodeImage
	NodeSoftBreak
	NodeHardBreak
	NodeHTMLInline

	// NodeFootnote is an inline node carrying the footnote body.
	// Its children are the body's block-level elements, attached at the
	// reference position by the parser.
	NodeFootnote

	// NodeFootnoteRef is a bare numeric footnote marker, used when a
	// renderer emits footnotes as an end-of-document section.
	NodeFootnoteRef

	// NodeSpan is a generic styled inline wrapper. Its Attrs map is
	// emitted verbatim (escaped) by the HTML renderer.
	NodeSpan

	// GFM extension nodes.
	NodeStrikethrough
	NodeTable
	NodeTableRow
	NodeTableCell
)

// Node is a single node in the document tree.
// Nodes form a tree with parent/child/sibling relationships.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// StartLine and EndLine are 1-based lines in the collated manuscript.
	// Zero means the node is synthetic and has no source position.
	StartLine int
	EndLine   int

	// Block holds attributes for block-level nodes.
	Block *BlockAttrs

	// Inline holds attributes for inline-level nodes.
	Inline *InlineAttrs

	// Attrs holds string-keyed attributes (span classes, heading ids).
	// Nil when the node carries no attributes.
	Attrs map[string]string
}

// IsBlock returns true if this is a block-level node.
// A footnote is inline even though its children are blocks.
func (n *Node) IsBlock() bool {
	switch n.Kind {
	case NodeDocument, NodeParagraph, NodeHeading, NodeList, NodeListItem,
		NodeBlockquote, NodeCodeBlock, NodeThematicBreak, NodeHTMLBlock,
		NodeTable, NodeTableRow, NodeTableCell:
		return true
	default:
		return false
	}
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	switch n.Kind {
	case NodeText, NodeEmphasis, NodeStrong, NodeCodeSpan, NodeLink,
		NodeImage, NodeSoftBreak, NodeHardBreak, NodeHTMLInline,
		NodeFootnote, NodeFootnoteRef, NodeSpan, NodeStrikethrough:
		return true
	default:
		return false
	}
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// Literal returns the raw text a leaf node carries. Text runs and code
// spans keep their bytes in Inline.Text; literal blocks mapped from the
// parser keep theirs in text children.
func (n *Node) Literal() []byte {
	if n.Inline != nil && n.Inline.Text != nil {
		return n.Inline.Text
	}
	var out []byte
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Inline != nil {
			out = append(out, child.Inline.Text...)
		}
	}
	return out
}

// Attr returns the named attribute and whether it is set.
func (n *Node) Attr(key string) (string, bool) {
	if n.Attrs == nil {
		return "", false
	}
	val, ok := n.Attrs[key]
	return val, ok
}

// SetAttr sets a string attribute, allocating the map on first use.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string, 1)
	}
	n.Attrs[key] = value
}
