package doctree

// Clone returns a deep copy of a subtree. The copy shares no nodes,
// attribute structs or maps with the original; text byte slices are shared
// since nothing in the pipeline mutates them in place.
//
// The build runs filters once per output format, so each format gets its
// own clone of the parsed manuscript.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}

	clone := &Node{
		Kind:      n.Kind,
		StartLine: n.StartLine,
		EndLine:   n.EndLine,
	}

	if n.Block != nil {
		block := *n.Block
		if n.Block.List != nil {
			list := *n.Block.List
			block.List = &list
		}
		if n.Block.Code != nil {
			code := *n.Block.Code
			block.Code = &code
		}
		clone.Block = &block
	}

	if n.Inline != nil {
		inline := *n.Inline
		if n.Inline.Link != nil {
			link := *n.Inline.Link
			inline.Link = &link
		}
		clone.Inline = &inline
	}

	if n.Attrs != nil {
		clone.Attrs = make(map[string]string, len(n.Attrs))
		for key, val := range n.Attrs {
			clone.Attrs[key] = val
		}
	}

	for child := n.FirstChild; child != nil; child = child.Next {
		AppendChild(clone, Clone(child))
	}

	return clone
}
