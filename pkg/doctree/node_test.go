package doctree_test

import (
	"testing"

	"github.com/yaklabco/bookpress/pkg/doctree"
)

func TestNode_IsBlock(t *testing.T) {
	t.Parallel()

	blockKinds := []doctree.NodeKind{
		doctree.NodeDocument,
		doctree.NodeParagraph,
		doctree.NodeHeading,
		doctree.NodeList,
		doctree.NodeListItem,
		doctree.NodeBlockquote,
		doctree.NodeCodeBlock,
		doctree.NodeThematicBreak,
		doctree.NodeHTMLBlock,
	}

	for _, kind := range blockKinds {
		node := &doctree.Node{Kind: kind}
		if !node.IsBlock() {
			t.Errorf("expected %s to be block", kind)
		}
	}

	inlineKinds := []doctree.NodeKind{
		doctree.NodeText,
		doctree.NodeEmphasis,
		doctree.NodeFootnote,
		doctree.NodeSpan,
	}

	for _, kind := range inlineKinds {
		node := &doctree.Node{Kind: kind}
		if node.IsBlock() {
			t.Errorf("expected %s to not be block", kind)
		}
	}
}

func TestNode_IsInline(t *testing.T) {
	t.Parallel()

	inlineKinds := []doctree.NodeKind{
		doctree.NodeText,
		doctree.NodeEmphasis,
		doctree.NodeStrong,
		doctree.NodeCodeSpan,
		doctree.NodeLink,
		doctree.NodeImage,
		doctree.NodeSoftBreak,
		doctree.NodeHardBreak,
		doctree.NodeHTMLInline,
		doctree.NodeFootnote,
		doctree.NodeFootnoteRef,
		doctree.NodeSpan,
	}

	for _, kind := range inlineKinds {
		node := &doctree.Node{Kind: kind}
		if !node.IsInline() {
			t.Errorf("expected %s to be inline", kind)
		}
	}

	blockKinds := []doctree.NodeKind{
		doctree.NodeDocument,
		doctree.NodeParagraph,
		doctree.NodeHeading,
	}

	for _, kind := range blockKinds {
		node := &doctree.Node{Kind: kind}
		if node.IsInline() {
			t.Errorf("expected %s to not be inline", kind)
		}
	}
}

func TestNode_FootnoteIsInlineWithBlockChildren(t *testing.T) {
	t.Parallel()

	footnote := doctree.NewNode(doctree.NodeFootnote)
	para := doctree.NewNode(doctree.NodeParagraph)
	doctree.AppendChild(footnote, para)

	if !footnote.IsInline() {
		t.Error("expected footnote to be inline")
	}
	if !footnote.FirstChild.IsBlock() {
		t.Error("expected footnote body to be block-level")
	}
}

func TestNode_ChildCount(t *testing.T) {
	t.Parallel()

	parent := doctree.NewNode(doctree.NodeDocument)

	if parent.ChildCount() != 0 {
		t.Errorf("expected 0 children, got %d", parent.ChildCount())
	}

	doctree.AppendChild(parent, doctree.NewNode(doctree.NodeParagraph))
	if parent.ChildCount() != 1 {
		t.Errorf("expected 1 child, got %d", parent.ChildCount())
	}

	doctree.AppendChild(parent, doctree.NewNode(doctree.NodeParagraph))
	doctree.AppendChild(parent, doctree.NewNode(doctree.NodeParagraph))
	if parent.ChildCount() != 3 {
		t.Errorf("expected 3 children, got %d", parent.ChildCount())
	}
}

func TestNode_Children(t *testing.T) {
	t.Parallel()

	parent := doctree.NewNode(doctree.NodeDocument)
	child1 := doctree.NewNode(doctree.NodeParagraph)
	child2 := doctree.NewNode(doctree.NodeHeading)
	child3 := doctree.NewNode(doctree.NodeCodeBlock)

	doctree.AppendChild(parent, child1)
	doctree.AppendChild(parent, child2)
	doctree.AppendChild(parent, child3)

	children := parent.Children()

	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}

	if children[0] != child1 || children[1] != child2 || children[2] != child3 {
		t.Error("children not in expected order")
	}
}

func TestNode_Attrs(t *testing.T) {
	t.Parallel()

	node := doctree.NewNode(doctree.NodeSpan)

	if _, ok := node.Attr("class"); ok {
		t.Error("expected no attributes on a fresh node")
	}

	node.SetAttr("class", "footnote")

	val, ok := node.Attr("class")
	if !ok || val != "footnote" {
		t.Errorf("expected class=footnote, got %q (ok=%v)", val, ok)
	}
}

func TestNewSpan(t *testing.T) {
	t.Parallel()

	span := doctree.NewSpan(map[string]string{"class": "footnote"})

	if span.Kind != doctree.NodeSpan {
		t.Errorf("expected span kind, got %s", span.Kind)
	}

	val, ok := span.Attr("class")
	if !ok || val != "footnote" {
		t.Errorf("expected class=footnote, got %q", val)
	}
}

func TestNodeKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     doctree.NodeKind
		expected string
	}{
		{doctree.NodeDocument, "Document"},
		{doctree.NodeParagraph, "Paragraph"},
		{doctree.NodeHeading, "Heading"},
		{doctree.NodeList, "List"},
		{doctree.NodeText, "Text"},
		{doctree.NodeEmphasis, "Emphasis"},
		{doctree.NodeFootnote, "Footnote"},
		{doctree.NodeFootnoteRef, "FootnoteRef"},
		{doctree.NodeSpan, "Span"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()

			if tt.kind.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.kind.String())
			}
		})
	}
}

func TestCodeAttrs_Language(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		info     string
		expected string
	}{
		{"bare language", "go", "go"},
		{"language with options", "go lineNumbers", "go"},
		{"empty", "", ""},
		{"tab separated", "python\textra", "python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			attrs := &doctree.CodeAttrs{Info: tt.info}
			if got := attrs.Language(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
