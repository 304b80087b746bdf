package doctree

// BlockAttrs holds attributes for block-level nodes.
type BlockAttrs struct {
	// HeadingLevel is the heading level (1-6) for NodeHeading.
	HeadingLevel int

	// List holds list-specific attributes for NodeList.
	List *ListAttrs

	// Code holds code block attributes for NodeCodeBlock.
	Code *CodeAttrs
}

// ListAttrs holds attributes for list nodes.
type ListAttrs struct {
	// Ordered is true for ordered lists (1., 2., etc.).
	Ordered bool

	// Start is the starting number for ordered lists.
	Start int

	// Tight is true if this is a tight list (no blank lines between items).
	Tight bool
}

// CodeAttrs holds attributes for code block nodes.
type CodeAttrs struct {
	// Info is the fence info string. The first word is the language.
	Info string

	// Fenced is true for fenced code blocks (vs indented).
	Fenced bool
}

// Language returns the language word of the info string, or "".
func (a *CodeAttrs) Language() string {
	if a == nil {
		return ""
	}
	for i := 0; i < len(a.Info); i++ {
		if a.Info[i] == ' ' || a.Info[i] == '\t' {
			return a.Info[:i]
		}
	}
	return a.Info
}

// InlineAttrs holds attributes for inline-level nodes.
type InlineAttrs struct {
	// Text holds literal content for NodeText, NodeCodeSpan and
	// NodeHTMLInline.
	Text []byte

	// Link holds link attributes for NodeLink and NodeImage.
	Link *LinkAttrs

	// FootnoteIndex is the 1-based footnote number for NodeFootnote and
	// NodeFootnoteRef.
	FootnoteIndex int
}

// LinkAttrs holds attributes for link and image nodes.
type LinkAttrs struct {
	// Destination is the link URL.
	Destination string

	// Title is the optional link title.
	Title string
}

// NewBlockAttrs creates a new BlockAttrs with default values.
func NewBlockAttrs() *BlockAttrs {
	return &BlockAttrs{}
}

// NewInlineAttrs creates a new InlineAttrs with default values.
func NewInlineAttrs() *InlineAttrs {
	return &InlineAttrs{}
}

// WithHeadingLevel sets the heading level and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithHeadingLevel(level int) *BlockAttrs {
	a.HeadingLevel = level
	return a
}

// WithList sets list attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithList(attrs *ListAttrs) *BlockAttrs {
	a.List = attrs
	return a
}

// WithCode sets code block attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithCode(attrs *CodeAttrs) *BlockAttrs {
	a.Code = attrs
	return a
}

// WithText sets the text content and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithText(text []byte) *InlineAttrs {
	a.Text = text
	return a
}

// WithLink sets link attributes and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithLink(attrs *LinkAttrs) *InlineAttrs {
	a.Link = attrs
	return a
}

// WithFootnoteIndex sets the footnote number and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithFootnoteIndex(index int) *InlineAttrs {
	a.FootnoteIndex = index
	return a
}
