// Package goldmark parses the collated manuscript into a doctree using
// the goldmark library.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/bookpress/pkg/doctree"
)

// Parser converts Markdown bytes into a doctree.
//
// The manuscript dialect is GFM plus reference-style footnotes plus
// heading attributes ({#id}, {.class}). There is no flavor knob: book
// sources that avoid these features parse identically without them.
type Parser struct {
	md goldmark.Markdown
}

// New creates a manuscript parser.
func New() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
			),
			goldmark.WithParserOptions(
				parser.WithAttribute(),
			),
		),
	}
}

// Parse converts src into a document tree.
//
// Footnote definitions do not appear in the tree where they were
// written: each reference becomes an inline footnote node carrying the
// definition's blocks, and the trailing definition list is dropped.
// Node positions are 1-based lines resolved against src.
func (p *Parser) Parse(ctx context.Context, src *doctree.Source) (*doctree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	reader := text.NewReader(src.Content)
	gmDoc := p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	return newMapper(src).mapDocument(gmDoc), nil
}

// ParseBytes is a convenience wrapper that builds the Source itself.
// Callers that need the line index afterwards should use Parse.
func (p *Parser) ParseBytes(ctx context.Context, content []byte) (*doctree.Node, error) {
	return p.Parse(ctx, doctree.NewSource(content))
}
