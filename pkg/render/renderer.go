// Package render turns a document tree into the publishable book
// formats: a standalone HTML page, an EPUB 3 container, and PDF via an
// external CSS-paginating engine.
package render

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/bookpress/pkg/config"
	"github.com/yaklabco/bookpress/pkg/doctree"
)

// Renderer produces one output format from a document tree.
// Renderers are stateless across calls and safe to reuse.
type Renderer interface {
	// Render returns the complete output document.
	Render(ctx context.Context, doc *doctree.Node) ([]byte, error)
}

// Options configures rendering.
type Options struct {
	// Meta is the book metadata. Nil renders with placeholder values.
	Meta *config.Metadata

	// CSS lists stylesheet paths or URLs, applied after the built-in
	// stylesheet. Local files are inlined (PDF) or copied into the
	// container (EPUB); everything else becomes a link.
	CSS []string

	// PDFEngine names the external engine for the pdf formats. Empty
	// detects the first available.
	PDFEngine string

	// WorkDir is where the PDF backend writes its intermediate HTML.
	// Empty uses the system temp directory.
	WorkDir string
}

// New creates a Renderer for the format.
func New(format config.Format, opts Options) (Renderer, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case config.FormatHTML:
		return NewHTMLRenderer(opts), nil
	case config.FormatEPUB:
		return NewEPUBRenderer(opts), nil
	case config.FormatPDF, config.FormatPDF6x9:
		return NewPDFRenderer(format, opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// metaValues extracts the fields renderers put on the page, tolerating
// a nil metadata.
type metaValues struct {
	Title      string
	Subtitle   string
	Author     string
	Lang       string
	Identifier string
	Rights     string
	Publisher  string
	CoverImage string
	Date       string
}

func metaFrom(meta *config.Metadata) metaValues {
	if meta == nil {
		return metaValues{Title: "Untitled", Lang: "en"}
	}
	vals := metaValues{
		Title:      meta.Title(),
		Subtitle:   meta.Subtitle(),
		Author:     meta.Author(),
		Lang:       meta.Language(),
		Identifier: meta.Identifier(),
		Rights:     meta.Rights(),
		Publisher:  meta.Publisher(),
		CoverImage: meta.CoverImage(),
	}
	if vals.Title == "" {
		vals.Title = "Untitled"
	}
	if date, ok := meta.Lookup("date"); ok {
		vals.Date = date
	}
	return vals
}

// splitCSS partitions the configured stylesheets into readable local
// files (returned as contents, in order) and unreadable entries such
// as URLs (returned as references).
func splitCSS(paths []string) (inline [][]byte, links []string) {
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			links = append(links, path)
			continue
		}
		inline = append(inline, content)
	}
	return inline, links
}
