package pretty

import (
	"github.com/charmbracelet/glamour"
)

// previewWordWrap caps the preview width; narrower terminals wrap at
// their own width.
const previewWordWrap = 120

// RenderMarkdown renders Markdown source for terminal display using
// Glamour. On any renderer failure it falls back to the raw source so
// a preview is always produced.
func RenderMarkdown(source string, width int) string {
	if width <= 0 || width > previewWordWrap {
		width = previewWordWrap
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return source
	}

	rendered, err := renderer.Render(source)
	if err != nil {
		return source
	}
	return rendered
}
