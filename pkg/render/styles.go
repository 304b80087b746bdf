package render

import (
	"embed"

	"github.com/yaklabco/bookpress/pkg/config"
)

//go:embed styles/*.css
var stylesFS embed.FS

// DefaultCSS returns the built-in stylesheet for a format. The 6x9
// trim builds on the regular PDF stylesheet, matching how the original
// pipeline stacked its pdf-6x9.css on top of the shared PDF options.
func DefaultCSS(format config.Format) string {
	if format == config.FormatPDF6x9 {
		return readStyle("pdf.css") + "\n" + readStyle("pdf-6x9.css")
	}
	return readStyle(format.String() + ".css")
}

func readStyle(name string) string {
	content, err := stylesFS.ReadFile("styles/" + name)
	if err != nil {
		// embedded styles ship with the binary; a miss is a packaging bug
		panic("missing embedded stylesheet: " + name)
	}
	return string(content)
}
