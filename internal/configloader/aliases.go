package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/bookpress/pkg/config"
)

// formatAliases maps convenience names to canonical build formats.
// This lets config files, BOOKPRESS_FORMATS and --formats use names
// like "ebook" or "paperback" alongside the canonical format names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var formatAliases = map[string]config.Format{
	// Web
	"html": config.FormatHTML,
	"web":  config.FormatHTML,

	// Full-page PDF
	"pdf":   config.FormatPDF,
	"print": config.FormatPDF,

	// Trim-size PDF
	"pdf-6x9":   config.FormatPDF6x9,
	"6x9":       config.FormatPDF6x9,
	"paperback": config.FormatPDF6x9,

	// EPUB
	"epub":  config.FormatEPUB,
	"ebook": config.FormatEPUB,
}

// formatAll is the pseudo-format that expands to every build target.
const formatAll = "all"

// NormalizeFormat resolves a format name or alias to its canonical form.
// The second return value reports whether the name was recognized.
func NormalizeFormat(name string) (config.Format, bool) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// NormalizeFormats resolves a list of format names to canonical formats,
// expanding the "all" pseudo-format, resolving aliases and dropping
// duplicates while preserving first-seen order.
func NormalizeFormats(names []string) ([]config.Format, error) {
	var formats []config.Format
	seen := make(map[config.Format]bool, len(names))

	add := func(f config.Format) {
		if seen[f] {
			return
		}
		seen[f] = true
		formats = append(formats, f)
	}

	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), formatAll) {
			for _, f := range config.AllFormats() {
				add(f)
			}
			continue
		}

		f, ok := NormalizeFormat(name)
		if !ok {
			return nil, fmt.Errorf("unknown format %q; valid formats: html, pdf, pdf-6x9, epub or all", name)
		}
		add(f)
	}

	return formats, nil
}

// AliasesForFormat returns the accepted non-canonical names for a format.
func AliasesForFormat(format config.Format) []string {
	var aliases []string
	for alias, f := range formatAliases {
		if f == format && alias != string(format) {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}
