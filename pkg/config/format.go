package config

import "fmt"

// Format identifies one build target.
type Format string

// Build targets supported by bookpress.
const (
	FormatHTML   Format = "html"
	FormatPDF    Format = "pdf"
	FormatPDF6x9 Format = "pdf-6x9"
	FormatEPUB   Format = "epub"
)

// AllFormats returns every supported format in build order.
func AllFormats() []Format {
	return []Format{FormatHTML, FormatPDF, FormatPDF6x9, FormatEPUB}
}

// ParseFormat parses a format string, returning an error for unknown formats.
func ParseFormat(formatStr string) (Format, error) {
	switch formatStr {
	case "html":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	case "pdf-6x9":
		return FormatPDF6x9, nil
	case "epub":
		return FormatEPUB, nil
	default:
		return "", fmt.Errorf("unknown format %q; valid formats: html, pdf, pdf-6x9, epub", formatStr)
	}
}

// ParseFormats parses a list of format strings, preserving order and
// dropping duplicates.
func ParseFormats(formatStrs []string) ([]Format, error) {
	var formats []Format
	seen := make(map[Format]bool, len(formatStrs))

	for _, s := range formatStrs {
		f, err := ParseFormat(s)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

// String returns the string representation of the format.
//
// Filters receive this raw string, never the Format type: a filter's
// format matching is its own business and the build imposes no
// vocabulary on it.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known build target.
func (f Format) IsValid() bool {
	switch f {
	case FormatHTML, FormatPDF, FormatPDF6x9, FormatEPUB:
		return true
	default:
		return false
	}
}

// OutputName returns the artifact filename for a base name, e.g.
// "book" becomes book.html, book.pdf, book-6x9.pdf or book.epub.
func (f Format) OutputName(base string) string {
	switch f {
	case FormatHTML:
		return base + ".html"
	case FormatPDF:
		return base + ".pdf"
	case FormatPDF6x9:
		return base + "-6x9.pdf"
	case FormatEPUB:
		return base + ".epub"
	default:
		return base
	}
}

// IsPDF reports whether the format renders through the PDF engine.
func (f Format) IsPDF() bool {
	return f == FormatPDF || f == FormatPDF6x9
}
