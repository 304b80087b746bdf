package render

import (
	"strings"
	"unicode"
)

// Slugify converts heading or title text into an anchor slug: quote
// characters are stripped, runs of other non-word characters become a
// single hyphen, and the result is lowercased with no leading or
// trailing hyphens. The table-of-contents generator and the HTML
// renderer share this so generated links land on generated ids.
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingHyphen := false
	for _, r := range text {
		switch {
		case isQuote(r):
			// stripped outright so "don't" slugs to dont
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

func isQuote(r rune) bool {
	switch r {
	case '\'', '"', '“', '”', '‘', '’':
		return true
	default:
		return false
	}
}
