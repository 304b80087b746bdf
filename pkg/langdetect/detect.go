// Package langdetect provides language detection for fenced code blocks
// in a manuscript. It uses go-enry to identify the language of unlabeled
// fences so renderers can attach a language class for highlighting.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Fence tags for commonly embedded languages.
const (
	langGo     = "go"
	langPython = "python"
	langJSON   = "json"
	langHTML   = "html"
	langBash   = "bash"
)

// fenceCandidates are the languages a book manuscript plausibly embeds.
// Keeping the candidate set small makes the classifier both faster and
// less likely to mislabel prose-like content.
var fenceCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "C", "SQL", "JSON", "YAML", "HTML", "CSS",
}

// DetectFence returns the fence tag for a code snippet and whether the
// detection is confident enough to use. Unlabeled fences stay unlabeled
// when the content gives no clear signal; callers must not tag on a
// false return.
func DetectFence(content []byte) (string, bool) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return "", false
	}

	// Shebangs are the strongest signal.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang), true
	}

	// Unambiguous structural patterns beat the classifier.
	if lang := detectByPattern(trimmed); lang != "" {
		return lang, true
	}

	// Classifier result only counts when enry marks it safe.
	if lang, safe := enry.GetLanguageByClassifier(content, fenceCandidates); safe && lang != "" {
		return normalize(lang), true
	}

	return "", false
}

// detectByPattern checks for patterns that identify a language on their own.
func detectByPattern(trimmed []byte) string {
	if bytes.HasPrefix(trimmed, []byte("package ")) && bytes.Contains(trimmed, []byte("func ")) {
		return langGo
	}

	if lang := detectHTML(trimmed); lang != "" {
		return lang
	}
	if lang := detectJSON(trimmed); lang != "" {
		return lang
	}
	if lang := detectPython(string(trimmed)); lang != "" {
		return lang
	}
	if lang := detectShell(trimmed); lang != "" {
		return lang
	}

	return ""
}

// detectPython checks for Python definition and dunder patterns.
func detectPython(contentStr string) string {
	if strings.Contains(contentStr, "def ") && strings.Contains(contentStr, "):") {
		return langPython
	}
	if strings.Contains(contentStr, "__name__") || strings.Contains(contentStr, "__main__") {
		return langPython
	}
	return ""
}

// detectHTML checks for HTML document markers.
func detectHTML(trimmed []byte) string {
	lowerTrimmed := bytes.ToLower(trimmed)
	if bytes.Contains(lowerTrimmed, []byte("<!doctype html")) ||
		bytes.Contains(lowerTrimmed, []byte("<html")) ||
		bytes.Contains(lowerTrimmed, []byte("<body>")) {
		return langHTML
	}
	return ""
}

// detectJSON checks for a JSON object or array literal.
func detectJSON(trimmed []byte) string {
	starts := bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))
	ends := bytes.HasSuffix(trimmed, []byte("}")) || bytes.HasSuffix(trimmed, []byte("]"))
	if starts && ends && bytes.Contains(trimmed, []byte(`":`)) {
		return langJSON
	}
	return ""
}

// detectShell checks for prompt-prefixed command transcripts, the shape
// shell examples in prose usually take.
func detectShell(trimmed []byte) string {
	if bytes.HasPrefix(trimmed, []byte("$ ")) {
		return langBash
	}
	return ""
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
