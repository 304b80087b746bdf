package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// VerifyAnchors parses a rendered HTML document and checks that every
// in-document link lands on an existing id. It returns one warning per
// unresolved target.
func VerifyAnchors(page []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}

	ids := make(map[string]bool)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			ids[id] = true
		}
	})

	reported := make(map[string]bool)
	var warnings []string
	doc.Find(`a[href^="#"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		target := strings.TrimPrefix(href, "#")
		if target == "" || ids[target] || reported[target] {
			return
		}
		reported[target] = true
		warnings = append(warnings, fmt.Sprintf("internal link #%s has no target", target))
	})
	return warnings, nil
}
