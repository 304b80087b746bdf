package book

import (
	"context"
	"fmt"
	"regexp"

	"github.com/yaklabco/bookpress/internal/logging"
	"github.com/yaklabco/bookpress/pkg/config"
)

// placeholderRe matches %key% tokens and the %% escape. Keys are
// restricted to metadata-key characters so prose percentages like
// "50% of" never read as tokens.
var placeholderRe = regexp.MustCompile(`%%|%([A-Za-z0-9][A-Za-z0-9_.-]*)%`)

// ReplacePlaceholders substitutes %key% tokens in text with their
// metadata values and turns %% into a literal percent sign. Tokens
// with no matching key are left intact and warned about once each.
// Returns the rewritten text, the substitution count, and the
// warnings.
func ReplacePlaceholders(ctx context.Context, text string, meta *config.Metadata) (string, int, []string) {
	logger := logging.FromContext(ctx)
	warned := make(map[string]bool)
	var warnings []string
	count := 0

	out := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		if m == "%%" {
			return "%"
		}
		key := m[1 : len(m)-1]
		if meta != nil {
			if value, ok := meta.Lookup(key); ok {
				count++
				return value
			}
		}
		if !warned[key] {
			warned[key] = true
			logger.Warn("placeholder has no metadata value", logging.FieldKey, key)
			warnings = append(warnings, fmt.Sprintf("placeholder %%%s%% has no metadata value", key))
		}
		return m
	})
	return out, count, warnings
}
