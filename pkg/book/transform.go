package book

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/yaklabco/bookpress/internal/logging"
	"github.com/yaklabco/bookpress/pkg/config"
)

// Transformation is one search and replace rule applied to the
// collated manuscript.
type Transformation struct {
	// Name labels the rule in logs. Optional.
	Name string

	re      *regexp.Regexp
	replace string
}

// NewTransformation compiles a rule. The replacement accepts the
// backslash group-reference style, so rules written as `(\w+)` with
// replace `\1!` work; literal dollar signs need no escaping.
func NewTransformation(name, search, replace string) (*Transformation, error) {
	re, err := regexp.Compile(search)
	if err != nil {
		return nil, fmt.Errorf("transformation %s: %w", describeRule(name, search), err)
	}
	return &Transformation{
		Name:    name,
		re:      re,
		replace: convertReplacement(replace),
	}, nil
}

// Apply runs the rule over text, returning the rewritten text and the
// number of matches replaced.
func (t *Transformation) Apply(text string) (string, int) {
	count := len(t.re.FindAllStringIndex(text, -1))
	if count == 0 {
		return text, 0
	}
	return t.re.ReplaceAllString(text, t.replace), count
}

func (t *Transformation) describe() string {
	return describeRule(t.Name, t.re.String())
}

func describeRule(name, search string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%q", search)
}

// TransformSet holds transformations in application order. File rules
// load first; plugin rules append after them. Later rules see earlier
// rules' output.
type TransformSet struct {
	list     []*Transformation
	warnings []string
}

// NewTransformSet returns an empty set.
func NewTransformSet() *TransformSet {
	return &TransformSet{}
}

// Len reports the number of loaded rules.
func (s *TransformSet) Len() int {
	return len(s.list)
}

// Warnings returns the non-fatal findings accumulated while loading
// rules.
func (s *TransformSet) Warnings() []string {
	return s.warnings
}

// Add appends rules to the set.
func (s *TransformSet) Add(ts ...*Transformation) {
	s.list = append(s.list, ts...)
}

// LoadFile reads transformation rules from a TSV file with columns
// name, search and replace. The name may be empty and a missing
// replace column deletes matches. Tab runs collapse to one. Lines
// starting with # and lines without a search column are skipped.
//
// A search pattern carrying the (?M) flag has %key% metadata tokens
// substituted into both the search and the replacement before
// compiling; an unknown key disables the rule with a warning.
//
// A missing file is not an error; the set is simply left as is.
func (s *TransformSet) LoadFile(path string, meta *config.Metadata) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading transformations file: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := tabRunRe.ReplaceAllString(strings.TrimRight(scanner.Text(), "\r"), "\t")
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[1] == "" {
			continue
		}

		name := fields[0]
		search := fields[1]
		replace := ""
		if len(fields) > 2 {
			replace = fields[2]
		}

		if metaFlagRe.MatchString(search) {
			search = stripFlag(metaFlagRe, search)
			search, err = substituteMetaTokens(search, meta)
			if err == nil {
				replace, err = substituteMetaTokens(replace, meta)
			}
			if err != nil {
				s.warnings = append(s.warnings,
					fmt.Sprintf("transformations line %d: %v; rule disabled", lineNo, err))
				continue
			}
		}

		t, err := NewTransformation(name, search, replace)
		if err != nil {
			return fmt.Errorf("transformations line %d: %w", lineNo, err)
		}
		s.list = append(s.list, t)
	}
	return scanner.Err()
}

// Apply runs every rule over text in order and returns the rewritten
// text with the total replacement count.
func (s *TransformSet) Apply(ctx context.Context, text string) (string, int) {
	logger := logging.FromContext(ctx)
	total := 0
	for _, t := range s.list {
		var n int
		text, n = t.Apply(text)
		if n > 0 {
			logger.Debug("transformation applied",
				logging.FieldRule, t.describe(),
				logging.FieldReplacements, n)
		}
		total += n
	}
	return text, total
}

// convertReplacement rewrites a backslash-style replacement into the
// form regexp.ReplaceAllString expands. Group references \1 become
// ${1}, the escapes \\ \n \t become their characters, and literal $
// is escaped so it survives expansion.
func convertReplacement(repl string) string {
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		switch {
		case c == '$':
			b.WriteString("$$")
		case c == '\\' && i+1 < len(repl):
			next := repl[i+1]
			switch {
			case next >= '0' && next <= '9':
				j := i + 1
				for j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
					j++
				}
				b.WriteString("${")
				b.WriteString(repl[i+1 : j])
				b.WriteString("}")
				i = j - 1
			case next == '\\':
				b.WriteByte('\\')
				i++
			case next == 'n':
				b.WriteByte('\n')
				i++
			case next == 't':
				b.WriteByte('\t')
				i++
			default:
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
