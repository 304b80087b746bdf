package book

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yaklabco/bookpress/pkg/config"
)

// ExclusionMode decides how a rule's match outcome is interpreted.
type ExclusionMode string

// ExclusionScope names the part of a file a rule's search runs against.
type ExclusionScope string

const (
	// ModeExclude drops a file when the search matches.
	ModeExclude ExclusionMode = "exclude"

	// ModeInclude drops a file when the search does not match.
	ModeInclude ExclusionMode = "include"
)

const (
	// ScopeFilename searches the base name.
	ScopeFilename ExclusionScope = "filename"

	// ScopeFilepath searches the containing directory path.
	ScopeFilepath ExclusionScope = "filepath"

	// ScopeFullpath searches the entire path.
	ScopeFullpath ExclusionScope = "fullpath"

	// ScopeContents searches the file's text.
	ScopeContents ExclusionScope = "contents"
)

// pathAny is the path column value that disables a rule's path filter.
const pathAny = "*"

var exclusionModes = map[string]ExclusionMode{
	"exclude": ModeExclude,
	"e":       ModeExclude,
	"include": ModeInclude,
	"i":       ModeInclude,
}

var exclusionScopes = map[string]ExclusionScope{
	"filename": ScopeFilename,
	"f":        ScopeFilename,
	"filepath": ScopeFilepath,
	"p":        ScopeFilepath,
	"fullpath": ScopeFullpath,
	"u":        ScopeFullpath,
	"contents": ScopeContents,
	"c":        ScopeContents,
}

// Pattern flags are carried in a leading inline group, for example
// (?M)%draft%\.md or (?iN)final. M substitutes metadata tokens into
// the pattern before compiling; N negates the match.
var (
	metaFlagRe   = regexp.MustCompile(`^\(\?[a-zA-Z]*(M)[^)]*\)`)
	negateFlagRe = regexp.MustCompile(`^\(\?[a-zA-Z]*(N)[^)]*\)`)
	metaTokenRe  = regexp.MustCompile(`%([^%]+?)%`)

	// tabRunRe collapses tab runs so TSV files can be column-aligned.
	tabRunRe = regexp.MustCompile(`\t+`)
)

type exclusionRule struct {
	mode  ExclusionMode
	scope ExclusionScope

	// path, when non-nil, limits the rule to files whose directory
	// matches it.
	path         *regexp.Regexp
	negatePath   bool
	search       *regexp.Regexp
	negateSearch bool
	comment      string
}

// ExclusionSet holds exclusion rules in evaluation order. Rules from
// --exclude flags go in first, then rules from the exclusions file;
// the first rule that rejects a file wins.
type ExclusionSet struct {
	rules    []exclusionRule
	warnings []string
}

// NewExclusionSet returns an empty rule set.
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{}
}

// Len reports the number of active rules.
func (s *ExclusionSet) Len() int {
	return len(s.rules)
}

// Warnings returns the non-fatal findings accumulated while loading
// rules, such as metadata tokens with no matching key.
func (s *ExclusionSet) Warnings() []string {
	return s.warnings
}

// AddPatterns appends filename exclusion rules, one per pattern. This
// is the shape --exclude flags take.
func (s *ExclusionSet) AddPatterns(patterns ...string) error {
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		s.rules = append(s.rules, exclusionRule{
			mode:   ModeExclude,
			scope:  ScopeFilename,
			search: re,
		})
	}
	return nil
}

// LoadFile reads exclusion rules from a TSV file. Each rule line has
// four tab-separated columns, mode, scope, path and search, with any
// further columns kept as a comment for reporting. Runs of tabs
// collapse to one, so the file can be column-aligned. Lines that do
// not parse as rules are ignored, which lets the file carry comments.
//
// A missing file is not an error; the set is simply left as is.
func (s *ExclusionSet) LoadFile(path string, meta *config.Metadata) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading exclusions file: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := tabRunRe.ReplaceAllString(strings.TrimRight(scanner.Text(), "\r"), "\t")
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			continue
		}

		mode, ok := exclusionModes[fields[0]]
		if !ok {
			continue
		}
		scope, ok := exclusionScopes[fields[1]]
		if !ok {
			continue
		}

		pathPattern := fields[2]
		searchPattern := fields[3]
		comment := ""
		if len(fields) > 4 {
			comment = strings.TrimRight(strings.Join(fields[4:], "\t"), " \t")
		}

		rewritten := false
		skip := false
		for _, p := range []*string{&searchPattern, &pathPattern} {
			if !metaFlagRe.MatchString(*p) {
				continue
			}
			*p = stripFlag(metaFlagRe, *p)
			substituted, err := substituteMetaTokens(*p, meta)
			if err != nil {
				s.warnings = append(s.warnings,
					fmt.Sprintf("exclusions line %d: %v; rule disabled", lineNo, err))
				skip = true
				break
			}
			*p = substituted
			rewritten = true
		}
		if skip {
			continue
		}
		if comment != "" && (rewritten || metaFlagRe.MatchString(comment)) {
			comment = stripFlag(metaFlagRe, comment)
			substituted, err := substituteMetaTokens(comment, meta)
			if err != nil {
				s.warnings = append(s.warnings,
					fmt.Sprintf("exclusions line %d: %v; rule disabled", lineNo, err))
				continue
			}
			comment = substituted
		}

		rule := exclusionRule{mode: mode, scope: scope, comment: comment}
		if negateFlagRe.MatchString(searchPattern) {
			searchPattern = stripFlag(negateFlagRe, searchPattern)
			rule.negateSearch = true
		}
		if pathPattern != pathAny && negateFlagRe.MatchString(pathPattern) {
			pathPattern = stripFlag(negateFlagRe, pathPattern)
			rule.negatePath = true
		}

		rule.search, err = regexp.Compile(searchPattern)
		if err != nil {
			return fmt.Errorf("exclusions line %d: search pattern: %w", lineNo, err)
		}
		if pathPattern != pathAny && pathPattern != "" {
			rule.path, err = regexp.Compile(pathPattern)
			if err != nil {
				return fmt.Errorf("exclusions line %d: path pattern: %w", lineNo, err)
			}
		}
		s.rules = append(s.rules, rule)
	}
	return scanner.Err()
}

// Excludes reports whether the file at path should be dropped from
// the collation, and if so a human-readable reason naming the rule
// that dropped it.
func (s *ExclusionSet) Excludes(path string, contents []byte) (bool, string) {
	name := filepath.Base(path)
	dir := filepath.Dir(path)

	for i := range s.rules {
		rule := &s.rules[i]

		if rule.path != nil {
			matched := rule.path.MatchString(dir)
			if rule.negatePath {
				matched = !matched
			}
			if !matched {
				continue
			}
		}

		var target, desc string
		switch rule.scope {
		case ScopeFilepath:
			target, desc = dir, "file path"
		case ScopeFullpath:
			target, desc = path, "entire path"
		case ScopeContents:
			target, desc = string(contents), "contents"
		default:
			target, desc = name, "filename"
		}

		found := rule.search.MatchString(target)
		if rule.negateSearch {
			found = !found
		}
		if (found && rule.mode == ModeExclude) || (!found && rule.mode == ModeInclude) {
			return true, rule.describe(desc, found)
		}
	}
	return false, ""
}

func (r *exclusionRule) describe(target string, matched bool) string {
	msg := r.comment
	if msg == "" {
		msg = fmt.Sprintf("%q", r.search.String())
		if r.negateSearch {
			msg += " (negated)"
		}
		if r.path != nil {
			msg += fmt.Sprintf(", path filter %q", r.path.String())
			if r.negatePath {
				msg += " (negated)"
			}
		}
	}
	verb := "matched"
	if !matched {
		verb = "did not match"
	}
	kind := "exclusion"
	if r.mode == ModeInclude {
		kind = "inclusion"
	}
	return fmt.Sprintf("%s %s %s: %s", target, verb, kind, msg)
}

// stripFlag removes the captured flag letter from a pattern's leading
// inline group, dropping the group entirely if the letter was all it
// held.
func stripFlag(re *regexp.Regexp, pattern string) string {
	m := re.FindStringSubmatchIndex(pattern)
	if m == nil {
		return pattern
	}
	out := pattern[:m[2]] + pattern[m[3]:]
	if strings.HasPrefix(out, "(?)") {
		out = out[len("(?)"):]
	}
	return out
}

// substituteMetaTokens replaces each %key% token with the metadata
// value for key. An unknown key is an error; the caller disables the
// rule rather than matching against a half-built pattern.
func substituteMetaTokens(pattern string, meta *config.Metadata) (string, error) {
	for {
		m := metaTokenRe.FindStringSubmatchIndex(pattern)
		if m == nil {
			return pattern, nil
		}
		key := pattern[m[2]:m[3]]
		var value string
		ok := false
		if meta != nil {
			value, ok = meta.Lookup(key)
		}
		if !ok {
			return "", fmt.Errorf("metadata key %q not found", key)
		}
		pattern = pattern[:m[0]] + value + pattern[m[1]:]
	}
}
