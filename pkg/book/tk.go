package book

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
)

// ErrTKsFound is returned by builds configured to stop when the
// manuscript still contains TK placeholders.
var ErrTKsFound = errors.New("manuscript contains TK placeholders")

// tkRe matches the editorial TK convention, including stacked forms
// like TKTK, in any case.
var tkRe = regexp.MustCompile(`(?i)\b(TK)+\b`)

// TKFile reports the TK placeholders in one manuscript file.
type TKFile struct {
	// Name is the file's base name.
	Name string

	// Count is the number of TK matches in the file.
	Count int

	// Line is the 1-based line of the first match.
	Line int
}

// TKReport is the result of a TK audit over a collation.
type TKReport struct {
	// Files lists files with at least one TK, in collation order.
	Files []TKFile

	// Total is the TK count across all files.
	Total int
}

// AuditTKs scans each collated file for TK placeholders.
func AuditTKs(col *Collation) *TKReport {
	report := &TKReport{}
	for _, f := range col.Files {
		locs := tkRe.FindAllIndex(f.Content, -1)
		if len(locs) == 0 {
			continue
		}
		line := bytes.Count(f.Content[:locs[0][0]], []byte("\n")) + 1
		report.Files = append(report.Files, TKFile{
			Name:  f.Name,
			Count: len(locs),
			Line:  line,
		})
		report.Total += len(locs)
	}
	return report
}

// Empty reports whether the audit found nothing.
func (r *TKReport) Empty() bool {
	return r.Total == 0
}

// Lines renders the report one file per line, for warnings and
// summaries.
func (r *TKReport) Lines() []string {
	lines := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		plural := "s"
		if f.Count == 1 {
			plural = ""
		}
		lines = append(lines, fmt.Sprintf("%s (%d TK%s, first at line %d)", f.Name, f.Count, plural, f.Line))
	}
	return lines
}
