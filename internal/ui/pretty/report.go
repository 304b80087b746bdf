package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/bookpress/pkg/book"
)

// FormatTKReport formats a TK audit for terminal output, one file per line.
func (s *Styles) FormatTKReport(report *book.TKReport) string {
	if report == nil || report.Empty() {
		return ""
	}

	var builder strings.Builder
	for _, file := range report.Files {
		plural := "s"
		if file.Count == 1 {
			plural = ""
		}
		builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			s.FilePath.Render(file.Name),
			s.Warning.Render(fmt.Sprintf("%d TK%s", file.Count, plural)),
			s.Dim.Render(fmt.Sprintf("first at line %d", file.Line)),
		))
	}
	return builder.String()
}

// FormatTKHeader formats the lead line above a TK report.
func (s *Styles) FormatTKHeader(report *book.TKReport) string {
	if report == nil || report.Empty() {
		return s.Success.Render("No TKs found")
	}

	fileWord := "files"
	if len(report.Files) == 1 {
		fileWord = "file"
	}
	return s.Warning.Render(fmt.Sprintf("%d TKs in %d %s", report.Total, len(report.Files), fileWord))
}

// FormatWarnings formats non-fatal build findings as a bulleted list.
func (s *Styles) FormatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, warning := range warnings {
		builder.WriteString("  " + s.Warning.Render("warning") + " " + warning + "\n")
	}
	return builder.String()
}
