package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/yaklabco/bookpress/pkg/book"
)

const (
	summaryDividerWidth = 40
	wordOutput          = "output"
	wordOutputs         = "outputs"
)

// FormatSummaryOneLine formats a build result as a single line.
// Example: "Built 4 outputs (8.2 MB) in 1.4s, 2 warnings".
func (s *Styles) FormatSummaryOneLine(result *book.Result) string {
	if len(result.Outputs) == 0 {
		return s.Failure.Render("No outputs built") + "\n"
	}

	outputWord := wordOutputs
	if len(result.Outputs) == 1 {
		outputWord = wordOutput
	}

	msg := s.Success.Render(fmt.Sprintf("Built %d %s", len(result.Outputs), outputWord)) +
		s.Dim.Render(fmt.Sprintf(" (%s) in %s",
			humanize.Bytes(uint64(result.TotalBytes())),
			formatDuration(result.Duration)))

	if n := len(result.Warnings); n > 0 {
		warningWord := "warnings"
		if n == 1 {
			warningWord = "warning"
		}
		msg += ", " + s.Warning.Render(fmt.Sprintf("%d %s", n, warningWord))
	}

	return msg + "\n"
}

// FormatSummary formats a build result as a summary block.
func (s *Styles) FormatSummary(result *book.Result) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	stats := result.Stats

	// Pipeline counters
	builder.WriteString("  Files collated:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesCollated)) + "\n")

	if stats.FilesExcluded > 0 {
		builder.WriteString("  Files excluded:    " +
			s.SummaryValue.Render(strconv.Itoa(stats.FilesExcluded)) + "\n")
	}

	if stats.TKCount > 0 {
		builder.WriteString("  TKs remaining:     " +
			s.Warning.Render(strconv.Itoa(stats.TKCount)) + "\n")
	}

	if stats.ToCsGenerated > 0 {
		builder.WriteString("  ToCs generated:    " +
			s.SummaryValue.Render(strconv.Itoa(stats.ToCsGenerated)) + "\n")
	}

	if stats.Transformations > 0 {
		builder.WriteString("  Transformations:   " +
			s.SummaryValue.Render(humanize.Comma(int64(stats.Transformations))) + "\n")
	}

	if stats.Placeholders > 0 {
		builder.WriteString("  Placeholders:      " +
			s.SummaryValue.Render(humanize.Comma(int64(stats.Placeholders))) + "\n")
	}

	if n := totalFilterChanges(stats.FilterChanges); n > 0 {
		builder.WriteString("  Filter changes:    " +
			s.SummaryValue.Render(humanize.Comma(int64(n))) + "\n")
	}

	// Rendered outputs
	if len(result.Outputs) > 0 {
		builder.WriteString("\n")
		builder.WriteString("  Outputs:\n")
		builder.WriteString(s.formatOutputs(result.Outputs))
	}

	// Non-fatal findings
	if len(result.Warnings) > 0 {
		builder.WriteString("\n")
		builder.WriteString("  Warnings:\n")
		for _, warning := range result.Warnings {
			builder.WriteString("    " + s.Warning.Render("- "+warning) + "\n")
		}
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case len(result.Outputs) == 0:
		builder.WriteString(s.Failure.Render("Build produced no outputs"))
	case len(result.Warnings) > 0:
		warningWord := "warnings"
		if len(result.Warnings) == 1 {
			warningWord = "warning"
		}
		builder.WriteString(s.Warning.Render(fmt.Sprintf("Build completed with %d %s", len(result.Warnings), warningWord)))
	default:
		builder.WriteString(s.Success.Render("Build succeeded"))
	}
	builder.WriteString(s.Dim.Render(fmt.Sprintf(" (%s in %s)",
		humanize.Bytes(uint64(result.TotalBytes())),
		formatDuration(result.Duration))))
	builder.WriteString("\n")

	return builder.String()
}

// formatOutputs renders one aligned line per output file.
func (s *Styles) formatOutputs(outputs []book.Output) string {
	formatWidth := 0
	pathWidth := 0
	for _, out := range outputs {
		if n := len(out.Format.String()); n > formatWidth {
			formatWidth = n
		}
		if n := len(out.Path); n > pathWidth {
			pathWidth = n
		}
	}
	if pathWidth > maxColumnWidth {
		pathWidth = maxColumnWidth
	}

	var builder strings.Builder
	for _, out := range outputs {
		name := out.Format.String()
		path := truncateFilePath(out.Path, pathWidth)
		builder.WriteString(fmt.Sprintf("    %s%s  %s%s  %s\n",
			s.Format.Render(name),
			strings.Repeat(" ", formatWidth-len(name)),
			s.FilePath.Render(path),
			strings.Repeat(" ", pathWidth-len(path)),
			s.FileSize.Render(humanize.Bytes(uint64(out.Bytes))),
		))
	}
	return builder.String()
}

// totalFilterChanges sums per-filter replacement counts.
func totalFilterChanges(changes map[string]int) int {
	total := 0
	for _, n := range changes {
		total += n
	}
	return total
}

// formatDuration rounds a build duration for display.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(time.Millisecond).String()
	default:
		return d.String()
	}
}
