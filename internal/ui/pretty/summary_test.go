package pretty_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/bookpress/internal/ui/pretty"
	"github.com/yaklabco/bookpress/pkg/book"
	"github.com/yaklabco/bookpress/pkg/config"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := &book.Result{
		Outputs: []book.Output{
			{Format: config.FormatHTML, Path: "build/book.html", Bytes: 1_500_000},
			{Format: config.FormatPDF, Path: "build/book.pdf", Bytes: 3_200_000},
		},
		Stats: book.Stats{
			FilesCollated:   12,
			ToCsGenerated:   1,
			Transformations: 1234,
			Placeholders:    24,
		},
		Duration: 1400 * time.Millisecond,
	}

	output := styles.FormatSummary(result)

	assert.Contains(t, output, "Summary")
	assert.Contains(t, output, "Files collated:")
	assert.Contains(t, output, "12")
	assert.Contains(t, output, "ToCs generated:")
	assert.Contains(t, output, "Transformations:")
	assert.Contains(t, output, "1,234")
	assert.Contains(t, output, "Outputs:")
	assert.Contains(t, output, "build/book.html")
	assert.Contains(t, output, "1.5 MB")
	assert.Contains(t, output, "build/book.pdf")
	assert.Contains(t, output, "Build succeeded")
	assert.Contains(t, output, "1.4s")
}

func TestFormatSummary_SkipsZeroCounters(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := &book.Result{
		Outputs: []book.Output{
			{Format: config.FormatEPUB, Path: "build/book.epub", Bytes: 820_000},
		},
		Stats: book.Stats{FilesCollated: 3},
	}

	output := styles.FormatSummary(result)

	assert.Contains(t, output, "Files collated:")
	assert.NotContains(t, output, "Files excluded:")
	assert.NotContains(t, output, "TKs remaining:")
	assert.NotContains(t, output, "Transformations:")
	assert.NotContains(t, output, "Placeholders:")
	assert.NotContains(t, output, "Filter changes:")
	assert.NotContains(t, output, "Warnings:")
}

func TestFormatSummary_WithTKs(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := &book.Result{
		Outputs: []book.Output{
			{Format: config.FormatHTML, Path: "build/book.html", Bytes: 900_000},
		},
		Stats: book.Stats{FilesCollated: 5, TKCount: 3},
	}

	output := styles.FormatSummary(result)

	assert.Contains(t, output, "TKs remaining:")
	assert.Contains(t, output, "3")
}

func TestFormatSummary_WithFilterChanges(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := &book.Result{
		Outputs: []book.Output{
			{Format: config.FormatPDF, Path: "build/book.pdf", Bytes: 2_000_000},
		},
		Stats: book.Stats{
			FilesCollated: 5,
			FilterChanges: map[string]int{"footnote-spans": 12, "wordcount": 1},
		},
	}

	output := styles.FormatSummary(result)

	assert.Contains(t, output, "Filter changes:")
	assert.Contains(t, output, "13")
}

func TestFormatSummary_WithWarnings(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := &book.Result{
		Outputs: []book.Output{
			{Format: config.FormatHTML, Path: "build/book.html", Bytes: 900_000},
		},
		Stats: book.Stats{FilesCollated: 5},
		Warnings: []string{
			"unknown placeholder {publisher}",
			"unresolved anchor #chapter-9",
		},
	}

	output := styles.FormatSummary(result)

	assert.Contains(t, output, "Warnings:")
	assert.Contains(t, output, "unknown placeholder {publisher}")
	assert.Contains(t, output, "unresolved anchor #chapter-9")
	assert.Contains(t, output, "Build completed with 2 warnings")
	assert.NotContains(t, output, "Build succeeded")
}

func TestFormatSummary_NoOutputs(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := &book.Result{
		Stats: book.Stats{FilesCollated: 2},
	}

	output := styles.FormatSummary(result)

	assert.Contains(t, output, "Build produced no outputs")
	assert.NotContains(t, output, "Outputs:")
}

func TestFormatSummaryOneLine_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := &book.Result{
		Outputs: []book.Output{
			{Format: config.FormatHTML, Path: "build/book.html", Bytes: 1_500_000},
			{Format: config.FormatPDF, Path: "build/book.pdf", Bytes: 500_000},
		},
		Duration: 1400 * time.Millisecond,
	}

	output := styles.FormatSummaryOneLine(result)

	assert.Contains(t, output, "Built 2 outputs")
	assert.Contains(t, output, "2.0 MB")
	assert.Contains(t, output, "in 1.4s")
	assert.NotContains(t, output, "warning")
}

func TestFormatSummaryOneLine_SingleOutput(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := &book.Result{
		Outputs: []book.Output{
			{Format: config.FormatEPUB, Path: "build/book.epub", Bytes: 820_000},
		},
		Duration: 90 * time.Millisecond,
	}

	output := styles.FormatSummaryOneLine(result)

	assert.Contains(t, output, "Built 1 output")
	assert.NotContains(t, output, "1 outputs")
}

func TestFormatSummaryOneLine_WithWarnings(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := &book.Result{
		Outputs: []book.Output{
			{Format: config.FormatHTML, Path: "build/book.html", Bytes: 900_000},
		},
		Warnings: []string{"unknown placeholder {publisher}"},
	}

	output := styles.FormatSummaryOneLine(result)

	assert.Contains(t, output, "1 warning")
	assert.NotContains(t, output, "1 warnings")
}

func TestFormatSummaryOneLine_NoOutputs(t *testing.T) {
	styles := pretty.NewStyles(false)

	output := styles.FormatSummaryOneLine(&book.Result{})

	assert.Contains(t, output, "No outputs built")
}
