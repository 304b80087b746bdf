package book

import (
	"time"

	"github.com/yaklabco/bookpress/pkg/config"
)

// Output describes one rendered book file.
type Output struct {
	// Format is the build target that produced the file.
	Format config.Format

	// Path is where the file was written.
	Path string

	// Bytes is the rendered size.
	Bytes int64
}

// Stats carries the counters a build accumulates on its way through
// the pipeline.
type Stats struct {
	// FilesCollated is the number of manuscript files joined.
	FilesCollated int

	// FilesExcluded is the number of files dropped by exclusion rules.
	FilesExcluded int

	// TKCount is the total number of TK placeholders found.
	TKCount int

	// ToCsGenerated is the number of {toc} directives replaced.
	ToCsGenerated int

	// Transformations is the total transformation replacement count.
	Transformations int

	// Placeholders is the number of metadata placeholders substituted.
	Placeholders int

	// FilterChanges counts node replacements per filter, summed over
	// all formats.
	FilterChanges map[string]int
}

// Result is what a completed build returns.
type Result struct {
	// Outputs lists the rendered files in the order they were built.
	Outputs []Output

	// Stats holds the pipeline counters.
	Stats Stats

	// Warnings collects non-fatal findings: unknown placeholders,
	// unresolved anchors, manuscript edits during the build.
	Warnings []string

	// Duration is the wall-clock build time.
	Duration time.Duration
}

// TotalBytes sums the sizes of all outputs.
func (r *Result) TotalBytes() int64 {
	var total int64
	for _, out := range r.Outputs {
		total += out.Bytes
	}
	return total
}
