// Package book drives the publishing pipeline. A build collates the
// manuscript directory into one Markdown text, rewrites it (table of
// contents directives, transformation rules, metadata placeholders),
// parses it once, and renders each requested output format from its
// own copy of the document tree.
package book

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yaklabco/bookpress/internal/logging"
	"github.com/yaklabco/bookpress/pkg/config"
	"github.com/yaklabco/bookpress/pkg/doctree"
	"github.com/yaklabco/bookpress/pkg/filter"
	"github.com/yaklabco/bookpress/pkg/filter/filters"
	"github.com/yaklabco/bookpress/pkg/fsutil"
	"github.com/yaklabco/bookpress/pkg/parser/goldmark"
	"github.com/yaklabco/bookpress/pkg/render"
)

// Builder runs builds for one configuration.
type Builder struct {
	cfg      *config.Config
	registry *filter.Registry
	parser   *goldmark.Parser
}

// NewBuilder creates a Builder. A nil registry gets the built-in
// filters.
func NewBuilder(cfg *config.Config, registry *filter.Registry) *Builder {
	if registry == nil {
		registry = filter.NewRegistry()
		filters.RegisterAll(registry)
	}
	return &Builder{
		cfg:      cfg,
		registry: registry,
		parser:   goldmark.New(),
	}
}

// Run executes the full pipeline and returns what was built.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)
	cfg := b.cfg

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}
	result.Stats.FilterChanges = make(map[string]int)

	meta, err := b.loadMetadata()
	if err != nil {
		return nil, err
	}

	var excl *ExclusionSet
	if cfg.RunExclusions {
		excl = NewExclusionSet()
		if err := excl.AddPatterns(cfg.Excludes...); err != nil {
			return nil, err
		}
		if cfg.ExclusionsFile != "" {
			if err := excl.LoadFile(cfg.ExclusionsFile, meta); err != nil {
				return nil, err
			}
		}
		for _, w := range excl.Warnings() {
			logger.Warn(w)
		}
		result.Warnings = append(result.Warnings, excl.Warnings()...)
	}

	col, err := Collate(ctx, cfg.SourceDir, excl)
	if err != nil {
		return nil, err
	}
	result.Stats.FilesCollated = len(col.Files)
	result.Stats.FilesExcluded = len(col.Excluded)
	logger.Info("manuscript collated",
		logging.FieldFilesCollated, len(col.Files),
		logging.FieldFilesExcluded, len(col.Excluded))

	if cfg.CheckTKs {
		report := AuditTKs(col)
		result.Stats.TKCount = report.Total
		if !report.Empty() {
			for _, f := range report.Files {
				logger.Warn("tk placeholders found",
					logging.FieldFile, f.Name,
					logging.FieldTKCount, f.Count,
					logging.FieldLine, f.Line)
			}
			result.Warnings = append(result.Warnings, report.Lines()...)
			if cfg.StopOnTKs {
				return nil, fmt.Errorf("%w: %d across %d files", ErrTKsFound, report.Total, len(report.Files))
			}
		}
	}

	text := col.Text

	if cfg.ProcessToC {
		var tocs int
		var warnings []string
		text, tocs, warnings = ProcessToCs(ctx, text)
		result.Stats.ToCsGenerated = tocs
		result.Warnings = append(result.Warnings, warnings...)
		if tocs > 0 {
			logger.Info("toc directives replaced", logging.FieldCount, tocs)
		}
	}

	if cfg.RunTransformations {
		ts := NewTransformSet()
		if cfg.TransformationsFile != "" {
			if err := ts.LoadFile(cfg.TransformationsFile, meta); err != nil {
				return nil, err
			}
		}
		plugins, err := LoadPlugins(ctx, cfg.PluginsDir)
		if err != nil {
			return nil, err
		}
		ts.Add(plugins...)
		for _, w := range ts.Warnings() {
			logger.Warn(w)
		}
		result.Warnings = append(result.Warnings, ts.Warnings()...)

		var applied int
		text, applied = ts.Apply(ctx, text)
		result.Stats.Transformations = applied
		if ts.Len() > 0 {
			logger.Info("transformations applied",
				logging.FieldCount, ts.Len(),
				logging.FieldReplacements, applied)
		}
	}

	if cfg.ReplacePlaceholders {
		var replaced int
		var warnings []string
		text, replaced, warnings = ReplacePlaceholders(ctx, text, meta)
		result.Stats.Placeholders = replaced
		result.Warnings = append(result.Warnings, warnings...)
	}

	baseName, err := resolveBaseName(cfg, meta)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	if cfg.RetainMaster {
		masterPath := filepath.Join(cfg.OutputDir, baseName+"-collated.md")
		written, err := fsutil.WriteAtomicIfChanged(ctx, masterPath, []byte(text), fsutil.DefaultFileMode)
		if err != nil {
			return nil, fmt.Errorf("writing collated master: %w", err)
		}
		if written {
			logger.Info("collated master retained", logging.FieldPath, masterPath)
		}
	}

	doc, err := b.parser.ParseBytes(ctx, []byte(text))
	if err != nil {
		return nil, err
	}

	engine := filter.NewEngine(b.registry)
	engine.Enable = cfg.Filters.Enable
	engine.Disable = cfg.Filters.Disable
	metaFlat := meta.Flat()

	for _, format := range cfg.Formats {
		tree := doctree.Clone(doc)

		fres, err := engine.Run(ctx, tree, format.String(), metaFlat)
		if err != nil {
			return nil, fmt.Errorf("filtering for %s: %w", format, err)
		}
		for name, n := range fres.ByFilter {
			result.Stats.FilterChanges[name] += n
		}

		renderer, err := render.New(format, render.Options{
			Meta:      meta,
			CSS:       cfg.CSSFor(format),
			PDFEngine: cfg.PDF.Engine,
		})
		if err != nil {
			return nil, err
		}
		data, err := renderer.Render(ctx, tree)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", format, err)
		}

		outPath := filepath.Join(cfg.OutputDir, format.OutputName(baseName))
		if err := fsutil.WriteAtomic(ctx, outPath, data, fsutil.DefaultFileMode); err != nil {
			return nil, fmt.Errorf("writing %s: %w", format, err)
		}

		if format == config.FormatHTML {
			unresolved, err := render.VerifyAnchors(data)
			if err != nil {
				return nil, fmt.Errorf("verifying %s: %w", format, err)
			}
			for _, w := range unresolved {
				logger.Warn(w, logging.FieldFormat, format)
			}
			result.Warnings = append(result.Warnings, unresolved...)
		}

		result.Outputs = append(result.Outputs, Output{
			Format: format,
			Path:   outPath,
			Bytes:  int64(len(data)),
		})
		logger.Info("format rendered",
			logging.FieldFormat, format,
			logging.FieldOutput, outPath,
			logging.FieldBytes, len(data))
	}

	for _, f := range col.Files {
		changed, err := fsutil.CheckModified(ctx, f.Info)
		if err != nil {
			continue
		}
		if changed {
			w := fmt.Sprintf("manuscript file %s changed during the build", f.Name)
			logger.Warn("manuscript changed during build", logging.FieldFile, f.Name)
			result.Warnings = append(result.Warnings, w)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// loadMetadata reads the configured metadata file and applies the
// language override. No configured file yields metadata holding only
// the injected date keys.
func (b *Builder) loadMetadata() (*config.Metadata, error) {
	var meta *config.Metadata
	if b.cfg.MetadataFile == "" {
		meta = config.NewMetadata(nil)
		meta.InjectDates(time.Now())
	} else {
		var err error
		meta, err = config.LoadMetadata(b.cfg.MetadataFile)
		if err != nil {
			return nil, err
		}
	}
	meta.ApplyLanguage(b.cfg.Language)
	return meta, nil
}

// resolveBaseName picks the output file basename: the configured name,
// the metadata basename key, or the slugified title with any subtitle
// appended.
func resolveBaseName(cfg *config.Config, meta *config.Metadata) (string, error) {
	if cfg.BaseName != "" {
		return cfg.BaseName, nil
	}
	if base := meta.BaseName(); base != "" {
		return base, nil
	}
	if title := meta.Title(); title != "" {
		if sub := meta.Subtitle(); sub != "" {
			title = title + " - " + sub
		}
		if slug := render.Slugify(title); slug != "" {
			return slug, nil
		}
	}
	return "", errors.New("no output basename: set output_basename, or a basename or title in metadata")
}

// Cancelled reports whether err is a context cancellation, so callers
// can tell an interrupted build from a failed one.
func Cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
