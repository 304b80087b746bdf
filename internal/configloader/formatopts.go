package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/bookpress/pkg/config"
)

// FormatOptions holds build options loaded from an options file beside
// the project config. options-shared.yml applies to every format;
// options-<format>.yml applies to one. The renderer's tunable surface is
// small, so the file shape is too: stylesheets append, the engine
// overrides.
type FormatOptions struct {
	// CSS lists stylesheet paths appended to the format's stylesheet set.
	CSS []string `yaml:"css"`

	// PDFEngine overrides the PDF engine. Only meaningful for pdf formats.
	PDFEngine string `yaml:"pdf_engine"`
}

// LoadFormatOptions parses a format options file.
func LoadFormatOptions(path string) (*FormatOptions, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	opts := &FormatOptions{}
	if err := yaml.Unmarshal(content, opts); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return opts, nil
}

// applyFormatOptions discovers and merges options files for the
// configured formats into cfg. The shared file contributes to the global
// stylesheet list, per-format files to the format's extras. pdf-6x9
// shares options-pdf.yml when it has no file of its own.
//
// engineLocked suppresses pdf_engine overrides when a higher-precedence
// source (environment or CLI) already chose the engine.
func applyFormatOptions(cfg *config.Config, dir string, engineLocked bool, result *LoadResult) error {
	if dir == "" {
		return nil
	}

	// engineFrom remembers which per-format file set the engine, so two
	// format files disagreeing warn instead of silently racing. A format
	// file overriding the shared file is normal cascade order and stays
	// silent.
	engineFrom := ""

	setEngine := func(path, engine string) {
		if engineLocked {
			return
		}
		if engineFrom != "" && cfg.PDF.Engine != engine {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s sets pdf_engine %q but %s already set %q; using %q",
					path, engine, engineFrom, cfg.PDF.Engine, engine))
		}
		cfg.PDF.Engine = engine
		engineFrom = path
	}

	if path := FindSharedOptions(dir); path != "" {
		opts, err := LoadFormatOptions(path)
		if err != nil {
			return fmt.Errorf("load shared options %s: %w", path, err)
		}
		cfg.CSS = append(cfg.CSS, opts.CSS...)
		if opts.PDFEngine != "" && !engineLocked {
			cfg.PDF.Engine = opts.PDFEngine
		}
		result.LoadedFrom = append(result.LoadedFrom, path)
	}

	for _, format := range cfg.Formats {
		path := FindFormatOptions(dir, format)
		if path == "" && format == config.FormatPDF6x9 {
			// The trim variant is the same engine run with an extra
			// stylesheet, so it borrows the pdf options.
			path = FindFormatOptions(dir, config.FormatPDF)
		}
		if path == "" {
			continue
		}

		opts, err := LoadFormatOptions(path)
		if err != nil {
			return fmt.Errorf("load format options %s: %w", path, err)
		}

		if len(opts.CSS) > 0 {
			if cfg.FormatCSS == nil {
				cfg.FormatCSS = make(map[string][]string)
			}
			key := format.String()
			cfg.FormatCSS[key] = append(cfg.FormatCSS[key], opts.CSS...)
		}

		if opts.PDFEngine != "" {
			if format.IsPDF() {
				setEngine(path, opts.PDFEngine)
			} else {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: pdf_engine has no effect for format %s", path, format))
			}
		}

		result.LoadedFrom = append(result.LoadedFrom, path)
	}

	return nil
}
