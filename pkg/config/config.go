// Package config defines core configuration types for bookpress.
// These types are pure data structures with no external dependencies on Viper or other config loaders.
package config

import (
	"fmt"
	"os"
)

// ColorMode controls when styled terminal output is produced.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is valid.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// FiltersConfig controls which document filters run during a build.
// Disable wins over Enable; filters named in neither list fall back to
// their registered default.
type FiltersConfig struct {
	Enable  []string `mapstructure:"enable" yaml:"enable"`
	Disable []string `mapstructure:"disable" yaml:"disable"`
}

// PDFConfig configures the external PDF engine.
type PDFConfig struct {
	// Engine names the CSS-paginating engine ("weasyprint", "prince",
	// "wkhtmltopdf"). Empty means detect the first available.
	Engine string `mapstructure:"engine" yaml:"engine"`
}

// Config is the root configuration structure for bookpress.
type Config struct {
	// SourceDir is the manuscript directory holding the chapter files.
	SourceDir string `mapstructure:"source_dir" yaml:"source_dir"`

	// OutputDir is the directory build artifacts are written to.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// BaseName is the artifact basename ("book" produces book.html,
	// book.pdf, book-6x9.pdf, book.epub). Empty means resolve from
	// metadata: the basename key, or the slugified title.
	BaseName string `mapstructure:"output_basename" yaml:"output_basename"`

	// Formats lists the build targets, in build order.
	Formats []Format `mapstructure:"formats" yaml:"formats"`

	// MetadataFile is the book metadata file (JSON or YAML by extension).
	MetadataFile string `mapstructure:"metadata" yaml:"metadata"`

	// ExclusionsFile is the TSV exclusion rule file. Empty skips file rules.
	ExclusionsFile string `mapstructure:"exclusions" yaml:"exclusions"`

	// TransformationsFile is the TSV transformation rule file.
	TransformationsFile string `mapstructure:"transformations" yaml:"transformations"`

	// PluginsDir holds Go transformation plugins. Empty skips plugins.
	PluginsDir string `mapstructure:"plugins_dir" yaml:"plugins_dir"`

	// CSS lists stylesheet paths applied to every format.
	CSS []string `mapstructure:"css" yaml:"css"`

	// FormatCSS lists extra stylesheet paths per format, keyed by
	// format name.
	FormatCSS map[string][]string `mapstructure:"format_css" yaml:"format_css"`

	// PDF configures the external PDF engine.
	PDF PDFConfig `mapstructure:"pdf" yaml:"pdf"`

	// Language overrides the metadata language and activates
	// language-suffixed metadata keys (title_fr overrides title).
	Language string `mapstructure:"language" yaml:"language"`

	// CheckTKs enables the editorial TK placeholder audit.
	CheckTKs bool `mapstructure:"check_tks" yaml:"check_tks"`

	// StopOnTKs aborts the build when the audit finds TK placeholders.
	StopOnTKs bool `mapstructure:"stop_on_tks" yaml:"stop_on_tks"`

	// ProcessToC expands {toc} directives in the manuscript.
	ProcessToC bool `mapstructure:"process_toc" yaml:"process_toc"`

	// RunTransformations applies transformation rules and plugins.
	RunTransformations bool `mapstructure:"run_transformations" yaml:"run_transformations"`

	// RunExclusions applies exclusion rules during collation.
	RunExclusions bool `mapstructure:"run_exclusions" yaml:"run_exclusions"`

	// ReplacePlaceholders substitutes %key% metadata placeholders.
	ReplacePlaceholders bool `mapstructure:"replace_placeholders" yaml:"replace_placeholders"`

	// RetainMaster writes the collated manuscript
	// (<basename>-collated.md) alongside the outputs.
	RetainMaster bool `mapstructure:"retain_master" yaml:"retain_master"`

	// Filters controls which document filters run.
	Filters FiltersConfig `mapstructure:"filters" yaml:"filters"`

	// LogLevel sets logging verbosity ("debug", "info", "warn", "error").
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Color controls styled terminal output.
	Color ColorMode `mapstructure:"color" yaml:"color"`

	// CLI-level options (not persisted to config files).

	// Excludes contains extra filename exclusion regexes from --exclude.
	Excludes []string `mapstructure:"-" yaml:"-"`

	// Quiet suppresses the build summary.
	Quiet bool `mapstructure:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SourceDir:           "manuscript",
		OutputDir:           "build",
		Formats:             []Format{FormatEPUB, FormatPDF},
		MetadataFile:        "metadata.json",
		CheckTKs:            true,
		StopOnTKs:           false,
		ProcessToC:          true,
		RunTransformations:  true,
		RunExclusions:       true,
		ReplacePlaceholders: true,
		RetainMaster:        false,
		LogLevel:            "info",
		Color:               ColorAuto,
	}
}

// Validate checks the configuration for field-level errors.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source_dir: manuscript directory is required")
	}
	if len(c.Formats) == 0 {
		return fmt.Errorf("formats: at least one build format is required")
	}
	for _, f := range c.Formats {
		if !f.IsValid() {
			return fmt.Errorf("formats: unknown format %q", f)
		}
	}
	for name := range c.FormatCSS {
		if !Format(name).IsValid() {
			return fmt.Errorf("format_css: unknown format %q", name)
		}
	}
	if c.Color != "" && !c.Color.IsValid() {
		return fmt.Errorf("color: must be auto, always or never, got %q", c.Color)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	return nil
}

// CSSFor returns the stylesheet paths for a format: the global list
// followed by the format's extras.
func (c *Config) CSSFor(format Format) []string {
	css := make([]string, 0, len(c.CSS)+len(c.FormatCSS[format.String()]))
	css = append(css, c.CSS...)
	css = append(css, c.FormatCSS[format.String()]...)
	return css
}

// SourceDirExists reports whether the manuscript directory is present
// and is a directory.
func (c *Config) SourceDirExists() bool {
	info, err := os.Stat(c.SourceDir)
	return err == nil && info.IsDir()
}
