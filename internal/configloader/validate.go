package configloader

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yaklabco/bookpress/pkg/config"
	"github.com/yaklabco/bookpress/pkg/filter"
	"github.com/yaklabco/bookpress/pkg/render"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "formats[1]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown filter names).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownLogLevels lists valid log level values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// metadataExtensions lists the metadata file extensions the loader can parse.
//
//nolint:gochecknoglobals // Read-only lookup table.
var metadataExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	// Validate source_dir
	if cfg.SourceDir == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "source_dir",
			Value:   cfg.SourceDir,
			Message: "manuscript directory is required",
		})
	}

	// Validate formats
	if len(cfg.Formats) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "formats",
			Value:   cfg.Formats,
			Message: "at least one build format is required",
		})
	}
	for i, f := range cfg.Formats {
		if !f.IsValid() {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("formats[%d]", i),
				Value:   f,
				Message: fmt.Sprintf("invalid format %q; must be one of: html, pdf, pdf-6x9, epub", f),
			})
		}
	}

	// Validate format_css keys
	for name := range cfg.FormatCSS {
		if !config.Format(name).IsValid() {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "format_css." + name,
				Value:   name,
				Message: fmt.Sprintf("invalid format %q; must be one of: html, pdf, pdf-6x9, epub", name),
			})
		}
	}

	// Validate pdf.engine
	if cfg.PDF.Engine != "" && !isKnownEngine(cfg.PDF.Engine) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "pdf.engine",
			Value:   cfg.PDF.Engine,
			Message: fmt.Sprintf("unknown pdf engine %q; must be one of: %s", cfg.PDF.Engine, strings.Join(render.EngineNames(), ", ")),
		})
	}

	// Validate log_level
	if cfg.LogLevel != "" && !knownLogLevels[cfg.LogLevel] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	// Validate color
	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	// Validate metadata file extension
	if cfg.MetadataFile != "" {
		ext := strings.ToLower(filepath.Ext(cfg.MetadataFile))
		if !metadataExtensions[ext] {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "metadata",
				Value:   cfg.MetadataFile,
				Message: fmt.Sprintf("unrecognized metadata extension %q; expected .json, .yaml or .yml", ext),
			})
		}
	}

	// Validate filter names
	validateFilters(cfg, result)

	// Validate exclusion patterns
	validateExcludePatterns(cfg, result)

	return result
}

// validateFilters warns about filter names not present in the registry.
func validateFilters(cfg *config.Config, result *ValidationResult) {
	registry := filter.DefaultRegistry

	check := func(field string, names []string) {
		for i, name := range names {
			if _, exists := registry.Get(name); !exists {
				result.Warnings = append(result.Warnings, ValidationError{
					Field:   fmt.Sprintf("%s[%d]", field, i),
					Value:   name,
					Message: fmt.Sprintf("unknown filter %q; it will be ignored", name),
				})
			}
		}
	}

	check("filters.enable", cfg.Filters.Enable)
	check("filters.disable", cfg.Filters.Disable)
}

// validateExcludePatterns checks that --exclude patterns are valid regexps.
func validateExcludePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Excludes {
		if _, err := regexp.Compile(pattern); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("exclude[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	// Add file path to all errors and warnings
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// isKnownEngine returns true if the PDF engine name is supported.
func isKnownEngine(name string) bool {
	for _, known := range render.EngineNames() {
		if name == known {
			return true
		}
	}
	return false
}

// IsValidLogLevel returns true if the log level string is valid.
func IsValidLogLevel(level string) bool {
	return knownLogLevels[level]
}
