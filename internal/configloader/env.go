package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/bookpress/pkg/config"
)

// envVarPrefix is the prefix for all bookpress environment variables.
const envVarPrefix = "BOOKPRESS_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeFormats
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"SOURCE_DIR":      {field: "source_dir", typ: envTypeString},
	"OUTPUT_DIR":      {field: "output_dir", typ: envTypeString},
	"OUTPUT_BASENAME": {field: "output_basename", typ: envTypeString},
	"FORMATS":         {field: "formats", typ: envTypeFormats},
	"METADATA":        {field: "metadata", typ: envTypeString},
	"PLUGINS_DIR":     {field: "plugins_dir", typ: envTypeString},
	"PDF_ENGINE":      {field: "pdf.engine", typ: envTypeString},
	"LANGUAGE":        {field: "language", typ: envTypeString},
	"CHECK_TKS":       {field: "check_tks", typ: envTypeBool},
	"STOP_ON_TKS":     {field: "stop_on_tks", typ: envTypeBool},
	"PROCESS_TOC":     {field: "process_toc", typ: envTypeBool},
	"RETAIN_MASTER":   {field: "retain_master", typ: envTypeBool},
	"LOG_LEVEL":       {field: "log_level", typ: envTypeString},
	"COLOR":           {field: "color", typ: envTypeString},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with BOOKPRESS_ (e.g., BOOKPRESS_FORMATS).
// The conventional NO_COLOR variable (https://no-color.org) is honored
// unless BOOKPRESS_COLOR is set explicitly.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	if os.Getenv("NO_COLOR") != "" && os.Getenv(envVarPrefix+"COLOR") == "" {
		cfg.Color = config.ColorNever
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeFormats:
		formats, err := NormalizeFormats(parseListValue(value))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envVar, err)
		}
		cfg.Formats = formats
		return nil
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseListValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseListValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "source_dir":
		cfg.SourceDir = value
	case "output_dir":
		cfg.OutputDir = value
	case "output_basename":
		cfg.BaseName = value
	case "metadata":
		cfg.MetadataFile = value
	case "plugins_dir":
		cfg.PluginsDir = value
	case "pdf.engine":
		cfg.PDF.Engine = value
	case "language":
		cfg.Language = value
	case "log_level":
		cfg.LogLevel = value
	case "color":
		cfg.Color = config.ColorMode(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "check_tks":
		cfg.CheckTKs = value
	case "stop_on_tks":
		cfg.StopOnTKs = value
	case "process_toc":
		cfg.ProcessToC = value
	case "retain_master":
		cfg.RetainMaster = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns a list of all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"BOOKPRESS_SOURCE_DIR":      "Manuscript directory holding the chapter files",
		"BOOKPRESS_OUTPUT_DIR":      "Directory build artifacts are written to",
		"BOOKPRESS_OUTPUT_BASENAME": "Artifact basename (overrides metadata)",
		"BOOKPRESS_FORMATS":         "Comma-separated build formats: html, pdf, pdf-6x9, epub or all",
		"BOOKPRESS_METADATA":        "Book metadata file (JSON or YAML)",
		"BOOKPRESS_PLUGINS_DIR":     "Directory holding Go transformation plugins",
		"BOOKPRESS_PDF_ENGINE":      "PDF engine: weasyprint, prince or wkhtmltopdf",
		"BOOKPRESS_LANGUAGE":        "Language override for metadata (e.g. fr)",
		"BOOKPRESS_CHECK_TKS":       "Audit TK placeholders: true or false",
		"BOOKPRESS_STOP_ON_TKS":     "Abort the build when TKs are found: true or false",
		"BOOKPRESS_PROCESS_TOC":     "Expand {toc} directives: true or false",
		"BOOKPRESS_RETAIN_MASTER":   "Keep the collated master file: true or false",
		"BOOKPRESS_LOG_LEVEL":       "Log verbosity: debug, info, warn or error",
		"BOOKPRESS_COLOR":           "Color mode: auto, always or never",
	}
}
