// Package configloader resolves the final bookpress configuration.
// It implements XDG-compliant configuration discovery, upward project
// config search, environment variable overrides, per-format options
// files, hierarchical merging and validation.
package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/bookpress/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, it replaces the discovered project config.
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// IgnoreFormatOptions skips per-format options files.
	IgnoreFormatOptions bool

	// CLI contains overrides from CLI flags. These take highest precedence.
	CLI *Overrides
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLI)
//  2. Environment variables (BOOKPRESS_*)
//  3. Per-format options files (options-<format>.yml beside the config)
//  4. Explicit config file (opts.ExplicitPath)
//  5. Project config (.bookpress.yml upward search)
//  6. User config ($XDG_CONFIG_HOME/bookpress/config.yml)
//  7. System config (/etc/bookpress/config.yml)
//  8. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{
		Paths: &ConfigPaths{},
	}

	// Resolve working directory
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	// Start with defaults
	cfg := config.DefaultConfig()

	// Discover config paths
	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	result.Paths = paths

	if opts.ExplicitPath != "" {
		result.Paths.Explicit = opts.ExplicitPath
	}

	// Load in order (lowest to highest precedence). Each file decodes
	// over the accumulated config: keys present in the file overwrite,
	// absent keys leave the earlier value alone. That lets a project
	// file set a default-true toggle to false.

	// 1. System config
	if !opts.IgnoreSystemConfig && paths.System != "" {
		if err := applyConfigFile(paths.System, cfg); err != nil {
			return nil, fmt.Errorf("load system config: %w", err)
		}
		result.LoadedFrom = append(result.LoadedFrom, paths.System)
	}

	// 2. User config
	if !opts.IgnoreUserConfig && paths.User != "" {
		if err := applyConfigFile(paths.User, cfg); err != nil {
			return nil, fmt.Errorf("load user config: %w", err)
		}
		result.LoadedFrom = append(result.LoadedFrom, paths.User)
	}

	// 3. Project config, or the explicit --config file in its place
	switch {
	case opts.ExplicitPath != "":
		if err := applyConfigFile(opts.ExplicitPath, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", opts.ExplicitPath, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, opts.ExplicitPath)
	case !opts.IgnoreProjectConfig && paths.Project != "":
		if err := applyConfigFile(paths.Project, cfg); err != nil {
			return nil, fmt.Errorf("load project config: %w", err)
		}
		result.LoadedFrom = append(result.LoadedFrom, paths.Project)
	}

	// 4. Environment variables
	envEngineSet := false
	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
		envEngineSet = os.Getenv(envVarPrefix+"PDF_ENGINE") != ""
	}

	// 5. CLI flags (highest precedence)
	if opts.CLI != nil {
		opts.CLI.Apply(cfg)
	}

	// Canonicalize format names so "ebook" in a config file and "epub"
	// on the command line mean the same build
	normalizeFormats(cfg, result)

	// 6. Options files are discovered last because the formats list is
	// not final until flags apply; the engine guard keeps them below an
	// env or CLI engine choice.
	if !opts.IgnoreFormatOptions {
		engineLocked := envEngineSet || (opts.CLI != nil && opts.CLI.PDFEngine != nil)
		if err := applyFormatOptions(cfg, optionsDir(paths, workDir), engineLocked, result); err != nil {
			return nil, err
		}
	}

	// Validate final configuration
	validation := Validate(cfg)
	if !validation.Valid() {
		// Return first error
		return nil, &validation.Errors[0]
	}

	// Add validation warnings to result
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	result.Config = cfg
	return result, nil
}

// optionsDir returns the directory searched for options-<format>.yml
// files: beside the primary config file, or the working directory when
// no config file exists.
func optionsDir(paths *ConfigPaths, workDir string) string {
	if primary := paths.Primary(); primary != "" {
		return filepath.Dir(primary)
	}
	return workDir
}

// applyConfigFile decodes a YAML config file over the accumulated
// configuration.
func applyConfigFile(path string, cfg *config.Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}

	return nil
}

// normalizeFormats canonicalizes the configured formats, resolving
// aliases like "ebook" and expanding the "all" pseudo-format. Unknown
// names are kept as-is so validation can report the field. Duplicates
// after normalization collapse with a warning.
func normalizeFormats(cfg *config.Config, result *LoadResult) {
	if len(cfg.Formats) == 0 {
		return
	}

	var normalized []config.Format
	seen := make(map[config.Format]bool, len(cfg.Formats))

	for _, f := range cfg.Formats {
		if strings.EqualFold(string(f), formatAll) {
			for _, known := range config.AllFormats() {
				if !seen[known] {
					seen[known] = true
					normalized = append(normalized, known)
				}
			}
			continue
		}

		canonical, ok := NormalizeFormat(string(f))
		if !ok {
			// Unknown format; keep it for validation to report.
			normalized = append(normalized, f)
			continue
		}

		if seen[canonical] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate format %q; building once", f))
			continue
		}
		seen[canonical] = true
		normalized = append(normalized, canonical)
	}

	cfg.Formats = normalized
}
