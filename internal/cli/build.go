package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bookpress/internal/configloader"
	"github.com/yaklabco/bookpress/internal/logging"
	"github.com/yaklabco/bookpress/internal/ui/pretty"
	"github.com/yaklabco/bookpress/pkg/book"
	"github.com/yaklabco/bookpress/pkg/config"
)

type buildFlags struct {
	input               string
	formats             []string
	metadata            string
	baseName            string
	outputDir           string
	excludes            []string
	exclusionsFile      string
	transformationsFile string
	pluginsDir          string
	css                 []string
	pdfEngine           string
	language            string
	checkTKs            bool
	stopOnTKs           bool
	processToC          bool
	runTransformations  bool
	runExclusions       bool
	replacePlaceholders bool
	retainMaster        bool
	enable              []string
	disable             []string
	quiet               bool
}

func newBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the manuscript into the configured formats",
		Long:  buildLongDescription(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, flags)
		},
	}

	addBuildFlags(cmd, flags)

	return cmd
}

// buildLongDescription lists the build formats with their accepted
// aliases, so help stays correct when a format is added.
func buildLongDescription() string {
	var b strings.Builder
	b.WriteString(`Collate the manuscript directory into a single Markdown text and
render it as each requested format.

Before rendering, the build applies exclusions, audits TK placeholders,
expands {toc} directives, runs transformation rules and plugins, and
substitutes %key% metadata placeholders.

Formats (aliases in parentheses):
`)

	for _, format := range config.AllFormats() {
		aliases := configloader.AliasesForFormat(format)
		sort.Strings(aliases)
		if len(aliases) > 0 {
			fmt.Fprintf(&b, "  %-8s (%s)\n", format, strings.Join(aliases, ", "))
		} else {
			fmt.Fprintf(&b, "  %s\n", format)
		}
	}

	b.WriteString(`  all      (every format above)

Examples:
  bookpress build                          # Build configured formats
  bookpress build -f html                  # Build one format
  bookpress build -f all --stop-on-tks     # Everything, abort on TKs
  bookpress build -i drafts -o mybook      # Other source dir, fixed basename
  bookpress build --quiet                  # One-line result`)

	return b.String()
}

func runBuild(cmd *cobra.Command, flags *buildFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	// Get working directory for config discovery.
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadOpts := configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLI:          buildOverrides(cmd, flags),
	}

	loadResult, err := configloader.Load(ctx, loadOpts)
	if err != nil {
		return errors.Join(ErrConfigLoad, err)
	}

	cfg := loadResult.Config

	// The configured log level applies unless a flag already chose one.
	if !cmd.Flags().Changed("debug") && !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
		logging.SetLevel(cfg.LogLevel)
	}
	if cfg.Quiet {
		logging.SetLevel("warn")
	}

	// Log warnings from config loading.
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	// Log loaded configuration files.
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	logger.Debug("configuration loaded",
		"source_dir", cfg.SourceDir,
		"output_dir", cfg.OutputDir,
		"formats", cfg.Formats,
		"pdf_engine", cfg.PDF.Engine,
	)

	builder := book.NewBuilder(cfg, nil)

	result, err := builder.Run(logging.WithLogger(ctx, logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), out))
	if cfg.Quiet {
		fmt.Fprint(out, styles.FormatSummaryOneLine(result))
	} else {
		fmt.Fprint(out, styles.FormatSummary(result))
	}

	return nil
}

// buildOverrides converts explicitly-set flags into loader overrides.
// Only flags the user changed participate, so flag defaults cannot
// clobber config file values.
func buildOverrides(cmd *cobra.Command, flags *buildFlags) *configloader.Overrides {
	overrides := &configloader.Overrides{}
	set := cmd.Flags()

	if set.Changed("input") {
		overrides.SourceDir = &flags.input
	}
	if set.Changed("formats") {
		formats := make([]config.Format, 0, len(flags.formats))
		for _, f := range flags.formats {
			// Raw cast: the loader canonicalizes aliases and "all".
			formats = append(formats, config.Format(f))
		}
		overrides.Formats = formats
	}
	if set.Changed("metadata") {
		overrides.MetadataFile = &flags.metadata
	}
	if set.Changed("output-basename") {
		overrides.BaseName = &flags.baseName
	}
	if set.Changed("output-dir") {
		overrides.OutputDir = &flags.outputDir
	}
	if set.Changed("exclude") {
		overrides.Excludes = flags.excludes
	}
	if set.Changed("exclusions-file") {
		overrides.ExclusionsFile = &flags.exclusionsFile
	}
	if set.Changed("transformations-file") {
		overrides.TransformationsFile = &flags.transformationsFile
	}
	if set.Changed("plugins-dir") {
		overrides.PluginsDir = &flags.pluginsDir
	}
	if set.Changed("css") {
		overrides.CSS = flags.css
	}
	if set.Changed("pdf-engine") {
		overrides.PDFEngine = &flags.pdfEngine
	}
	if set.Changed("lang") {
		overrides.Language = &flags.language
	}

	if set.Changed("check-tks") {
		overrides.CheckTKs = &flags.checkTKs
	}
	if set.Changed("stop-on-tks") {
		overrides.StopOnTKs = &flags.stopOnTKs
	}
	if set.Changed("process-toc") {
		overrides.ProcessToC = &flags.processToC
	}
	if set.Changed("run-transformations") {
		overrides.RunTransformations = &flags.runTransformations
	}
	if set.Changed("run-exclusions") {
		overrides.RunExclusions = &flags.runExclusions
	}
	if set.Changed("replace-placeholders") {
		overrides.ReplacePlaceholders = &flags.replacePlaceholders
	}
	if set.Changed("retain-collated-master") {
		overrides.RetainMaster = &flags.retainMaster
	}

	if set.Changed("enable") {
		overrides.EnableFilters = flags.enable
	}
	if set.Changed("disable") {
		overrides.DisableFilters = flags.disable
	}
	if set.Changed("quiet") {
		overrides.Quiet = &flags.quiet
	}

	// Persistent flags merged down from the root command.
	if set.Changed("log-level") {
		if level, err := set.GetString("log-level"); err == nil {
			overrides.LogLevel = &level
		}
	}
	if set.Changed("color") {
		if color, err := set.GetString("color"); err == nil {
			overrides.Color = &color
		}
	}

	return overrides
}

func addBuildFlags(cmd *cobra.Command, flags *buildFlags) {
	cmd.Flags().StringVarP(&flags.input, "input", "i", "manuscript", "manuscript directory to collate")
	cmd.Flags().StringSliceVarP(&flags.formats, "formats", "f", nil,
		"formats to build: html, pdf, pdf-6x9, epub or all")
	cmd.Flags().StringVarP(&flags.metadata, "metadata", "j", "metadata.json", "book metadata file (JSON or YAML)")
	cmd.Flags().StringVarP(&flags.baseName, "output-basename", "o", "",
		"output file basename (defaults to the metadata basename or title)")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "build", "directory to write outputs to")
	cmd.Flags().StringArrayVarP(&flags.excludes, "exclude", "e", nil,
		"filename pattern (regexp) to exclude (repeatable)")
	cmd.Flags().StringVar(&flags.exclusionsFile, "exclusions-file", "", "TSV file of conditional exclusion rules")
	cmd.Flags().StringVar(&flags.transformationsFile, "transformations-file", "", "TSV file of transformation rules")
	cmd.Flags().StringVar(&flags.pluginsDir, "plugins-dir", "", "directory of Go transformation plugins")
	cmd.Flags().StringArrayVar(&flags.css, "css", nil, "stylesheet for rendered formats (repeatable)")
	cmd.Flags().StringVar(&flags.pdfEngine, "pdf-engine", "", "PDF engine: weasyprint, prince, wkhtmltopdf")
	cmd.Flags().StringVarP(&flags.language, "lang", "l", "", "language override for metadata (e.g. fr)")
	cmd.Flags().BoolVar(&flags.checkTKs, "check-tks", true, "audit TK placeholders before rendering")
	cmd.Flags().BoolVar(&flags.stopOnTKs, "stop-on-tks", false, "abort the build when TKs are found")
	cmd.Flags().BoolVar(&flags.processToC, "process-toc", true, "expand {toc} directives")
	cmd.Flags().BoolVar(&flags.runTransformations, "run-transformations", true, "apply transformation rules and plugins")
	cmd.Flags().BoolVar(&flags.runExclusions, "run-exclusions", true, "apply exclusion patterns and rules")
	cmd.Flags().BoolVar(&flags.replacePlaceholders, "replace-placeholders", true, "substitute %key% metadata placeholders")
	cmd.Flags().BoolVar(&flags.retainMaster, "retain-collated-master", false, "keep the collated master Markdown file")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "filter names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "filter names to disable")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "print a single result line instead of the summary")
}
