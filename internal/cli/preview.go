package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/bookpress/internal/configloader"
	"github.com/yaklabco/bookpress/internal/logging"
	"github.com/yaklabco/bookpress/internal/ui/pretty"
	"github.com/yaklabco/bookpress/pkg/book"
	"github.com/yaklabco/bookpress/pkg/config"
)

type previewFlags struct {
	input string
	raw   bool
	width int
}

func newPreviewCommand() *cobra.Command {
	flags := &previewFlags{}

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Render the collated manuscript to the terminal",
		Long: `Collate the manuscript like a build would and render it styled to the
terminal, without writing any output files.

Exclusion rules apply, so the preview shows the chapters a build would
include. TK placeholders found by the audit are reported on stderr.

Examples:
  bookpress preview                    # Preview the whole manuscript
  bookpress preview ch01.md            # Preview one chapter
  bookpress preview --raw | less       # Collated Markdown, unstyled
  bookpress preview --width 72         # Fixed wrap width`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "manuscript", "manuscript directory to collate")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print collated Markdown without terminal rendering")
	cmd.Flags().IntVar(&flags.width, "width", 0, "wrap width (0 = detect from the terminal)")

	return cmd
}

func runPreview(cmd *cobra.Command, args []string, flags *previewFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	overrides := &configloader.Overrides{}
	if cmd.Flags().Changed("input") {
		overrides.SourceDir = &flags.input
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLI:          overrides,
	})
	if err != nil {
		return errors.Join(ErrConfigLoad, err)
	}
	cfg := loadResult.Config

	// A preview tolerates what a build treats as fatal: a missing
	// metadata or rules file degrades the preview instead of blocking
	// it.
	meta := previewMetadata(cfg, logger)

	var excl *book.ExclusionSet
	if cfg.RunExclusions {
		excl = book.NewExclusionSet()
		if err := excl.AddPatterns(cfg.Excludes...); err != nil {
			return err
		}
		if cfg.ExclusionsFile != "" {
			if err := excl.LoadFile(cfg.ExclusionsFile, meta); err != nil {
				logger.Warn("previewing without exclusion rules", logging.FieldError, err)
			}
		}
	}

	col, err := book.Collate(ctx, cfg.SourceDir, excl)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), errOut))

	if excl != nil {
		fmt.Fprint(errOut, styles.FormatWarnings(excl.Warnings()))
	}

	if cfg.CheckTKs {
		if report := book.AuditTKs(col); !report.Empty() {
			fmt.Fprintln(errOut, styles.FormatTKHeader(report))
			fmt.Fprint(errOut, styles.FormatTKReport(report))
		}
	}

	text := col.Text
	if len(args) == 1 {
		text, err = collatedFile(col, args[0])
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if flags.raw {
		fmt.Fprint(out, text)
		return nil
	}

	width := flags.width
	if width <= 0 {
		width = terminalWidth(out)
	}
	fmt.Fprint(out, pretty.RenderMarkdown(text, width))

	return nil
}

// previewMetadata loads the configured metadata for rule substitution,
// falling back to date-only metadata when the file cannot be read.
func previewMetadata(cfg *config.Config, logger *log.Logger) *config.Metadata {
	if cfg.MetadataFile == "" {
		meta := config.NewMetadata(nil)
		meta.InjectDates(time.Now())
		return meta
	}

	meta, err := config.LoadMetadata(cfg.MetadataFile)
	if err != nil {
		logger.Warn("previewing without metadata", logging.FieldError, err)
		meta = config.NewMetadata(nil)
		meta.InjectDates(time.Now())
	}
	meta.ApplyLanguage(cfg.Language)
	return meta
}

// collatedFile returns the content of one collated manuscript file,
// matched by base name with or without its extension.
func collatedFile(col *book.Collation, name string) (string, error) {
	for _, f := range col.Files {
		if f.Name == name || strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) == name {
			return string(f.Content), nil
		}
	}
	return "", fmt.Errorf("%w: %s is not part of the collated manuscript", ErrUsage, name)
}

// terminalWidth reports the width of the terminal behind writer, or 0
// when writer is not a terminal. RenderMarkdown treats 0 as its
// default width.
func terminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return 0
}
