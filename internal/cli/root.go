// Package cli provides the Cobra command structure for bookpress.
package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bookpress/internal/configloader"
	"github.com/yaklabco/bookpress/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root bookpress command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var logLevel string
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "bookpress",
		Short: "Build ebooks and print-ready books from a Markdown manuscript",
		Long: `bookpress collates a directory of Markdown chapter files into a single
manuscript and renders it as HTML, full-page PDF, 6x9" trim PDF, and EPUB.

Along the way it runs the manuscript through text transformations,
placeholder substitution, table-of-contents expansion, TK audits and a
filter pipeline, so the same chapter files can feed a website, a print
proof and an ebook store without manual cleanup.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			switch {
			case debug:
				logging.SetLevel("debug")
			case logLevel != "":
				logging.SetLevel(logLevel)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log verbosity: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Flag parse failures are usage errors, not internal ones.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Join(ErrUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newFiltersCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))
	rootCmd.AddCommand(newEnvironmentTopic())

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// newEnvironmentTopic adds a help-only topic listing the BOOKPRESS_*
// environment variables. It has no Run func, so Cobra files it under
// additional help topics instead of runnable commands.
func newEnvironmentTopic() *cobra.Command {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Every configuration key can be set through the environment.\n")
	b.WriteString("Environment variables rank above config files and below flags.\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-28s %s\n", name, vars[name])
	}
	b.WriteString("\nNO_COLOR disables styled output unless BOOKPRESS_COLOR is set.")

	return &cobra.Command{
		Use:   "environment",
		Short: "Environment variables recognized by bookpress",
		Long:  b.String(),
	}
}
