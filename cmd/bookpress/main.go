// Package main is the entry point for the bookpress CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/bookpress/internal/cli"
	"github.com/yaklabco/bookpress/internal/logging"
	"github.com/yaklabco/bookpress/pkg/book"

	// Import filters package to register built-in filters via init().
	_ "github.com/yaklabco/bookpress/pkg/filter/filters"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Build and execute the root command.
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// Don't log TK stops or cancellations - the build already
		// reported them, the error only picks the exit code.
		if !errors.Is(err, book.ErrTKsFound) && !book.Cancelled(err) {
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}

	return cli.ExitSuccess
}
