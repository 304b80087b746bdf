package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bookpress/internal/logging"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of bookpress.`,
		Run: func(_ *cobra.Command, _ []string) {
			logging.NewInteractive().Info("bookpress",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				"go", runtime.Version(),
			)
		},
	}
}
