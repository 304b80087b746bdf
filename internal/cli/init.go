package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/bookpress/internal/logging"
	"github.com/yaklabco/bookpress/pkg/config"
	"github.com/yaklabco/bookpress/pkg/fsutil"
)

// configFilePermissions is the file mode for generated project files
// (world-readable).
const configFilePermissions = 0644

// initFlags holds the flags for the init command.
type initFlags struct {
	force          bool
	output         string
	metadata       bool
	metadataFormat string
	title          string
	author         string
	rules          bool
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a bookpress project",
		Long: `Create a commented .bookpress.yml configuration file in the current
directory. Starter metadata and rule files are opt-in and are created
next to the config file.

Examples:
  bookpress init                         Create .bookpress.yml
  bookpress init --metadata              Also create metadata.json
  bookpress init --metadata --title "My Book" --author "Jane Doe"
  bookpress init --metadata-format yaml  Metadata as metadata.yaml
  bookpress init --rules                 Also create starter rule files
  bookpress init --force                 Overwrite existing files, with backups`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite existing files, keeping a backup")
	cmd.Flags().StringVarP(&flags.output, "output", "o", ".bookpress.yml", "config file path")
	cmd.Flags().BoolVar(&flags.metadata, "metadata", false, "also create a starter metadata file")
	cmd.Flags().StringVar(&flags.metadataFormat, "metadata-format", "json", "metadata file format: json or yaml")
	cmd.Flags().StringVar(&flags.title, "title", "", "book title for the starter metadata")
	cmd.Flags().StringVar(&flags.author, "author", "", "author for the starter metadata")
	cmd.Flags().BoolVar(&flags.rules, "rules", false, "also create starter transformation and exclusion rule files")

	return cmd
}

// starterFile is one file the init command writes.
type starterFile struct {
	path    string
	content []byte
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Companion files go next to the config file, wherever that is.
	baseDir := filepath.Dir(flags.output)

	files := []starterFile{
		{path: flags.output, content: config.ConfigTemplate()},
	}

	if flags.metadata {
		content, err := config.MetadataTemplate(config.TemplateOptions{
			MetadataFormat: flags.metadataFormat,
			Title:          flags.title,
			Author:         flags.author,
		})
		if err != nil {
			return errors.Join(ErrUsage, err)
		}

		name := "metadata.json"
		if flags.metadataFormat == "yaml" {
			name = "metadata.yaml"
		}
		files = append(files, starterFile{path: filepath.Join(baseDir, name), content: content})
	}

	if flags.rules {
		files = append(files,
			starterFile{path: filepath.Join(baseDir, "transformations.tsv"), content: config.TransformationsTemplate()},
			starterFile{path: filepath.Join(baseDir, "exclusions.tsv"), content: config.ExclusionsTemplate()},
		)
	}

	for _, file := range files {
		if err := writeStarter(ctx, logger, file, flags.force); err != nil {
			return err
		}
	}

	logger.Info("put your chapter files in the manuscript directory")
	logger.Info("run 'bookpress build' to build the book")

	return nil
}

// writeStarter writes one starter file. An existing file is refused
// unless force is set, in which case a sidecar backup is taken first.
func writeStarter(ctx context.Context, logger *log.Logger, file starterFile, force bool) error {
	absPath, err := filepath.Abs(file.path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", file.path)
		}

		backedUp, err := fsutil.CreateBackup(ctx, absPath, fsutil.BackupConfig{
			Enabled: true,
			Mode:    fsutil.BackupModeSidecar,
		})
		if err != nil {
			return fmt.Errorf("back up %s: %w", file.path, err)
		}

		if backedUp {
			logger.Warn("overwriting existing file",
				logging.FieldPath, file.path,
				"backup", fsutil.BackupPath(absPath, fsutil.BackupModeSidecar))
		} else {
			logger.Warn("overwriting existing file", logging.FieldPath, file.path)
		}
	}

	if err := os.WriteFile(absPath, file.content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created", logging.FieldPath, file.path)
	return nil
}
