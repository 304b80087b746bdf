package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bookpress/internal/ui/pretty"
	"github.com/yaklabco/bookpress/pkg/filter"
	_ "github.com/yaklabco/bookpress/pkg/filter/filters" // Register built-in filters
)

const formatJSON = "json"

// filterInfo represents a filter in JSON output.
type filterInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

func newFiltersCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "List available node filters",
		Long: `List the registered node filters with their descriptions and whether
they run by default. Enable or disable filters per build with the
build command's --enable and --disable flags, or in the config file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registered := filter.DefaultRegistry.Filters()

			if format == formatJSON {
				return outputFiltersJSON(cmd, registered)
			}

			colorMode, err := cmd.Flags().GetString("color")
			if err != nil {
				colorMode = "auto"
			}
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))

			rows := make([][]string, 0, len(registered))
			for _, f := range registered {
				enabled := "-"
				if f.DefaultEnabled() {
					enabled = "on"
				}
				rows = append(rows, []string{f.Name(), enabled, f.Description()})
			}

			fmt.Fprint(cmd.OutOrStdout(),
				styles.FormatColumns([]string{"NAME", "DEFAULT", "DESCRIPTION"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

// outputFiltersJSON outputs filters as a JSON array.
func outputFiltersJSON(cmd *cobra.Command, registered []filter.Filter) error {
	infos := make([]filterInfo, 0, len(registered))
	for _, f := range registered {
		infos = append(infos, filterInfo{
			Name:        f.Name(),
			Description: f.Description(),
			Default:     f.DefaultEnabled(),
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}
	return nil
}
