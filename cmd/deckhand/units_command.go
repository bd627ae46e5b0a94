package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"deckhand/internal/workspace"
)

func newUnitsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the plugin units discovered in the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return fmt.Errorf("configuration unavailable")
			}

			units, err := workspace.Discover(cfg.Paths.WorkspaceDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(units) == 0 {
				fmt.Fprintf(out, "No plugin units found under %s\n", cfg.Paths.WorkspaceDir)
				return nil
			}

			rows := make([][]string, 0, len(units))
			for _, unit := range units {
				rows = append(rows, []string{unit.Name, unit.SourcePath})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Unit", "Source"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
