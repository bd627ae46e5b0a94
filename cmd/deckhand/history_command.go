package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"deckhand/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent deploy runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return fmt.Errorf("configuration unavailable")
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "History is disabled in the configuration")
				return nil
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list deploy runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No deploy runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.Platform,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					strconv.Itoa(run.Installed),
					strconv.Itoa(run.Skipped),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Platform", "Started", "Installed", "Skipped"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	historyCmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to show")
	historyCmd.AddCommand(newHistoryShowCommand(ctx))

	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show per-unit outcomes for one deploy run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return fmt.Errorf("configuration unavailable")
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "History is disabled in the configuration")
				return nil
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			units, err := store.UnitsForRun(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load run units: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(units) == 0 {
				fmt.Fprintf(out, "No units recorded for run %s\n", args[0])
				return nil
			}

			rows := make([][]string, 0, len(units))
			for _, unit := range units {
				rows = append(rows, []string{unit.Unit, unit.Outcome, unit.Reason})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Unit", "Outcome", "Reason"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
