package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"deckhand/internal/bundler"
	"deckhand/internal/config"
	"deckhand/internal/history"
	"deckhand/internal/install"
	"deckhand/internal/logging"
	"deckhand/internal/pipeline"
	"deckhand/internal/platform"
	"deckhand/internal/workspace"
)

func newDeployCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Build every plugin unit and install the bundles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return fmt.Errorf("configuration unavailable")
			}
			return runDeploy(cmd.Context(), cfg, runtime.GOOS, cmd.OutOrStdout())
		},
	}
}

func runDeploy(ctx context.Context, cfg *config.Config, goos string, out io.Writer) error {
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "deckhand.log")},
	})
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	root, err := platform.Resolve(goos)
	if err != nil {
		return err
	}

	lock := flock.New(cfg.LockFilePath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire deploy lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another deploy is already running (lock file %s)", cfg.LockFilePath())
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("failed to release deploy lock", logging.Error(unlockErr))
		}
	}()

	manager, err := install.NewManager(root, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Installing to %s\n", manager.Root())

	if err := manager.Prepare(); err != nil {
		return err
	}

	units, err := workspace.Discover(cfg.Paths.WorkspaceDir)
	if err != nil {
		return err
	}

	client, err := bundler.New(cfg, logger)
	if err != nil {
		return err
	}

	driver := pipeline.NewDriver(client, manager, logger)
	result := driver.Run(ctx, root, units)

	recordHistory(ctx, cfg, logger, result)
	printSummary(out, result)
	return nil
}

// recordHistory persists the run outcome on a best-effort basis. A broken
// history database never fails a deploy that already completed.
func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, result pipeline.RunResult) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("history store unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	run := history.RunRecord{
		ID:          result.RunID,
		Platform:    string(result.Platform),
		InstallRoot: result.InstallRoot,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
		Installed:   len(result.Installed),
		Skipped:     len(result.Skipped),
	}
	units := make([]history.UnitRecord, 0, len(result.Installed)+len(result.Skipped))
	for _, name := range result.Installed {
		units = append(units, history.UnitRecord{Unit: name, Outcome: history.OutcomeInstalled})
	}
	for _, skip := range result.Skipped {
		units = append(units, history.UnitRecord{Unit: skip.Unit, Outcome: history.OutcomeSkipped, Reason: skip.Reason})
	}
	if err := store.RecordRun(ctx, run, units); err != nil {
		logger.Warn("failed to record deploy history", logging.Error(err))
	}
}

func printSummary(out io.Writer, result pipeline.RunResult) {
	fmt.Fprintf(out, "Installed %d, skipped %d\n", len(result.Installed), len(result.Skipped))

	rows := make([][]string, 0, len(result.Installed)+len(result.Skipped))
	for _, name := range result.Installed {
		rows = append(rows, []string{name, "installed", ""})
	}
	for _, skip := range result.Skipped {
		rows = append(rows, []string{skip.Unit, "skipped", skip.Reason})
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No plugin units found")
		return
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Unit", "Status", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))
}
