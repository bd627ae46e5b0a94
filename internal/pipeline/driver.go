package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"deckhand/internal/artifact"
	"deckhand/internal/bundler"
	"deckhand/internal/logging"
	"deckhand/internal/platform"
	"deckhand/internal/services"
	"deckhand/internal/workspace"
)

// Builder runs the external bundle command for one unit.
type Builder interface {
	Build(ctx context.Context, unit workspace.Unit) (string, bundler.Result, error)
}

// Installer copies a validated bundle into the install root.
type Installer interface {
	Install(art artifact.Artifact) (string, error)
}

// Validator checks the expected artifact path after a successful build.
type Validator func(expectedPath string) (artifact.Artifact, error)

// SkipRecord is one skipped unit with its human-readable reason.
type SkipRecord struct {
	Unit   string
	Reason string
	Err    error
}

// RunResult aggregates the outcome over all units of one run. It is built
// incrementally and reported once at the end; skips never affect the process
// exit status.
type RunResult struct {
	RunID       string
	Platform    platform.Kind
	InstallRoot string
	Installed   []string
	Skipped     []SkipRecord
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Option configures the driver.
type Option func(*Driver)

// WithValidator replaces the artifact validator (primarily for tests).
func WithValidator(validate Validator) Option {
	return func(d *Driver) {
		if validate != nil {
			d.validate = validate
		}
	}
}

// Driver sequences build, validation, and install over all discovered units,
// strictly one unit at a time in discovery order.
type Driver struct {
	builder   Builder
	installer Installer
	validate  Validator
	logger    *slog.Logger
}

// NewDriver constructs a pipeline driver.
func NewDriver(builder Builder, installer Installer, logger *slog.Logger, opts ...Option) *Driver {
	driver := &Driver{
		builder:   builder,
		installer: installer,
		validate:  artifact.Validate,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(driver)
	}
	return driver
}

// Run processes every unit and returns the aggregate result. Per-unit
// failures are converted into skip records here and never propagate; the
// remaining units always get their turn.
func (d *Driver) Run(ctx context.Context, root platform.InstallRoot, units []workspace.Unit) RunResult {
	result := RunResult{
		RunID:       uuid.NewString(),
		Platform:    root.Kind,
		InstallRoot: root.Path,
		StartedAt:   time.Now().UTC(),
	}
	logger := d.logger.With(logging.String(logging.FieldRunID, result.RunID))
	logger.Info(
		"starting deploy run",
		logging.String("install_root", root.Path),
		logging.Int("unit_count", len(units)),
	)

	for _, unit := range units {
		if target, err := d.processUnit(ctx, logger, unit); err != nil {
			reason := services.SkipReason(err)
			result.Skipped = append(result.Skipped, SkipRecord{Unit: unit.Name, Reason: reason, Err: err})
			logger.Warn(
				"unit skipped",
				logging.String(logging.FieldUnit, unit.Name),
				logging.String("reason", reason),
				logging.Error(err),
			)
		} else {
			result.Installed = append(result.Installed, unit.Name)
			logger.Info(
				"unit installed",
				logging.String(logging.FieldUnit, unit.Name),
				logging.String("target", target),
			)
		}
	}

	result.FinishedAt = time.Now().UTC()
	logger.Info(
		"deploy run finished",
		logging.Int("installed", len(result.Installed)),
		logging.Int("skipped", len(result.Skipped)),
	)
	return result
}

func (d *Driver) processUnit(ctx context.Context, logger *slog.Logger, unit workspace.Unit) (string, error) {
	expectedPath, buildResult, err := d.builder.Build(ctx, unit)
	if err != nil {
		if buildResult.Output != "" {
			logger.Warn(
				"bundler output",
				logging.String(logging.FieldUnit, unit.Name),
				logging.String("output", buildResult.Output),
			)
		}
		return "", err
	}

	art, err := d.validate(expectedPath)
	if err != nil {
		return "", err
	}

	return d.installer.Install(art)
}
