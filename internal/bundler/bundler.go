package bundler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"deckhand/internal/config"
	"deckhand/internal/logging"
	"deckhand/internal/services"
	"deckhand/internal/workspace"
)

// Result captures the external bundler's exit status and its combined
// stdout/stderr output. The output is surfaced to the user, never parsed.
type Result struct {
	ExitCode int
	Output   string
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client invokes the external bundle command for one unit at a time.
type Client struct {
	binary    string
	args      []string
	outputDir string
	extension string
	release   bool
	timeout   time.Duration
	exec      Executor
	logger    *slog.Logger
}

// New constructs a bundler client from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("bundler requires config")
	}
	binary := strings.TrimSpace(cfg.Bundler.Binary)
	if binary == "" {
		return nil, errors.New("bundler binary required")
	}
	client := &Client{
		binary:    binary,
		args:      append([]string{}, cfg.Bundler.Args...),
		outputDir: cfg.Paths.OutputDir,
		extension: cfg.Bundler.Extension,
		release:   cfg.Bundler.Release,
		timeout:   time.Duration(cfg.Bundler.TimeoutSeconds) * time.Second,
		exec:      commandExecutor{},
		logger:    logging.NewComponentLogger(logger, "bundler"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ExpectedPath returns where the bundler's output convention places the
// finished bundle for a unit.
func (c *Client) ExpectedPath(unit workspace.Unit) string {
	return filepath.Join(c.outputDir, unit.Name+c.extension)
}

// Build runs the external bundle command for one unit and waits for it to
// complete. On process success it returns the unit's expected artifact path
// together with the captured result; the artifact's existence is the
// validator's concern, not ours. A non-zero exit is returned as a build
// failure carrying the exit status.
func (c *Client) Build(ctx context.Context, unit workspace.Unit) (string, Result, error) {
	args := append([]string{}, c.args...)
	args = append(args, unit.Name)
	if c.release {
		args = append(args, "--release")
	}

	buildCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		buildCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Info(
		"launching bundle build",
		logging.String(logging.FieldUnit, unit.Name),
		logging.String("command", c.binary+" "+strings.Join(args, " ")),
	)

	var output strings.Builder
	exitCode, err := c.exec.Run(buildCtx, c.binary, args, func(line string) {
		if output.Len() > 0 {
			output.WriteByte('\n')
		}
		output.WriteString(line)
		c.logger.Debug("bundler output", logging.String(logging.FieldUnit, unit.Name), logging.String("line", line))
	})
	result := Result{ExitCode: exitCode, Output: output.String()}
	if err != nil {
		message := fmt.Sprintf("could not run %s", c.binary)
		if errors.Is(buildCtx.Err(), context.DeadlineExceeded) {
			message = fmt.Sprintf("%s timed out after %s", c.binary, c.timeout)
		}
		return "", result, services.Wrap(services.ErrBuild, "bundling", "invoke bundler", message, err)
	}
	if exitCode != 0 {
		return "", result, services.Wrap(
			services.ErrBuild,
			"bundling",
			"invoke bundler",
			fmt.Sprintf("%s exited with status %d", c.binary, exitCode),
			nil,
		)
	}

	path := c.ExpectedPath(unit)
	c.logger.Info(
		"bundle build completed",
		logging.String(logging.FieldUnit, unit.Name),
		logging.String("expected_path", path),
	)
	return path, result, nil
}
