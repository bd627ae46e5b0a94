package bundler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	// Run starts the command, forwards every output line to onOutput, waits
	// for exit, and returns the process exit code. A non-zero exit code is
	// reported through the code, not the error; the error covers failures to
	// start the process or to complete within the context deadline.
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) (int, error)
}

// pipeWaitDelay bounds how long Run waits for the command's output pipes to
// close after the context deadline or process exit. Build tools spawn child
// processes that inherit the pipes; without the bound a hung descendant would
// pin the run indefinitely even after the command itself is killed.
const pipeWaitDelay = 5 * time.Second

type commandExecutor struct {
	waitDelay time.Duration
}

func (e commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) (int, error) {
	writer := &lineWriter{emit: onOutput}

	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = writer
	cmd.Stderr = writer
	cmd.WaitDelay = e.waitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = pipeWaitDelay
	}

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("start command: %w", err)
	}

	err := cmd.Wait()
	writer.flush()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("wait command: %w", err)
	}
	return 0, nil
}

// lineWriter splits a byte stream into lines and hands each one to emit.
// Stdout and stderr share one instance so the command's output stays in
// arrival order.
type lineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	emit func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			w.buf.WriteString(line)
			break
		}
		w.emitLine(line)
	}
	return len(p), nil
}

// flush emits any trailing partial line. Called once after Wait, when no
// writes can arrive anymore.
func (w *lineWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emitLine(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineWriter) emitLine(line string) {
	if w.emit == nil {
		return
	}
	w.emit(strings.TrimRight(line, "\r\n"))
}
