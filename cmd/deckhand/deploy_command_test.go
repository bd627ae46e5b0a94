package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"deckhand/internal/config"
)

func writeBundlerStub(t *testing.T, dir, outputDir string) string {
	t.Helper()
	script := filepath.Join(dir, "bundler.sh")
	content := fmt.Sprintf(`#!/bin/sh
unit="$2"
if [ "$unit" = "beta" ]; then
  echo "error: could not compile beta" >&2
  exit 101
fi
mkdir -p %q/"$unit".clap
echo payload > %q/"$unit".clap/plugin.bin
`, outputDir, outputDir)
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatalf("write bundler stub: %v", err)
	}
	return script
}

func TestRunDeployInstallsAndSkips(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("bundler stub requires a POSIX shell")
	}

	env := setupCLITestEnv(t)
	addUnit(t, env.workspaceDir, "alpha")
	addUnit(t, env.workspaceDir, "beta")
	addUnit(t, env.workspaceDir, "gamma")

	stub := writeBundlerStub(t, env.baseDir, env.outputDir)
	appendConfig(t, env.configPath, fmt.Sprintf("\n[bundler]\nbinary = %q\nargs = [\"bundle\"]\n", stub))

	cfg, _, _, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	home := os.Getenv("HOME")
	installRoot := filepath.Join(home, ".clap")
	if err := os.MkdirAll(installRoot, 0o755); err != nil {
		t.Fatalf("mkdir install root: %v", err)
	}
	stale := filepath.Join(installRoot, "old.clap")
	if err := os.MkdirAll(stale, 0o755); err != nil {
		t.Fatalf("mkdir stale bundle: %v", err)
	}

	var out bytes.Buffer
	if err := runDeploy(context.Background(), cfg, "linux", &out); err != nil {
		t.Fatalf("runDeploy: %v", err)
	}

	requireContains(t, out.String(), "Installed 2, skipped 1")
	requireContains(t, out.String(), "build failed")

	if _, err := os.Stat(filepath.Join(installRoot, "alpha.clap", "plugin.bin")); err != nil {
		t.Fatalf("expected alpha bundle installed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(installRoot, "gamma.clap", "plugin.bin")); err != nil {
		t.Fatalf("expected gamma bundle installed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(installRoot, "beta.clap")); !os.IsNotExist(err) {
		t.Fatalf("expected no beta bundle, stat err=%v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale bundle removed, stat err=%v", err)
	}

	histOut, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history command: %v", err)
	}
	requireContains(t, histOut, "linux")
}

func TestDeployCommandNoUnits(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("bundler stub requires a POSIX shell")
	}

	env := setupCLITestEnv(t)
	stub := writeBundlerStub(t, env.baseDir, env.outputDir)
	appendConfig(t, env.configPath, fmt.Sprintf("\n[bundler]\nbinary = %q\nargs = [\"bundle\"]\n", stub))

	cfg, _, _, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	var out bytes.Buffer
	if err := runDeploy(context.Background(), cfg, "linux", &out); err != nil {
		t.Fatalf("runDeploy: %v", err)
	}
	requireContains(t, out.String(), "No plugin units found")
}

func TestRunDeployRefusesWhenLockHeld(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test isolates the home directory via HOME")
	}

	env := setupCLITestEnv(t)
	addUnit(t, env.workspaceDir, "alpha")

	cfg, _, _, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	home := os.Getenv("HOME")
	installRoot := filepath.Join(home, ".clap")
	marker := filepath.Join(installRoot, "existing.clap")
	if err := os.MkdirAll(marker, 0o755); err != nil {
		t.Fatalf("mkdir marker bundle: %v", err)
	}

	held := flock.New(cfg.LockFilePath())
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("take lock: locked=%v err=%v", locked, err)
	}
	defer func() {
		_ = held.Unlock()
	}()

	var out bytes.Buffer
	err = runDeploy(context.Background(), cfg, "linux", &out)
	if err == nil {
		t.Fatal("expected deploy to refuse while lock is held")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, statErr := os.Stat(marker); statErr != nil {
		t.Fatalf("install root must be untouched while lock is held: %v", statErr)
	}
}

func appendConfig(t *testing.T, path, extra string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(extra); err != nil {
		t.Fatalf("append config: %v", err)
	}
}
