package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir      string
	configPath   string
	workspaceDir string
	outputDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	workspaceDir := filepath.Join(base, "plugins")
	outputDir := filepath.Join(base, "bundled")
	logDir := filepath.Join(base, "logs")
	for _, dir := range []string{workspaceDir, outputDir, logDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	configPath := filepath.Join(homeDir, ".config", "deckhand", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, workspaceDir, outputDir, logDir, filepath.Join(base, "history.db"))

	return &cliTestEnv{
		baseDir:      base,
		configPath:   configPath,
		workspaceDir: workspaceDir,
		outputDir:    outputDir,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path, workspaceDir, outputDir, logDir, historyPath string) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nworkspace_dir = %q\noutput_dir = %q\nlog_dir = %q\n\n[history]\nenabled = true\npath = %q\n",
		workspaceDir,
		outputDir,
		logDir,
		historyPath,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func addUnit(t *testing.T, workspaceDir, name string) {
	t.Helper()
	dir := filepath.Join(workspaceDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir unit %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lib.rs"), []byte("// "+name+"\n"), 0o644); err != nil {
		t.Fatalf("write unit source: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
