package install_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"deckhand/internal/artifact"
	"deckhand/internal/install"
	"deckhand/internal/logging"
	"deckhand/internal/platform"
	"deckhand/internal/services"
)

func newManager(t *testing.T, path string) *install.Manager {
	t.Helper()
	mgr, err := install.NewManager(platform.InstallRoot{Path: path, Kind: platform.KindLinux}, logging.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func TestPrepareRemovesStaleContent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "clap")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "old.txt"), []byte("stale"), 0o644); err != nil {
		t.Fatalf("write stale file: %v", err)
	}

	mgr := newManager(t, root)
	if err := mgr.Prepare(); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty root after prepare, got %d entries", len(entries))
	}
}

func TestPrepareIsIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "clap")
	mgr := newManager(t, root)

	for i := 0; i < 2; i++ {
		if err := mgr.Prepare(); err != nil {
			t.Fatalf("Prepare run %d returned error: %v", i+1, err)
		}
		info, err := os.Stat(root)
		if err != nil {
			t.Fatalf("stat root after run %d: %v", i+1, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected directory after run %d", i+1)
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			t.Fatalf("read root: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected empty root after run %d", i+1)
		}
	}
}

func TestInstallCopiesBundleTree(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "alpha.clap")
	if err := os.MkdirAll(filepath.Join(bundle, "resources"), 0o755); err != nil {
		t.Fatalf("mkdir bundle: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bundle, "alpha.so"), []byte("plugin"), 0o755); err != nil {
		t.Fatalf("write plugin: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bundle, "resources", "presets.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}

	root := filepath.Join(dir, "clap")
	mgr := newManager(t, root)
	if err := mgr.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	target, err := mgr.Install(artifact.Artifact{Path: bundle})
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if target != filepath.Join(root, "alpha.clap") {
		t.Fatalf("unexpected target: %q", target)
	}
	if _, err := os.Stat(filepath.Join(target, "resources", "presets.json")); err != nil {
		t.Fatalf("expected nested file in installed bundle: %v", err)
	}
}

func TestInstallMissingSourceIsCopyFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "clap")
	mgr := newManager(t, root)
	if err := mgr.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	_, err := mgr.Install(artifact.Artifact{Path: filepath.Join(t.TempDir(), "ghost.clap")})
	if !errors.Is(err, services.ErrCopy) {
		t.Fatalf("expected ErrCopy, got %v", err)
	}
	if services.IsFatal(err) {
		t.Fatal("copy failure must be recoverable")
	}
}

func TestNewManagerRejectsUnsafeRoots(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	for _, path := range []string{"", "/", home} {
		_, err := install.NewManager(platform.InstallRoot{Path: path, Kind: platform.KindLinux}, logging.NewNop())
		if !errors.Is(err, services.ErrInstallRoot) {
			t.Fatalf("expected ErrInstallRoot for %q, got %v", path, err)
		}
	}
}
