package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"deckhand/internal/workspace"
)

func TestDiscoverReturnsSortedUnits(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta-drive", "alpha-synth", "mid-comp"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}
	// Files and hidden directories are not units.
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("docs"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".cache"), 0o755); err != nil {
		t.Fatalf("mkdir hidden: %v", err)
	}

	units, err := workspace.Discover(root)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	want := []string{"alpha-synth", "mid-comp", "zeta-drive"}
	if len(units) != len(want) {
		t.Fatalf("expected %d units, got %d: %+v", len(want), len(units), units)
	}
	for i, name := range want {
		if units[i].Name != name {
			t.Fatalf("unit %d = %q, want %q", i, units[i].Name, name)
		}
		if units[i].SourcePath != filepath.Join(root, name) {
			t.Fatalf("unit %d source = %q", i, units[i].SourcePath)
		}
	}
}

func TestDiscoverEmptyWorkspace(t *testing.T) {
	units, err := workspace.Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(units) != 0 {
		t.Fatalf("expected no units, got %+v", units)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	units, err := workspace.Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(units) != 0 {
		t.Fatalf("expected no units, got %+v", units)
	}
}
