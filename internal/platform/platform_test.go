package platform_test

import (
	"errors"
	"path/filepath"
	"testing"

	"deckhand/internal/platform"
	"deckhand/internal/services"
)

func TestResolveSupportedPlatforms(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("COMMONPROGRAMFILES", filepath.Join(home, "Common Files"))

	cases := []struct {
		goos string
		kind platform.Kind
		path string
	}{
		{"darwin", platform.KindDarwin, filepath.Join(home, "Library", "Audio", "Plug-Ins", "CLAP")},
		{"linux", platform.KindLinux, filepath.Join(home, ".clap")},
		{"windows", platform.KindWindows, filepath.Join(home, "Common Files", "CLAP")},
	}
	for _, tc := range cases {
		root, err := platform.Resolve(tc.goos)
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", tc.goos, err)
		}
		if root.Kind != tc.kind {
			t.Fatalf("Resolve(%q) kind = %q, want %q", tc.goos, root.Kind, tc.kind)
		}
		if root.Path != tc.path {
			t.Fatalf("Resolve(%q) path = %q, want %q", tc.goos, root.Path, tc.path)
		}
	}
}

func TestResolveWindowsFallsBackToLocalAppData(t *testing.T) {
	home := t.TempDir()
	t.Setenv("COMMONPROGRAMFILES", "")
	t.Setenv("LOCALAPPDATA", home)

	root, err := platform.Resolve("windows")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	want := filepath.Join(home, "Programs", "Common", "CLAP")
	if root.Path != want {
		t.Fatalf("path = %q, want %q", root.Path, want)
	}
}

func TestResolveUnsupportedPlatform(t *testing.T) {
	for _, goos := range []string{"plan9", "js", "freebsd", ""} {
		_, err := platform.Resolve(goos)
		if err == nil {
			t.Fatalf("expected error for %q", goos)
		}
		if !errors.Is(err, services.ErrUnsupportedPlatform) {
			t.Fatalf("expected ErrUnsupportedPlatform for %q, got %v", goos, err)
		}
		if !services.IsFatal(err) {
			t.Fatalf("expected fatal classification for %q", goos)
		}
	}
}
