package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"deckhand/internal/services"
)

// Kind identifies a supported host operating system.
type Kind string

const (
	KindDarwin  Kind = "darwin"
	KindLinux   Kind = "linux"
	KindWindows Kind = "windows"
)

// InstallRoot is the platform-specific directory where plugin bundles are
// collected for host applications. Exactly one is resolved per run; the
// install manager only accepts roots produced here.
type InstallRoot struct {
	Path string
	Kind Kind
}

// Resolve maps the host operating system identifier to an InstallRoot. The
// mapping is a closed table; identifiers outside it abort the run before any
// build work happens. Resolve performs no filesystem mutation.
func Resolve(goos string) (InstallRoot, error) {
	switch goos {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return InstallRoot{}, services.Wrap(services.ErrUnsupportedPlatform, "platform", "resolve install root", "home directory unavailable", err)
		}
		return InstallRoot{
			Path: filepath.Join(home, "Library", "Audio", "Plug-Ins", "CLAP"),
			Kind: KindDarwin,
		}, nil
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return InstallRoot{}, services.Wrap(services.ErrUnsupportedPlatform, "platform", "resolve install root", "home directory unavailable", err)
		}
		return InstallRoot{
			Path: filepath.Join(home, ".clap"),
			Kind: KindLinux,
		}, nil
	case "windows":
		if common := os.Getenv("COMMONPROGRAMFILES"); common != "" {
			return InstallRoot{
				Path: filepath.Join(common, "CLAP"),
				Kind: KindWindows,
			}, nil
		}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return InstallRoot{
				Path: filepath.Join(local, "Programs", "Common", "CLAP"),
				Kind: KindWindows,
			}, nil
		}
		return InstallRoot{}, services.Wrap(services.ErrUnsupportedPlatform, "platform", "resolve install root", "neither COMMONPROGRAMFILES nor LOCALAPPDATA is set", nil)
	default:
		return InstallRoot{}, services.Wrap(services.ErrUnsupportedPlatform, "platform", "resolve install root", fmt.Sprintf("no plugin directory known for %q", goos), nil)
	}
}
