package install

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"deckhand/internal/artifact"
	"deckhand/internal/fileutil"
	"deckhand/internal/logging"
	"deckhand/internal/platform"
	"deckhand/internal/services"
)

// Manager owns the install root: it clears and recreates it once per run and
// copies validated bundles into it. It is the only component that mutates the
// root.
type Manager struct {
	root   platform.InstallRoot
	logger *slog.Logger
}

// NewManager constructs an install manager for a resolved InstallRoot. The
// root must pass the safety check: prepare is destructive, and a bug or a
// test must never be able to point it at an arbitrary directory.
func NewManager(root platform.InstallRoot, logger *slog.Logger) (*Manager, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}
	return &Manager{
		root:   root,
		logger: logging.NewComponentLogger(logger, "installer"),
	}, nil
}

// Root returns the managed install root path.
func (m *Manager) Root() string {
	return m.root.Path
}

// Prepare deletes the install root recursively if present, then recreates it
// including missing parents. Destructive and irreversible: anything placed at
// the path by hand is lost, which is what keeps a run from mixing artifacts
// with a previous run's. Failure is fatal since nothing can be installed
// without a root.
func (m *Manager) Prepare() error {
	if err := os.RemoveAll(m.root.Path); err != nil {
		return services.Wrap(services.ErrInstallRoot, "install", "clear install root", m.root.Path, err)
	}
	if err := os.MkdirAll(m.root.Path, 0o755); err != nil {
		return services.Wrap(services.ErrInstallRoot, "install", "create install root", m.root.Path, err)
	}
	m.logger.Info("install root prepared", logging.String("path", m.root.Path))
	return nil
}

// Install copies a validated bundle's directory tree into the install root,
// keeping the bundle's own basename as the destination entry name. An
// existing destination entry is replaced. Failure skips only this unit.
func (m *Manager) Install(art artifact.Artifact) (string, error) {
	target := filepath.Join(m.root.Path, filepath.Base(art.Path))
	if err := os.RemoveAll(target); err != nil {
		return "", services.Wrap(services.ErrCopy, "install", "replace existing bundle", target, err)
	}
	if err := fileutil.CopyTree(art.Path, target); err != nil {
		return "", services.Wrap(services.ErrCopy, "install", "copy bundle tree", target, err)
	}
	m.logger.Info(
		"bundle installed",
		logging.String("source", art.Path),
		logging.String("target", target),
	)
	return target, nil
}

func checkRoot(root platform.InstallRoot) error {
	path := strings.TrimSpace(root.Path)
	if path == "" {
		return services.Wrap(services.ErrInstallRoot, "install", "check install root", "empty path", nil)
	}
	clean := filepath.Clean(path)
	if clean == string(filepath.Separator) || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return services.Wrap(services.ErrInstallRoot, "install", "check install root", "refusing filesystem root "+clean, nil)
	}
	if home, err := os.UserHomeDir(); err == nil && clean == filepath.Clean(home) {
		return services.Wrap(services.ErrInstallRoot, "install", "check install root", "refusing home directory "+clean, nil)
	}
	return nil
}
