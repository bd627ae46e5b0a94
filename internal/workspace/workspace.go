package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Unit is one independently buildable plugin target within the workspace.
type Unit struct {
	Name       string
	SourcePath string
}

// Discover lists the immediate subdirectories of the workspace root and
// returns a Unit per subdirectory, sorted by name. Hidden directories are
// ignored. A missing or empty root yields an empty slice, not an error: a
// workspace with no units is a valid (if pointless) deploy.
func Discover(root string) ([]Unit, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list workspace %q: %w", root, err)
	}

	units := make([]Unit, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		units = append(units, Unit{
			Name:       name,
			SourcePath: filepath.Join(root, name),
		})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units, nil
}
