package artifact

import (
	"errors"
	"io/fs"
	"os"

	"deckhand/internal/services"
)

// Artifact is the validated build output of one unit: a bundle directory at
// the path the build convention promised.
type Artifact struct {
	Path string
}

// Validate checks that the expected bundle exists and is a directory. Build
// success (exit code 0) does not guarantee the expected output layout, so
// this check guards against drift between the bundler and the installer.
func Validate(expectedPath string) (Artifact, error) {
	info, err := os.Stat(expectedPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Artifact{}, services.Wrap(
				services.ErrMissingArtifact,
				"validation",
				"stat artifact",
				"no bundle at "+expectedPath,
				nil,
			)
		}
		return Artifact{}, services.Wrap(services.ErrMissingArtifact, "validation", "stat artifact", "", err)
	}
	if !info.IsDir() {
		return Artifact{}, services.Wrap(
			services.ErrMissingArtifact,
			"validation",
			"check bundle layout",
			expectedPath+" is not a directory",
			nil,
		)
	}
	return Artifact{Path: expectedPath}, nil
}
