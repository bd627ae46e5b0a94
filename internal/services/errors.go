package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the deploy pipeline's error taxonomy. Fatal markers
// abort the whole run before any unit is processed; the remaining markers are
// per-unit conditions the pipeline converts into skip records.
var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrInstallRoot         = errors.New("install root failure")
	ErrBuild               = errors.New("build failure")
	ErrMissingArtifact     = errors.New("missing artifact")
	ErrCopy                = errors.New("copy failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrBuild
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err is a whole-run abort condition. Everything else
// in the taxonomy is recoverable and only skips the affected unit.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnsupportedPlatform) || errors.Is(err, ErrInstallRoot)
}

// SkipReason maps a per-unit error to the reason recorded in the run summary.
func SkipReason(err error) string {
	switch {
	case errors.Is(err, ErrBuild):
		return "build failed"
	case errors.Is(err, ErrMissingArtifact):
		return "artifact missing"
	case errors.Is(err, ErrCopy):
		return "copy failed"
	default:
		return "failed"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
