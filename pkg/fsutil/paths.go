package fsutil

import (
	"path/filepath"
	"strings"
)

// WithinRoot reports whether path resolves to a location inside root.
// Both arguments are made absolute before comparison, so relative inputs
// are interpreted against the current working directory. The root itself
// does not count as being within the root.
func WithinRoot(root, path string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false, err
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return true, nil
}
