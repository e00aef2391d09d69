// Package native detects installed packages that ship compiled code.
// Compiled extensions do not survive the trip to the remote execution
// sandbox inside a bundle, so flagged packages must either be satisfied
// from the remote catalog or surfaced to the user as warnings.
package native

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kumarlokesh/pybundle/pkg/distinfo"
	"github.com/kumarlokesh/pybundle/pkg/errors"
	"github.com/kumarlokesh/pybundle/pkg/model"
	"github.com/kumarlokesh/pybundle/pkg/platform"
)

// Extensions returns the file extensions treated as native-code markers
// for the given operating system: Cython/compiled-extension suffixes plus
// the platform shared-library extension.
func Extensions(goos string) []string {
	return []string{".pyd", ".pyx", ".pxd", platform.SharedLibExt(goos)}
}

// Detect walks the install root looking for files with native-code
// extensions and resolves each hit back to its owning packages through
// the inverse of the installed-package index. The returned set holds
// package names only; native-ness is independent of the installed
// version. Detection is best-effort: unknown extensions are missed and a
// colliding top-level path component can over-flag an unrelated package.
func Detect(root string, index distinfo.Index, log *slog.Logger) (model.PackageSet, error) {
	return detect(root, index, runtime.GOOS, log)
}

func detect(root string, index distinfo.Index, goos string, log *slog.Logger) (model.PackageSet, error) {
	extensions := Extensions(goos)
	natives := make(model.PackageSet)

	// The reverse index is only needed once a native file shows up.
	var reverse distinfo.ReverseIndex

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasAnyExtension(path, extensions) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entry := topLevelComponent(rel)

		if reverse == nil {
			reverse = index.Invert()
		}
		owners, ok := reverse[entry]
		if !ok {
			return nil
		}
		for owner := range owners {
			if !natives.Contains(owner) {
				log.Info("potential native library", "package", owner)
				natives.Add(owner)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s for native extensions", root)
	}
	return natives, nil
}

// hasAnyExtension reports whether the file name ends in one of the given
// extensions.
func hasAnyExtension(path string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// topLevelComponent returns the first path component of a relative path,
// or the path itself when the file sits directly at the root.
func topLevelComponent(rel string) string {
	rel = filepath.ToSlash(rel)
	if entry, _, ok := strings.Cut(rel, "/"); ok && entry != "" {
		return entry
	}
	return rel
}
