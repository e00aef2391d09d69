package catalog

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/kumarlokesh/pybundle/pkg/errors"
	"github.com/kumarlokesh/pybundle/pkg/model"
)

// DefaultRuntimePackage is the companion package the remote sandbox needs
// to execute bundled functions.
const DefaultRuntimePackage = "pybundle-runtime"

// LocalVersionFunc looks up the version of a package installed in the
// local environment. Implementations return errors.ErrPackageNotInstalled
// when the package is absent.
type LocalVersionFunc func(ctx context.Context, name string) (string, error)

// EnsureRuntimePackage makes sure the runtime companion package is
// represented in the name-to-specifier map. When the locally installed
// version is also carried by the catalog the entry is pinned to it;
// otherwise the entry stays unpinned and a warning is logged. Lookup
// failures are downgraded to warnings; this function never fails.
func EnsureRuntimePackage(ctx context.Context, packages map[string]string, name string, cat Catalog, localVersion LocalVersionFunc, log *slog.Logger) {
	if name == "" {
		name = DefaultRuntimePackage
	}
	if _, ok := packages[name]; ok {
		return
	}
	packages[name] = name

	if localVersion == nil {
		log.Warn("no local version lookup configured, leaving runtime package unpinned", "package", name)
		return
	}

	ver, err := localVersion(ctx, name)
	switch {
	case stderrors.Is(err, errors.ErrPackageNotInstalled):
		log.Warn("runtime package is not installed in the local environment; "+
			"remote functions may fail if the server installs a different version",
			"package", name)
	case err != nil:
		log.Warn("failed to determine the local runtime package version, leaving it unpinned",
			"package", name, "error", err)
	case cat.HasVersion(name, ver):
		packages[name] = model.Requirement{Name: name, Version: ver}.String()
	default:
		log.Warn("local runtime package version is not available remotely; "+
			"version skew between client and server may cause incompatibility",
			"package", name, "local_version", ver)
	}
}
