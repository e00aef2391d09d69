//go:generate mockgen -destination=./mocks/pipeline.go . PackageInstaller,CatalogProvider,Archiver

package pipeline

import (
	"context"

	"github.com/kumarlokesh/pybundle/pkg/catalog"
	"github.com/kumarlokesh/pybundle/pkg/model"
)

// PackageInstaller is the subset of the pip manager used by the pipeline.
type PackageInstaller interface {
	Install(ctx context.Context, specs []string, target string) error
}

// CatalogProvider supplies the remote environment's package catalog.
type CatalogProvider interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

// Archiver writes the final bundle.
type Archiver interface {
	Create(ctx context.Context, targetDir, outputPath string) error
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // installing|indexing|detecting|reconciling|bundling|done
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Options control a pipeline run.
type Options struct {
	// TargetDir is the scratch directory pip installs into. When empty,
	// packages are installed into a subdirectory of a per-run temporary
	// directory that is removed afterwards; when set, the caller owns its
	// lifecycle, including whatever loose files share its parent.
	TargetDir string
	// OutputPath is where the bundle archive is written.
	OutputPath string
	// RuntimePackage overrides the injected companion package name.
	RuntimePackage string
	// ForceNative continues bundling even when native dependencies remain
	// unresolved by the catalog.
	ForceNative bool
	// HookVars is passed through to bundle hook scripts.
	HookVars map[string]interface{}
}

// Result describes the outcome of a pipeline run.
type Result struct {
	// Reconciliation is the catalog reconciliation of the requested set.
	Reconciliation catalog.Reconciliation
	// UnresolvedNative holds native package names the catalog could not
	// account for. Non-empty only when Options.ForceNative was set;
	// otherwise the run fails instead.
	UnresolvedNative model.PackageSet
	// Packages is the final name-to-specifier set the remote session
	// should request, including the injected runtime package.
	Packages map[string]string
	// ArchivePath is the written bundle.
	ArchivePath string
}
