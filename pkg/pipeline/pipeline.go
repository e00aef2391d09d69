// Package pipeline ties the installer, indexer, native detector, catalog
// reconciler and bundler together into the single "ship these packages"
// operation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kumarlokesh/pybundle/pkg/catalog"
	"github.com/kumarlokesh/pybundle/pkg/distinfo"
	"github.com/kumarlokesh/pybundle/pkg/errors"
	"github.com/kumarlokesh/pybundle/pkg/fsutil"
	"github.com/kumarlokesh/pybundle/pkg/hooks"
	"github.com/kumarlokesh/pybundle/pkg/model"
	"github.com/kumarlokesh/pybundle/pkg/native"
)

// Pipeline runs the dependency-resolution and bundling flow. Installer,
// Catalog and Archiver are required; HookExecutor and LocalVersion are
// optional.
type Pipeline struct {
	Installer    PackageInstaller
	Catalog      CatalogProvider
	Archiver     Archiver
	HookExecutor hooks.Executor
	LocalVersion catalog.LocalVersionFunc
	Log          *slog.Logger
	Hooks        Hooks // progress events
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Run installs the requested packages into a scratch directory, indexes
// the installation, detects native dependencies, reconciles the request
// against the remote catalog, injects the runtime package and writes the
// bundle. Each run must use its own scratch directory; concurrent callers
// sharing one are not supported.
func (p *Pipeline) Run(ctx context.Context, requested []model.Requirement, opts Options) (*Result, error) {
	if p.Installer == nil {
		return nil, fmt.Errorf("package installer is not configured")
	}
	if p.Catalog == nil {
		return nil, fmt.Errorf("catalog provider is not configured")
	}
	if p.Archiver == nil {
		return nil, fmt.Errorf("archiver is not configured")
	}
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("output path is not configured")
	}
	log := p.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	target := opts.TargetDir
	if target == "" {
		scratch, err := os.MkdirTemp("", "pybundle-*")
		if err != nil {
			return nil, errors.Wrap(err, "failed to create scratch directory")
		}
		defer func() { _ = os.RemoveAll(scratch) }()

		// Install into a subdirectory of the per-run scratch directory, not
		// the scratch directory itself. The bundler sweeps loose files one
		// level above the target into the archive, so the target's parent
		// must be a directory this run owns rather than the shared system
		// temp directory.
		target = filepath.Join(scratch, "packages")
		if err := fsutil.EnsureDir(target); err != nil {
			return nil, errors.Wrap(err, "failed to create scratch install directory")
		}
	}

	specs := make([]string, len(requested))
	for i, req := range requested {
		specs[i] = req.String()
	}

	emit(p.Hooks, Event{Phase: "installing", Msg: strings.Join(specs, " ")})
	if err := p.Installer.Install(ctx, specs, target); err != nil {
		return nil, err
	}

	emit(p.Hooks, Event{Phase: "indexing", Msg: target})
	index, err := distinfo.BuildIndex(target, log)
	if err != nil {
		return nil, err
	}

	emit(p.Hooks, Event{Phase: "detecting", Msg: target})
	natives, err := native.Detect(target, index, log)
	if err != nil {
		return nil, err
	}

	cat, err := p.Catalog.Load(ctx)
	if err != nil {
		return nil, err
	}

	emit(p.Hooks, Event{Phase: "reconciling", Msg: fmt.Sprintf("%d packages", len(requested))})
	rec, remaining := catalog.Reconcile(requested, cat, natives, log)

	packages := make(map[string]string, len(requested)+1)
	for _, bucket := range [][]model.Requirement{rec.Supported, rec.Added, rec.Unresolved} {
		for _, req := range bucket {
			packages[req.Name] = req.String()
		}
	}
	runtimePkg := opts.RuntimePackage
	if runtimePkg == "" {
		runtimePkg = catalog.DefaultRuntimePackage
	}
	catalog.EnsureRuntimePackage(ctx, packages, runtimePkg, cat, p.LocalVersion, log)

	if remaining.Len() > 0 {
		if !opts.ForceNative {
			return nil, errors.Wrapf(errors.ErrNativeUnresolved, "%s", strings.Join(remaining.Names(), ", "))
		}
		log.Warn("bundling native dependencies the remote environment cannot satisfy",
			"packages", remaining.Names())
	}

	hookCtx := hooks.HookContext{
		TargetDir:  target,
		OutputPath: opts.OutputPath,
		Packages:   specs,
		Vars:       opts.HookVars,
	}
	if err := p.runHook(hooks.PreBundle, hookCtx); err != nil {
		return nil, err
	}

	emit(p.Hooks, Event{Phase: "bundling", Msg: opts.OutputPath})
	if err := p.Archiver.Create(ctx, target, opts.OutputPath); err != nil {
		return nil, err
	}

	if err := p.runHook(hooks.PostBundle, hookCtx); err != nil {
		return nil, err
	}

	emit(p.Hooks, Event{Phase: "done", Msg: opts.OutputPath})
	return &Result{
		Reconciliation:   rec,
		UnresolvedNative: remaining,
		Packages:         packages,
		ArchivePath:      opts.OutputPath,
	}, nil
}

// Inspect indexes an existing install directory and reports its native
// dependencies without installing or bundling anything.
func (p *Pipeline) Inspect(target string) (distinfo.Index, model.PackageSet, error) {
	log := p.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	index, err := distinfo.BuildIndex(target, log)
	if err != nil {
		return nil, nil, err
	}
	natives, err := native.Detect(target, index, log)
	if err != nil {
		return nil, nil, err
	}
	return index, natives, nil
}

func (p *Pipeline) runHook(hookType hooks.HookType, ctx hooks.HookContext) error {
	if p.HookExecutor == nil {
		return nil
	}
	return p.HookExecutor.Execute(hookType, ctx)
}
