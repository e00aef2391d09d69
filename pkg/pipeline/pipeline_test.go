package pipeline_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kumarlokesh/pybundle/internal/logger"
	"github.com/kumarlokesh/pybundle/pkg/bundle"
	"github.com/kumarlokesh/pybundle/pkg/catalog"
	pyberrors "github.com/kumarlokesh/pybundle/pkg/errors"
	"github.com/kumarlokesh/pybundle/pkg/hooks"
	"github.com/kumarlokesh/pybundle/pkg/model"
	"github.com/kumarlokesh/pybundle/pkg/pipeline"
	pipemocks "github.com/kumarlokesh/pybundle/pkg/pipeline/mocks"
)

// installPackage fakes a pip-installed package inside target: a dist-info
// directory with METADATA and RECORD plus the files the RECORD claims.
func installPackage(t *testing.T, target, name, version string, files []string) {
	t.Helper()
	infoDir := filepath.Join(target, name+"-"+version+".dist-info")
	require.NoError(t, os.MkdirAll(infoDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(infoDir, "METADATA"),
		[]byte("Name: "+name+"\nVersion: "+version+"\n"), 0o644))

	record := ""
	for _, f := range files {
		record += f + ",sha256=x,1\n"
		full := filepath.Join(target, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(infoDir, "RECORD"), []byte(record), 0o644))
}

func mustParse(t *testing.T, specs ...string) []model.Requirement {
	t.Helper()
	reqs := make([]model.Requirement, 0, len(specs))
	for _, s := range specs {
		req, err := model.ParseRequirement(s)
		require.NoError(t, err)
		reqs = append(reqs, req)
	}
	return reqs
}

func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	target := t.TempDir()
	output := filepath.Join(t.TempDir(), "bundle.zip")

	inst := pipemocks.NewMockPackageInstaller(ctrl)
	inst.EXPECT().Install(gomock.Any(), []string{"requests==2.31.0"}, target).DoAndReturn(
		func(_ context.Context, _ []string, dir string) error {
			installPackage(t, dir, "requests", "2.31.0", []string{"requests/__init__.py"})
			return nil
		},
	).Times(1)

	cat := pipemocks.NewMockCatalogProvider(ctrl)
	cat.EXPECT().Load(gomock.Any()).Return(catalog.Catalog{
		"requests":                    {"2.31.0"},
		catalog.DefaultRuntimePackage: {"1.4.0"},
	}, nil).Times(1)

	arch := pipemocks.NewMockArchiver(ctrl)
	arch.EXPECT().Create(gomock.Any(), target, output).Return(nil).Times(1)

	var phases []string
	p := &pipeline.Pipeline{
		Installer: inst,
		Catalog:   cat,
		Archiver:  arch,
		LocalVersion: func(context.Context, string) (string, error) {
			return "1.4.0", nil
		},
		Log:   logger.Discard(),
		Hooks: pipeline.Hooks{OnEvent: func(e pipeline.Event) { phases = append(phases, e.Phase) }},
	}

	res, err := p.Run(context.Background(), mustParse(t, "requests==2.31.0"), pipeline.Options{
		TargetDir:  target,
		OutputPath: output,
	})
	require.NoError(t, err)

	assert.Equal(t, output, res.ArchivePath)
	assert.Equal(t, []model.Requirement{{Name: "requests", Version: "2.31.0"}}, res.Reconciliation.Supported)
	assert.Zero(t, res.UnresolvedNative.Len())
	assert.Equal(t, map[string]string{
		"requests":                    "requests==2.31.0",
		catalog.DefaultRuntimePackage: catalog.DefaultRuntimePackage + "==1.4.0",
	}, res.Packages)
	assert.Equal(t, []string{"installing", "indexing", "detecting", "reconciling", "bundling", "done"}, phases)
}

func TestRun_AutoScratchDirKeepsTempFilesOutOfBundle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Point the system temp directory at a location holding an unrelated
	// file. The run must not sweep it into the archive.
	tempRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempRoot, "unrelated-notes.txt"), []byte("x"), 0o644))
	t.Setenv("TMPDIR", tempRoot)

	output := filepath.Join(t.TempDir(), "bundle.zip")

	var installDir string
	inst := pipemocks.NewMockPackageInstaller(ctrl)
	inst.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ []string, dir string) error {
			installDir = dir
			installPackage(t, dir, "requests", "2.31.0", []string{"requests/__init__.py"})
			return nil
		},
	).Times(1)

	cat := pipemocks.NewMockCatalogProvider(ctrl)
	cat.EXPECT().Load(gomock.Any()).Return(catalog.Catalog{"requests": {"2.31.0"}}, nil).Times(1)

	p := &pipeline.Pipeline{
		Installer: inst,
		Catalog:   cat,
		Archiver:  bundle.NewManager(),
		Log:       logger.Discard(),
	}

	_, err := p.Run(context.Background(), mustParse(t, "requests==2.31.0"), pipeline.Options{
		OutputPath: output,
	})
	require.NoError(t, err)

	// The install directory must sit inside a per-run directory, never
	// directly under the shared temp root.
	require.NotEmpty(t, installDir)
	assert.NotEqual(t, filepath.Clean(tempRoot), filepath.Dir(filepath.Clean(installDir)),
		"install directory must not be a direct child of the temp root")

	zr, err := zip.OpenReader(output)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "requests/__init__.py")
	assert.NotContains(t, names, "unrelated-notes.txt")

	// The per-run scratch directory is removed after the run.
	_, statErr := os.Stat(filepath.Dir(installDir))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_NativeSubstitution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	target := t.TempDir()
	output := filepath.Join(t.TempDir(), "bundle.zip")

	inst := pipemocks.NewMockPackageInstaller(ctrl)
	inst.EXPECT().Install(gomock.Any(), gomock.Any(), target).DoAndReturn(
		func(_ context.Context, _ []string, dir string) error {
			// .pyx marks the package as native on every platform.
			installPackage(t, dir, "numpy", "9.9.9", []string{"numpy/core.pyx"})
			return nil
		},
	).Times(1)

	cat := pipemocks.NewMockCatalogProvider(ctrl)
	cat.EXPECT().Load(gomock.Any()).Return(catalog.Catalog{"numpy": {"1.23.5"}}, nil).Times(1)

	arch := pipemocks.NewMockArchiver(ctrl)
	arch.EXPECT().Create(gomock.Any(), target, output).Return(nil).Times(1)

	p := &pipeline.Pipeline{Installer: inst, Catalog: cat, Archiver: arch, Log: logger.Discard()}

	res, err := p.Run(context.Background(), mustParse(t, "numpy==9.9.9"), pipeline.Options{
		TargetDir:  target,
		OutputPath: output,
	})
	require.NoError(t, err)

	// The pinned version is unavailable remotely but the catalog carries the
	// package, so the unpinned requirement rides along instead.
	assert.Empty(t, res.Reconciliation.Supported)
	assert.Equal(t, []model.Requirement{{Name: "numpy", Version: "9.9.9"}}, res.Reconciliation.Dropped)
	assert.Equal(t, []model.Requirement{{Name: "numpy"}}, res.Reconciliation.Added)
	assert.Zero(t, res.UnresolvedNative.Len())
	assert.Equal(t, "numpy", res.Packages["numpy"])
}

func TestRun_UnresolvedNativeFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	target := t.TempDir()

	inst := pipemocks.NewMockPackageInstaller(ctrl)
	inst.EXPECT().Install(gomock.Any(), gomock.Any(), target).DoAndReturn(
		func(_ context.Context, _ []string, dir string) error {
			installPackage(t, dir, "obscure", "0.1", []string{"obscure/ext.pyx"})
			return nil
		},
	).Times(1)

	cat := pipemocks.NewMockCatalogProvider(ctrl)
	cat.EXPECT().Load(gomock.Any()).Return(catalog.Catalog{}, nil).Times(1)

	arch := pipemocks.NewMockArchiver(ctrl) // must never be called

	p := &pipeline.Pipeline{Installer: inst, Catalog: cat, Archiver: arch, Log: logger.Discard()}

	_, err := p.Run(context.Background(), mustParse(t, "obscure==0.1"), pipeline.Options{
		TargetDir:  target,
		OutputPath: filepath.Join(t.TempDir(), "bundle.zip"),
	})
	require.ErrorIs(t, err, pyberrors.ErrNativeUnresolved)
	assert.Contains(t, err.Error(), "obscure")
}

func TestRun_ForceNativeBundlesAnyway(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	target := t.TempDir()
	output := filepath.Join(t.TempDir(), "bundle.zip")

	inst := pipemocks.NewMockPackageInstaller(ctrl)
	inst.EXPECT().Install(gomock.Any(), gomock.Any(), target).DoAndReturn(
		func(_ context.Context, _ []string, dir string) error {
			installPackage(t, dir, "obscure", "0.1", []string{"obscure/ext.pyx"})
			return nil
		},
	).Times(1)

	cat := pipemocks.NewMockCatalogProvider(ctrl)
	cat.EXPECT().Load(gomock.Any()).Return(catalog.Catalog{}, nil).Times(1)

	arch := pipemocks.NewMockArchiver(ctrl)
	arch.EXPECT().Create(gomock.Any(), target, output).Return(nil).Times(1)

	p := &pipeline.Pipeline{Installer: inst, Catalog: cat, Archiver: arch, Log: logger.Discard()}

	res, err := p.Run(context.Background(), mustParse(t, "obscure==0.1"), pipeline.Options{
		TargetDir:   target,
		OutputPath:  output,
		ForceNative: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"obscure"}, res.UnresolvedNative.Names())
	assert.Equal(t, []model.Requirement{{Name: "obscure", Version: "0.1"}}, res.Reconciliation.Unresolved)
}

func TestRun_PreBundleHookFailureAbortsBundle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	target := t.TempDir()

	inst := pipemocks.NewMockPackageInstaller(ctrl)
	inst.EXPECT().Install(gomock.Any(), gomock.Any(), target).DoAndReturn(
		func(_ context.Context, _ []string, dir string) error {
			installPackage(t, dir, "requests", "2.31.0", []string{"requests/__init__.py"})
			return nil
		},
	).Times(1)

	cat := pipemocks.NewMockCatalogProvider(ctrl)
	cat.EXPECT().Load(gomock.Any()).Return(catalog.Catalog{"requests": {"2.31.0"}}, nil).Times(1)

	arch := pipemocks.NewMockArchiver(ctrl) // never reached

	exec := hooks.NewTengoExecutor()
	require.NoError(t, exec.AddHook(hooks.Hook{Type: hooks.PreBundle, Content: `err := "scratch dir rejected"`}))

	p := &pipeline.Pipeline{
		Installer:    inst,
		Catalog:      cat,
		Archiver:     arch,
		HookExecutor: exec,
		Log:          logger.Discard(),
	}

	_, err := p.Run(context.Background(), mustParse(t, "requests==2.31.0"), pipeline.Options{
		TargetDir:  target,
		OutputPath: filepath.Join(t.TempDir(), "bundle.zip"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scratch dir rejected")
}

func TestRun_MissingCollaborators(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inst := pipemocks.NewMockPackageInstaller(ctrl)
	cat := pipemocks.NewMockCatalogProvider(ctrl)
	arch := pipemocks.NewMockArchiver(ctrl)
	opts := pipeline.Options{OutputPath: "out.zip"}

	for name, p := range map[string]*pipeline.Pipeline{
		"installer": {Catalog: cat, Archiver: arch},
		"catalog":   {Installer: inst, Archiver: arch},
		"archiver":  {Installer: inst, Catalog: cat},
	} {
		_, err := p.Run(context.Background(), nil, opts)
		assert.Error(t, err, name)
	}

	full := &pipeline.Pipeline{Installer: inst, Catalog: cat, Archiver: arch}
	_, err := full.Run(context.Background(), nil, pipeline.Options{})
	assert.Error(t, err, "missing output path")
}

func TestInspect(t *testing.T) {
	target := t.TempDir()
	installPackage(t, target, "pandas", "2.0.0", []string{"pandas/ext.pyx"})
	installPackage(t, target, "six", "1.16.0", []string{"six.py"})

	p := &pipeline.Pipeline{Log: logger.Discard()}
	index, natives, err := p.Inspect(target)
	require.NoError(t, err)

	assert.Len(t, index, 2)
	assert.Equal(t, []string{"pandas"}, natives.Names())
}
