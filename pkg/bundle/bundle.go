// Package bundle archives a package-install directory into a single
// deployable zip for upload to the remote environment.
package bundle

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/kumarlokesh/pybundle/pkg/fsutil"
)

// Manager handles bundle creation.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Create writes a deflate-compressed zip at outputPath containing every
// file under targetDir (stored relative to targetDir) plus every regular,
// non-hidden file sitting one directory level above it. The layout
// supports loose supporting files placed alongside the install directory
// that must ride along in the same bundle. The output archive itself is
// never included.
func (m *Manager) Create(ctx context.Context, targetDir, outputPath string) error {
	absTarget, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for target directory: %w", err)
	}
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for output archive: %w", err)
	}

	fileMap := map[string]string{
		absTarget + string(os.PathSeparator): "",
	}

	parent := filepath.Dir(absTarget)
	entries, err := os.ReadDir(parent)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", parent, err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		full := filepath.Join(parent, entry.Name())
		if full == absOutput {
			continue
		}
		fileMap[full] = entry.Name()
	}

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, fileMap)
	if err != nil {
		return fmt.Errorf("failed to read files from disk: %w", err)
	}

	if err := fsutil.EnsureFileDir(absOutput); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := fsutil.CreateFilePerm(absOutput, fsutil.FileModeDefault)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", absOutput, err)
	}
	defer func() {
		_ = file.Sync()
		_ = file.Close()
	}()

	format := archives.Zip{Compression: zip.Deflate}
	if err := format.Archive(ctx, file, archiveFiles); err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}
	return nil
}
