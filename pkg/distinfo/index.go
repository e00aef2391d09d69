package distinfo

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kumarlokesh/pybundle/pkg/errors"
	"github.com/kumarlokesh/pybundle/pkg/fsutil"
	"github.com/kumarlokesh/pybundle/pkg/model"
)

// Index maps each installed package to the deduplicated top-level file or
// directory entries it owns, relative to the install root. It is built
// once per install directory and not updated incrementally.
type Index map[model.Requirement][]string

// ReverseIndex maps a top-level entry to the set of package names that
// claim ownership of it. Multiple owners are permitted but rare.
type ReverseIndex map[string]model.PackageSet

// BuildIndex scans root for *dist-info metadata directories and returns
// the package-to-entries index. Packages whose METADATA lacks a Name line
// or whose RECORD manifest is missing or unreadable contribute nothing;
// manifest entries that do not exist on disk or resolve outside root are
// excluded.
func BuildIndex(root string, log *slog.Logger) (Index, error) {
	metadataFiles, err := filepath.Glob(filepath.Join(root, distInfoPattern, MetadataFileName))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot scan %s for dist-info directories", root)
	}

	index := make(Index, len(metadataFiles))
	for _, metadataFile := range metadataFiles {
		req, ok, err := ReadMetadata(metadataFile)
		if err != nil {
			log.Debug("skipping unreadable metadata file", "path", metadataFile, "error", err)
			continue
		}
		if !ok {
			log.Debug("metadata file has no Name line", "path", metadataFile)
			continue
		}

		recordPath := filepath.Join(filepath.Dir(metadataFile), RecordFileName)
		entries, err := readRecordEntries(root, recordPath)
		if err != nil {
			log.Debug("skipping package without readable install record", "package", req.Name, "error", err)
			continue
		}
		index[req] = entries
	}
	return index, nil
}

// Invert computes the reverse file index: top-level entry to owning
// package names. The result is derived and read-only; callers recompute
// it when the index changes.
func (ix Index) Invert() ReverseIndex {
	reverse := make(ReverseIndex)
	for req, entries := range ix {
		for _, entry := range entries {
			owners, ok := reverse[entry]
			if !ok {
				owners = make(model.PackageSet, 1)
				reverse[entry] = owners
			}
			owners.Add(req.Name)
		}
	}
	return reverse
}

// readRecordEntries parses a RECORD manifest and returns the unique
// top-level entries that exist on disk inside root. Each manifest line is
// comma-delimited with the installed path first; the entry is the path
// component before the first separator, or the whole path field when the
// line names a top-level file.
func readRecordEntries(root, recordPath string) ([]string, error) {
	file, err := os.Open(recordPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		pathField, _, _ := strings.Cut(line, ",")
		entry, _, hasSep := strings.Cut(pathField, "/")
		if !hasSep || entry == "" {
			entry = pathField
		}
		seen[entry] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(seen))
	for entry := range seen {
		if entry == "" {
			continue
		}
		resolved := filepath.Join(root, filepath.FromSlash(entry))
		if _, err := os.Stat(resolved); err != nil {
			continue
		}
		inside, err := fsutil.WithinRoot(root, resolved)
		if err != nil || !inside {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Strings(entries)
	return entries, nil
}
