// Package distinfo reads Python dist-info metadata directories to map
// installed packages to the files and directories they own.
package distinfo

import (
	"bufio"
	"os"
	"strings"

	"github.com/kumarlokesh/pybundle/pkg/errors"
	"github.com/kumarlokesh/pybundle/pkg/model"
)

const (
	// MetadataFileName is the per-package descriptor file inside a dist-info directory.
	MetadataFileName = "METADATA"
	// RecordFileName is the install-record manifest inside a dist-info directory.
	RecordFileName = "RECORD"

	// distInfoPattern matches dist-info directory names under an install root.
	distInfoPattern = "*dist-info"

	namePrefix    = "Name: "
	versionPrefix = "Version: "
)

// ReadMetadata extracts a package identity from a METADATA file. The name
// comes from the first "Name: <value>" line and the optional version from
// the first "Version: <value>" line; the result is lowercased. A file
// without a Name line yields ok=false, which callers treat as "skip this
// package" rather than a failure.
func ReadMetadata(path string) (model.Requirement, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Requirement{}, false, errors.Wrapf(err, "cannot open metadata file %s", path)
	}
	defer func() { _ = file.Close() }()

	var name, ver string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if v, ok := strings.CutPrefix(line, namePrefix); ok && name == "" {
			name = strings.TrimSpace(v)
		}
		if v, ok := strings.CutPrefix(line, versionPrefix); ok && ver == "" {
			ver = strings.TrimSpace(v)
		}
		if name != "" && ver != "" {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return model.Requirement{}, false, errors.Wrapf(err, "cannot read metadata file %s", path)
	}

	if name == "" {
		return model.Requirement{}, false, nil
	}
	return model.Requirement{
		Name:    strings.ToLower(name),
		Version: strings.ToLower(ver),
	}, true, nil
}
