// Package model provides data structures and types for representing package
// requirements, installed-package indexes and related metadata in pybundle.
package model

import (
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/kumarlokesh/pybundle/pkg/errors"
)

// VersionSeparator separates a package name from its exact-version pin in a
// requirement specifier, e.g. "numpy==1.23.5".
const VersionSeparator = "=="

// Requirement represents a requested package with an optional exact-version
// pin. Names are normalized to lowercase; equality and lookups key on Name.
type Requirement struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ParseRequirement parses a specifier of the form "name" or "name==version".
// The result is normalized to lowercase.
func ParseRequirement(spec string) (Requirement, error) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	if spec == "" {
		return Requirement{}, errors.ErrEmptyRequirement
	}

	name, ver, pinned := strings.Cut(spec, VersionSeparator)
	name = strings.TrimSpace(name)
	ver = strings.TrimSpace(ver)
	if name == "" || (pinned && ver == "") {
		return Requirement{}, errors.Wrapf(errors.ErrInvalidRequirement, "%q", spec)
	}
	if strings.ContainsAny(name, " <>!~=") {
		return Requirement{}, errors.Wrapf(errors.ErrInvalidRequirement, "%q", spec)
	}

	return Requirement{Name: name, Version: ver}, nil
}

// String renders the requirement back to specifier form.
func (r Requirement) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + VersionSeparator + r.Version
}

// Pinned reports whether the requirement carries an exact-version pin.
func (r Requirement) Pinned() bool {
	return r.Version != ""
}

// Unpinned returns a copy of the requirement with the version pin removed.
func (r Requirement) Unpinned() Requirement {
	return Requirement{Name: r.Name}
}

// GetVersion returns the parsed version pin, or nil if the requirement is
// unpinned or the pin is not a parseable version.
func (r Requirement) GetVersion() *version.Version {
	if r.Version == "" {
		return nil
	}
	v, err := version.NewVersion(r.Version)
	if err != nil {
		return nil
	}
	return v
}
