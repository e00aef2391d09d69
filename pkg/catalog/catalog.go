// Package catalog models the remote environment's list of natively
// available packages and reconciles requested package sets against it.
package catalog

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/kumarlokesh/pybundle/pkg/errors"
)

// Catalog maps a package name to the ordered list of version strings
// available in the remote environment. It is supplied by an external
// lookup service and treated as read-only input.
type Catalog map[string][]string

// Parse decodes a catalog from its JSON wire shape, normalizing package
// names to lowercase.
func Parse(data []byte) (Catalog, error) {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCatalogParse, err.Error())
	}

	cat := make(Catalog, len(raw))
	for name, versions := range raw {
		cat[strings.ToLower(name)] = versions
	}
	return cat, nil
}

// Has reports whether the catalog carries any version of the named package.
func (c Catalog) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// HasVersion reports whether the catalog carries the exact version of the
// named package.
func (c Catalog) HasVersion(name, ver string) bool {
	for _, v := range c[name] {
		if v == ver {
			return true
		}
	}
	return false
}

// Latest returns the highest available version of the named package, or
// the empty string when the package is absent. Versions that do not parse
// are ranked below ones that do; if nothing parses, the last list entry
// is returned, preserving the catalog's own ordering.
func (c Catalog) Latest(name string) string {
	versions, ok := c[name]
	if !ok || len(versions) == 0 {
		return ""
	}

	parsed := make([]*version.Version, 0, len(versions))
	for _, raw := range versions {
		if v, err := version.NewVersion(raw); err == nil {
			parsed = append(parsed, v)
		}
	}
	if len(parsed) == 0 {
		return versions[len(versions)-1]
	}
	sort.Sort(version.Collection(parsed))
	return parsed[len(parsed)-1].Original()
}
