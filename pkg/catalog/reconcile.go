package catalog

import (
	"log/slog"

	"github.com/kumarlokesh/pybundle/pkg/model"
)

// Reconciliation holds the disjoint outcome buckets of reconciling a
// requested package set against a catalog. None of the lists are mutated
// after Reconcile returns.
type Reconciliation struct {
	// Supported are requested packages available remotely as requested:
	// either unpinned with the name in the catalog, or pinned to a version
	// the catalog carries.
	Supported []model.Requirement
	// Dropped are native packages pinned to a version the catalog does not
	// carry; each has a same-named unpinned replacement in Added.
	Dropped []model.Requirement
	// Added are the unpinned replacements for Dropped entries, meaning
	// "use the latest available version".
	Added []model.Requirement
	// Unresolved are packages the catalog cannot account for: names absent
	// from the catalog entirely, or non-native packages pinned to an
	// unavailable version. Callers decide their fate (for example treating
	// them as bundle-only packages).
	Unresolved []model.Requirement
}

// Reconcile computes which requested packages the remote environment can
// satisfy. Native packages pinned to an unavailable version are swapped
// for the latest catalog version; everything else the catalog cannot
// serve lands in Unresolved.
//
// The returned PackageSet is a reduced copy of natives: every name the
// catalog carries at any version has been removed, so what remains are
// the genuinely problematic native dependencies the caller must surface.
// The input set is never mutated.
func Reconcile(requested []model.Requirement, cat Catalog, natives model.PackageSet, log *slog.Logger) (Reconciliation, model.PackageSet) {
	var rec Reconciliation
	remaining := natives.Clone()

	for _, req := range requested {
		if !cat.Has(req.Name) {
			rec.Unresolved = append(rec.Unresolved, req)
			continue
		}

		switch {
		case !req.Pinned() || cat.HasVersion(req.Name, req.Version):
			rec.Supported = append(rec.Supported, req)
		case natives.Contains(req.Name):
			log.Warn("native dependency version unavailable remotely, switching to latest",
				"package", req.Name,
				"requested", req.Version,
				"substituted", cat.Latest(req.Name))
			rec.Dropped = append(rec.Dropped, req)
			rec.Added = append(rec.Added, req.Unpinned())
		default:
			rec.Unresolved = append(rec.Unresolved, req)
		}

		// A name the catalog carries is never a problematic native
		// dependency, whichever bucket the request landed in.
		remaining.Remove(req.Name)
	}

	return rec, remaining
}
