package hooks

import (
	"github.com/kumarlokesh/pybundle/pkg/errors"
)

// Common hook errors, re-exported for callers that match on them.
var (
	ErrHookExecution = errors.ErrHookExecution
	ErrHookScript    = errors.ErrHookScript
	ErrHookLoad      = errors.ErrHookLoad
)

// ErrUnsupportedHookType is returned when an unknown hook type is registered.
func ErrUnsupportedHookType(hookType string) error {
	return errors.Wrapf(errors.ErrHookLoad, "unsupported hook type: %s", hookType)
}
