package hooks

import (
	"os"

	"github.com/kumarlokesh/pybundle/pkg/errors"
)

// LoadHookFile reads a Tengo script from disk and registers it with the
// executor under the given hook type.
func LoadHookFile(executor Executor, hookType HookType, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(ErrHookLoad, "cannot read hook file %s: %v", path, err)
	}
	return executor.AddHook(Hook{Type: hookType, Content: string(content)})
}
