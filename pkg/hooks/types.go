// Package hooks runs user-provided Tengo scripts around bundle creation,
// letting callers prune the scratch directory or stamp extra files before
// the archive is written.
package hooks

// HookType represents the lifecycle point a hook runs at.
type HookType string

// Supported hook types.
const (
	PreBundle  HookType = "pre-bundle"
	PostBundle HookType = "post-bundle"
)

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext carries the bundle state exposed to hook scripts.
type HookContext struct {
	TargetDir  string
	OutputPath string
	Packages   []string
	Vars       map[string]interface{}
}

// Executor defines the interface for managing and running hooks.
type Executor interface {
	// Execute runs the hook of the given type with the given context;
	// a missing hook is a no-op.
	Execute(hookType HookType, ctx HookContext) error

	// AddHook registers a hook script.
	AddHook(hook Hook) error

	// HasHook checks if a hook of the specified type exists.
	HasHook(hookType HookType) bool
}
