package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")

	// Requirement errors.
	ErrEmptyRequirement   = fmt.Errorf("requirement cannot be empty")
	ErrInvalidRequirement = fmt.Errorf("invalid requirement specifier")

	// Catalog errors.
	ErrCatalogParse  = fmt.Errorf("failed to parse catalog")
	ErrCatalogSource = fmt.Errorf("catalog source cannot be empty")

	// Local environment errors.
	ErrPackageNotInstalled = fmt.Errorf("package is not installed locally")

	// Pipeline errors.
	ErrNativeUnresolved = fmt.Errorf("native dependencies not available in the remote environment")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
