package pip

import "fmt"

// ErrPipNotFound is returned when no pip executable can be located.
var ErrPipNotFound = fmt.Errorf(
	"pip not found; install pip in your environment or point the %s environment variable at your pip executable",
	EnvPipExecutable)

// ExitError is returned when pip runs but exits nonzero.
type ExitError struct {
	Code   int
	Output string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return fmt.Sprintf("pip failed with exit code %d", e.Code)
}
