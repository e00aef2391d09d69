// Package pip invokes the pip package manager to materialize Python
// packages into a scratch directory and to inspect the local environment.
package pip

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/kumarlokesh/pybundle/pkg/errors"
)

const (
	// EnvPipExecutable overrides the pip executable used for installs.
	// When unset, pip is invoked as a module of the default interpreter.
	EnvPipExecutable = "PYBUNDLE_PIP"

	defaultInterpreter = "python3"
)

// Manager runs pip commands. A zero pip path means "run pip as a module
// of the Python interpreter".
type Manager struct {
	pip         string
	interpreter string
	log         *slog.Logger
}

// New creates a Manager honoring the EnvPipExecutable override.
func New(log *slog.Logger) *Manager {
	return NewWithExecutable(os.Getenv(EnvPipExecutable), log)
}

// NewWithExecutable creates a Manager that invokes the given pip
// executable directly. An empty path falls back to `python3 -m pip`.
func NewWithExecutable(pipPath string, log *slog.Logger) *Manager {
	return &Manager{
		pip:         pipPath,
		interpreter: defaultInterpreter,
		log:         log,
	}
}

// Install runs `pip install -t target spec...`, blocking until pip exits.
// Pip's output is logged at debug level on success. A missing executable
// surfaces as ErrPipNotFound; a nonzero exit surfaces as *ExitError.
func (m *Manager) Install(ctx context.Context, specs []string, target string) error {
	args := append([]string{"install", "-t", target}, specs...)
	cmd := m.command(ctx, args...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return m.classify(err, output.String())
	}

	m.log.Debug("pip install finished", "target", target, "output", output.String())
	return nil
}

// InstalledVersion reports the version of a package installed in the
// local environment by parsing `pip show` output. Absent packages yield
// errors.ErrPackageNotInstalled.
func (m *Manager) InstalledVersion(ctx context.Context, name string) (string, error) {
	cmd := m.command(ctx, "show", name)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		classified := m.classify(err, output.String())
		var exitErr *ExitError
		if stderrors.As(classified, &exitErr) {
			// pip show exits nonzero when the package is absent.
			return "", errors.Wrapf(errors.ErrPackageNotInstalled, "%s", name)
		}
		return "", classified
	}

	scanner := bufio.NewScanner(&output)
	for scanner.Scan() {
		if v, ok := strings.CutPrefix(scanner.Text(), "Version: "); ok {
			return strings.TrimSpace(v), nil
		}
	}
	return "", errors.Wrapf(errors.ErrPackageNotInstalled, "%s", name)
}

// command builds the pip invocation: the configured executable when set,
// otherwise pip as a module of the interpreter.
func (m *Manager) command(ctx context.Context, args ...string) *exec.Cmd {
	if m.pip != "" {
		return exec.CommandContext(ctx, m.pip, args...)
	}
	moduleArgs := append([]string{"-m", "pip"}, args...)
	return exec.CommandContext(ctx, m.interpreter, moduleArgs...)
}

// classify maps process-launch failures to ErrPipNotFound and nonzero
// exits to *ExitError.
func (m *Manager) classify(err error, output string) error {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		m.log.Debug("pip exited nonzero", "code", exitErr.ExitCode(), "output", output)
		return &ExitError{Code: exitErr.ExitCode(), Output: output}
	}
	if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(ErrPipNotFound, "%v", err)
	}
	return err
}
