package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, overridable at link time:
//
//	go build -ldflags "-X github.com/kumarlokesh/pybundle/internal/cli.Version=v1.2.3 ..."
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version, build and platform information for pybundle",
		Run:   runVersion,
	}

	return cmd
}

func runVersion(*cobra.Command, []string) {
	fmt.Printf("pybundle version %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	fmt.Printf("platform: %s/%s (%s)\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
}
