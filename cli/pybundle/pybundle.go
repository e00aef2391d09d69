package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kumarlokesh/pybundle/internal/cli"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pybundle",
		Short: "Bundle Python packages for a restricted remote runtime",
		Long: `pybundle installs Python packages locally, reconciles them against the
remote environment's package catalog and ships the result as a zip bundle:
- create: install, reconcile and bundle packages
- detect: inspect an install directory for native dependencies
- resolve: preview catalog support without installing`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose

	// Add subcommands
	cmd.AddCommand(
		cli.NewCreateCmd(),
		cli.NewDetectCmd(),
		cli.NewResolveCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
