package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kumarlokesh/pybundle/pkg/catalog"
	"github.com/kumarlokesh/pybundle/pkg/model"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	var catalogSrc string

	cmd := &cobra.Command{
		Use:   "resolve [PACKAGE...]",
		Short: "Check packages against the remote catalog without installing",
		Long: `Compare the requested packages against the remote environment's catalog
and report which would be used as-is and which are unknown to the remote
side. Nothing is installed or bundled.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, catalogSrc)
		},
	}

	cmd.Flags().StringVar(&catalogSrc, "catalog", "", "Catalog source, a file path or http(s) URL (defaults to config)")

	return cmd
}

func runResolve(cmd *cobra.Command, args []string, catalogSrc string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	requested, err := ParseRequirements(args)
	if err != nil {
		return err
	}

	source := catalogSrc
	if source == "" {
		source = cfg.Catalog.Source
	}
	if source == "" {
		return fmt.Errorf("no catalog source configured; pass --catalog or set catalog.source in the config file")
	}

	cat, err := catalog.Load(cmd.Context(), source, cfg.Settings.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	// No install directory to scan, so nothing can be flagged native here.
	rec, _ := catalog.Reconcile(requested, cat, model.NewPackageSet(), log)

	for _, req := range rec.Supported {
		fmt.Printf("supported: %s\n", req.String())
	}
	for _, req := range rec.Unresolved {
		fmt.Printf("unresolved: %s\n", req.String())
	}
	return nil
}
