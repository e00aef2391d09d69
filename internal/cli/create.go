package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kumarlokesh/pybundle/pkg/bundle"
	"github.com/kumarlokesh/pybundle/pkg/hooks"
	"github.com/kumarlokesh/pybundle/pkg/pip"
	"github.com/kumarlokesh/pybundle/pkg/pipeline"
)

// NewCreateCmd creates the create command.
func NewCreateCmd() *cobra.Command {
	var (
		output         string
		targetDir      string
		catalogSrc     string
		forceNative    bool
		preBundleHook  string
		postBundleHook string
		hookVars       map[string]string
	)

	cmd := &cobra.Command{
		Use:   "create [PACKAGE...]",
		Short: "Install packages and bundle them into a zip archive",
		Long: `Install the requested packages with pip, reconcile them against the
remote environment's catalog and write everything into a single zip bundle.
Packages may be pinned ("name==version") or unpinned ("name").`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, createOptions{
				output:         output,
				targetDir:      targetDir,
				catalogSrc:     catalogSrc,
				forceNative:    forceNative,
				preBundleHook:  preBundleHook,
				postBundleHook: postBundleHook,
				hookVars:       hookVars,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path for the zip bundle (required)")
	cmd.Flags().StringVar(&targetDir, "target-dir", "", "Install into this directory instead of a temporary one (kept after bundling)")
	cmd.Flags().StringVar(&catalogSrc, "catalog", "", "Catalog source, a file path or http(s) URL (defaults to config)")
	cmd.Flags().BoolVar(&forceNative, "force-native", false, "Bundle native dependencies even when the catalog cannot satisfy them")
	cmd.Flags().StringVar(&preBundleHook, "pre-bundle-hook", "", "Tengo script to run before the archive is written")
	cmd.Flags().StringVar(&postBundleHook, "post-bundle-hook", "", "Tengo script to run after the archive is written")
	cmd.Flags().StringToStringVar(&hookVars, "hook-var", nil, "Extra variables exposed to hook scripts (key=value, comma-separated)")

	if err := cmd.MarkFlagRequired("output"); err != nil {
		// This should never happen since we control the flag names
		panic(fmt.Sprintf("failed to mark output as required: %v", err))
	}

	return cmd
}

type createOptions struct {
	output         string
	targetDir      string
	catalogSrc     string
	forceNative    bool
	preBundleHook  string
	postBundleHook string
	hookVars       map[string]string
}

func runCreate(cmd *cobra.Command, args []string, opts createOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	requested, err := ParseRequirements(args)
	if err != nil {
		return err
	}

	source := opts.catalogSrc
	if source == "" {
		source = cfg.Catalog.Source
	}
	if source == "" {
		return fmt.Errorf("no catalog source configured; pass --catalog or set catalog.source in the config file")
	}

	var pipMgr *pip.Manager
	if cfg.Settings.PipPath != "" {
		pipMgr = pip.NewWithExecutable(cfg.Settings.PipPath, log)
	} else {
		pipMgr = pip.New(log)
	}

	executor, err := loadHookExecutor(opts.preBundleHook, opts.postBundleHook)
	if err != nil {
		return err
	}

	progress := pipeline.Hooks{OnEvent: func(e pipeline.Event) {
		fmt.Printf("%s: %s\n", e.Phase, e.Msg)
	}}

	p := &pipeline.Pipeline{
		Installer:    pipMgr,
		Catalog:      catalogSource{source: source, timeout: cfg.Settings.HTTPTimeout},
		Archiver:     bundle.NewManager(),
		HookExecutor: executor,
		LocalVersion: pipMgr.InstalledVersion,
		Log:          log,
		Hooks:        progress,
	}

	vars := make(map[string]interface{}, len(opts.hookVars))
	for k, v := range opts.hookVars {
		vars[k] = v
	}

	res, err := p.Run(cmd.Context(), requested, pipeline.Options{
		TargetDir:      opts.targetDir,
		OutputPath:     opts.output,
		RuntimePackage: cfg.Settings.RuntimePackage,
		ForceNative:    opts.forceNative,
		HookVars:       vars,
	})
	if err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}

	printReconciliation(res)
	return nil
}

// loadHookExecutor returns a configured executor, or nil when no hook
// scripts were requested.
func loadHookExecutor(preBundle, postBundle string) (hooks.Executor, error) {
	if preBundle == "" && postBundle == "" {
		return nil, nil
	}
	executor := hooks.NewTengoExecutor()
	if preBundle != "" {
		if err := hooks.LoadHookFile(executor, hooks.PreBundle, preBundle); err != nil {
			return nil, err
		}
	}
	if postBundle != "" {
		if err := hooks.LoadHookFile(executor, hooks.PostBundle, postBundle); err != nil {
			return nil, err
		}
	}
	return executor, nil
}

func printReconciliation(res *pipeline.Result) {
	for _, req := range res.Reconciliation.Dropped {
		fmt.Printf("replaced local pin: %s\n", req.String())
	}
	for _, req := range res.Reconciliation.Unresolved {
		fmt.Printf("bundled as-is (not in catalog): %s\n", req.String())
	}
	if res.UnresolvedNative.Len() > 0 {
		fmt.Printf("native packages bundled without catalog support: %v\n", res.UnresolvedNative.Names())
	}
	fmt.Printf("bundle written to %s\n", res.ArchivePath)
}
