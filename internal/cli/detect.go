package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kumarlokesh/pybundle/pkg/pipeline"
)

// NewDetectCmd creates the detect command.
func NewDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect DIRECTORY",
		Short: "List installed packages and native dependencies in a directory",
		Long: `Scan a pip target directory, report every installed package found in its
dist-info metadata and flag the packages that ship native extensions or
shared libraries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runDetect(args[0])
		},
	}

	return cmd
}

func runDetect(dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	p := &pipeline.Pipeline{Log: log}
	index, natives, err := p.Inspect(dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	specs := make([]string, 0, len(index))
	for req := range index {
		specs = append(specs, req.String())
	}
	sort.Strings(specs)

	for _, spec := range specs {
		fmt.Println(spec)
	}
	if natives.Len() > 0 {
		fmt.Printf("native: %v\n", natives.Names())
	}
	return nil
}
