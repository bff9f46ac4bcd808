package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Zuo-Peng/ai-evals/internal/experiment"
	"github.com/Zuo-Peng/ai-evals/internal/scan"
	"github.com/spf13/cobra"
)

func experimentsCmd() *cobra.Command {
	var setupDir, scenario string

	cmd := &cobra.Command{
		Use:   "experiments [name]",
		Short: "Print experiment configs merged over the base experiment",
		Long: `Print every experiment (built-in and configured) merged over the base
experiment. With --setup, write one experiment's sandbox files into a
directory, optionally on top of a scenario's files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			named := experiment.Resolve(cfg.Experiment, experiment.WithBuiltins(cfg.Experiments))
			if len(args) == 1 {
				var found []experiment.Named
				for _, n := range named {
					if n.Name == args[0] {
						found = append(found, n)
					}
				}
				if len(found) == 0 {
					return fmt.Errorf("unknown experiment %q", args[0])
				}
				named = found
			}

			if setupDir != "" {
				if len(args) != 1 {
					return errors.New("--setup needs an experiment name")
				}
				var base map[string]string
				if scenario != "" {
					base, err = scan.ReadTree(filepath.Join(cfg.EvalsRoot, scenario), "")
					if err != nil {
						return fmt.Errorf("read scenario %s: %w", scenario, err)
					}
				}
				files := named[0].Config.SandboxFiles(base)
				if err := experiment.WriteFiles(setupDir, files); err != nil {
					return err
				}
				fmt.Printf("Wrote %d file(s) to %s\n", len(files), setupDir)
				return nil
			}

			out, err := json.MarshalIndent(named, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&setupDir, "setup", "", "write the experiment's sandbox files into this directory")
	cmd.Flags().StringVar(&scenario, "scenario", "", "scenario under evals_root to copy before the setup files")
	return cmd
}
