package main

import (
	"fmt"

	"github.com/Zuo-Peng/ai-evals/internal/scan"
	"github.com/Zuo-Peng/ai-evals/internal/validate"
	"github.com/spf13/cobra"
)

func scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List eval scenarios and whether each has static checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			scenarios, err := scan.FindScenarios(cfg.EvalsRoot)
			if err != nil {
				// no evals checkout; list the built-in validators only
				for _, name := range validate.Scenarios() {
					v, _ := validate.Lookup(name)
					fmt.Printf("%-24s %d checks  %s\n", name, len(v.Rules), v.Description)
				}
				return nil
			}

			for _, s := range scenarios {
				v, ok := validate.Lookup(s.Name)
				if !ok {
					fmt.Printf("%-24s -\n", s.Name)
					continue
				}
				fmt.Printf("%-24s %d checks  %s\n", s.Name, len(v.Rules), v.Description)
			}
			return nil
		},
	}
}
