package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Zuo-Peng/ai-evals/internal/scan"
	"github.com/Zuo-Peng/ai-evals/internal/validate"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("validation failed")

func validateCmd() *cobra.Command {
	var all, asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <scenario> <component-file> | --all <project-root>",
		Short: "Run a scenario's static checks against a generated component",
		Long: `Runs the static source checks of one scenario against a component file.
With --all, every scenario under evals_root that has a validator is checked
against <project-root>/<scenario>/<component_path>. Exits non-zero when any
component is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if !all {
				if len(args) != 2 {
					return fmt.Errorf("expected <scenario> <component-file>")
				}
				v, ok := validate.Lookup(args[0])
				if !ok {
					return fmt.Errorf("no validator for scenario %q", args[0])
				}
				return runValidation(v, args[1], asJSON)
			}

			if len(args) != 1 {
				return fmt.Errorf("expected <project-root> with --all")
			}
			scenarios, err := scan.FindScenarios(cfg.EvalsRoot)
			if err != nil {
				return fmt.Errorf("list scenarios: %w", err)
			}
			failed := false
			for _, s := range scenarios {
				v, ok := validate.Lookup(s.Name)
				if !ok {
					continue
				}
				path := filepath.Join(args[0], s.Name, cfg.ComponentPath)
				if err := runValidation(v, path, asJSON); err != nil {
					if !errors.Is(err, errInvalid) {
						fmt.Fprintf(os.Stderr, "%s: %v\n", s.Name, err)
					}
					failed = true
				}
			}
			if failed {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Validate every scenario's component under a project root")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func runValidation(v validate.Validator, path string, asJSON bool) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read component: %w", err)
	}
	res := v.Validate(string(code))

	if asJSON {
		out, err := json.Marshal(struct {
			Scenario string `json:"scenario"`
			validate.Result
		}{v.Scenario, res})
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else if res.Valid {
		fmt.Printf("✓ %s\n", v.Scenario)
	} else {
		fmt.Printf("✗ %s\n", v.Scenario)
		for _, e := range res.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}

	if !res.Valid {
		return errInvalid
	}
	return nil
}
