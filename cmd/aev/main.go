package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/ai-evals/internal/config"
	"github.com/Zuo-Peng/ai-evals/internal/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "aev",
		Short:         "AI evals - visualize, index and validate agent transcripts",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(scenariosCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(experimentsCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and installs the logger it asks for.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Init(logging.ParseLevel(cfg.LogLevel))
	return cfg, nil
}
