package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/ai-evals/internal/config"
	"github.com/Zuo-Peng/ai-evals/internal/index"
	"github.com/spf13/cobra"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan runs_root and index every transcript for search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Scanning %s...\n", cfg.RunsRoot)
			stats, err := index.IndexAll(db, cfg.RunsRoot)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}

// openIndexed opens the index and refreshes it before a query.
func openIndexed(cfg *config.Config) (*index.DB, error) {
	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if _, err := index.IndexAll(db, cfg.RunsRoot); err != nil {
		// a stale index is still searchable
		fmt.Fprintf(os.Stderr, "warning: refresh index: %v\n", err)
	}
	return db, nil
}
