package main

import (
	"fmt"
	"path/filepath"

	"github.com/Zuo-Peng/ai-evals/internal/index"
	"github.com/Zuo-Peng/ai-evals/internal/open"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	var line, hit int

	cmd := &cobra.Command{
		Use:   "open <transcript>",
		Short: "Open a transcript in $EDITOR at a line or search hit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			if hit >= 0 && line <= 0 {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				db, err := index.OpenDB(cfg.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()

				e, err := db.GetEntry(path, hit)
				if err != nil {
					return err
				}
				if e == nil {
					return fmt.Errorf("no entry %d in %s", hit, path)
				}
				line = e.LineNumber
			}
			return open.OpenInEditor(path, line)
		},
	}
	cmd.Flags().IntVar(&line, "line", 0, "Line to jump to")
	cmd.Flags().IntVar(&hit, "hit", -1, "Entry seq to jump to (looked up in the index)")
	return cmd
}
