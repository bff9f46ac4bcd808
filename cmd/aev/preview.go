package main

import (
	"fmt"
	"path/filepath"

	"github.com/Zuo-Peng/ai-evals/internal/render"
	"github.com/spf13/cobra"
)

func previewCmd() *cobra.Command {
	var hit, context, width int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <transcript>",
		Short: "Preview a transcript with context around a hit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openIndexed(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			out, _, err := render.RenderTranscript(db, path, render.Options{
				HitSeq:  hit,
				Context: context,
				Width:   width,
				Query:   query,
			})
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().IntVar(&hit, "hit", -1, "Entry seq to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Entries before/after hit to show")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = no wrap)")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")
	return cmd
}
