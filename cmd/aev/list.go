package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/ai-evals/internal/search"
	"github.com/Zuo-Peng/ai-evals/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func listCmd() *cobra.Command {
	var opts search.Options

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all transcripts, newest first",
		Long: `Opens a TUI listing every indexed transcript, newest first. Typing
searches the transcript text. When stdout is not a terminal a table is
printed instead.`,
		Args: cobra.NoArgs,
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

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.RunList(db, tui.Options{Search: opts, OpenReports: cfg.OpenReports})
			}

			results, err := search.ListAll(db, opts)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%s\t%s\t%d\t%d\t$%.2f\t%s\n",
					r.Path, r.StartedAt, r.Steps, r.ToolCalls, r.Cost, oneLine(r.Summary))
			}
			return nil
		},
	}
	addFilterFlags(cmd, &opts, 0)
	return cmd
}
