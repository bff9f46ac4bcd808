package main

import (
	"os"

	"github.com/Zuo-Peng/ai-evals/internal/open"
	"github.com/Zuo-Peng/ai-evals/internal/viz"
	"github.com/spf13/cobra"
)

func vizCmd() *cobra.Command {
	var noOpen bool

	cmd := &cobra.Command{
		Use:   "viz <input.jsonl|directory> [output.html]",
		Short: "Convert transcripts into standalone HTML reports",
		Long: `Converts a JSONL transcript into an HTML report next to it, or every
.jsonl file under a directory. An explicit output path applies to single
files only. The report is opened when exactly one file was converted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			c := viz.New(os.Stdout)
			if cfg.OpenReports && !noOpen {
				c.Open = open.OpenInViewer
			}
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			_, err = c.Run(args[0], output)
			return err
		},
	}
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "Do not open the report after converting")
	return cmd
}
