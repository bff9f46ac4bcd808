package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Zuo-Peng/ai-evals/internal/search"
	"github.com/Zuo-Peng/ai-evals/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorGreen   = "\033[1;32m"
	sColorDim     = "\033[2m"
)

func colorizeKind(kind, tool string) string {
	switch kind {
	case "tool":
		return sColorBlue + tool + sColorReset
	case "text":
		return sColorGreen + "text" + sColorReset
	default:
		return kind
	}
}

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

// oneLine makes a value safe for a TSV column.
func oneLine(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ").Replace(s)
}

// addFilterFlags registers the filters shared by search and list.
func addFilterFlags(cmd *cobra.Command, opts *search.Options, defaultLimit int) {
	cmd.Flags().StringVar(&opts.Tool, "tool", "", "Only transcripts or hits involving this tool")
	cmd.Flags().StringVar(&opts.Since, "since", "", "Only transcripts started since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.Limit, "limit", defaultLimit, "Max results")
}

func searchCmd() *cobra.Command {
	var opts search.Options

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed transcripts",
		Long: `Searches messages and tool calls of indexed transcripts using FTS5.
On a terminal this opens the interactive browser; otherwise it prints TSV:
  path, seq, line, startedAt, kind, summary, snippet
Example fzf binding:
  aev search "$*" | fzf --ansi --delimiter='\t' --with-nth=4.. \
    --preview 'aev preview {1} --hit {2} --context 5 --query {q}' \
    --bind 'enter:execute(aev open {1} --line {3})'`,
		Args: cobra.ExactArgs(1),
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
				return tui.Run(db, args[0], tui.Options{Search: opts, OpenReports: cfg.OpenReports})
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}
			for _, r := range results {
				// path, seq and line stay plain for fzf field references
				fmt.Printf("%s\t%d\t%d\t%s%s%s\t%s\t%s\t%s\n",
					r.Path,
					r.Seq,
					r.Line,
					sColorDim, r.StartedAt, sColorReset,
					colorizeKind(r.Kind, r.Tool),
					oneLine(r.Summary),
					colorizeSnippet(oneLine(r.Snippet)),
				)
			}
			return nil
		},
	}
	addFilterFlags(cmd, &opts, 100)
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Filter by entry kind (text/tool)")
	return cmd
}
