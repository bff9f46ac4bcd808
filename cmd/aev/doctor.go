package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/ai-evals/internal/index"
	"github.com/Zuo-Peng/ai-evals/internal/scan"
	"github.com/Zuo-Peng/ai-evals/internal/validate"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify roots, DB, FTS5, and show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Println("=== Roots ===")
			checkDir("Runs", cfg.RunsRoot)
			checkDir("Evals", cfg.EvalsRoot)

			fmt.Println("\n=== Scan ===")
			if files, err := scan.FindTranscripts(cfg.RunsRoot); err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				fmt.Printf("  Transcripts: %d\n", len(files))
			}
			if scenarios, err := scan.FindScenarios(cfg.EvalsRoot); err == nil {
				checked := 0
				for _, s := range scenarios {
					if _, ok := validate.Lookup(s.Name); ok {
						checked++
					}
				}
				fmt.Printf("  Scenarios:   %d (%d with static checks)\n", len(scenarios), checked)
			}

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'aev index' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			transcripts, err := db.TranscriptCount()
			if err != nil {
				return fmt.Errorf("count transcripts: %w", err)
			}
			entries, err := db.EntryCount()
			if err != nil {
				return fmt.Errorf("count entries: %w", err)
			}
			fmt.Printf("  Transcripts: %d\n", transcripts)
			fmt.Printf("  Entries:     %d\n", entries)

			fmt.Println("\n=== FTS5 ===")
			if fts, err := db.FTSCount(); err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", fts)
				if fts == entries {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (entries=%d, fts=%d)\n", entries, fts)
				}
			}

			if tools, err := db.ToolTotals(); err == nil && len(tools) > 0 {
				fmt.Println("\n=== Top Tools ===")
				for i, tc := range tools {
					if i == 10 {
						break
					}
					fmt.Printf("  %-16s %d\n", tc.Tool, tc.Count)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", float64(info.Size())/1024/1024)
			}
			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
