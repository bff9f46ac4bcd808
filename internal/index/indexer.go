package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zuo-Peng/ai-evals/internal/report"
	"github.com/Zuo-Peng/ai-evals/internal/scan"
	"github.com/Zuo-Peng/ai-evals/internal/transcript"
)

const (
	tsLayout     = "2006-01-02T15:04:05Z"
	summaryLimit = 200
	outputLimit  = 2000
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// IndexAll brings the index in line with the transcripts under root.
// Files whose mtime and size are unchanged are skipped and transcripts that
// no longer exist are pruned. A file that fails to index is logged and
// counted; it does not stop the run.
func IndexAll(db *DB, root string) (Stats, error) {
	var stats Stats

	abs, err := filepath.Abs(root)
	if err != nil {
		return stats, err
	}
	files, err := scan.FindTranscripts(abs)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	seen := make(map[string]struct{}, len(files))
	for _, fi := range files {
		seen[fi.Path] = struct{}{}

		needs, err := needsUpdate(db, fi)
		if err != nil {
			stats.Errors++
			slog.Warn("check index stamp", "path", fi.Path, "err", err)
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		if err := IndexFile(db, fi); err != nil {
			stats.Errors++
			slog.Warn("index transcript", "path", fi.Path, "err", err)
			continue
		}
		stats.Updated++
	}

	pruned, err := prune(db, seen)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned
	return stats, nil
}

func needsUpdate(db *DB, fi scan.FileInfo) (bool, error) {
	st, err := db.Stamp(fi.Path)
	if err != nil {
		return false, err
	}
	if st == nil {
		return true, nil
	}
	return st.Mtime != fi.Mtime || st.Size != fi.Size, nil
}

// IndexFile replaces everything stored for one transcript.
func IndexFile(db *DB, fi scan.FileInfo) error {
	events, err := transcript.ReadFile(fi.Path)
	if err != nil {
		return err
	}
	steps := transcript.GroupSteps(events)
	sum := report.Summarize(steps)

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteTranscript(tx, fi.Path); err != nil {
		return err
	}

	var started string
	if len(events) > 0 && events[0].Timestamp > 0 {
		started = formatTs(events[0].Timestamp)
	}
	_, err = tx.Exec(
		`INSERT INTO transcripts (path, report_path, started_at, summary, steps, tool_calls, messages,
		    cost, input_tokens, output_tokens, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fi.Path, scan.ReportPath(fi.Path), started, summarize(steps),
		sum.Steps, sum.ToolCalls, sum.Messages,
		sum.Cost, sum.InputTokens, sum.OutputTokens,
		fi.Mtime, fi.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO entries (path, seq, step, ts, kind, tool, text, line_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	seq := 0
	for i, s := range steps {
		for _, ev := range s.Events {
			kind, tool, text, ok := entryOf(ev)
			if !ok {
				continue
			}
			if _, err := stmt.Exec(fi.Path, seq, i, formatTs(ev.Timestamp), kind, tool, text, ev.Line); err != nil {
				return err
			}
			seq++
		}
	}

	for _, tc := range sum.Tools {
		if _, err := tx.Exec(
			"INSERT INTO tool_usage (path, tool, count) VALUES (?, ?, ?)",
			fi.Path, tc.Name, tc.Count,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// entryOf extracts the searchable text of a message or tool call.
func entryOf(ev transcript.Event) (kind, tool, text string, ok bool) {
	switch ev.Type {
	case transcript.TypeText:
		t := ev.Text().Text
		return "text", "", t, strings.TrimSpace(t) != ""
	case transcript.TypeToolUse:
		tu := ev.ToolUse()
		name := report.ToolName(ev)
		var b strings.Builder
		b.WriteString(name)
		for _, f := range tu.Input {
			if transcript.IsNull(f.Value) {
				continue
			}
			fmt.Fprintf(&b, "\n%s: %s", f.Key, searchableText(f.Value))
		}
		if !transcript.IsFalsy(tu.Output) {
			out := searchableText(tu.Output)
			if r := []rune(out); len(r) > outputLimit {
				out = string(r[:outputLimit]) + "..."
			}
			b.WriteString("\n")
			b.WriteString(out)
		}
		return "tool", name, b.String(), true
	}
	return "", "", "", false
}

// searchableText keeps composite values as their JSON so their contents
// stay searchable.
func searchableText(raw json.RawMessage) string {
	if transcript.IsComposite(raw) {
		return string(bytes.TrimSpace(raw))
	}
	return transcript.DisplayString(raw)
}

// summarize returns the first message of the transcript on one line.
func summarize(steps []transcript.Step) string {
	for _, s := range steps {
		for _, ev := range s.Events {
			if ev.Type != transcript.TypeText {
				continue
			}
			t := strings.Join(strings.Fields(ev.Text().Text), " ")
			if t == "" {
				continue
			}
			if r := []rune(t); len(r) > summaryLimit {
				t = string(r[:summaryLimit]) + "..."
			}
			return t
		}
	}
	return ""
}

func formatTs(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(tsLayout)
}

func prune(db *DB, seen map[string]struct{}) (int, error) {
	all, err := db.AllPaths()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for p := range all {
		if _, ok := seen[p]; ok {
			continue
		}
		if err := db.DeleteTranscript(p); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}
