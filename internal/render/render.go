// Package render draws an indexed transcript as ANSI text for the terminal.
package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Zuo-Peng/ai-evals/internal/index"
	"github.com/mattn/go-runewidth"
)

const (
	colorReset   = "\033[0m"
	colorStep    = "\033[1;36m" // bold cyan
	colorText    = "\033[1;32m" // bold green
	colorTool    = "\033[1;34m" // bold blue
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // keyword highlights
)

type Options struct {
	HitSeq  int
	Context int    // entries before/after the hit; negative shows all
	Width   int    // wrap width (0 = no wrap)
	Query   string // search query for keyword highlighting
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red.
func highlightKeywords(text, query string) string {
	for _, term := range strings.Fields(query) {
		if fts5Operators[term] {
			continue
		}
		term = strings.Trim(term, `"*`)
		if term == "" {
			continue
		}
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			end := pos + len(term)
			if end > len(text) {
				break
			}
			repl := colorBoldRed + text[pos:end] + colorReset
			text = text[:pos] + repl + text[end:]
			i = pos + len(repl)
		}
	}
	return text
}

// wrapLine breaks a line into pieces of at most maxWidth visible columns.
// ANSI escape sequences take no width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	for i := 0; i < len(line); {
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)
		if visW+rw > maxWidth && visW > 0 {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}
		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}
	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// RenderTranscript renders the entries of an indexed transcript grouped by
// step. It returns the text and the 0-based line of the hit entry's header,
// or -1 when there is no hit.
func RenderTranscript(db *index.DB, path string, opts Options) (string, int, error) {
	if opts.Context == 0 {
		opts.Context = 10
	}
	if opts.Context < 0 {
		opts.Context = 1 << 30
	}

	tr, err := db.GetTranscript(path)
	if err != nil {
		return "", -1, fmt.Errorf("get transcript: %w", err)
	}
	if tr == nil {
		return "", -1, fmt.Errorf("transcript not indexed: %s", path)
	}

	w, err := db.GetEntriesWindow(path, opts.HitSeq, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get entries: %w", err)
	}
	if w.Total == 0 {
		return "(empty transcript)", -1, nil
	}

	var b strings.Builder
	lineCount := 0
	hitLine := -1
	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	writeLine(fmt.Sprintf("%s--- %s  %d steps  %d tools  $%.2f ---%s",
		colorDim, filepath.Base(filepath.Dir(path))+"/"+filepath.Base(path), tr.Steps, tr.ToolCalls, tr.Cost, colorReset))
	if w.Before > 0 {
		writeLine(fmt.Sprintf("%s... (%d entries before) ...%s", colorDim, w.Before, colorReset))
	}

	step := -1
	for i, e := range w.Entries {
		if e.Step != step {
			step = e.Step
			writeLine(fmt.Sprintf("%s=== Step %02d ===%s", colorStep, step+1, colorReset))
		}

		label, color := "MSG", colorText
		if e.Kind == "tool" {
			label, color = "TOOL "+e.Tool, colorTool
		}
		if i == w.HitIdx {
			hitLine = lineCount
			writeLine(fmt.Sprintf("%s>> %s > %s <<%s", colorHit, label, e.Ts, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s%s >%s %s%s%s", color, label, colorReset, colorDim, e.Ts, colorReset))
		}

		text := e.Text
		if e.Kind == "tool" {
			// the tool name is already in the label
			text = strings.TrimPrefix(text, e.Tool)
			text = strings.TrimPrefix(text, "\n")
		}
		for _, l := range strings.Split(highlightKeywords(text, opts.Query), "\n") {
			writeLine("  " + l)
		}
		writeLine("")
	}

	if after := w.Total - w.Before - len(w.Entries); after > 0 {
		writeLine(fmt.Sprintf("%s... (%d entries after) ...%s", colorDim, after, colorReset))
	}
	return b.String(), hitLine, nil
}
