package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/ai-evals/internal/index"
)

type Result struct {
	Path      string
	Seq       int
	StartedAt string
	Summary   string
	Steps     int
	ToolCalls int
	Cost      float64
	Snippet   string
	Kind      string
	Tool      string
	Line      int
	Rank      float64
}

type Options struct {
	Query string
	Tool  string // "" = all tools
	Kind  string // "" = all, "text", "tool"
	Since string // "" = no filter, e.g. "2024-01-01"
	Limit int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in
// text. Matching folds case rune by rune so positions stay in runes.
func makeSnippet(text, query string, contextChars int) string {
	runes := []rune(text)
	pos := indexFold(runes, []rune(query))
	if pos < 0 || query == "" {
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}

	qLen := len([]rune(query))
	start := max(0, pos-contextChars)
	end := min(len(runes), pos+qLen+contextChars)

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(string(runes[start:pos]))
	b.WriteString(">>>" + string(runes[pos:pos+qLen]) + "<<<")
	b.WriteString(string(runes[pos+qLen : end]))
	if end < len(runes) {
		b.WriteString("...")
	}
	return b.String()
}

// indexFold returns the rune index of the first case-insensitive match of
// sub in s, or -1.
func indexFold(s, sub []rune) int {
	if len(sub) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(sub) <= len(s); i++ {
		for j, r := range sub {
			if unicode.ToLower(s[i+j]) != unicode.ToLower(r) {
				continue outer
			}
		}
		return i
	}
	return -1
}

// Search returns the best hit per transcript, best first.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	// over-fetch so enough remain after dedup
	limit := opts.Limit
	opts.Limit = limit * 3

	var results []Result
	var err error
	if containsCJK(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		results, err = searchFTS(db, opts)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.Path] {
			continue
		}
		seen[r.Path] = true
		deduped = append(deduped, r)
		if len(deduped) >= limit {
			break
		}
	}
	return deduped, nil
}

// filters returns the shared WHERE conditions for the entry filters.
func filters(opts Options) ([]string, []any) {
	var conds []string
	var args []any
	if opts.Tool != "" {
		conds = append(conds, "e.tool = ?")
		args = append(args, opts.Tool)
	}
	if opts.Kind != "" {
		conds = append(conds, "e.kind = ?")
		args = append(args, opts.Kind)
	}
	if opts.Since != "" {
		conds = append(conds, "t.started_at >= ?")
		args = append(args, opts.Since)
	}
	return conds, args
}

const resultCols = `e.path, e.seq, t.started_at, t.summary, t.steps, t.tool_calls, t.cost`

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conds, args := filters(opts)
	conds = append([]string{"entries_fts MATCH ?"}, conds...)
	args = append([]any{opts.Query}, args...)

	query := fmt.Sprintf(`
		SELECT %s,
			snippet(entries_fts, 0, '>>>', '<<<', '...', 40) AS snip,
			e.kind, e.tool, e.line_number,
			bm25(entries_fts, 1.0) AS rank
		FROM entries_fts
		JOIN entries e ON entries_fts.rowid = e.rowid
		JOIN transcripts t ON e.path = t.path
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, resultCols, strings.Join(conds, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.Path, &r.Seq, &r.StartedAt, &r.Summary, &r.Steps, &r.ToolCalls, &r.Cost,
			&r.Snippet, &r.Kind, &r.Tool, &r.Line, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// searchLike does substring matching, which FTS5's unicode61 tokenizer
// cannot do for CJK text.
func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conds, args := filters(opts)
	conds = append([]string{"e.text LIKE ?"}, conds...)
	args = append([]any{"%" + opts.Query + "%"}, args...)

	query := fmt.Sprintf(`
		SELECT %s, e.text, e.kind, e.tool, e.line_number
		FROM entries e
		JOIN transcripts t ON e.path = t.path
		WHERE %s
		ORDER BY t.started_at DESC, e.seq
		LIMIT ?
	`, resultCols, strings.Join(conds, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var text string
		if err := rows.Scan(
			&r.Path, &r.Seq, &r.StartedAt, &r.Summary, &r.Steps, &r.ToolCalls, &r.Cost,
			&text, &r.Kind, &r.Tool, &r.Line,
		); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(text, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns every indexed transcript, newest first. Seq is -1 since
// there is no hit. A non-empty Query falls back to Search.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	if opts.Query != "" {
		return Search(db, opts)
	}

	var conds []string
	var args []any
	if opts.Since != "" {
		conds = append(conds, "started_at >= ?")
		args = append(args, opts.Since)
	}
	if opts.Tool != "" {
		conds = append(conds, "path IN (SELECT path FROM tool_usage WHERE tool = ?)")
		args = append(args, opts.Tool)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	limit := ""
	if opts.Limit > 0 {
		limit = "LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := db.Raw().Query(fmt.Sprintf(`
		SELECT path, started_at, summary, steps, tool_calls, cost
		FROM transcripts
		%s
		ORDER BY started_at DESC, path
		%s
	`, where, limit), args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()
	return scanList(rows)
}

func scanList(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		r := Result{Seq: -1}
		if err := rows.Scan(&r.Path, &r.StartedAt, &r.Summary, &r.Steps, &r.ToolCalls, &r.Cost); err != nil {
			return nil, err
		}
		r.Snippet = r.Summary
		results = append(results, r)
	}
	return results, rows.Err()
}
