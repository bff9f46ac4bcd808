package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS transcripts (
    path          TEXT PRIMARY KEY,
    report_path   TEXT NOT NULL DEFAULT '',
    started_at    TEXT NOT NULL DEFAULT '',
    summary       TEXT NOT NULL DEFAULT '',
    steps         INTEGER NOT NULL DEFAULT 0,
    tool_calls    INTEGER NOT NULL DEFAULT 0,
    messages      INTEGER NOT NULL DEFAULT 0,
    cost          REAL NOT NULL DEFAULT 0,
    input_tokens  REAL NOT NULL DEFAULT 0,
    output_tokens REAL NOT NULL DEFAULT 0,
    mtime         INTEGER NOT NULL DEFAULT 0,
    size          INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS entries (
    path        TEXT NOT NULL,
    seq         INTEGER NOT NULL,
    step        INTEGER NOT NULL DEFAULT 0,
    ts          TEXT NOT NULL DEFAULT '',
    kind        TEXT NOT NULL DEFAULT 'text',
    tool        TEXT NOT NULL DEFAULT '',
    text        TEXT NOT NULL,
    line_number INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (path, seq)
);

CREATE TABLE IF NOT EXISTS tool_usage (
    path  TEXT NOT NULL,
    tool  TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (path, tool)
);

CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
    text,
    content=entries,
    content_rowid=rowid,
    tokenize='unicode61'
);

CREATE TRIGGER IF NOT EXISTS entries_ai AFTER INSERT ON entries BEGIN
    INSERT INTO entries_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TRIGGER IF NOT EXISTS entries_ad AFTER DELETE ON entries BEGIN
    INSERT INTO entries_fts(entries_fts, rowid, text) VALUES('delete', old.rowid, old.text);
END;

CREATE TRIGGER IF NOT EXISTS entries_au AFTER UPDATE ON entries BEGIN
    INSERT INTO entries_fts(entries_fts, rowid, text) VALUES('delete', old.rowid, old.text);
    INSERT INTO entries_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// schemaVersion is bumped whenever entry extraction changes so every
// transcript is re-indexed on the next run.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == nil && ver == schemaVersion {
		return nil
	}
	if _, err := d.db.Exec("UPDATE transcripts SET mtime = 0, size = 0"); err != nil {
		return err
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type FileStamp struct {
	Mtime int64
	Size  int64
}

// Stamp returns the recorded mtime/size of a transcript, or nil if it has
// never been indexed.
func (d *DB) Stamp(path string) (*FileStamp, error) {
	var st FileStamp
	err := d.db.QueryRow(
		"SELECT mtime, size FROM transcripts WHERE path = ?", path,
	).Scan(&st.Mtime, &st.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (d *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT path FROM transcripts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths[p] = struct{}{}
	}
	return paths, rows.Err()
}

func (d *DB) DeleteTranscript(path string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteTranscript(tx, path); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteTranscript(tx *sql.Tx, path string) error {
	for _, q := range []string{
		"DELETE FROM entries WHERE path = ?",
		"DELETE FROM tool_usage WHERE path = ?",
		"DELETE FROM transcripts WHERE path = ?",
	} {
		if _, err := tx.Exec(q, path); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) count(table string) (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
	return n, err
}

func (d *DB) TranscriptCount() (int, error) { return d.count("transcripts") }
func (d *DB) EntryCount() (int, error)      { return d.count("entries") }
func (d *DB) FTSCount() (int, error)        { return d.count("entries_fts") }

type TranscriptRow struct {
	Path         string
	ReportPath   string
	StartedAt    string
	Summary      string
	Steps        int
	ToolCalls    int
	Messages     int
	Cost         float64
	InputTokens  float64
	OutputTokens float64
}

const transcriptCols = "path, report_path, started_at, summary, steps, tool_calls, messages, cost, input_tokens, output_tokens"

func scanTranscript(sc interface{ Scan(...any) error }) (TranscriptRow, error) {
	var t TranscriptRow
	err := sc.Scan(&t.Path, &t.ReportPath, &t.StartedAt, &t.Summary,
		&t.Steps, &t.ToolCalls, &t.Messages, &t.Cost, &t.InputTokens, &t.OutputTokens)
	return t, err
}

func (d *DB) GetTranscript(path string) (*TranscriptRow, error) {
	t, err := scanTranscript(d.db.QueryRow("SELECT "+transcriptCols+" FROM transcripts WHERE path = ?", path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type EntryRow struct {
	Path       string
	Seq        int
	Step       int
	Ts         string
	Kind       string
	Tool       string
	Text       string
	LineNumber int
}

const entryCols = "path, seq, step, ts, kind, tool, text, line_number"

func scanEntries(rows *sql.Rows) ([]EntryRow, error) {
	var entries []EntryRow
	for rows.Next() {
		var e EntryRow
		if err := rows.Scan(&e.Path, &e.Seq, &e.Step, &e.Ts, &e.Kind, &e.Tool, &e.Text, &e.LineNumber); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (d *DB) GetEntries(path string) ([]EntryRow, error) {
	rows, err := d.db.Query("SELECT "+entryCols+" FROM entries WHERE path = ? ORDER BY seq", path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// GetEntry returns one entry, or nil when the transcript has no such seq.
func (d *DB) GetEntry(path string, seq int) (*EntryRow, error) {
	var e EntryRow
	err := d.db.QueryRow("SELECT "+entryCols+" FROM entries WHERE path = ? AND seq = ?", path, seq).
		Scan(&e.Path, &e.Seq, &e.Step, &e.Ts, &e.Kind, &e.Tool, &e.Text, &e.LineNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Window is a slice of a transcript's entries around a hit.
type Window struct {
	Entries []EntryRow
	// HitIdx is the index of the hit in Entries, or -1.
	HitIdx int
	// Before is the number of entries preceding the window.
	Before int
	Total  int
}

// GetEntriesWindow loads up to context entries on each side of hitSeq. A
// negative hitSeq, or one that does not exist, loads the whole transcript.
func (d *DB) GetEntriesWindow(path string, hitSeq, context int) (Window, error) {
	w := Window{HitIdx: -1}
	if err := d.db.QueryRow("SELECT COUNT(*) FROM entries WHERE path = ?", path).Scan(&w.Total); err != nil {
		return w, err
	}

	// entries are stored with dense seq numbers, so seq is also the position
	hitPos := -1
	if hitSeq >= 0 && hitSeq < w.Total {
		hitPos = hitSeq
	}

	limit := w.Total
	if hitPos >= 0 {
		w.Before = max(0, hitPos-context)
		limit = min(w.Total, hitPos+context+1) - w.Before
	}

	rows, err := d.db.Query(
		"SELECT "+entryCols+" FROM entries WHERE path = ? ORDER BY seq LIMIT ? OFFSET ?",
		path, limit, w.Before,
	)
	if err != nil {
		return w, err
	}
	defer rows.Close()

	w.Entries, err = scanEntries(rows)
	if err != nil {
		return w, err
	}
	for i, e := range w.Entries {
		if e.Seq == hitSeq {
			w.HitIdx = i
		}
	}
	return w, nil
}

type ToolCount struct {
	Tool  string
	Count int
}

// ToolTotals sums tool usage across every indexed transcript, most used
// first.
func (d *DB) ToolTotals() ([]ToolCount, error) {
	rows, err := d.db.Query(
		"SELECT tool, SUM(count) AS n FROM tool_usage GROUP BY tool ORDER BY n DESC, tool",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ToolCount
	for rows.Next() {
		var tc ToolCount
		if err := rows.Scan(&tc.Tool, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
