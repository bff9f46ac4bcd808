package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const runA = `{"type":"step_start","timestamp":1700000000000,"part":{"id":"s1"}}
{"type":"text","timestamp":1700000000100,"part":{"text":"Build a   counter component"}}
{"type":"tool_use","timestamp":1700000000200,"part":{"tool":"write","state":{"input":{"filePath":"src/Counter.svelte","content":"let count = $state(0)"},"output":"ok","status":"completed"}}}
{"type":"step_finish","timestamp":1700000001000,"part":{"cost":0.5,"tokens":{"input":1000,"output":200},"reason":"tool-calls"}}
{"type":"step_start","timestamp":1700000002000,"part":{"id":"s2"}}
{"type":"tool_use","timestamp":1700000002100,"part":{"tool":"bash","state":{"input":{"command":"npm test"},"output":"","status":"error"}}}
{"type":"tool_use","timestamp":1700000002200,"part":{"tool":"write","state":{"input":{"filePath":"b"},"status":"completed"}}}
{"type":"step_finish","timestamp":1700000003000,"part":{"cost":0.25,"reason":"stop"}}
`

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func writeRun(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexAll(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	path := filepath.Join(root, "counter", "run.jsonl")
	writeRun(t, path, runA)

	stats, err := IndexAll(db, root)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Scanned != 1 || stats.Updated != 1 || stats.Errors != 0 {
		t.Fatalf("stats = %s", stats)
	}

	tr, err := db.GetTranscript(path)
	if err != nil || tr == nil {
		t.Fatalf("GetTranscript: %v %v", tr, err)
	}
	if tr.Steps != 2 || tr.ToolCalls != 3 || tr.Messages != 1 {
		t.Errorf("counts = %+v", tr)
	}
	if tr.Cost != 0.75 || tr.InputTokens != 1000 || tr.OutputTokens != 200 {
		t.Errorf("totals = %+v", tr)
	}
	if tr.Summary != "Build a counter component" {
		t.Errorf("summary = %q", tr.Summary)
	}
	if tr.StartedAt != "2023-11-14T22:13:20Z" {
		t.Errorf("started_at = %q", tr.StartedAt)
	}
	if tr.ReportPath != filepath.Join(root, "counter", "run.html") {
		t.Errorf("report_path = %q", tr.ReportPath)
	}

	entries, err := db.GetEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0].Kind != "text" || entries[0].Step != 0 || entries[0].LineNumber != 2 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[2].Tool != "bash" || entries[2].Step != 1 || !strings.Contains(entries[2].Text, "command: npm test") {
		t.Errorf("entry 2 = %+v", entries[2])
	}

	tools, err := db.ToolTotals()
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 2 || tools[0] != (ToolCount{"write", 2}) || tools[1] != (ToolCount{"bash", 1}) {
		t.Errorf("tool totals = %+v", tools)
	}

	n, _ := db.EntryCount()
	fts, _ := db.FTSCount()
	if n != fts {
		t.Errorf("entries=%d fts=%d", n, fts)
	}
}

func TestIndexAllIncremental(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	a := filepath.Join(root, "a.jsonl")
	b := filepath.Join(root, "b.jsonl")
	writeRun(t, a, runA)
	writeRun(t, b, runA)

	if _, err := IndexAll(db, root); err != nil {
		t.Fatal(err)
	}

	stats, err := IndexAll(db, root)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Skipped != 2 || stats.Updated != 0 {
		t.Errorf("second run = %s, want everything skipped", stats)
	}

	if err := os.Remove(b); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Hour)
	writeRun(t, a, runA+`{"type":"step_start","timestamp":1700000009000,"part":{}}`+"\n")
	if err := os.Chtimes(a, later, later); err != nil {
		t.Fatal(err)
	}

	stats, err = IndexAll(db, root)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Updated != 1 || stats.Pruned != 1 {
		t.Errorf("third run = %s", stats)
	}
	if n, _ := db.TranscriptCount(); n != 1 {
		t.Errorf("transcripts = %d, want 1", n)
	}
	tr, _ := db.GetTranscript(a)
	if tr == nil || tr.Steps != 3 {
		t.Errorf("re-indexed transcript = %+v", tr)
	}
	n, _ := db.EntryCount()
	fts, _ := db.FTSCount()
	if n != 4 || fts != 4 {
		t.Errorf("entries=%d fts=%d, want 4", n, fts)
	}
}

func TestSchemaVersionForcesReindex(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "v.db")
	root := t.TempDir()
	writeRun(t, filepath.Join(root, "a.jsonl"), runA)

	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := IndexAll(db, root); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Raw().Exec("UPDATE meta SET value = 'old' WHERE key = 'schema_version'"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = OpenDB(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	stats, err := IndexAll(db, root)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Updated != 1 {
		t.Errorf("stats = %s, want a forced re-index", stats)
	}
}

func TestGetEntriesWindow(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	path := filepath.Join(root, "a.jsonl")
	writeRun(t, path, runA)
	if _, err := IndexAll(db, root); err != nil {
		t.Fatal(err)
	}

	w, err := db.GetEntriesWindow(path, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if w.Total != 4 || w.Before != 1 || len(w.Entries) != 3 || w.HitIdx != 1 {
		t.Errorf("window = before %d total %d len %d hit %d", w.Before, w.Total, len(w.Entries), w.HitIdx)
	}

	w, err = db.GetEntriesWindow(path, -1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Entries) != 4 || w.HitIdx != -1 || w.Before != 0 {
		t.Errorf("full window = before %d len %d hit %d", w.Before, len(w.Entries), w.HitIdx)
	}
}

func TestEntryOfSkipsBlankText(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	path := filepath.Join(root, "a.jsonl")
	writeRun(t, path, `{"type":"step_start","timestamp":1,"part":{}}
{"type":"text","timestamp":2,"part":{"text":"   "}}
{"type":"text","timestamp":3,"part":{"text":"real"}}
`)
	if _, err := IndexAll(db, root); err != nil {
		t.Fatal(err)
	}
	entries, _ := db.GetEntries(path)
	if len(entries) != 1 || entries[0].Seq != 0 || entries[0].Text != "real" {
		t.Errorf("entries = %+v", entries)
	}
}
