package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zuo-Peng/ai-evals/internal/index"
)

func writeRun(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

// fixture indexes two transcripts: counter (older) and toggle (newer).
func fixture(t *testing.T) (*index.DB, string, string) {
	t.Helper()
	root := t.TempDir()
	counter := filepath.Join(root, "counter", "run.jsonl")
	toggle := filepath.Join(root, "toggle", "run.jsonl")
	writeRun(t, counter,
		`{"type":"step_start","timestamp":1700000000000,"part":{}}`,
		`{"type":"text","timestamp":1700000000001,"part":{"text":"I will write the counter with reactive state"}}`,
		`{"type":"tool_use","timestamp":1700000000002,"part":{"tool":"bash","state":{"input":{"command":"npm run build"},"status":"completed"}}}`,
		`{"type":"text","timestamp":1700000000003,"part":{"text":"counter done, 计数器 完成"}}`,
	)
	writeRun(t, toggle,
		`{"type":"step_start","timestamp":1710000000000,"part":{}}`,
		`{"type":"text","timestamp":1710000000001,"part":{"text":"toggle switch with bindable checked"}}`,
		`{"type":"tool_use","timestamp":1710000000002,"part":{"tool":"write","state":{"input":{"filePath":"Toggle.svelte"},"status":"completed"}}}`,
	)

	db, err := index.OpenDB(filepath.Join(t.TempDir(), "s.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := index.IndexAll(db, root); err != nil {
		t.Fatal(err)
	}
	return db, counter, toggle
}

func TestSearchFTS(t *testing.T) {
	db, counter, _ := fixture(t)

	results, err := Search(db, Options{Query: "counter"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 per transcript: %+v", len(results), results)
	}
	r := results[0]
	if r.Path != counter || r.Kind != "text" {
		t.Errorf("result = %+v", r)
	}
	if !strings.Contains(r.Snippet, ">>>counter<<<") {
		t.Errorf("snippet = %q", r.Snippet)
	}
	if r.Summary != "I will write the counter with reactive state" {
		t.Errorf("summary = %q", r.Summary)
	}
}

func TestSearchFilters(t *testing.T) {
	db, counter, _ := fixture(t)

	results, err := Search(db, Options{Query: "build", Tool: "bash"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Path != counter || results[0].Tool != "bash" || results[0].Line != 3 {
		t.Errorf("tool filter = %+v", results)
	}

	results, err = Search(db, Options{Query: "build", Kind: "text"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("kind filter = %+v, want none", results)
	}

	results, err = Search(db, Options{Query: "with", Since: "2024-01-01"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !strings.Contains(results[0].Path, "toggle") {
		t.Errorf("since filter = %+v", results)
	}
}

func TestSearchCJK(t *testing.T) {
	db, counter, _ := fixture(t)

	results, err := Search(db, Options{Query: "计数器"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Path != counter {
		t.Fatalf("results = %+v", results)
	}
	if !strings.Contains(results[0].Snippet, ">>>计数器<<<") {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
}

func TestListAll(t *testing.T) {
	db, counter, toggle := fixture(t)

	results, err := ListAll(db, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Path != toggle || results[1].Path != counter {
		t.Fatalf("order = %+v", results)
	}
	if results[0].Seq != -1 {
		t.Errorf("seq = %d, want -1", results[0].Seq)
	}

	results, err = ListAll(db, Options{Tool: "bash"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Path != counter {
		t.Errorf("tool filter = %+v", results)
	}

	results, err = ListAll(db, Options{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("limit = %d results", len(results))
	}
}

func TestMakeSnippet(t *testing.T) {
	tests := []struct {
		text, query string
		ctx         int
		want        string
	}{
		{"hello world", "World", 10, "hello >>>world<<<"},
		{"abcdefghij", "zz", 2, "abcd..."},
		{"0123456789xy0123456789", "xy", 3, "...789>>>xy<<<012..."},
		{"ȺȺȺ中", "中", 30, "ȺȺȺ>>>中<<<"},
		{"xȺy", "ⱥ", 5, "x>>>Ⱥ<<<y"},
		{"ÄBC", "äb", 5, ">>>ÄB<<<C"},
	}
	for _, tt := range tests {
		if got := makeSnippet(tt.text, tt.query, tt.ctx); got != tt.want {
			t.Errorf("makeSnippet(%q, %q) = %q, want %q", tt.text, tt.query, got, tt.want)
		}
	}
}

func TestIndexFold(t *testing.T) {
	if got := indexFold([]rune("ȺȺȺ中"), []rune("中")); got != 3 {
		t.Errorf("indexFold = %d, want 3", got)
	}
	if got := indexFold([]rune("abc"), []rune("abcd")); got != -1 {
		t.Errorf("indexFold past end = %d, want -1", got)
	}
}
