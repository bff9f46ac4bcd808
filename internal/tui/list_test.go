package tui

import (
	"strings"
	"testing"

	"github.com/Zuo-Peng/ai-evals/internal/search"
)

func TestScenarioName(t *testing.T) {
	tests := []struct{ path, want string }{
		{"results/counter/run.jsonl", "counter"},
		{"results/run-1.jsonl", "run-1"},
		{"run-2.jsonl", "run-2"},
	}
	for _, tt := range tests {
		if got := scenarioName(tt.path); got != tt.want {
			t.Errorf("scenarioName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFormatResultLine(t *testing.T) {
	r := search.Result{
		Path:      "results/toggle/run.jsonl",
		StartedAt: "2024-03-09T16:00:00Z",
		Summary:   "toggle switch\nwith bindable",
		Cost:      1.5,
		Kind:      "tool",
		Tool:      "bash",
		Snippet:   "run >>>npm<<< test",
	}
	lines := formatResultLine(r, 80, true)
	if len(lines) != linesPerItem {
		t.Fatalf("got %d lines", len(lines))
	}
	for _, want := range []string{"toggle", "03-09", "$1.50", "toggle switch with bindable"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line 1 %q missing %q", lines[0], want)
		}
	}
	if !strings.Contains(lines[1], "[bash] run npm test") {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestAdjustListScroll(t *testing.T) {
	m := model{results: make([]search.Result, 20)}
	m.cursor = 10
	m.adjustListScroll(8) // 4 visible items
	if m.offset != 7 {
		t.Errorf("offset = %d, want 7", m.offset)
	}
	m.cursor = 2
	m.adjustListScroll(8)
	if m.offset != 2 {
		t.Errorf("offset = %d, want 2", m.offset)
	}
}
