package tui

import (
	"testing"

	"github.com/Zuo-Peng/ai-evals/internal/search"
	tea "github.com/charmbracelet/bubbletea"
)

func TestOnResultsIgnoresStaleQuery(t *testing.T) {
	m := newModel(nil, "new", Options{}, modeSearch)
	next, _ := m.onResults(resultsMsg{query: "old", results: make([]search.Result, 3)})
	if got := next.(model); len(got.results) != 0 {
		t.Errorf("stale results applied: %d", len(got.results))
	}
}

func TestMoveCursorBounds(t *testing.T) {
	m := newModel(nil, "", Options{}, modeList)
	m.results = []search.Result{{Path: "a"}, {Path: "b"}}
	m.shown = previewCacheKey("b", 0)

	if cmd := m.moveCursor(-1); cmd != nil || m.cursor != 0 {
		t.Errorf("moved above the first result: cursor %d", m.cursor)
	}
	m.moveCursor(1)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	if cmd := m.moveCursor(1); cmd != nil || m.cursor != 1 {
		t.Errorf("moved past the last result: cursor %d", m.cursor)
	}
}

func TestEnterChoosesSelection(t *testing.T) {
	m := newModel(nil, "", Options{}, modeList)
	m.results = []search.Result{{Path: "a.jsonl", Seq: -1}}
	next, cmd := m.onKey(tea.KeyMsg{Type: tea.KeyEnter})
	got := next.(model)
	if got.chosen == nil || got.chosen.Path != "a.jsonl" || !got.done {
		t.Errorf("chosen = %+v done = %v", got.chosen, got.done)
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestModeToggle(t *testing.T) {
	m := newModel(nil, "", Options{}, modeSearch)
	next, _ := m.onKey(tea.KeyMsg{Type: tea.KeyTab})
	if got := next.(model); got.mode != modeList {
		t.Errorf("mode = %v, want list", got.mode)
	}
}

func TestHitTest(t *testing.T) {
	m := model{width: 100, height: 30}
	if r, idx := m.hitTest(5, 2); r != regionList || idx != 0 {
		t.Errorf("hitTest(5,2) = %v %d", r, idx)
	}
	if r, idx := m.hitTest(5, 5); r != regionList || idx != 1 {
		t.Errorf("hitTest(5,5) = %v %d", r, idx)
	}
	if r, _ := m.hitTest(80, 10); r != regionPreview {
		t.Errorf("hitTest(80,10) = %v", r)
	}
	if r, _ := m.hitTest(5, 0); r != regionNone {
		t.Errorf("input row should be outside the panels")
	}
}
