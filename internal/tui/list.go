package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/ai-evals/internal/search"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: search results list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
		return empty
	}

	var lines []string
	for i, r := range m.results {
		if i < m.offset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		rows := formatResultLine(r, width, i == m.cursor)
		lines = append(lines, rows...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats a single result as two lines:
//
//	line 1: [>] scenario  MM-DD  $cost  summary
//	line 2:    snippet (dimmed)
func formatResultLine(r search.Result, width int, selected bool) []string {
	scenario := styleScenario.Render(runewidth.Truncate(scenarioName(r.Path), 16, ""))

	date := r.StartedAt
	if len(date) >= 10 {
		date = date[5:10]
	}
	cost := styleCost.Render(fmt.Sprintf("$%.2f", r.Cost))

	summary := strings.ReplaceAll(r.Summary, "\n", " ")
	summaryMax := max(0, width-2-16-6-7-3)
	if runewidth.StringWidth(summary) > summaryMax {
		summary = runewidth.Truncate(summary, summaryMax, "")
	}

	line1 := fmt.Sprintf("%s %s %s %s", scenario, date, cost, summary)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	snippet := r.Snippet
	if r.Kind == "tool" && r.Tool != "" {
		snippet = "[" + r.Tool + "] " + snippet
	}
	snippet = strings.NewReplacer("\n", " ", "\t", " ", ">>>", "", "<<<", "").Replace(snippet)
	snippetMax := max(0, width-4)
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

// scenarioName labels a transcript by its directory, or by its file name
// when it sits directly in a results root.
func scenarioName(path string) string {
	parent := filepath.Base(filepath.Dir(path))
	if parent == "." || parent == "results" || parent == string(filepath.Separator) {
		return strings.TrimSuffix(filepath.Base(path), ".jsonl")
	}
	return parent
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleItems {
		m.offset = m.cursor - visibleItems + 1
	}
}
