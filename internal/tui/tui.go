// Package tui is the two-pane terminal browser over indexed transcripts:
// results on the left, the rendered transcript on the right.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Zuo-Peng/ai-evals/internal/index"
	"github.com/Zuo-Peng/ai-evals/internal/open"
	"github.com/Zuo-Peng/ai-evals/internal/search"
	"github.com/Zuo-Peng/ai-evals/internal/viz"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const debounceDelay = 200 * time.Millisecond

type mode int

const (
	modeSearch mode = iota
	modeList
)

func (m mode) String() string {
	if m == modeList {
		return "list"
	}
	return "search"
}

// Options configures what happens when a result is chosen.
type Options struct {
	Search search.Options
	// OpenReports opens the converted report in the default viewer.
	OpenReports bool
}

type resultsMsg struct {
	query   string
	results []search.Result
	err     error
}

type debounceMsg struct {
	query string
}

type reportMsg struct {
	path string
	err  error
}

type model struct {
	db      *index.DB
	opts    Options
	mode    mode
	query   string
	results []search.Result
	cursor  int
	offset  int
	input   textinput.Model
	preview viewport.Model
	shown   string // previewCacheKey of the rendered preview
	status  string
	width   int
	height  int
	ready   bool
	done    bool
	chosen  *search.Result
}

func newModel(db *index.DB, query string, opts Options, md mode) model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	if md == modeList {
		ti.Placeholder = "Filter..."
	}
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256
	ti.SetValue(query)
	ti.Focus()

	return model{
		db:      db,
		opts:    opts,
		mode:    md,
		query:   query,
		input:   ti,
		preview: viewport.New(0, 0),
	}
}

// Run starts the browser in search mode and blocks until it exits.
func Run(db *index.DB, query string, opts Options) error {
	return run(newModel(db, query, opts, modeSearch))
}

// RunList starts the browser listing every transcript, newest first.
func RunList(db *index.DB, opts Options) error {
	return run(newModel(db, "", opts, modeList))
}

func run(m model) error {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	fm := final.(model)
	if fm.chosen == nil {
		return nil
	}

	out, err := convertReport(fm.chosen.Path, fm.opts.OpenReports)
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(out); err != nil {
		fmt.Println(out)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", out)
	return nil
}

// convertReport writes the HTML report of a transcript and returns its path.
func convertReport(path string, openIt bool) (string, error) {
	c := viz.New(io.Discard)
	if openIt {
		c.Open = open.OpenInViewer
	}
	stats, err := c.Run(path, "")
	if err != nil {
		return "", err
	}
	return stats[0].Output, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetch(m.query))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.shown = ""
		return m, m.loadPreview()
	case tea.KeyMsg:
		return m.onKey(msg)
	case tea.MouseMsg:
		return m.onMouse(msg)
	case debounceMsg:
		if msg.query != m.query {
			return m, nil
		}
		return m, m.fetch(msg.query)
	case resultsMsg:
		return m.onResults(msg)
	case previewRenderedMsg:
		return m.onPreview(msg), nil
	case reportMsg:
		if msg.err != nil {
			m.status = "report failed: " + msg.err.Error()
		} else {
			m.status = "wrote " + msg.path
		}
		return m, nil
	}
	return m, nil
}

func (m model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	half := m.panelHeight() / 2
	switch {
	case key.Matches(msg, keys.Quit):
		m.done = true
		return m, tea.Quit
	case key.Matches(msg, keys.Enter):
		if r, ok := m.selected(); ok {
			m.chosen = &r
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case key.Matches(msg, keys.Report):
		if r, ok := m.selected(); ok {
			m.status = "converting " + scenarioName(r.Path) + "..."
			return m, reportCmd(r.Path, m.opts.OpenReports)
		}
		return m, nil
	case key.Matches(msg, keys.Mode):
		if m.mode == modeList {
			m.mode = modeSearch
		} else {
			m.mode = modeList
		}
		return m, m.fetch(m.query)
	case key.Matches(msg, keys.Up):
		cmd := m.moveCursor(-1)
		return m, cmd
	case key.Matches(msg, keys.Down):
		cmd := m.moveCursor(1)
		return m, cmd
	case key.Matches(msg, keys.PreviewUp):
		m.preview.LineUp(half)
		return m, nil
	case key.Matches(msg, keys.PreviewDn):
		m.preview.LineDown(half)
		return m, nil
	case key.Matches(msg, keys.PageUp):
		m.preview.LineUp(m.panelHeight())
		return m, nil
	case key.Matches(msg, keys.PageDown):
		m.preview.LineDown(m.panelHeight())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != m.query {
		m.query = q
		return m, tea.Batch(cmd, debounce(q))
	}
	return m, cmd
}

func (m model) onMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || len(m.results) == 0 {
		return m, nil
	}
	region, idx := m.hitTest(msg.X, msg.Y)
	wheel := msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown

	switch {
	case region == regionList && msg.Button == tea.MouseButtonWheelUp:
		m.offset = max(0, m.offset-1)
	case region == regionList && msg.Button == tea.MouseButtonWheelDown:
		last := max(0, len(m.results)-m.visibleItems())
		m.offset = min(last, m.offset+1)
	case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if idx >= 0 && idx < len(m.results) && idx != m.cursor {
			cmd := m.moveCursor(idx - m.cursor)
			return m, cmd
		}
	case region == regionPreview && wheel:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) onResults(msg resultsMsg) (tea.Model, tea.Cmd) {
	if msg.query != m.query {
		return m, nil
	}
	m.cursor, m.offset = 0, 0
	m.shown = ""
	if msg.err != nil {
		m.results = nil
		m.preview.SetContent("Error: " + msg.err.Error())
		return m, nil
	}
	m.results = msg.results
	if len(m.results) == 0 {
		m.preview.SetContent("")
		return m, nil
	}
	return m, m.loadPreview()
}

func (m model) onPreview(msg previewRenderedMsg) model {
	k := previewCacheKey(msg.path, msg.seq)
	r, ok := m.selected()
	if k == m.shown || !ok || previewCacheKey(r.Path, r.Seq) != k {
		return m
	}
	if msg.err != nil {
		m.preview.SetContent("Preview error: " + msg.err.Error())
	} else {
		m.preview.SetContent(msg.content)
		if msg.hitLine > 0 {
			m.preview.SetYOffset(msg.hitLine)
		} else {
			m.preview.GotoTop()
		}
	}
	m.shown = k
	return m
}

// moveCursor shifts the selection by delta and returns the preview load.
func (m *model) moveCursor(delta int) tea.Cmd {
	next := m.cursor + delta
	if next < 0 || next >= len(m.results) {
		return nil
	}
	m.cursor = next
	m.adjustListScroll(m.panelHeight())
	return m.loadPreview()
}

func (m model) selected() (search.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return search.Result{}, false
	}
	return m.results[m.cursor], true
}

func (m model) View() string {
	if m.done || !m.ready {
		return ""
	}
	listW, previewW, panelH := m.listWidth(), m.previewWidth(), m.panelHeight()

	list := stylePanelBorder.Width(listW).Height(panelH).Render(m.renderList(listW, panelH))
	m.preview.Width = previewW
	m.preview.Height = panelH
	pv := styleActiveBorder.Width(previewW).Height(panelH).Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, pv),
		m.statusBar(),
	)
}

// layout: 40/60 split, one input row, one status row, borders around both
// panels.

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	return max(20, m.width*40/100-4)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(20, m.width*60/100-4)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(5, m.height-6)
}

func (m model) visibleItems() int {
	return max(1, m.panelHeight()/linesPerItem)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel and, for the list, the item
// under the pointer.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	top := 2 // input row + top border
	if y < top || y >= top+m.panelHeight() {
		return regionNone, -1
	}
	lw := m.listWidth()
	switch {
	case x >= 1 && x <= lw:
		return regionList, m.offset + (y-top)/linesPerItem
	case x > lw+2:
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	parts := []string{fmt.Sprintf("%d %s", len(m.results), plural(len(m.results), "transcript"))}
	if m.status != "" {
		parts = append(parts, m.status)
	} else {
		parts = append(parts,
			"mode: "+m.mode.String(),
			"tab switch mode",
			"C-o write report",
			"enter open report",
			"esc quit",
		)
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// fetch loads results for query: a full-text search in search mode, and the
// transcript list (searched once the filter is non-empty) in list mode.
func (m model) fetch(query string) tea.Cmd {
	db, opts, md := m.db, m.opts.Search, m.mode
	opts.Query = query
	return func() tea.Msg {
		switch {
		case md == modeList:
			results, err := search.ListAll(db, opts)
			return resultsMsg{query: query, results: results, err: err}
		case query == "":
			return resultsMsg{query: query}
		default:
			results, err := search.Search(db, opts)
			return resultsMsg{query: query, results: results, err: err}
		}
	}
}

func debounce(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceMsg{query: query}
	})
}

func reportCmd(path string, openIt bool) tea.Cmd {
	return func() tea.Msg {
		out, err := convertReport(path, openIt)
		return reportMsg{path: out, err: err}
	}
}

func (m model) loadPreview() tea.Cmd {
	r, ok := m.selected()
	if !ok || previewCacheKey(r.Path, r.Seq) == m.shown {
		return nil
	}
	return loadPreviewCmd(m.db, r, m.query, m.previewWidth())
}

func previewCacheKey(path string, seq int) string {
	return fmt.Sprintf("%s:%d", path, seq)
}
