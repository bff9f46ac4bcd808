// Package report renders grouped transcript steps as a single static HTML
// document.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/Zuo-Peng/ai-evals/internal/transcript"
)

type Options struct {
	// Location formats step times. Nil means time.Local.
	Location *time.Location
	// Title is the document title. Empty means "Mission Log // Transcript".
	Title string
}

const defaultTitle = "Mission Log // Transcript"

// Render returns the HTML document for steps. The same steps and options
// always produce the same bytes.
func Render(steps []transcript.Step, opts Options) (string, error) {
	var b bytes.Buffer
	if err := Write(&b, steps, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write renders the document to w.
func Write(w io.Writer, steps []transcript.Step, opts Options) error {
	if err := pageTmpl.Execute(w, buildPage(steps, opts)); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

type page struct {
	Title     string
	Summary   Summary
	Cost      string
	InputK    string
	OutputK   string
	Breakdown []breakdownItem
	Minimap   []minimapBar
	Steps     []stepView
	LastIndex int
}

type breakdownItem struct {
	Icon  string
	Name  string
	Count int
}

type minimapBar struct {
	Index  int
	Number string
	Tools  int
	Height int
}

type stepView struct {
	Index    int
	Number   string
	Time     string
	Tools    int
	Messages int
	Stats    []stat
	Entries  []entry
}

type stat struct {
	Class string
	Icon  string
	Text  string
	// Tokens holds input/output counts for the token badge.
	Tokens []string
}

type entry struct {
	Text *string
	Tool *toolView
}

type toolView struct {
	Class       string
	Icon        string
	Title       string
	StatusClass string
	StatusLabel string
	Inputs      []inputLine
	Output      string
	HasOutput   bool
}

func buildPage(steps []transcript.Step, opts Options) page {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	title := opts.Title
	if title == "" {
		title = defaultTitle
	}

	sum := Summarize(steps)
	p := page{
		Title:     title,
		Summary:   sum,
		Cost:      fmt.Sprintf("$%.2f", sum.Cost),
		InputK:    fmt.Sprintf("%.0fk", sum.InputTokens/1000),
		OutputK:   fmt.Sprintf("%.0fk", sum.OutputTokens/1000),
		LastIndex: len(steps) - 1,
	}
	for _, tc := range sum.Tools {
		p.Breakdown = append(p.Breakdown, breakdownItem{Icon: ToolIcon(tc.Name), Name: tc.Name, Count: tc.Count})
	}
	for i, s := range steps {
		tools := s.Count(transcript.TypeToolUse)
		p.Minimap = append(p.Minimap, minimapBar{
			Index:  i,
			Number: stepNumber(i),
			Tools:  tools,
			Height: min(24, max(4, tools*6)),
		})
		p.Steps = append(p.Steps, buildStep(s, i, loc))
	}
	return p
}

func buildStep(s transcript.Step, index int, loc *time.Location) stepView {
	v := stepView{
		Index:  index,
		Number: stepNumber(index),
		Time:   time.UnixMilli(s.Timestamp).In(loc).Format("3:04:05 PM"),
	}

	for _, ev := range s.Events {
		switch ev.Type {
		case transcript.TypeText:
			text := ev.Text().Text
			v.Entries = append(v.Entries, entry{Text: &text})
			v.Messages++
		case transcript.TypeToolUse:
			tv := buildTool(ev)
			v.Entries = append(v.Entries, entry{Tool: &tv})
			v.Tools++
		}
	}

	start, hasStart := s.Start()
	fin, hasFinish := s.Finish()
	if hasFinish && fin.Part != nil {
		sf := fin.StepFinish()
		if sf.Cost != 0 {
			v.Stats = append(v.Stats, stat{Class: "stat-cost", Icon: "◈", Text: fmt.Sprintf("$%.4f", sf.Cost)})
		}
		if sf.HasTokens {
			v.Stats = append(v.Stats, stat{Class: "stat-tokens", Tokens: []string{formatCount(sf.InputTokens), formatCount(sf.OutputTokens)}})
		}
		if sf.Reason != "" {
			v.Stats = append(v.Stats, stat{Class: "stat-reason stat-reason-" + sf.Reason, Text: sf.Reason})
		}
	}
	if hasStart && hasFinish {
		secs := float64(fin.Timestamp-start.Timestamp) / 1000
		v.Stats = append(v.Stats, stat{Class: "stat-duration", Text: fmt.Sprintf("%.1fs", secs)})
	}
	return v
}

func buildTool(ev transcript.Event) toolView {
	tu := ev.ToolUse()
	name := ToolName(ev)
	st := toolStatus(tu.Status)
	out, hasOut := renderOutput(tu.Output)
	return toolView{
		Class:       name,
		Icon:        ToolIcon(name),
		Title:       toolTitle(name, tu.Input),
		StatusClass: st.class,
		StatusLabel: st.label,
		Inputs:      renderInput(name, tu.Input),
		Output:      out,
		HasOutput:   hasOut,
	}
}

func stepNumber(i int) string {
	return fmt.Sprintf("%02d", i+1)
}

func formatCount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

var funcMap = template.FuncMap{
	"plural": plural,
}

var pageTmpl = template.Must(template.New("page").Funcs(funcMap).Parse(tmplPage))

// EscapeHTML entity-encodes s for use outside the page template.
func EscapeHTML(s string) string {
	return template.HTMLEscapeString(s)
}
