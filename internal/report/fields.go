package report

import (
	"encoding/json"
	"path"
	"strings"

	"github.com/Zuo-Peng/ai-evals/internal/transcript"
)

const (
	titleLimit       = 60
	genericJSONLimit = 500
	outputLimit      = 1000
	ellipsis         = "..."
	outputCutMarker  = "\n... (truncated)"
	defaultToolIcon  = "■"
)

var toolIcons = map[string]string{
	"task":          "▶",
	"todowrite":     "☑",
	"edit":          "✎",
	"write":         "✐",
	"read":          "◎",
	"glob":          "✵",
	"bash":          "❯",
	"grep":          "⌕",
	"skill":         "✦",
	"webfetch":      "⇅",
	"question":      "?",
	"plan_enter":    "⚐",
	"google_search": "⌕",
}

// ToolIcon returns the glyph shown next to a tool name.
func ToolIcon(tool string) string {
	if icon, ok := toolIcons[tool]; ok {
		return icon
	}
	return defaultToolIcon
}

type status struct {
	class string
	label string
}

var statuses = map[string]status{
	"completed": {class: "success", label: "OK"},
	"error":     {class: "error", label: "ERR"},
}

var pendingStatus = status{class: "pending", label: "RUN"}

func toolStatus(s string) status {
	if st, ok := statuses[s]; ok {
		return st
	}
	return pendingStatus
}

type lineStyle int

const (
	styleText  lineStyle = iota // label: value
	styleCode                   // label: <code>value</code>
	styleBlock                  // label, then a <pre> block
)

// inputLine is one rendered key of a tool input.
type inputLine struct {
	Label      string
	Style      lineStyle
	Value      string
	BlockClass string
}

func (l inputLine) IsCode() bool  { return l.Style == styleCode }
func (l inputLine) IsBlock() bool { return l.Style == styleBlock }

type valueKind int

const (
	anyValue valueKind = iota
	stringValue
	arrayValue
)

// fieldRule renders one well-known input key. A rule whose kind does not
// match the value falls back to the generic rendering.
type fieldRule struct {
	label string
	style lineStyle
	limit int
	class string
	kind  valueKind
}

var fieldRules = map[string]fieldRule{
	"command":     {label: "Command", style: styleCode},
	"filePath":    {label: "File", style: styleText},
	"pattern":     {label: "Pattern", style: styleCode},
	"content":     {label: "Content", style: styleBlock, limit: 800, kind: stringValue},
	"oldString":   {label: "Old", style: styleBlock, limit: 500, class: "diff-old", kind: stringValue},
	"newString":   {label: "New", style: styleBlock, limit: 500, class: "diff-new", kind: stringValue},
	"section":     {label: "Sections", style: styleText, kind: arrayValue},
	"description": {label: "Description", style: styleText},
}

func (r fieldRule) matches(v json.RawMessage) bool {
	switch r.kind {
	case stringValue:
		return transcript.IsString(v)
	case arrayValue:
		t := strings.TrimSpace(string(v))
		return strings.HasPrefix(t, "[")
	}
	return true
}

func (r fieldRule) render(v json.RawMessage) inputLine {
	s := transcript.DisplayString(v)
	if r.kind == arrayValue {
		s = transcript.JoinDisplay(v, ", ")
	}
	if r.limit > 0 {
		s = cut(s, r.limit, ellipsis)
	}
	return inputLine{Label: r.label, Style: r.style, Value: s, BlockClass: r.class}
}

// toolLayouts replace the per-key rendering for specific tools. A layout
// returns false when the input lacks what it needs.
var toolLayouts = map[string]func(transcript.Input) ([]inputLine, bool){
	"task":      taskLayout,
	"todowrite": todoLayout,
}

func taskLayout(in transcript.Input) ([]inputLine, bool) {
	desc := in.String("description")
	if desc == "" {
		return nil, false
	}
	lines := []inputLine{{Label: "Task", Value: desc}}
	if agent := in.String("subagent_type"); agent != "" {
		lines = append(lines, inputLine{Label: "Agent", Value: agent})
	}
	if prompt := in.String("prompt"); prompt != "" {
		lines = append(lines, inputLine{Label: "Prompt", Style: styleBlock, Value: cut(prompt, 800, ellipsis)})
	}
	return lines, true
}

func todoLayout(in transcript.Input) ([]inputLine, bool) {
	todos, ok := in.Get("todos")
	if !ok || transcript.IsFalsy(todos) {
		return nil, false
	}
	return []inputLine{{Label: "Todos", Style: styleBlock, Value: transcript.PrettyJSON(todos)}}, true
}

func renderInput(tool string, in transcript.Input) []inputLine {
	if layout, ok := toolLayouts[tool]; ok {
		if lines, ok := layout(in); ok {
			return lines
		}
	}

	var lines []inputLine
	for _, f := range in {
		if transcript.IsNull(f.Value) {
			continue
		}
		if rule, ok := fieldRules[f.Key]; ok && rule.matches(f.Value) {
			lines = append(lines, rule.render(f.Value))
			continue
		}
		if transcript.IsComposite(f.Value) {
			lines = append(lines, inputLine{
				Label: f.Key,
				Style: styleBlock,
				Value: cut(transcript.PrettyJSON(f.Value), genericJSONLimit, ""),
			})
			continue
		}
		lines = append(lines, inputLine{Label: f.Key, Value: transcript.DisplayString(f.Value)})
	}
	return lines
}

// titleSuffixKeys is tried in order; the first truthy key names the call.
var titleSuffixKeys = []struct {
	key    string
	format func(string) string
}{
	{"filePath", path.Base},
	{"command", func(s string) string { return cut(s, titleLimit, ellipsis) }},
	{"description", func(s string) string { return cut(s, titleLimit, ellipsis) }},
}

func toolTitle(tool string, in transcript.Input) string {
	for _, k := range titleSuffixKeys {
		if v := in.String(k.key); v != "" {
			return tool + ": " + k.format(v)
		}
	}
	return tool
}

// renderOutput returns the display text of a tool output and whether it
// should be shown at all.
func renderOutput(out json.RawMessage) (string, bool) {
	if transcript.IsFalsy(out) {
		return "", false
	}
	var s string
	if transcript.IsString(out) {
		s = transcript.DisplayString(out)
	} else {
		s = transcript.PrettyJSON(out)
	}
	return cut(s, outputLimit, outputCutMarker), true
}

// cut keeps the first n characters of s, appending marker when it drops any.
func cut(s string, n int, marker string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + marker
}
