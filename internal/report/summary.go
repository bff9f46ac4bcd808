package report

import (
	"sort"

	"github.com/Zuo-Peng/ai-evals/internal/transcript"
)

const unknownTool = "unknown"

type ToolCount struct {
	Name  string
	Count int
}

// Summary aggregates a whole transcript.
type Summary struct {
	Steps        int
	ToolCalls    int
	Messages     int
	Cost         float64
	InputTokens  float64
	OutputTokens float64
	Tools        []ToolCount // by descending count, ties in first-seen order
}

// Summarize computes totals over steps. Steps without a step_finish event
// contribute nothing to cost and tokens.
func Summarize(steps []transcript.Step) Summary {
	s := Summary{Steps: len(steps)}
	index := make(map[string]int)

	for _, step := range steps {
		for _, ev := range step.Events {
			switch ev.Type {
			case transcript.TypeToolUse:
				s.ToolCalls++
				name := ToolName(ev)
				i, ok := index[name]
				if !ok {
					i = len(s.Tools)
					index[name] = i
					s.Tools = append(s.Tools, ToolCount{Name: name})
				}
				s.Tools[i].Count++
			case transcript.TypeText:
				s.Messages++
			}
		}

		if fin, ok := step.Finish(); ok {
			sf := fin.StepFinish()
			s.Cost += sf.Cost
			s.InputTokens += sf.InputTokens
			s.OutputTokens += sf.OutputTokens
		}
	}

	sort.SliceStable(s.Tools, func(a, b int) bool {
		return s.Tools[a].Count > s.Tools[b].Count
	})
	return s
}

// ToolName returns the tool of a tool_use event, "unknown" when absent.
func ToolName(ev transcript.Event) string {
	if name := ev.ToolUse().Tool; name != "" {
		return name
	}
	return unknownTool
}
