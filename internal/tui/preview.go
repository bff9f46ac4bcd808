package tui

import (
	"github.com/Zuo-Peng/ai-evals/internal/index"
	"github.com/Zuo-Peng/ai-evals/internal/render"
	"github.com/Zuo-Peng/ai-evals/internal/search"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	path    string
	seq     int
	content string
	hitLine int
	err     error
}

// loadPreviewCmd renders the transcript preview off the UI goroutine.
func loadPreviewCmd(db *index.DB, r search.Result, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.RenderTranscript(db, r.Path, render.Options{
			HitSeq:  r.Seq,
			Context: -1,
			Width:   width,
			Query:   query,
		})
		return previewRenderedMsg{
			path:    r.Path,
			seq:     r.Seq,
			content: content,
			hitLine: hitLine,
			err:     err,
		}
	}
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
