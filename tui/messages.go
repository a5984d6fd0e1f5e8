package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soumyaswe/Pravartak-AI-sub000/mend"
	"github.com/soumyaswe/Pravartak-AI-sub000/result"
)

// ProgressMsg reports progress after one link was resolved.
type ProgressMsg struct {
	Checked int
	Total   int
	Broken  int
	URL     string
}

// DoneMsg signals the run has completed.
type DoneMsg struct {
	Report *result.Report
	Err    error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. A closed channel yields a DoneMsg with a nil Report; the real
// report comes from the run command.
func waitForProgress(ch <-chan mend.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return DoneMsg{}
		}
		return ProgressMsg{
			Checked: evt.Checked,
			Total:   evt.Total,
			Broken:  evt.Broken,
			URL:     evt.URL,
		}
	}
}
