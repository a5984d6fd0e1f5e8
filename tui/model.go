// Package tui provides the Bubble Tea terminal UI for linkmend, displaying
// live link-check progress and a styled summary of the rewrite.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soumyaswe/Pravartak-AI-sub000/mend"
	"github.com/soumyaswe/Pravartak-AI-sub000/result"
)

// RunFunc performs the link check and returns its report. It is expected
// to send progress on the channel given to NewModel.
type RunFunc func(ctx context.Context) (*result.Report, error)

// Model is the Bubble Tea model for the link-check TUI.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	run        RunFunc
	spinner    spinner.Model
	progressCh <-chan mend.Event

	checked  int
	total    int
	broken   int
	current  string
	quitting bool
	done     bool
	report   *result.Report
	err      error
	width    int
}

// NewModel creates a TUI model wired to run and its progress channel.
func NewModel(ctx context.Context, cancel context.CancelFunc, run RunFunc, progressCh <-chan mend.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		run:        run,
		spinner:    spin,
		progressCh: progressCh,
	}
}

// Init starts the spinner, the run, and the progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start(), waitForProgress(m.progressCh))
}

// start returns a tea.Cmd that performs the run and sends DoneMsg.
func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		rep, err := m.run(m.ctx)
		if err != nil {
			err = fmt.Errorf("check links: %w", err)
		}
		return DoneMsg{Report: rep, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ProgressMsg:
		m.checked = msg.Checked
		m.total = msg.Total
		m.broken = msg.Broken
		m.current = msg.URL
		return m, waitForProgress(m.progressCh)

	case DoneMsg:
		// The progress channel closing also sends an empty DoneMsg.
		if msg.Report == nil && msg.Err == nil {
			return m, nil
		}
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.report != nil {
		return RenderSummary(m.report)
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	return fmt.Sprintf("%s Checking links... %d/%d, %d dead\n%s\n",
		m.spinner.View(), m.checked, m.total, m.broken,
		dimStyle.Render("  "+m.current))
}

// HasBrokenLinks reports whether the run found any dead links.
func (m Model) HasBrokenLinks() bool {
	return m.report != nil && len(m.report.BrokenLinks()) > 0
}

// Report returns the run's report for output formatting.
func (m Model) Report() *result.Report {
	return m.report
}

// Err returns the error the run ended with, if any.
func (m Model) Err() error {
	return m.err
}
