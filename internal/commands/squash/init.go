package squash

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the spinner and the pipeline run
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		runPipeline(m),
	)
}

// runPipeline executes the runner off the UI goroutine
func runPipeline(m Model) tea.Cmd {
	return func() tea.Msg {
		run, err := m.runner(m.ctx, m.input)
		return runResultMsg{run: run, err: err}
	}
}
