package squash

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, Keys.Quit) && m.status == StatusRunning {
			loggy.Info("Squash cancelled by user")
			m.cancel()
			m.status = StatusCancelled
			m.elapsed = m.now().Sub(m.started)
			return m, tea.Quit
		}
		return m, nil

	case runResultMsg:
		if m.status != StatusRunning {
			return m, nil
		}
		m.run = msg.run
		m.err = msg.err
		m.status = StatusDone
		m.elapsed = m.now().Sub(m.started)
		m.cancel()
		return m, tea.Quit

	case spinner.TickMsg:
		if m.status != StatusRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}
