package squash

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tildaslashalef/bugsquash/internal/pipeline"
	"github.com/tildaslashalef/bugsquash/internal/render"
)

// ErrCancelled is returned when the user aborts the run from the spinner view
var ErrCancelled = errors.New("squash cancelled")

// Run shows the spinner until runner returns and hands back its outcome
func Run(ctx context.Context, runner Runner, input string, styles render.Styles, opts ...tea.ProgramOption) (*pipeline.Run, error) {
	model := NewModel(ctx, runner, input, styles)

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected TUI model %T", final)
	}
	if m.Status() == StatusCancelled {
		return nil, ErrCancelled
	}

	return m.Result()
}
