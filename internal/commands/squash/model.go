// Package squash shows a progress spinner while a bug report runs through the pipeline
package squash

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/tildaslashalef/bugsquash/internal/pipeline"
	"github.com/tildaslashalef/bugsquash/internal/render"
)

// Runner executes the pipeline for one input
type Runner func(ctx context.Context, input string) (*pipeline.Run, error)

// Status represents the state of the squash view
type Status int

const (
	// StatusRunning means the pipeline has not returned yet
	StatusRunning Status = iota
	// StatusDone means the pipeline returned, successfully or not
	StatusDone
	// StatusCancelled means the user aborted the run
	StatusCancelled
)

// Model is the bubbletea model of the squash progress view
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	runner Runner
	input  string

	status  Status
	started time.Time
	elapsed time.Duration
	run     *pipeline.Run
	err     error

	spinner spinner.Model
	help    help.Model
	styles  render.Styles
	now     func() time.Time
}

// NewModel creates the progress model. Cancelling the view cancels the
// context handed to runner.
func NewModel(ctx context.Context, runner Runner, input string, styles render.Styles) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	runCtx, cancel := context.WithCancel(ctx)

	return Model{
		ctx:     runCtx,
		cancel:  cancel,
		runner:  runner,
		input:   input,
		status:  StatusRunning,
		started: time.Now(),
		spinner: s,
		help:    help.New(),
		styles:  styles,
		now:     time.Now,
	}
}

// Status returns the current state of the view
func (m Model) Status() Status {
	return m.status
}

// Result returns the pipeline outcome once the view is done
func (m Model) Result() (*pipeline.Run, error) {
	return m.run, m.err
}
