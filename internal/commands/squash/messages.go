package squash

import (
	"github.com/tildaslashalef/bugsquash/internal/pipeline"
)

// runResultMsg carries the outcome of the pipeline run
type runResultMsg struct {
	run *pipeline.Run
	err error
}
