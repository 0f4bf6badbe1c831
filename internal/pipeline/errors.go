package pipeline

import (
	"errors"
	"fmt"

	"github.com/tildaslashalef/bugsquash/internal/llm"
)

var (
	// ErrInvalidInput is returned when the bug report is missing or blank
	ErrInvalidInput = errors.New("input is required")
	// ErrMisconfiguredService is returned when no LLM credential is configured
	ErrMisconfiguredService = fmt.Errorf("service misconfigured: %w", llm.ErrNotConfigured)
)
