// Package extractor decodes JSON objects from LLM responses
package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

// ErrEmptyContent is returned when the response carries no text at all
var ErrEmptyContent = errors.New("empty content")

// fencePattern matches a response that is exactly one fenced code block
var fencePattern = regexp.MustCompile("(?s)^```(?:json|JSON)?\\s*\n?(.*?)\\s*```$")

// JSONExtractor extracts structured data from LLM responses
type JSONExtractor struct {
	logger *loggy.Logger
}

// NewJSONExtractor creates a new JSONExtractor
func NewJSONExtractor(logger *loggy.Logger) *JSONExtractor {
	return &JSONExtractor{
		logger: logger,
	}
}

// Decode unmarshals content into v. The content must be a single JSON value,
// optionally wrapped in one markdown code fence; no repair is attempted.
func (e *JSONExtractor) Decode(content string, v any) error {
	jsonContent, err := extractJSON(content)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(jsonContent), v); err != nil {
		e.logger.Debug("Failed to unmarshal LLM JSON", "error", err, "length", len(jsonContent))
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// extractJSON strips surrounding whitespace and a wrapping code fence
func extractJSON(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyContent
	}

	if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
		trimmed = strings.TrimSpace(m[1])
		if trimmed == "" {
			return "", ErrEmptyContent
		}
	}

	return trimmed, nil
}
