package analysis

import (
	"errors"
	"fmt"
)

// Failure kinds shared by the analyzer and the reviewer
var (
	// ErrEmptyResponse means the model returned no content
	ErrEmptyResponse = errors.New("no response from AI")
	// ErrMalformedAnalysis means the analyzer output was not a parseable analysis object
	ErrMalformedAnalysis = errors.New("failed to parse AI response")
	// ErrMalformedReview means the reviewer output was not a parseable review object
	ErrMalformedReview = errors.New("failed to parse review response")
	// ErrUpstream means the chat completion request itself failed
	ErrUpstream = errors.New("LLM request failed")
)

// Error is returned by every stage of this package. Kind is one of the
// sentinels above; Err carries the underlying cause when there is one.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
