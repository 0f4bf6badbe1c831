package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Severity represents the impact level the model assigns to a bug
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsKnown reports whether s is one of the four documented levels
func (s Severity) IsKnown() bool {
	switch Severity(strings.ToLower(string(s))) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// CodeChange is a single before/after replacement suggested by the model
type CodeChange struct {
	File   string `json:"file"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// SuggestedFix groups the code changes of an analysis with their commit metadata
type SuggestedFix struct {
	Description   string       `json:"description"`
	CodeChanges   []CodeChange `json:"codeChanges"`
	CommitMessage string       `json:"commitMessage"`
}

// BugAnalysis is the structured diagnosis returned by the analyzer
type BugAnalysis struct {
	RootCause     string       `json:"rootCause"`
	AffectedFiles []string     `json:"affectedFiles"`
	FixStrategy   string       `json:"fixStrategy"`
	Severity      Severity     `json:"severity"`
	SuggestedFix  SuggestedFix `json:"suggestedFix"`
}

// ReviewResult is the verdict returned by the reviewer
type ReviewResult struct {
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Passed      bool     `json:"passed"`
}

// UnmarshalJSON accepts fractional scores such as 85.0 and rounds them to
// the nearest integer
func (r *ReviewResult) UnmarshalJSON(data []byte) error {
	type plain ReviewResult
	aux := struct {
		*plain
		Score json.Number `json:"score"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Score = 0
	if aux.Score == "" {
		return nil
	}

	score, err := aux.Score.Float64()
	if err != nil {
		return fmt.Errorf("invalid score %q: %w", aux.Score, err)
	}
	r.Score = int(math.Round(score))
	return nil
}

// BuildReviewableCode concatenates the post-fix code of every change,
// each preceded by a "// <file>" marker line, separated by blank lines.
func BuildReviewableCode(changes []CodeChange) string {
	blocks := make([]string, 0, len(changes))
	for _, change := range changes {
		blocks = append(blocks, "// "+change.File+"\n"+change.After)
	}
	return strings.Join(blocks, "\n\n")
}
