package pipeline

import (
	"regexp"
	"strings"

	"github.com/tildaslashalef/bugsquash/internal/analysis"
	"github.com/tildaslashalef/bugsquash/internal/history"
)

// Review comment markers
const (
	issueMarker      = "⚠️ "
	suggestionMarker = "💡 "
)

const defaultTitle = "Bug Report"

var errorTitlePattern = regexp.MustCompile(`(TypeError|ReferenceError|SyntaxError|Error):\s*(.+)`)

// ResultEnvelope is the combined response of one analysis request
type ResultEnvelope struct {
	Issue         IssueInfo     `json:"issue"`
	RootCause     string        `json:"rootCause"`
	AffectedFiles []string      `json:"affectedFiles"`
	FixStrategy   string        `json:"fixStrategy"`
	Severity      string        `json:"severity"`
	GeneratedFix  GeneratedFix  `json:"generatedFix"`
	Review        ReviewSummary `json:"review"`
	PRURL         string        `json:"prUrl"`
	Branch        string        `json:"branch,omitempty"`
}

// IssueInfo describes the placeholder issue the analysis is filed under
type IssueInfo struct {
	Title  string `json:"title"`
	Number int    `json:"number"`
	Repo   string `json:"repo"`
}

// GeneratedFix holds the per-file diffs of the suggested fix
type GeneratedFix struct {
	Files         []GeneratedFile `json:"files"`
	CommitMessage string          `json:"commitMessage"`
	Description   string          `json:"description"`
}

// GeneratedFile is the diff text for one changed file
type GeneratedFile struct {
	Path     string `json:"path"`
	Changes  string `json:"changes"`
	Language string `json:"language,omitempty"`
}

// ReviewSummary is the reviewer verdict with issues and suggestions flattened into comments
type ReviewSummary struct {
	Score    int      `json:"score"`
	Comments []string `json:"comments"`
	Passed   bool     `json:"passed"`
}

// HistoryItem returns the history entry recorded for this envelope
func (e *ResultEnvelope) HistoryItem(input string) history.Item {
	return history.Item{
		Input: input,
		Issue: history.IssueSummary{
			Title:  e.Issue.Title,
			Number: e.Issue.Number,
			Repo:   e.Issue.Repo,
		},
		RootCause: e.RootCause,
		Severity:  e.Severity,
		Score:     e.Review.Score,
	}
}

// ExtractTitle derives a short issue title from a bug report. An error
// signature anywhere in the text wins; otherwise the first non-blank line is used.
func ExtractTitle(input string) string {
	if m := errorTitlePattern.FindStringSubmatch(input); m != nil {
		return m[1] + ": " + truncateRunes(m[2], 50)
	}

	for _, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) != "" {
			return truncateRunes(line, 60)
		}
	}

	return defaultTitle
}

// FormatDiff renders every before line prefixed with "- " followed by every
// after line prefixed with "+ ". Lines are not aligned or diffed.
func FormatDiff(before, after string) string {
	beforeLines := strings.Split(before, "\n")
	afterLines := strings.Split(after, "\n")

	out := make([]string, 0, len(beforeLines)+len(afterLines))
	for _, l := range beforeLines {
		out = append(out, "- "+l)
	}
	for _, l := range afterLines {
		out = append(out, "+ "+l)
	}
	return strings.Join(out, "\n")
}

// reviewComments flattens review issues and suggestions, issues first
func reviewComments(review *analysis.ReviewResult) []string {
	comments := make([]string, 0, len(review.Issues)+len(review.Suggestions))
	for _, issue := range review.Issues {
		comments = append(comments, issueMarker+issue)
	}
	for _, suggestion := range review.Suggestions {
		comments = append(comments, suggestionMarker+suggestion)
	}
	return comments
}

func generatedFiles(changes []analysis.CodeChange) []GeneratedFile {
	files := make([]GeneratedFile, 0, len(changes))
	for _, change := range changes {
		files = append(files, GeneratedFile{
			Path:     change.File,
			Changes:  FormatDiff(change.Before, change.After),
			Language: DetectLanguage(change.File, change.After),
		})
	}
	return files
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
