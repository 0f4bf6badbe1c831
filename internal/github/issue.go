package github

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// issueURLPattern matches an issue reference anywhere in free text; any scheme
// or host prefix before github.com is tolerated.
var issueURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/issues/(\d+)`)

// IssueRef identifies a GitHub issue
type IssueRef struct {
	Owner  string
	Repo   string
	Number int
}

// String returns owner/repo#number
func (r IssueRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// ParseIssueURL extracts the first issue reference from text.
// It returns nil when the text contains none, or when the number does not fit an int.
func ParseIssueURL(text string) *IssueRef {
	m := issueURLPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	number, err := strconv.Atoi(m[3])
	if err != nil {
		return nil
	}

	return &IssueRef{Owner: m[1], Repo: m[2], Number: number}
}

// IsIssueURL reports whether text contains a GitHub issue reference
func IsIssueURL(text string) bool {
	return ParseIssueURL(text) != nil
}

// Issue is the subset of a GitHub issue used for analysis
type Issue struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Number int      `json:"number"`
	Owner  string   `json:"owner"`
	Repo   string   `json:"repo"`
	State  string   `json:"state"`
	Labels []string `json:"labels"`
	URL    string   `json:"url"`
}

// AnalysisInput folds the issue into the plain text handed to the analyzer
func (i *Issue) AnalysisInput() string {
	labels := "none"
	if len(i.Labels) > 0 {
		labels = strings.Join(i.Labels, ", ")
	}

	return fmt.Sprintf("GitHub Issue #%d: %s\n\nRepository: %s/%s\nLabels: %s\n\n%s",
		i.Number, i.Title, i.Owner, i.Repo, labels, i.Body)
}
