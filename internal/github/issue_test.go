package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIssueURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *IssueRef
	}{
		{
			name:  "canonical url",
			input: "https://github.com/acme/widgets/issues/42",
			want:  &IssueRef{Owner: "acme", Repo: "widgets", Number: 42},
		},
		{
			name:  "no scheme",
			input: "github.com/a/b/issues/1",
			want:  &IssueRef{Owner: "a", Repo: "b", Number: 1},
		},
		{
			name:  "embedded in prose",
			input: "please look at https://www.github.com/org/repo.go/issues/7#issuecomment-1 thanks",
			want:  &IssueRef{Owner: "org", Repo: "repo.go", Number: 7},
		},
		{
			name:  "pull request url",
			input: "https://github.com/a/b/pull/3",
		},
		{
			name:  "missing number",
			input: "https://github.com/a/b/issues/",
		},
		{
			name:  "free text",
			input: "TypeError: Cannot read properties of undefined",
		},
		{
			name:  "number overflows int",
			input: "github.com/a/b/issues/99999999999999999999999999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIssueURL(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != nil, IsIssueURL(tt.input))
		})
	}
}

func TestIssueRefString(t *testing.T) {
	assert.Equal(t, "a/b#9", IssueRef{Owner: "a", Repo: "b", Number: 9}.String())
}

func TestAnalysisInput(t *testing.T) {
	issue := &Issue{
		Title:  "Crash on save",
		Body:   "Steps to reproduce...",
		Number: 12,
		Owner:  "acme",
		Repo:   "widgets",
		Labels: []string{"bug", "p1"},
	}

	assert.Equal(t,
		"GitHub Issue #12: Crash on save\n\nRepository: acme/widgets\nLabels: bug, p1\n\nSteps to reproduce...",
		issue.AnalysisInput())

	issue.Labels = nil
	issue.Body = ""
	text := issue.AnalysisInput()
	require.Contains(t, text, "Labels: none")
	assert.True(t, len(text) > 0 && text[len(text)-2:] == "\n\n")
}
