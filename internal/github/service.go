package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v59/github"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

// FetchStatus tags the outcome of an issue fetch
type FetchStatus int

const (
	// FetchOK means the issue was retrieved
	FetchOK FetchStatus = iota
	// FetchNotAnIssueURL means the input did not reference an issue
	FetchNotAnIssueURL
	// FetchFailed means the input referenced an issue that could not be retrieved
	FetchFailed
)

func (s FetchStatus) String() string {
	switch s {
	case FetchOK:
		return "ok"
	case FetchNotAnIssueURL:
		return "not_an_issue_url"
	case FetchFailed:
		return "fetch_failed"
	default:
		return fmt.Sprintf("FetchStatus(%d)", int(s))
	}
}

// FetchResult is the tagged outcome of FetchIssue. Issue is set only for FetchOK,
// Err only for FetchFailed.
type FetchResult struct {
	Status FetchStatus
	Ref    *IssueRef
	Issue  *Issue
	Err    error
}

// Service fetches GitHub issues for analysis
type Service struct {
	client *Client
	logger *loggy.Logger
}

// NewService creates a new GitHub service
func NewService(client *Client, logger *loggy.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// FetchIssue resolves an issue URL to its title, body and labels.
// Failures are reported in the result, never as an error; there is no retry.
func (s *Service) FetchIssue(ctx context.Context, rawURL string) FetchResult {
	ref := ParseIssueURL(rawURL)
	if ref == nil {
		return FetchResult{Status: FetchNotAnIssueURL}
	}

	gi, resp, err := s.client.GetIssue(ctx, ref.Owner, ref.Repo, ref.Number)
	if err == nil && resp != nil && resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err != nil {
		s.logger.Warn("Failed to fetch GitHub issue", "issue", ref.String(), "error", err)
		return FetchResult{
			Status: FetchFailed,
			Ref:    ref,
			Err:    fmt.Errorf("fetching issue %s: %w", ref, err),
		}
	}

	issue := toIssue(ref, gi)
	s.logger.Debug("Fetched GitHub issue", "issue", ref.String(), "labels", len(issue.Labels))

	return FetchResult{Status: FetchOK, Ref: ref, Issue: issue}
}

func toIssue(ref *IssueRef, gi *github.Issue) *Issue {
	labels := make([]string, 0, len(gi.Labels))
	for _, l := range gi.Labels {
		labels = append(labels, l.GetName())
	}

	return &Issue{
		Title:  gi.GetTitle(),
		Body:   gi.GetBody(),
		Number: ref.Number,
		Owner:  ref.Owner,
		Repo:   ref.Repo,
		State:  gi.GetState(),
		Labels: labels,
		URL:    gi.GetHTMLURL(),
	}
}
