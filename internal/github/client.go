package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/tildaslashalef/bugsquash/internal/config"
	"golang.org/x/oauth2"
)

const defaultAPIURL = "https://api.github.com/"

// Client represents a GitHub API client
type Client struct {
	client *github.Client
}

// NewClient creates a GitHub API client. Requests are anonymous unless a token is configured.
func NewClient(cfg config.GitHubConfig) (*Client, error) {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var hc *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		hc = oauth2.NewClient(context.Background(), ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = timeout

	client := github.NewClient(hc)

	if cfg.APIURL != "" && strings.TrimSuffix(cfg.APIURL, "/")+"/" != defaultAPIURL {
		base, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.APIURL, err)
		}
		client.BaseURL = base
	}

	return &Client{client: client}, nil
}

// GetIssue gets an issue by number
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*github.Issue, *github.Response, error) {
	if owner == "" || repo == "" {
		return nil, nil, fmt.Errorf("owner and repo must be provided")
	}

	return c.client.Issues.Get(ctx, owner, repo, number)
}
