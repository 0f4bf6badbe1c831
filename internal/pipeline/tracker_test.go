package pipeline

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tildaslashalef/bugsquash/internal/config"
)

func TestPlaceholderTrackerDefaults(t *testing.T) {
	tracker := NewPlaceholderTracker(config.PlaceholderConfig{})

	issue := tracker.CreatePlaceholder("Bug Report")
	assert.Equal(t, "Bug Report", issue.Title)
	assert.Equal(t, DefaultPlaceholderRepo, issue.Repo)
	assert.True(t, strings.HasPrefix(tracker.PlaceholderPRURL(), DefaultPRBaseURL+"/pull/"))
	assert.True(t, strings.HasPrefix(tracker.BranchName(), "fix/"))
}

func TestPlaceholderTrackerRanges(t *testing.T) {
	tracker := NewPlaceholderTrackerWithSeed(config.PlaceholderConfig{Repo: "acme/web", PRBaseURL: "https://github.com/acme/web/"}, 1, 2)

	for i := 0; i < 500; i++ {
		issue := tracker.CreatePlaceholder("t")
		assert.GreaterOrEqual(t, issue.Number, 1)
		assert.LessOrEqual(t, issue.Number, 100)
		assert.Equal(t, "acme/web", issue.Repo)

		url := tracker.PlaceholderPRURL()
		require.True(t, strings.HasPrefix(url, "https://github.com/acme/web/pull/"), url)
		n, err := strconv.Atoi(strings.TrimPrefix(url, "https://github.com/acme/web/pull/"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 200)
	}
}

func TestPlaceholderTrackerDeterministic(t *testing.T) {
	a := NewPlaceholderTrackerWithSeed(config.PlaceholderConfig{}, 7, 9)
	b := NewPlaceholderTrackerWithSeed(config.PlaceholderConfig{}, 7, 9)

	assert.Equal(t, a.CreatePlaceholder("x"), b.CreatePlaceholder("x"))
	assert.Equal(t, a.PlaceholderPRURL(), b.PlaceholderPRURL())
	assert.Equal(t, a.BranchName(), b.BranchName())
}
