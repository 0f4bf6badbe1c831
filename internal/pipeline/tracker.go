package pipeline

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/goombaio/namegenerator"
	"github.com/tildaslashalef/bugsquash/internal/config"
)

// Placeholder defaults
const (
	DefaultPlaceholderRepo = "your-repo"
	DefaultPRBaseURL       = "https://github.com/user/repo"

	maxIssueNumber = 100
	maxPRNumber    = 200
)

// IssueTracker files analyses under issues and pull requests. The only
// implementation fabricates them; nothing is created on a real tracker.
type IssueTracker interface {
	CreatePlaceholder(title string) IssueInfo
	PlaceholderPRURL() string
	BranchName() string
}

// PlaceholderTracker returns random issue numbers and PR links
type PlaceholderTracker struct {
	repo    string
	prBase  string
	mu      sync.Mutex
	rng     *rand.Rand
	namegen namegenerator.Generator
}

// NewPlaceholderTracker creates a tracker seeded from the runtime source
func NewPlaceholderTracker(cfg config.PlaceholderConfig) *PlaceholderTracker {
	return NewPlaceholderTrackerWithSeed(cfg, rand.Uint64(), rand.Uint64())
}

// NewPlaceholderTrackerWithSeed creates a deterministic tracker
func NewPlaceholderTrackerWithSeed(cfg config.PlaceholderConfig, seed1, seed2 uint64) *PlaceholderTracker {
	repo := cfg.Repo
	if repo == "" {
		repo = DefaultPlaceholderRepo
	}
	prBase := strings.TrimSuffix(cfg.PRBaseURL, "/")
	if prBase == "" {
		prBase = DefaultPRBaseURL
	}

	return &PlaceholderTracker{
		repo:    repo,
		prBase:  prBase,
		rng:     rand.New(rand.NewPCG(seed1, seed2)),
		namegen: namegenerator.NewNameGenerator(int64(seed1 ^ seed2)),
	}
}

// CreatePlaceholder returns an issue with a number in [1, 100]
func (t *PlaceholderTracker) CreatePlaceholder(title string) IssueInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	return IssueInfo{
		Title:  title,
		Number: t.rng.IntN(maxIssueNumber) + 1,
		Repo:   t.repo,
	}
}

// PlaceholderPRURL returns "<base>/pull/<n>" with n in [1, 200]
func (t *PlaceholderTracker) PlaceholderPRURL() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return fmt.Sprintf("%s/pull/%d", t.prBase, t.rng.IntN(maxPRNumber)+1)
}

// BranchName returns a memorable fix branch name like "fix/wispy-dust"
func (t *PlaceholderTracker) BranchName() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Some names might have underscores; convert to hyphens for consistency
	return "fix/" + strings.ReplaceAll(t.namegen.Generate(), "_", "-")
}
