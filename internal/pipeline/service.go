// Package pipeline runs a bug report through analysis and review and assembles the result
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/tildaslashalef/bugsquash/internal/analysis"
	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/github"
	"github.com/tildaslashalef/bugsquash/internal/history"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

// BugAnalyzer diagnoses a bug report
type BugAnalyzer interface {
	Analyze(ctx context.Context, input string) (*analysis.BugAnalysis, error)
}

// CodeReviewer scores generated code
type CodeReviewer interface {
	Review(ctx context.Context, code string) (*analysis.ReviewResult, error)
}

// IssueFetcher resolves GitHub issue URLs
type IssueFetcher interface {
	FetchIssue(ctx context.Context, rawURL string) github.FetchResult
}

// HistoryRecorder stores completed runs
type HistoryRecorder interface {
	Add(ctx context.Context, item history.Item) (history.Item, error)
}

// Run is the outcome of a full squash: the envelope plus everything derived from it
type Run struct {
	Result   *ResultEnvelope `json:"result"`
	Commands []Command       `json:"commands"`
	Script   string          `json:"script"`
	Issue    *github.Issue   `json:"issue,omitempty"`
	History  *history.Item   `json:"history,omitempty"`
}

// Service orchestrates the analysis pipeline
type Service struct {
	config   *config.Config
	analyzer BugAnalyzer
	reviewer CodeReviewer
	tracker  IssueTracker
	fetcher  IssueFetcher
	history  HistoryRecorder
	logger   *loggy.Logger
}

// Option configures optional collaborators of the Service
type Option func(*Service)

// WithFetcher enables issue URL resolution in Squash
func WithFetcher(fetcher IssueFetcher) Option {
	return func(s *Service) { s.fetcher = fetcher }
}

// WithHistory records every successful Squash
func WithHistory(recorder HistoryRecorder) Option {
	return func(s *Service) { s.history = recorder }
}

// WithTracker replaces the placeholder issue tracker
func WithTracker(tracker IssueTracker) Option {
	return func(s *Service) { s.tracker = tracker }
}

// NewService creates a new pipeline service. analyzer and reviewer may be nil
// when no LLM credential is configured; requests then fail with
// ErrMisconfiguredService.
func NewService(cfg *config.Config, analyzer BugAnalyzer, reviewer CodeReviewer, logger *loggy.Logger, opts ...Option) *Service {
	s := &Service{
		config:   cfg,
		analyzer: analyzer,
		reviewer: reviewer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = NewPlaceholderTracker(cfg.Placeholder)
	}
	return s
}

func (s *Service) configured() bool {
	return s.config.HasLLMCredential() && s.analyzer != nil && s.reviewer != nil
}

// HandleAnalysisRequest analyzes rawInput, reviews the suggested code and
// returns the combined envelope. Only the empty string is invalid;
// whitespace is passed through. Any stage failure aborts the request; a
// partial envelope is never returned.
func (s *Service) HandleAnalysisRequest(ctx context.Context, rawInput string) (*ResultEnvelope, error) {
	if rawInput == "" {
		return nil, ErrInvalidInput
	}
	if !s.configured() {
		return nil, ErrMisconfiguredService
	}

	logger := loggy.FromContext(ctx)

	bug, err := s.analyzer.Analyze(ctx, rawInput)
	if err != nil {
		return nil, fmt.Errorf("analyzing bug: %w", err)
	}

	code := analysis.BuildReviewableCode(bug.SuggestedFix.CodeChanges)
	review, err := s.reviewer.Review(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("reviewing fix: %w", err)
	}

	envelope := &ResultEnvelope{
		Issue:         s.tracker.CreatePlaceholder(ExtractTitle(rawInput)),
		RootCause:     bug.RootCause,
		AffectedFiles: nonNil(bug.AffectedFiles),
		FixStrategy:   bug.FixStrategy,
		Severity:      string(bug.Severity),
		GeneratedFix: GeneratedFix{
			Files:         generatedFiles(bug.SuggestedFix.CodeChanges),
			CommitMessage: bug.SuggestedFix.CommitMessage,
			Description:   bug.SuggestedFix.Description,
		},
		Review: ReviewSummary{
			Score:    review.Score,
			Comments: reviewComments(review),
			Passed:   review.Passed,
		},
		PRURL:  s.tracker.PlaceholderPRURL(),
		Branch: s.tracker.BranchName(),
	}

	logger.Info("Analysis completed",
		"severity", envelope.Severity,
		"files", len(envelope.GeneratedFix.Files),
		"score", envelope.Review.Score,
		"passed", envelope.Review.Passed)

	return envelope, nil
}

// Squash runs the full flow: an issue URL is first resolved to its title and
// body (falling back to the raw text when the fetch fails), the result is
// analyzed, cline commands are derived and the run is added to history.
// Blank input is rejected before any outbound call.
func (s *Service) Squash(ctx context.Context, userInput string) (*Run, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, ErrInvalidInput
	}
	if !s.configured() {
		return nil, ErrMisconfiguredService
	}

	logger := loggy.FromContext(ctx)
	run := &Run{}

	analysisInput := userInput
	if s.fetcher != nil && github.IsIssueURL(userInput) {
		fetched := s.fetcher.FetchIssue(ctx, userInput)
		switch fetched.Status {
		case github.FetchOK:
			run.Issue = fetched.Issue
			analysisInput = fetched.Issue.AnalysisInput()
		case github.FetchFailed:
			logger.Warn("Falling back to raw input", "issue", fetched.Ref.String(), "error", fetched.Err)
		}
	}

	envelope, err := s.HandleAnalysisRequest(ctx, analysisInput)
	if err != nil {
		return nil, err
	}

	run.Result = envelope
	run.Commands = DeriveCommands(userInput, envelope.AffectedFiles, envelope.GeneratedFix.CommitMessage)
	run.Script = FormatCommands(run.Commands)

	if s.history != nil {
		item, err := s.history.Add(ctx, envelope.HistoryItem(userInput))
		if err != nil {
			// History is best effort
			logger.Warn("Failed to record history", "error", err)
		} else {
			run.History = &item
		}
	}

	return run, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
