// Package analysis turns bug reports into structured fixes and reviews them using an LLM
package analysis

import (
	"context"
	"strings"

	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/extractor"
	"github.com/tildaslashalef/bugsquash/internal/llm"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

// Analyzer produces a BugAnalysis for a free-text bug report
type Analyzer struct {
	client      llm.Client
	extractor   *extractor.JSONExtractor
	temperature float64
	maxTokens   int
	logger      *loggy.Logger
}

// NewAnalyzer creates a new analyzer backed by client. Temperature is used
// as configured, zero included; only a non-positive token limit falls back.
func NewAnalyzer(client llm.Client, cfg config.AnalysisConfig, logger *loggy.Logger) *Analyzer {
	a := &Analyzer{
		client:      client,
		extractor:   extractor.NewJSONExtractor(logger),
		temperature: cfg.AnalyzeTemperature,
		maxTokens:   cfg.AnalyzeMaxTokens,
		logger:      logger,
	}
	if a.maxTokens <= 0 {
		a.maxTokens = config.DefaultAnalyzeMaxTokens
	}
	return a
}

// Analyze asks the model for a root cause, affected files, fix strategy,
// severity and suggested fix. One request, no retry; any parse failure
// rejects the whole analysis.
func (a *Analyzer) Analyze(ctx context.Context, input string) (*BugAnalysis, error) {
	const op = "analyze"

	messages, err := BuildAnalysisMessages(input)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.GenerateChat(ctx, llm.ChatRequest{
		Messages:      messages,
		MaxTokens:     a.maxTokens,
		Temperature:   a.temperature,
		FormatOptions: llm.JSONObject,
	})
	if err != nil {
		return nil, newError(op, ErrUpstream, err)
	}

	if strings.TrimSpace(resp.Content) == "" {
		return nil, newError(op, ErrEmptyResponse, nil)
	}
	if resp.FinishReason == llm.FinishReasonLength {
		loggy.FromContext(ctx).Warn("Analysis hit the token limit", "max_tokens", a.maxTokens)
	}

	var analysis BugAnalysis
	if err := a.extractor.Decode(resp.Content, &analysis); err != nil {
		loggy.FromContext(ctx).Warn("Analyzer returned malformed output", "error", err, "length", len(resp.Content))
		return nil, newError(op, ErrMalformedAnalysis, err)
	}

	if !analysis.Severity.IsKnown() {
		loggy.FromContext(ctx).Warn("Analyzer returned unknown severity", "severity", analysis.Severity)
	}

	loggy.FromContext(ctx).Debug("Bug analyzed",
		"severity", analysis.Severity,
		"affected_files", len(analysis.AffectedFiles),
		"code_changes", len(analysis.SuggestedFix.CodeChanges))

	return &analysis, nil
}
