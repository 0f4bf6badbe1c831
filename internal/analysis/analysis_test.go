package analysis

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/llm"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

type fakeClient struct {
	content      string
	finishReason string
	err          error
	requests     []llm.ChatRequest
}

func (f *fakeClient) GenerateChat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Content: f.content, FinishReason: f.finishReason}, nil
}

const validAnalysis = `{
  "rootCause": "user is undefined before the fetch resolves",
  "affectedFiles": ["src/profile.ts"],
  "fixStrategy": "Guard the access",
  "severity": "high",
  "suggestedFix": {
    "description": "Add optional chaining",
    "codeChanges": [{"file": "src/profile.ts", "before": "user.name", "after": "user?.name"}],
    "commitMessage": "fix: guard undefined user"
  }
}`

func TestAnalyze(t *testing.T) {
	client := &fakeClient{content: validAnalysis}
	analyzer := NewAnalyzer(client, config.AnalysisConfig{}, loggy.NewNoopLogger())

	result, err := analyzer.Analyze(context.Background(), "TypeError: Cannot read property 'name' of undefined")
	require.NoError(t, err)

	assert.Equal(t, "user is undefined before the fetch resolves", result.RootCause)
	assert.Equal(t, []string{"src/profile.ts"}, result.AffectedFiles)
	assert.Equal(t, SeverityHigh, result.Severity)
	require.Len(t, result.SuggestedFix.CodeChanges, 1)
	assert.Equal(t, "user?.name", result.SuggestedFix.CodeChanges[0].After)
	assert.Equal(t, "fix: guard undefined user", result.SuggestedFix.CommitMessage)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, config.DefaultAnalyzeMaxTokens, req.MaxTokens)
	assert.Zero(t, req.Temperature)
	assert.Equal(t, llm.JSONObject, req.FormatOptions)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, `"rootCause"`)
	assert.Equal(t, "Analyze this bug and suggest a fix:\n\nTypeError: Cannot read property 'name' of undefined", req.Messages[1].Content)
}

func TestAnalyzeUsesConfiguredSampling(t *testing.T) {
	client := &fakeClient{content: validAnalysis}
	analyzer := NewAnalyzer(client, config.AnalysisConfig{AnalyzeTemperature: 0.5, AnalyzeMaxTokens: 500}, loggy.NewNoopLogger())

	_, err := analyzer.Analyze(context.Background(), "bug")
	require.NoError(t, err)
	assert.Equal(t, 500, client.requests[0].MaxTokens)
	assert.InDelta(t, 0.5, client.requests[0].Temperature, 1e-9)
}

func TestZeroSamplingValuesAreKept(t *testing.T) {
	client := &fakeClient{content: `{"score": 0, "passed": false}`}
	cfg := config.AnalysisConfig{AnalyzeTemperature: 0, ReviewTemperature: 0, EnforceThreshold: true, PassThreshold: 0}

	analyzer := NewAnalyzer(&fakeClient{content: validAnalysis}, cfg, loggy.NewNoopLogger())
	_, err := analyzer.Analyze(context.Background(), "bug")
	require.NoError(t, err)

	reviewer := NewReviewer(client, cfg, loggy.NewNoopLogger())
	result, err := reviewer.Review(context.Background(), "code")
	require.NoError(t, err)

	assert.Zero(t, client.requests[0].Temperature)
	assert.Contains(t, client.requests[0].Messages[0].Content, "true if score >= 0")
	assert.True(t, result.Passed, "a zero threshold passes every score")
}

func TestAnalyzeWarnings(t *testing.T) {
	var buf bytes.Buffer
	ctx := loggy.WithLogger(context.Background(), loggy.New(&buf, loggy.Config{Level: slog.LevelWarn}))

	content := strings.Replace(validAnalysis, `"severity": "high"`, `"severity": "urgent"`, 1)
	analyzer := NewAnalyzer(&fakeClient{content: content, finishReason: llm.FinishReasonLength}, config.AnalysisConfig{}, loggy.NewNoopLogger())

	result, err := analyzer.Analyze(ctx, "bug")
	require.NoError(t, err)
	assert.Equal(t, Severity("urgent"), result.Severity)
	assert.Contains(t, buf.String(), "Analysis hit the token limit")
	assert.Contains(t, buf.String(), "Analyzer returned unknown severity")
}

func TestAnalyzeFailures(t *testing.T) {
	upstream := errors.New("connection refused")

	tests := []struct {
		name    string
		client  *fakeClient
		kind    error
		wantMsg string
	}{
		{name: "empty content", client: &fakeClient{content: ""}, kind: ErrEmptyResponse, wantMsg: "no response from AI"},
		{name: "whitespace content", client: &fakeClient{content: "  \n"}, kind: ErrEmptyResponse},
		{name: "not json", client: &fakeClient{content: "garbage"}, kind: ErrMalformedAnalysis, wantMsg: "failed to parse AI response"},
		{name: "wrong shape", client: &fakeClient{content: `{"affectedFiles": "one"}`}, kind: ErrMalformedAnalysis},
		{name: "upstream", client: &fakeClient{err: upstream}, kind: ErrUpstream, wantMsg: "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewAnalyzer(tt.client, config.AnalysisConfig{}, loggy.NewNoopLogger())
			result, err := analyzer.Analyze(context.Background(), "bug")
			assert.Nil(t, result)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}

			var aerr *Error
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, "analyze", aerr.Op)
		})
	}
}

func TestAnalyzeUpstreamKeepsCause(t *testing.T) {
	analyzer := NewAnalyzer(&fakeClient{err: context.Canceled}, config.AnalysisConfig{}, loggy.NewNoopLogger())
	_, err := analyzer.Analyze(context.Background(), "bug")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReview(t *testing.T) {
	client := &fakeClient{content: `{"score": 85, "issues": ["no test"], "suggestions": ["add a test"], "passed": true}`}
	cfg := config.AnalysisConfig{ReviewTemperature: config.DefaultReviewTemperature, PassThreshold: config.DefaultPassThreshold}
	reviewer := NewReviewer(client, cfg, loggy.NewNoopLogger())

	result, err := reviewer.Review(context.Background(), "// a.go\nx := 1")
	require.NoError(t, err)
	assert.Equal(t, &ReviewResult{Score: 85, Issues: []string{"no test"}, Suggestions: []string{"add a test"}, Passed: true}, result)

	req := client.requests[0]
	assert.Equal(t, config.DefaultReviewMaxTokens, req.MaxTokens)
	assert.InDelta(t, config.DefaultReviewTemperature, req.Temperature, 1e-9)
	assert.Equal(t, llm.JSONObject, req.FormatOptions)
	assert.Contains(t, req.Messages[0].Content, "true if score >= 70")
	assert.Equal(t, "Review this code:\n\n// a.go\nx := 1", req.Messages[1].Content)
}

func TestReviewPassedFlag(t *testing.T) {
	disagreeing := `{"score": 40, "issues": [], "suggestions": [], "passed": true}`

	t.Run("trusted by default", func(t *testing.T) {
		reviewer := NewReviewer(&fakeClient{content: disagreeing}, config.AnalysisConfig{}, loggy.NewNoopLogger())
		result, err := reviewer.Review(context.Background(), "code")
		require.NoError(t, err)
		assert.True(t, result.Passed)
	})

	t.Run("recomputed when enforced", func(t *testing.T) {
		cfg := config.AnalysisConfig{EnforceThreshold: true, PassThreshold: 70}
		reviewer := NewReviewer(&fakeClient{content: disagreeing}, cfg, loggy.NewNoopLogger())
		result, err := reviewer.Review(context.Background(), "code")
		require.NoError(t, err)
		assert.False(t, result.Passed)
	})

	t.Run("boundary score passes", func(t *testing.T) {
		cfg := config.AnalysisConfig{EnforceThreshold: true, PassThreshold: 70}
		reviewer := NewReviewer(&fakeClient{content: `{"score": 70, "passed": false}`}, cfg, loggy.NewNoopLogger())
		result, err := reviewer.Review(context.Background(), "code")
		require.NoError(t, err)
		assert.True(t, result.Passed)
	})
}

func TestReviewFractionalScore(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{`{"score": 85.0, "passed": true}`, 85},
		{`{"score": 84.6, "passed": true}`, 85},
		{`{"score": 72.4}`, 72},
		{`{"passed": true}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			reviewer := NewReviewer(&fakeClient{content: tt.content}, config.AnalysisConfig{}, loggy.NewNoopLogger())
			result, err := reviewer.Review(context.Background(), "code")
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Score)
		})
	}

	reviewer := NewReviewer(&fakeClient{content: `{"score": "high"}`}, config.AnalysisConfig{}, loggy.NewNoopLogger())
	_, err := reviewer.Review(context.Background(), "code")
	assert.ErrorIs(t, err, ErrMalformedReview)
}

func TestReviewFailures(t *testing.T) {
	reviewer := NewReviewer(&fakeClient{content: "not json"}, config.AnalysisConfig{}, loggy.NewNoopLogger())
	_, err := reviewer.Review(context.Background(), "code")
	assert.ErrorIs(t, err, ErrMalformedReview)
	assert.NotErrorIs(t, err, ErrMalformedAnalysis)

	reviewer = NewReviewer(&fakeClient{}, config.AnalysisConfig{}, loggy.NewNoopLogger())
	_, err = reviewer.Review(context.Background(), "code")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	reviewer = NewReviewer(&fakeClient{err: errors.New("503")}, config.AnalysisConfig{}, loggy.NewNoopLogger())
	_, err = reviewer.Review(context.Background(), "code")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestBuildReviewableCode(t *testing.T) {
	code := BuildReviewableCode([]CodeChange{
		{File: "a.ts", Before: "x", After: "y"},
		{File: "b.ts", Before: "p", After: "q\nr"},
	})
	assert.Equal(t, "// a.ts\ny\n\n// b.ts\nq\nr", code)
	assert.Equal(t, "", BuildReviewableCode(nil))
}

func TestSeverityIsKnown(t *testing.T) {
	assert.True(t, SeverityCritical.IsKnown())
	assert.True(t, Severity("HIGH").IsKnown())
	assert.False(t, Severity("urgent").IsKnown())
	assert.False(t, Severity("").IsKnown())
}
