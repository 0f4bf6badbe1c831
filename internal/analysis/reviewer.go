package analysis

import (
	"context"
	"strings"

	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/extractor"
	"github.com/tildaslashalef/bugsquash/internal/llm"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

// Reviewer scores generated code
type Reviewer struct {
	client           llm.Client
	extractor        *extractor.JSONExtractor
	temperature      float64
	maxTokens        int
	passThreshold    int
	enforceThreshold bool
	logger           *loggy.Logger
}

// NewReviewer creates a new reviewer backed by client. Temperature and pass
// threshold are used as configured, zero included.
func NewReviewer(client llm.Client, cfg config.AnalysisConfig, logger *loggy.Logger) *Reviewer {
	r := &Reviewer{
		client:           client,
		extractor:        extractor.NewJSONExtractor(logger),
		temperature:      cfg.ReviewTemperature,
		maxTokens:        cfg.ReviewMaxTokens,
		passThreshold:    cfg.PassThreshold,
		enforceThreshold: cfg.EnforceThreshold,
		logger:           logger,
	}
	if r.maxTokens <= 0 {
		r.maxTokens = config.DefaultReviewMaxTokens
	}
	return r
}

// Review asks the model for a score, issues, suggestions and a pass flag.
// The model's pass flag is returned as-is unless threshold enforcement is on,
// in which case it is recomputed from the score.
func (r *Reviewer) Review(ctx context.Context, code string) (*ReviewResult, error) {
	const op = "review"

	messages, err := BuildReviewMessages(code, r.passThreshold)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.GenerateChat(ctx, llm.ChatRequest{
		Messages:      messages,
		MaxTokens:     r.maxTokens,
		Temperature:   r.temperature,
		FormatOptions: llm.JSONObject,
	})
	if err != nil {
		return nil, newError(op, ErrUpstream, err)
	}

	if strings.TrimSpace(resp.Content) == "" {
		return nil, newError(op, ErrEmptyResponse, nil)
	}
	if resp.FinishReason == llm.FinishReasonLength {
		loggy.FromContext(ctx).Warn("Review hit the token limit", "max_tokens", r.maxTokens)
	}

	var result ReviewResult
	if err := r.extractor.Decode(resp.Content, &result); err != nil {
		loggy.FromContext(ctx).Warn("Reviewer returned malformed output", "error", err, "length", len(resp.Content))
		return nil, newError(op, ErrMalformedReview, err)
	}

	if r.enforceThreshold {
		passed := result.Score >= r.passThreshold
		if passed != result.Passed {
			loggy.FromContext(ctx).Debug("Overriding model pass flag", "score", result.Score, "model_passed", result.Passed)
		}
		result.Passed = passed
	}

	return &result, nil
}
