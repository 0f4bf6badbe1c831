package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"

	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

// openaiClientAdapter talks to any OpenAI-compatible chat completion endpoint (Groq, OpenAI, ...)
type openaiClientAdapter struct {
	client  openai.Client
	model   string
	limiter *rate.Limiter
	logger  *loggy.Logger
}

func newOpenAIClientAdapter(cfg config.LLMConfig, limiter *rate.Limiter, logger *loggy.Logger) *openaiClientAdapter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Upstream failures surface to the caller immediately
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	return &openaiClientAdapter{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		limiter: limiter,
		logger:  logger,
	}
}

// GenerateChat implements the Client interface
func (a *openaiClientAdapter) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := wait(ctx, a.limiter); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = a.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessagesToOpenAI(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	params.Temperature = openai.Float(req.Temperature)
	if req.FormatOptions != nil && req.FormatOptions.Type == JSONObject.Type {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	start := time.Now()
	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	loggy.FromContext(ctx).Debug("LLM chat completed",
		"model", model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	out := &ChatResponse{
		Model:            resp.Model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
		out.FinishReason = string(resp.Choices[0].FinishReason)
	}

	return out, nil
}

func convertMessagesToOpenAI(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
