package llm

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

// ErrNotConfigured is returned when no API credential is available for the chat endpoint
var ErrNotConfigured = errors.New("LLM API key not configured")

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest represents a generic chat request to any LLM
type ChatRequest struct {
	Model         string         `json:"model"`
	Messages      []Message      `json:"messages"`
	MaxTokens     int            `json:"max_tokens,omitempty"`
	Temperature   float64        `json:"temperature"`
	FormatOptions *FormatOptions `json:"format_options,omitempty"`
}

// Message represents a chat message with role and content
type Message struct {
	Role    string `json:"role"` // user, assistant, or system
	Content string `json:"content"`
}

// FinishReasonLength marks a completion cut off by the token limit
const FinishReasonLength = "length"

// ChatResponse represents a response from a chat request
type ChatResponse struct {
	Content          string `json:"content"`
	Model            string `json:"model"`
	FinishReason     string `json:"finish_reason"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

// FormatOptions represents the structured output format options
type FormatOptions struct {
	Type string `json:"type"` // "json_object" or "text"
}

// JSONObject requests a response that is a single JSON object
var JSONObject = &FormatOptions{Type: "json_object"}

// Client defines the interface for LLM clients
type Client interface {
	// GenerateChat sends a non-streaming chat request
	GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Factory creates and returns LLM clients
type Factory struct {
	config  *config.Config
	logger  *loggy.Logger
	limiter *rate.Limiter
}

// newLimiter creates a rate limiter from RPM and burst; rpm <= 0 disables limiting
func newLimiter(rpm, burst int) *rate.Limiter {
	b := burst
	if b <= 0 {
		b = 1
	}
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, b)
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), b)
}

// NewFactory creates a new LLM client factory
func NewFactory(cfg *config.Config, logger *loggy.Logger) *Factory {
	return &Factory{
		config:  cfg,
		logger:  logger,
		limiter: newLimiter(cfg.LLM.RequestsPerMinute, cfg.LLM.BurstLimit),
	}
}

// GetClient returns the chat client for the configured endpoint
func (f *Factory) GetClient() (Client, error) {
	if !f.config.HasLLMCredential() {
		return nil, ErrNotConfigured
	}

	client := newOpenAIClientAdapter(f.config.LLM, f.limiter, f.logger)
	f.logger.Info("Initialized LLM client",
		"provider", f.config.LLM.Provider,
		"base_url", f.config.LLM.BaseURL,
		"model", f.config.LLM.Model,
		"rpm", f.config.LLM.RequestsPerMinute,
		"burst", f.config.LLM.BurstLimit)

	return client, nil
}

// wait blocks until the limiter admits one request or ctx is done
func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}
