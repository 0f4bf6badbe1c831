package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
	"golang.org/x/time/rate"
)

func testConfig(baseURL, key string) *config.Config {
	cfg := config.New()
	cfg.LLM = config.LLMConfig{
		Provider: "groq",
		APIKey:   key,
		BaseURL:  baseURL,
		Model:    "llama-3.3-70b-versatile",
		Timeout:  5 * time.Second,
	}
	return cfg
}

func TestFactoryRequiresCredential(t *testing.T) {
	logger := loggy.NewNoopLogger()

	factory := NewFactory(testConfig("http://localhost", ""), logger)
	client, err := factory.GetClient()
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, client)

	factory = NewFactory(testConfig("http://localhost", "key"), logger)
	client, err = factory.GetClient()
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewLimiter(t *testing.T) {
	unlimited := newLimiter(0, 0)
	assert.Equal(t, rate.Inf, unlimited.Limit())
	assert.Equal(t, 1, unlimited.Burst())

	limited := newLimiter(120, 3)
	assert.Equal(t, rate.Limit(2), limited.Limit())
	assert.Equal(t, 3, limited.Burst())
}

func TestGenerateChatJSONMode(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "llama-3.3-70b-versatile",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"score\": 90}"}
			}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
		}`))
	}))
	defer server.Close()

	client, err := NewFactory(testConfig(server.URL, "test-key"), loggy.NewNoopLogger()).GetClient()
	require.NoError(t, err)

	resp, err := client.GenerateChat(context.Background(), ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "be terse"},
			{Role: RoleUser, Content: "Review this code:\n\nx := 1"},
		},
		MaxTokens:     1000,
		Temperature:   0.2,
		FormatOptions: JSONObject,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"score": 90}`, resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 12, resp.PromptTokens)
	assert.Equal(t, 5, resp.CompletionTokens)

	assert.Equal(t, "llama-3.3-70b-versatile", captured["model"])
	assert.InDelta(t, 0.2, captured["temperature"], 1e-9)
	assert.EqualValues(t, 1000, captured["max_tokens"])
	assert.Equal(t, map[string]any{"type": "json_object"}, captured["response_format"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestGenerateChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "model": "m", "choices": []}`))
	}))
	defer server.Close()

	client, err := NewFactory(testConfig(server.URL, "k"), loggy.NewNoopLogger()).GetClient()
	require.NoError(t, err)

	resp, err := client.GenerateChat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Content)
}

func TestGenerateChatSendsZeroTemperature(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "model": "m", "choices": [{"index": 0, "finish_reason": "length", "message": {"role": "assistant", "content": "{"}}]}`))
	}))
	defer server.Close()

	client, err := NewFactory(testConfig(server.URL, "k"), loggy.NewNoopLogger()).GetClient()
	require.NoError(t, err)

	resp, err := client.GenerateChat(context.Background(), ChatRequest{
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		Temperature: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, FinishReasonLength, resp.FinishReason)

	temperature, ok := captured["temperature"]
	require.True(t, ok, "temperature must be sent even when zero")
	assert.InDelta(t, 0.0, temperature, 1e-9)
}

func TestGenerateChatUpstreamErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer server.Close()

	client, err := NewFactory(testConfig(server.URL, "k"), loggy.NewNoopLogger()).GetClient()
	require.NoError(t, err)

	_, err = client.GenerateChat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGenerateChatCancelledContext(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1", "k")
	cfg.LLM.RequestsPerMinute = 1
	client, err := NewFactory(cfg, loggy.NewNoopLogger()).GetClient()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.GenerateChat(ctx, ChatRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.Error(t, err)
}

func TestConvertMessagesToOpenAI(t *testing.T) {
	out := convertMessagesToOpenAI([]Message{
		{Role: RoleSystem, Content: "s"},
		{Role: RoleAssistant, Content: "a"},
		{Role: "unknown", Content: "u"},
	})
	require.Len(t, out, 3)
	assert.NotNil(t, out[0].OfSystem)
	assert.NotNil(t, out[1].OfAssistant)
	assert.NotNil(t, out[2].OfUser)
}
