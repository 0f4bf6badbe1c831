package loggy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: slog.LevelWarn, Format: "text"})

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=value")
}

func TestLoggerJSONWithSource(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: slog.LevelDebug, Format: "json", AddSource: true})

	logger.With("component", "test").WithError(errors.New("boom")).Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "boom", entry["error"])
	assert.True(t, strings.Contains(entry["source"].(string), "loggy_test.go"))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("nothing")
		_ = logger.With("a", 1)
	})
}

func TestRequestIDContext(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalLogger(New(&buf, Config{Level: slog.LevelInfo}))
	defer NewNoopLogger()

	id := NewRequestID()
	assert.True(t, strings.HasPrefix(id, "req-"))

	ctx := WithRequestID(context.Background(), id)

	FromContext(ctx).Info("scoped")
	assert.Contains(t, buf.String(), "request_id="+id)
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	global := NewNoopLogger()
	assert.Same(t, global, FromContext(context.Background()))

	custom := global.With("x", 1)
	ctx := WithLogger(context.Background(), custom)
	assert.Same(t, custom, FromContext(ctx))
}
