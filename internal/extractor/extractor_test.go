package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

type verdict struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
	Passed bool     `json:"passed"`
}

func TestDecode(t *testing.T) {
	extractor := NewJSONExtractor(loggy.NewNoopLogger())

	t.Run("raw object", func(t *testing.T) {
		var v verdict
		require.NoError(t, extractor.Decode(`{"score": 85, "issues": ["a"], "passed": true}`, &v))
		assert.Equal(t, verdict{Score: 85, Issues: []string{"a"}, Passed: true}, v)
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		var v verdict
		require.NoError(t, extractor.Decode("\n\n  {\"score\": 10}  \n", &v))
		assert.Equal(t, 10, v.Score)
	})

	t.Run("fenced json block", func(t *testing.T) {
		var v verdict
		input := "```json\n{\"score\": 72, \"passed\": true}\n```"
		require.NoError(t, extractor.Decode(input, &v))
		assert.Equal(t, 72, v.Score)
		assert.True(t, v.Passed)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		var v verdict
		require.NoError(t, extractor.Decode(`{"score": 1, "extra": {"nested": true}}`, &v))
		assert.Equal(t, 1, v.Score)
	})

	t.Run("empty content", func(t *testing.T) {
		var v verdict
		assert.ErrorIs(t, extractor.Decode("   ", &v), ErrEmptyContent)
		assert.ErrorIs(t, extractor.Decode("```json\n```", &v), ErrEmptyContent)
	})

	t.Run("prose is rejected", func(t *testing.T) {
		var v verdict
		err := extractor.Decode(`Sure! Here is the review: {"score": 90}`, &v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse response")
	})

	t.Run("truncated object is rejected", func(t *testing.T) {
		var v verdict
		assert.Error(t, extractor.Decode(`{"score": 90, "issues": [`, &v))
	})

	t.Run("wrong field type is rejected", func(t *testing.T) {
		var v verdict
		assert.Error(t, extractor.Decode(`{"score": "high"}`, &v))
	})
}
