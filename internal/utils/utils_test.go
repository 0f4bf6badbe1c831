package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "…", Truncate("abc", 1))
	assert.Equal(t, "abc", Truncate("abc", 0))
	assert.Equal(t, "éé…", Truncate("éééé", 3))
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "a b c", SingleLine("a\n  b\t\tc\n"))
	assert.Equal(t, "", SingleLine(" \n "))
}

func TestFormatList(t *testing.T) {
	out := FormatList([]string{"one", "two"}, "-")
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
}

func TestNewTable(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTable(&buf, "Files")
	tw.AppendHeader(table.Row{"Path", "Language"})
	tw.AppendRow(table.Row{"src/main.go", "Go"})
	rendered := tw.Render()

	assert.Contains(t, rendered, "src/main.go")
	assert.Contains(t, rendered, "Files")
	assert.Contains(t, buf.String(), "src/main.go")
}
