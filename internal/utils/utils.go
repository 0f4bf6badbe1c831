package utils

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// CopyToClipboard copies the given text to the system clipboard
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// Truncate shortens s to at most width runes, marking the cut with an ellipsis
func Truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// SingleLine collapses newlines and runs of whitespace into single spaces
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
