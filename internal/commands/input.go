package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// readInput resolves the bug report from positional args, a file, or stdin
// when file is "-". An empty result is passed through; the pipeline rejects it.
func readInput(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read bug report: %w", err)
		}
		return string(data), nil
	default:
		return strings.Join(args, " "), nil
	}
}
