package pipeline

import (
	"fmt"
	"strings"
)

// CommandKind classifies a synthesized CLI step
type CommandKind string

const (
	CommandAnalyze CommandKind = "analyze"
	CommandFix     CommandKind = "fix"
	CommandReview  CommandKind = "review"
	CommandCommit  CommandKind = "commit"
)

// Command is one step of the suggested cline workflow
type Command struct {
	Command     string      `json:"command"`
	Description string      `json:"description"`
	Kind        CommandKind `json:"type"`
}

// DeriveCommands returns the cline steps that would apply a fix: analyze,
// one fix per affected file, review, commit. The result always has
// len(affectedFiles)+3 entries.
func DeriveCommands(input string, affectedFiles []string, commitMessage string) []Command {
	commands := make([]Command, 0, len(affectedFiles)+3)

	commands = append(commands, Command{
		Command:     `cline analyze "` + truncateRunes(input, 50) + `..."`,
		Description: "Analyze the bug report and identify affected code",
		Kind:        CommandAnalyze,
	})

	for _, file := range affectedFiles {
		commands = append(commands, Command{
			Command:     "cline fix " + file + " --auto",
			Description: "Generate fix for " + file,
			Kind:        CommandFix,
		})
	}

	commands = append(commands,
		Command{
			Command:     "cline review --all",
			Description: "Review all generated changes for quality",
			Kind:        CommandReview,
		},
		Command{
			Command:     `cline commit -m "` + commitMessage + `"`,
			Description: "Commit all fixes with descriptive message",
			Kind:        CommandCommit,
		},
	)

	return commands
}

// FormatCommands renders commands as a commented shell script
func FormatCommands(commands []Command) string {
	blocks := make([]string, 0, len(commands))
	for i, cmd := range commands {
		blocks = append(blocks, fmt.Sprintf("# Step %d: %s\n$ %s", i+1, cmd.Description, cmd.Command))
	}
	return strings.Join(blocks, "\n\n")
}
