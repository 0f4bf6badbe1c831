package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveCommands(t *testing.T) {
	input := strings.Repeat("x", 80)
	commands := DeriveCommands(input, []string{"a.ts", "b.ts"}, "fix: thing")

	require.Len(t, commands, 5)
	assert.Equal(t, Command{
		Command:     `cline analyze "` + strings.Repeat("x", 50) + `..."`,
		Description: "Analyze the bug report and identify affected code",
		Kind:        CommandAnalyze,
	}, commands[0])
	assert.Equal(t, Command{Command: "cline fix a.ts --auto", Description: "Generate fix for a.ts", Kind: CommandFix}, commands[1])
	assert.Equal(t, Command{Command: "cline fix b.ts --auto", Description: "Generate fix for b.ts", Kind: CommandFix}, commands[2])
	assert.Equal(t, CommandReview, commands[3].Kind)
	assert.Equal(t, "cline review --all", commands[3].Command)
	assert.Equal(t, Command{Command: `cline commit -m "fix: thing"`, Description: "Commit all fixes with descriptive message", Kind: CommandCommit}, commands[4])
}

func TestDeriveCommandsCount(t *testing.T) {
	for n := 0; n < 5; n++ {
		files := make([]string, n)
		for i := range files {
			files[i] = "f.go"
		}
		commands := DeriveCommands("bug", files, "fix")
		assert.Len(t, commands, n+3)
		assert.Equal(t, CommandAnalyze, commands[0].Kind)
		assert.Equal(t, CommandReview, commands[len(commands)-2].Kind)
		assert.Equal(t, CommandCommit, commands[len(commands)-1].Kind)
	}
}

func TestFormatCommands(t *testing.T) {
	script := FormatCommands(DeriveCommands("bug", []string{"a.go"}, "fix: a"))
	assert.Equal(t, `# Step 1: Analyze the bug report and identify affected code
$ cline analyze "bug..."

# Step 2: Generate fix for a.go
$ cline fix a.go --auto

# Step 3: Review all generated changes for quality
$ cline review --all

# Step 4: Commit all fixes with descriptive message
$ cline commit -m "fix: a"`, script)

	assert.Equal(t, "", FormatCommands(nil))
}
