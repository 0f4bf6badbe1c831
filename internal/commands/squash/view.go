package squash

import (
	"fmt"
	"strings"
	"time"

	"github.com/tildaslashalef/bugsquash/internal/utils"
)

const inputPreviewWidth = 60

// View renders the spinner line while the pipeline runs. The final
// dashboard is printed by the caller once the program exits.
func (m Model) View() string {
	if m.status != StatusRunning {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(m.styles.Header.Render("Squashing bug"))
	b.WriteString(" ")
	b.WriteString(m.styles.Subtle.Render(fmt.Sprintf("(%s)", m.now().Sub(m.started).Round(time.Second))))
	b.WriteString("\n  ")
	b.WriteString(m.styles.Subtle.Render(utils.Truncate(utils.SingleLine(m.input), inputPreviewWidth)))
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(Keys.ShortHelp()))
	b.WriteString("\n")
	return b.String()
}
