// Package render draws analysis results and history for the terminal
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tildaslashalef/bugsquash/internal/history"
	"github.com/tildaslashalef/bugsquash/internal/pipeline"
	"github.com/tildaslashalef/bugsquash/internal/utils"
)

const defaultWidth = 100

// Renderer turns pipeline results into terminal text
type Renderer struct {
	width    int
	styles   Styles
	markdown *glamour.TermRenderer
}

// New creates a renderer wrapping prose at width columns
func New(width int) (*Renderer, error) {
	if width <= 0 {
		width = defaultWidth
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}

	return &Renderer{
		width:    width,
		styles:   DefaultStyles(),
		markdown: md,
	}, nil
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Dashboard renders a full run: the analysis envelope followed by the
// cline command script
func (r *Renderer) Dashboard(run *pipeline.Run) string {
	var b strings.Builder

	if run.Issue != nil {
		b.WriteString(r.styles.Subtle.Render(fmt.Sprintf("Fetched %s/%s#%d: %s",
			run.Issue.Owner, run.Issue.Repo, run.Issue.Number, run.Issue.Title)))
		b.WriteString("\n")
	}

	b.WriteString(r.Envelope(run.Result))

	if len(run.Commands) > 0 {
		b.WriteString(r.section("Cline Commands"))
		b.WriteString(r.CommandScript(run.Commands))
		b.WriteString("\n")
	}

	return b.String()
}

// Envelope renders one analysis result
func (r *Renderer) Envelope(env *pipeline.ResultEnvelope) string {
	var b strings.Builder

	title := fmt.Sprintf("%s #%d  %s", env.Issue.Repo, env.Issue.Number, env.Issue.Title)
	b.WriteString(r.styles.Header.Render(title))
	b.WriteString("\n")
	b.WriteString(r.severityBadge(env.Severity))
	b.WriteString("  ")
	b.WriteString(r.scoreBadge(env.Review.Score, env.Review.Passed))
	b.WriteString("\n")

	b.WriteString(r.section("Root Cause"))
	b.WriteString(r.prose(env.RootCause))

	if len(env.AffectedFiles) > 0 {
		b.WriteString(r.section("Affected Files"))
		b.WriteString(utils.FormatList(env.AffectedFiles, "•"))
	}

	b.WriteString(r.section("Fix Strategy"))
	b.WriteString(r.prose(env.FixStrategy))

	b.WriteString(r.section("Generated Fix"))
	if env.GeneratedFix.Description != "" {
		b.WriteString(wordwrap.String(env.GeneratedFix.Description, r.width))
		b.WriteString("\n")
	}
	for _, file := range env.GeneratedFix.Files {
		label := file.Path
		if file.Language != "" {
			label += " (" + file.Language + ")"
		}
		b.WriteString(r.styles.Info.Render(label))
		b.WriteString("\n")
		b.WriteString(r.styles.CodeBlock.Render(file.Changes))
		b.WriteString("\n")
	}
	if env.GeneratedFix.CommitMessage != "" {
		b.WriteString(r.styles.Subtle.Render("commit: "))
		b.WriteString(env.GeneratedFix.CommitMessage)
		b.WriteString("\n")
	}

	b.WriteString(r.section("Review"))
	if len(env.Review.Comments) == 0 {
		b.WriteString(r.styles.Subtle.Render("No comments"))
		b.WriteString("\n")
	}
	for _, comment := range env.Review.Comments {
		b.WriteString(wordwrap.String(comment, r.width))
		b.WriteString("\n")
	}

	b.WriteString(r.section("Pull Request"))
	b.WriteString(env.PRURL)
	b.WriteString("\n")
	if env.Branch != "" {
		b.WriteString(r.styles.Subtle.Render("branch: "))
		b.WriteString(env.Branch)
		b.WriteString("\n")
	}

	return b.String()
}

// CommandScript renders the cline steps as a shell script block
func (r *Renderer) CommandScript(commands []pipeline.Command) string {
	return r.styles.CodeBlock.Render(pipeline.FormatCommands(commands))
}

// HistoryTable renders history items newest first, with ages relative to now
func (r *Renderer) HistoryTable(items []history.Item, now time.Time) string {
	if len(items) == 0 {
		return r.styles.Subtle.Render("No analyses yet.") + "\n"
	}

	t := utils.NewTable(nil, "Recent Analyses")
	t.AppendHeader(table.Row{"#", "When", "Issue", "Severity", "Score", "Input"})
	for i, item := range items {
		t.AppendRow(table.Row{
			i + 1,
			history.FormatTimeAgo(item.Timestamp, now),
			fmt.Sprintf("%s #%d", item.Issue.Repo, item.Issue.Number),
			severityText(item.Severity),
			strconv.Itoa(item.Score),
			utils.Truncate(utils.SingleLine(item.Input), 48),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
	})

	return t.Render() + "\n"
}

func (r *Renderer) section(title string) string {
	return r.styles.Section.Render(title) + "\n"
}

// prose renders model-written text as markdown, falling back to plain wrapping
func (r *Renderer) prose(s string) string {
	if strings.TrimSpace(s) == "" {
		return r.styles.Subtle.Render("(none)") + "\n"
	}
	out, err := r.markdown.Render(s)
	if err != nil {
		return wordwrap.String(s, r.width) + "\n"
	}
	return out
}

func (r *Renderer) severityBadge(severity string) string {
	if severity == "" {
		severity = "unknown"
	}
	return r.styles.Severity(severity).Render(strings.ToUpper(severity))
}

func (r *Renderer) scoreBadge(score int, passed bool) string {
	label := fmt.Sprintf("review %d/100", score)
	if passed {
		return r.styles.Success.Render("✓ " + label)
	}
	return r.styles.Error.Render("✗ " + label)
}

// severityText colors a severity for table cells
func severityText(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return color.New(color.FgHiRed, color.Bold).Sprint(severity)
	case "high":
		return color.RedString("%s", severity)
	case "medium":
		return color.YellowString("%s", severity)
	case "low":
		return color.CyanString("%s", severity)
	case "":
		return "-"
	default:
		return severity
	}
}
