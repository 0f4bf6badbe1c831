package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents the color theme of the terminal dashboard
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Info      lipgloss.AdaptiveColor
	Subtle    lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	TextDim   lipgloss.AdaptiveColor
}

// GruvboxTheme creates a new Gruvbox-inspired theme
func GruvboxTheme() Theme {
	return Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#b8bb26", Dark: "#b8bb26"},
		Secondary: lipgloss.AdaptiveColor{Light: "#fe8019", Dark: "#fe8019"},
		Success:   lipgloss.AdaptiveColor{Light: "#98971a", Dark: "#b8bb26"},
		Warning:   lipgloss.AdaptiveColor{Light: "#d79921", Dark: "#fabd2f"},
		Error:     lipgloss.AdaptiveColor{Light: "#cc241d", Dark: "#fb4934"},
		Info:      lipgloss.AdaptiveColor{Light: "#458588", Dark: "#83a598"},
		Subtle:    lipgloss.AdaptiveColor{Light: "#928374", Dark: "#7c6f64"},
		Border:    lipgloss.AdaptiveColor{Light: "#d5c4a1", Dark: "#504945"},
		Text:      lipgloss.AdaptiveColor{Light: "#3c3836", Dark: "#fbf1c7"},
		TextDim:   lipgloss.AdaptiveColor{Light: "#7c6f64", Dark: "#a89984"},
	}
}

// DefaultTheme is the default theme for the dashboard
var DefaultTheme = GruvboxTheme()

// Styles contains predefined styles for the dashboard
type Styles struct {
	Banner           lipgloss.Style
	Header           lipgloss.Style
	Section          lipgloss.Style
	Subtle           lipgloss.Style
	Success          lipgloss.Style
	Error            lipgloss.Style
	Warning          lipgloss.Style
	Info             lipgloss.Style
	Spinner          lipgloss.Style
	CodeBlock        lipgloss.Style
	CriticalSeverity lipgloss.Style
	HighSeverity     lipgloss.Style
	MediumSeverity   lipgloss.Style
	LowSeverity      lipgloss.Style
	UnknownSeverity  lipgloss.Style
}

// DefaultStyles returns default styles for the dashboard
func DefaultStyles() Styles {
	theme := DefaultTheme

	return Styles{
		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			PaddingLeft(1).
			PaddingRight(1),

		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary).
			MarginTop(1),

		Subtle: lipgloss.NewStyle().
			Foreground(theme.TextDim),

		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Success),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),

		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Warning),

		Info: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Info),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		CodeBlock: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		CriticalSeverity: lipgloss.NewStyle().
			Bold(true).
			Reverse(true).
			Foreground(theme.Error),

		HighSeverity: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),

		MediumSeverity: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Warning),

		LowSeverity: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Info),

		UnknownSeverity: lipgloss.NewStyle().
			Foreground(theme.Subtle),
	}
}

// Severity returns the style for a severity level
func (s Styles) Severity(level string) lipgloss.Style {
	switch strings.ToLower(level) {
	case "critical":
		return s.CriticalSeverity
	case "high":
		return s.HighSeverity
	case "medium":
		return s.MediumSeverity
	case "low":
		return s.LowSeverity
	default:
		return s.UnknownSeverity
	}
}
