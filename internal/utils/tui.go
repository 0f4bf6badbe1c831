package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Gruvbox palette used by the terminal helpers below
var (
	gruvboxFgLight = text.Colors{text.FgWhite}
	gruvboxRed     = text.Colors{text.FgRed}
	gruvboxGreen   = text.Colors{text.FgGreen}
	gruvboxYellow  = text.Colors{text.FgYellow}
	gruvboxBlue    = text.Colors{text.FgBlue}
	gruvboxAqua    = text.Colors{text.FgCyan}

	gruvboxBlueBright = text.Colors{text.FgHiBlue}
	gruvboxAquaBright = text.Colors{text.FgHiCyan}

	gruvboxBold = text.Colors{text.Bold}
)

// Theme - exported theme colors for consistent CLI output
var Theme = struct {
	Success text.Colors
	Info    text.Colors
	Warning text.Colors
	Error   text.Colors
	Heading text.Colors
	Accent  text.Colors

	Title       text.Colors
	TableHeader text.Colors
	TableBorder text.Colors
	TableRow    text.Colors
	TableAltRow text.Colors
}{
	Success: gruvboxGreen,
	Info:    gruvboxBlue,
	Warning: gruvboxYellow,
	Error:   gruvboxRed,
	Heading: append(gruvboxAquaBright, text.Bold),
	Accent:  gruvboxAqua,

	Title:       append(gruvboxAquaBright, text.Bold),
	TableHeader: append(gruvboxBlueBright, text.Bold),
	TableBorder: gruvboxBlue,
	TableRow:    gruvboxFgLight,
	TableAltRow: text.Colors{text.FgWhite, text.Faint},
}

// PrintHeading prints a formatted heading
func PrintHeading(title string) {
	fmt.Println(Theme.Heading.Sprint(title))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Println(Theme.Success.Sprint("✓ ") + message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Println(Theme.Info.Sprint("ℹ ") + message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println(Theme.Warning.Sprint("⚠ ") + message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Println(Theme.Error.Sprint("✗ ") + message)
}

// PrintKeyValue prints a key-value pair
func PrintKeyValue(key, value string) {
	fmt.Printf("%s: %s\n", gruvboxBold.Sprint(key), value)
}

// FormatList formats a list of items with bullets
func FormatList(items []string, bullet string) string {
	if bullet == "" {
		bullet = "•"
	}

	var result strings.Builder
	for _, item := range items {
		result.WriteString(fmt.Sprintf("%s %s\n", Theme.Accent.Sprint(bullet), item))
	}

	return result.String()
}

// NewTable creates a Gruvbox-styled table. When w is nil the table is only
// rendered to the string returned by Render.
func NewTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	if w != nil {
		t.SetOutputMirror(w)
	}

	if title != "" {
		t.SetTitle(title)
	}

	// Use StyleDouble which has very visible borders
	customStyle := table.StyleDouble
	customStyle.Color.Header = Theme.TableHeader
	customStyle.Color.Border = Theme.TableBorder
	customStyle.Color.Row = Theme.TableRow
	customStyle.Color.RowAlternate = Theme.TableAltRow
	customStyle.Title.Colors = Theme.Title
	customStyle.Title.Align = text.AlignCenter

	customStyle.Options.DrawBorder = true
	customStyle.Options.SeparateColumns = true
	customStyle.Options.SeparateFooter = true
	customStyle.Options.SeparateHeader = true
	customStyle.Options.SeparateRows = false

	customStyle.Box.PaddingLeft = " "
	customStyle.Box.PaddingRight = " "

	t.SetStyle(customStyle)

	return t
}
