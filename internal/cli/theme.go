package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme holds the color scheme for command output.
type Theme struct {
	Success lipgloss.Color
	Warn    lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color

	// plain disables styling, e.g. when output is not a terminal.
	plain bool
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Success: lipgloss.Color("#00D787"), // green
	Warn:    lipgloss.Color("#FFAF00"), // amber
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

// themeFor returns the default theme, unstyled unless w is a terminal.
func themeFor(w io.Writer) Theme {
	t := defaultTheme
	f, ok := w.(*os.File)
	t.plain = !ok || !term.IsTerminal(int(f.Fd()))
	return t
}

func (t Theme) render(style lipgloss.Style, s string) string {
	if t.plain {
		return s
	}
	return style.Render(s)
}

func (t Theme) success(s string) string {
	return t.render(lipgloss.NewStyle().Foreground(t.Success).Bold(true), s)
}

func (t Theme) warn(s string) string {
	return t.render(lipgloss.NewStyle().Foreground(t.Warn).Bold(true), s)
}

func (t Theme) hint(s string) string {
	return t.render(lipgloss.NewStyle().Foreground(t.Hint).Italic(true), s)
}

func (t Theme) failure(s string) string {
	return t.render(lipgloss.NewStyle().Foreground(t.Error).Bold(true), s)
}
