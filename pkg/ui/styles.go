package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ANSI palette indexes, so output follows the terminal's own theme
var (
	colorGreen   = lipgloss.Color("2")
	colorRed     = lipgloss.Color("1")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
	colorGray    = lipgloss.Color("8")
	colorYellow  = lipgloss.Color("3")
	colorBlue    = lipgloss.Color("4")
)

var (
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StylePrimary lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleAccent  lipgloss.Style

	StyleTitle       lipgloss.Style
	StyleHeader      lipgloss.Style
	StyleBold        lipgloss.Style
	StyleTableHeader lipgloss.Style
	StyleTableRow    lipgloss.Style
	StyleTableRowAlt lipgloss.Style
	StyleTableBorder lipgloss.Style
)

// Per-file status icons
const (
	IconSuccess = "✔"
	IconError   = "✘"
	IconSkip    = "↷"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconTip     = "💡"
	IconRocket  = "🚀"
)

func init() {
	SetTheme("auto")
}

// SetTheme applies a color_theme value: "auto" lets lipgloss detect the
// background, "dark" and "light" force it, "none" disables color
func SetTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		if theme == "none" {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}

	StyleSuccess = fg(colorGreen).Bold(true)
	StyleError = fg(colorRed).Bold(true)
	StylePrimary = fg(colorMagenta).Bold(true)
	StyleInfo = fg(colorCyan)
	StyleMuted = fg(colorGray)
	StyleWarning = fg(colorYellow).Bold(true)
	StyleAccent = fg(colorBlue)

	StyleTitle = StylePrimary.Underline(true)
	StyleHeader = StylePrimary
	StyleBold = lipgloss.NewStyle().Bold(true)

	StyleTableHeader = StylePrimary
	StyleTableRow = lipgloss.NewStyle()
	StyleTableRowAlt = lipgloss.NewStyle().Faint(true)
	StyleTableBorder = StyleMuted
}

func withIcon(style lipgloss.Style, icon, msg string) string {
	return style.Render(icon + " " + msg)
}

func FormatSuccess(msg string) string { return withIcon(StyleSuccess, IconSuccess, msg) }
func FormatError(msg string) string   { return withIcon(StyleError, IconError, msg) }
func FormatInfo(msg string) string    { return withIcon(StyleInfo, IconInfo, msg) }
func FormatWarning(msg string) string { return withIcon(StyleWarning, IconWarning, msg) }
func FormatSkip(msg string) string    { return withIcon(StyleMuted, IconSkip, msg) }
func FormatTip(msg string) string     { return withIcon(StyleAccent, IconTip, msg) }
func FormatRocket(msg string) string  { return withIcon(StylePrimary, IconRocket, msg) }

// FormatTitle returns a formatted title
func FormatTitle(title string) string {
	return StyleTitle.Render(title)
}

// FormatMuted returns muted/subtle text
func FormatMuted(text string) string {
	return StyleMuted.Render(text)
}

// FormatBytes renders a byte count with a binary unit (512 B, 1.5 KB, 2.0 MB)
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit && n > -unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit || m <= -unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatReduction renders a reduction percentage, colored by direction
func FormatReduction(pct float64) string {
	s := fmt.Sprintf("%.1f%%", pct)
	switch {
	case pct > 0:
		return StyleSuccess.Render(s)
	case pct < 0:
		return StyleWarning.Render(s)
	default:
		return StyleMuted.Render(s)
	}
}
