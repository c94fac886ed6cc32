package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Terminal palette, so the output follows the user's color scheme
var (
	green   = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	red     = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	magenta = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	cyan    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	gray    = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	yellow  = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	blue    = lipgloss.AdaptiveColor{Light: "4", Dark: "4"}
	white   = lipgloss.AdaptiveColor{Light: "7", Dark: "7"}
)

var (
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StylePrimary lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleTitle   lipgloss.Style
	StyleHeader  lipgloss.Style
	StyleBold    lipgloss.Style

	styleAccent      lipgloss.Style
	styleTableHeader lipgloss.Style
	styleTableRow    lipgloss.Style
	styleTableRowAlt lipgloss.Style
	styleTableBorder lipgloss.Style
)

const (
	IconSuccess = "✔"
	IconError   = "✘"
	IconWatch   = "👀"

	iconInfo    = "ℹ"
	iconWarning = "⚠"
	iconLaunch  = "🚀"
	iconArchive = "📦"
	iconCamera  = "📷"
)

func init() {
	// Initialize with default (auto) theme
	SetTheme("auto")
}

// SetTheme applies the specified color theme ("auto", "dark", "light")
func SetTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	default:
		// Auto: lipgloss detects automatically
	}

	StyleSuccess = lipgloss.NewStyle().Foreground(green).Bold(true)
	StyleError = lipgloss.NewStyle().Foreground(red).Bold(true)
	StylePrimary = lipgloss.NewStyle().Foreground(magenta).Bold(true)
	StyleInfo = lipgloss.NewStyle().Foreground(cyan)
	StyleMuted = lipgloss.NewStyle().Foreground(gray)
	StyleWarning = lipgloss.NewStyle().Foreground(yellow).Bold(true)
	StyleTitle = lipgloss.NewStyle().Foreground(magenta).Bold(true).Underline(true)
	StyleHeader = lipgloss.NewStyle().Foreground(magenta).Bold(true)
	StyleBold = lipgloss.NewStyle().Bold(true)

	styleAccent = lipgloss.NewStyle().Foreground(blue)
	styleTableHeader = StyleHeader.Align(lipgloss.Left)
	styleTableRow = lipgloss.NewStyle().Foreground(white)
	styleTableRowAlt = styleTableRow.Faint(true)
	styleTableBorder = StyleMuted
}

// FormatSuccess returns a success message with icon
func FormatSuccess(msg string) string {
	return StyleSuccess.Render(IconSuccess + " " + msg)
}

// FormatError returns an error message with icon
func FormatError(msg string) string {
	return StyleError.Render(IconError + " " + msg)
}

// FormatInfo returns an info message with icon
func FormatInfo(msg string) string {
	return StyleInfo.Render(iconInfo + " " + msg)
}

// FormatWarning returns a warning message with icon
func FormatWarning(msg string) string {
	return StyleWarning.Render(iconWarning + " " + msg)
}

// FormatLaunch marks the start of something the user will want to try next
func FormatLaunch(msg string) string {
	return StylePrimary.Render(iconLaunch + " " + msg)
}

// FormatArchive returns a message about a saved archive
func FormatArchive(msg string) string {
	return StyleSuccess.Render(iconArchive + " " + msg)
}

// FormatCapture returns a message about a viewport capture
func FormatCapture(msg string) string {
	return styleAccent.Render(iconCamera + " " + msg)
}

// FormatTitle returns a formatted title
func FormatTitle(title string) string {
	return StyleTitle.Render(title)
}

// FormatMuted returns muted/subtle text
func FormatMuted(text string) string {
	return StyleMuted.Render(text)
}

