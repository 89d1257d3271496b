// Package output provides styled terminal rendering helpers for hoshin.
package output

import (
	"os"

	"github.com/blackwell-systems/hoshin/internal/kano"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for positive indicators.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for negative indicators.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for caution indicators.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")

	// ColorExcitement marks excitement features.
	ColorExcitement = lipgloss.Color("#ba68c8")
)

// Styles provides reusable lipgloss styles.
var (
	StyleHeader     lipgloss.Style
	StyleSuccess    lipgloss.Style
	StyleError      lipgloss.Style
	StyleWarning    lipgloss.Style
	StyleMuted      lipgloss.Style
	StyleBold       lipgloss.Style
	StyleExcitement lipgloss.Style

	// StyleLabel is used for metric labels.
	StyleLabel lipgloss.Style

	// StyleValue is used for metric values.
	StyleValue lipgloss.Style
)

var noColor bool

func init() {
	resetStyles()
}

func resetStyles() {
	StyleHeader = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleBold = lipgloss.NewStyle().Bold(true)
	StyleExcitement = lipgloss.NewStyle().Foreground(ColorExcitement)
	StyleLabel = lipgloss.NewStyle().Width(24)
	StyleValue = lipgloss.NewStyle().Bold(true).Width(12)
}

// SetNoColor disables or enables color output globally.
// When disabled, all package-level styles are reassigned to unstyled renderers.
func SetNoColor(disabled bool) {
	noColor = disabled
	if !disabled {
		resetStyles()
		return
	}
	plain := lipgloss.NewStyle()
	StyleHeader = plain
	StyleSuccess = plain
	StyleError = plain
	StyleWarning = plain
	StyleMuted = plain
	StyleBold = plain
	StyleExcitement = plain
	StyleLabel = plain.Width(24)
	StyleValue = plain.Width(12)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Category renders a Kano category name in its color.
func Category(c kano.Category) string {
	switch c {
	case kano.CategoryExcitement:
		return StyleExcitement.Render(string(c))
	case kano.CategoryPerformance:
		return StyleSuccess.Render(string(c))
	case kano.CategoryBasic:
		return StyleHeader.Render(string(c))
	case kano.CategoryReverse:
		return StyleError.Render(string(c))
	default:
		return StyleMuted.Render(string(c))
	}
}

// Priority renders an insight priority.
func Priority(p kano.Priority) string {
	switch p {
	case kano.PriorityHigh:
		return StyleError.Render("HIGH")
	case kano.PriorityMedium:
		return StyleWarning.Render("MED ")
	default:
		return StyleMuted.Render("LOW ")
	}
}

// InsightIcon returns a one-character marker for an insight type.
func InsightIcon(t kano.InsightType) string {
	switch t {
	case kano.InsightOpportunity:
		return StyleHeader.Render("+")
	case kano.InsightThreat:
		return StyleError.Render("!")
	case kano.InsightStrength:
		return StyleSuccess.Render("*")
	default:
		return StyleWarning.Render("-")
	}
}
