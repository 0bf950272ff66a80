// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	ErrorTextStyle     lipgloss.Style
	MutedTextStyle     lipgloss.Style

	// Panes.
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style

	// Issue list and detail.
	ListRowStyle         lipgloss.Style
	ListRowSelectedStyle lipgloss.Style
	AgentBadgeStyle      lipgloss.Style
	QuoteStyle           lipgloss.Style
	SuggestionStyle      lipgloss.Style

	// Status bar, spinner and failure screens.
	StatusBarStyle lipgloss.Style
	HelpKeyStyle   lipgloss.Style
	HelpDescStyle  lipgloss.Style
	SpinnerStyle   lipgloss.Style
	FailureStyle   lipgloss.Style
	NotFoundStyle  lipgloss.Style

	// Toasts.
	ToastInfoStyle    lipgloss.Style
	ToastSuccessStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	ErrorTextStyle = lipgloss.NewStyle().
		Foreground(p.Error)
	MutedTextStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1)
	PaneFocusedStyle = PaneStyle.
		BorderForeground(p.Primary)
	PaneTitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)

	ListRowStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		PaddingLeft(1)
	ListRowSelectedStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Surface).
		Bold(true).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(p.Primary)
	AgentBadgeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(p.Background)
	QuoteStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Muted).
		PaddingLeft(1)
	SuggestionStyle = lipgloss.NewStyle().
		Foreground(p.Success).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Success).
		PaddingLeft(1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)
	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)
	HelpDescStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(p.Primary)
	FailureStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Error).
		Padding(1, 2)
	NotFoundStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Warning).
		Padding(1, 2)

	toast := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())
	ToastInfoStyle = toast.BorderForeground(p.Primary).Foreground(p.Foreground)
	ToastSuccessStyle = toast.BorderForeground(p.Success).Foreground(p.Success)
	ToastErrorStyle = toast.BorderForeground(p.Error).Foreground(p.Error)
}

// Apply activates the named theme, falling back to DefaultTheme. It reports
// whether name was known.
func Apply(name string) bool {
	p, ok := GetPalette(name)
	if !ok {
		p = themes[DefaultTheme]
	}
	SetTheme(p)
	return ok
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
