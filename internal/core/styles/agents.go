package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// AgentColors holds the highlight colors for one reviewer agent.
type AgentColors struct {
	Mark    lipgloss.Color // background of an unfocused mark
	Focused lipgloss.Color // background of the focused mark
	Text    lipgloss.Color
}

var (
	agentBlue   = AgentColors{Mark: "#1e3a5f", Focused: "#2f6fb3", Text: "#dbeafe"}
	agentRed    = AgentColors{Mark: "#5f1e2a", Focused: "#b32f45", Text: "#fee2e2"}
	agentGreen  = AgentColors{Mark: "#1e4d2b", Focused: "#2f9a52", Text: "#dcfce7"}
	agentAmber  = AgentColors{Mark: "#5a431a", Focused: "#b7862a", Text: "#fef3c7"}
	agentViolet = AgentColors{Mark: "#3b2a5f", Focused: "#6d4fb3", Text: "#ede9fe"}
	agentGray   = AgentColors{Mark: "#3a3a3a", Focused: "#6b6b6b", Text: "#f3f4f6"}
)

// ForAgent maps an agent name onto its highlight colors by keyword: UX and
// design agents are blue, security red, QA and testing green, engineers
// amber, product managers violet, everyone else gray.
func ForAgent(name string) AgentColors {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "ux") || strings.Contains(n, "design"):
		return agentBlue
	case strings.Contains(n, "security"):
		return agentRed
	case strings.Contains(n, "qa") || strings.Contains(n, "test"):
		return agentGreen
	case strings.Contains(n, "engineer"):
		return agentAmber
	case strings.Contains(n, "pm") || strings.Contains(n, "product"):
		return agentViolet
	default:
		return agentGray
	}
}

// MarkStyle renders a document mark for agent, emphasized when focused.
func MarkStyle(agent string, focused bool) lipgloss.Style {
	c := ForAgent(agent)
	s := lipgloss.NewStyle().Foreground(c.Text).Background(c.Mark)
	if focused {
		s = s.Background(c.Focused).Bold(true).Underline(true)
	}
	return s
}

// AgentBadge renders a short agent label on the agent's color.
func AgentBadge(agent string) string {
	c := ForAgent(agent)
	return AgentBadgeStyle.Background(c.Focused).Foreground(c.Text).Render(agent)
}

// PriorityStyle colors a priority label: P1 error, P2 warning, P3 muted.
func PriorityStyle(priority int) lipgloss.Style {
	switch priority {
	case 1:
		return lipgloss.NewStyle().Foreground(CurrentPalette.Error).Bold(true)
	case 2:
		return lipgloss.NewStyle().Foreground(CurrentPalette.Warning).Bold(true)
	case 3:
		return lipgloss.NewStyle().Foreground(CurrentPalette.Secondary)
	default:
		return lipgloss.NewStyle().Foreground(CurrentPalette.Muted)
	}
}
