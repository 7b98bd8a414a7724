package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/juststeveking/pingtray/internal/monitor"
)

var (
	colorAccent    = lipgloss.Color("#04D9FF") // Neon Cyan
	colorHealthy   = lipgloss.Color("#00FF94") // Neon Green
	colorModerate  = lipgloss.Color("#FFD700") // Gold
	colorSlow      = lipgloss.Color("#FF8C00") // Dark Orange
	colorUnhealthy = lipgloss.Color("#FF0055") // Neon Red
	colorChecking  = lipgloss.Color("#FFD700") // Gold
	colorMuted     = lipgloss.Color("#565f89") // Muted Blue
	colorCard      = lipgloss.Color("#16161e") // Very Dark Blue
	colorText      = lipgloss.Color("#c0caf5") // Light Blue/White

	// Title style
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	// Badge style (border and foreground are overridden per tier)
	badgeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Background(colorCard).
			Bold(true).
			Width(12).
			Align(lipgloss.Center).
			Padding(1, 2)

	tooltipStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	// Metadata style
	metadataStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// tierColor maps the semantic badge colour onto the terminal palette
func tierColor(c monitor.Color) lipgloss.Color {
	switch c {
	case monitor.ColorGreen:
		return colorHealthy
	case monitor.ColorYellow:
		return colorModerate
	case monitor.ColorOrange:
		return colorSlow
	case monitor.ColorRed:
		return colorUnhealthy
	default:
		return colorMuted
	}
}

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("pingtray · %s", m.info.Target)))
	b.WriteString("\n")

	col := tierColor(m.state.Color)
	glyph := m.state.Glyph
	if m.state.Tier == monitor.TierPending {
		glyph = m.spinner.View() + " " + glyph
	}
	badge := badgeStyle.
		BorderForeground(col).
		Foreground(col).
		Render(glyph)

	details := lipgloss.JoinVertical(
		lipgloss.Left,
		tooltipStyle.Render(m.state.Tooltip),
		metadataStyle.Render(fmt.Sprintf("tier: %s", m.state.Tier)),
		metadataStyle.Render(m.lastChecked()),
	)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, badge, "  ", details))
	b.WriteString("\n\n")

	b.WriteString(metadataStyle.Render(fmt.Sprintf(
		"%s probe every %s · slow above %s",
		strings.ToUpper(m.info.Method),
		m.info.Interval,
		m.info.Threshold,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	content := b.String()
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) lastChecked() string {
	if m.state.UpdatedAt.IsZero() {
		return "waiting for first probe"
	}
	ago := m.now.Sub(m.state.UpdatedAt).Round(time.Second)
	if ago < time.Second {
		return "checked just now"
	}
	return fmt.Sprintf("checked %s ago", ago)
}
