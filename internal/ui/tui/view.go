package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/meridianesg/ralph/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B7F5C")).
			Padding(0, 1)

	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6CA0DC"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1B7F5C"))
	statusStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#D94F4F"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
)

func (m Model) View() string {
	title := titleStyle.Render("Ralph — Meridian assistant")

	var sb strings.Builder
	for _, e := range m.transcript {
		if e.role == domain.RoleUser {
			sb.WriteString(userStyle.Render("You: "))
		} else {
			sb.WriteString(assistantStyle.Render("Ralph: "))
		}
		sb.WriteString(e.content)
		sb.WriteString("\n\n")
	}
	if m.pending != "" || m.awaitingDone {
		sb.WriteString(assistantStyle.Render("Ralph: "))
		sb.WriteString(m.pending)
		sb.WriteString("\n")
	}

	transcriptHeight := m.height - 9
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	transcriptStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#1B7F5C")).
		Padding(0, 1).
		Width(max(m.width-4, 20)).
		Height(transcriptHeight)

	status := ""
	switch {
	case m.errText != "":
		status = errorStyle.Render("error: " + m.errText)
	case m.awaitingDone:
		status = statusStyle.Render("generating…" + toolStatus(m.client.ActiveToolCalls()))
	}

	help := helpStyle.Render("enter send · esc cancel · ctrl+c quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		transcriptStyle.Render(sb.String()),
		status,
		m.textArea.View(),
		help,
	)
}

func toolStatus(tools []string) string {
	if len(tools) == 0 {
		return ""
	}
	return " [" + strings.Join(tools, ", ") + "]"
}
