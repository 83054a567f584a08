// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Confirms and performs contact deletion through the People API
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	if m.deleting == nil {
		return ""
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := "Are you sure you want to delete this contact?"
	entityInfo := fmt.Sprintf("\nCONTACT: %s\n", m.deleting.PrimaryName().Full())
	warning := "\nThis removes it from your Google account!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.deleting == nil {
			m.viewMode = ViewList
			return m, nil
		}
		return m, m.deleteContact(m.deleting.ResourceName)
	case "n", "N", "esc":
		m.deleting = nil
		m.viewMode = ViewList
	}

	return m, nil
}

func (m Model) deleteContact(resourceName string) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		return contactDeletedMsg{resourceName: resourceName, err: client.Delete(ctx, resourceName)}
	}
}
