package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/gcontacts/models"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("GOOGLE CONTACTS"))
	s.WriteString("\n\n")

	switch {
	case m.loading:
		s.WriteString(messageStyle.Render("Loading contacts..."))
	case m.err != nil:
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case len(m.contacts) == 0:
		s.WriteString(messageStyle.Render("No contacts found."))
	default:
		s.WriteString(m.table.View())
	}
	s.WriteString("\n")

	if m.message != "" {
		s.WriteString("\n")
		s.WriteString(messageStyle.Render(m.message))
	}

	s.WriteString("\n")
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) buildTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Email", Width: 30},
		{Title: "Phone", Width: 18},
	}

	rows := make([]table.Row, 0, len(m.contacts))
	for _, contact := range m.contacts {
		rows = append(rows, table.Row{
			contact.PrimaryName().Full(),
			contact.PrimaryEmail(),
			contact.PrimaryPhone(),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)

	// Keep the cursor in range after reloads
	if cursor := m.table.Cursor(); cursor > 0 && cursor < len(rows) {
		t.SetCursor(cursor)
	}

	return t
}

func (m Model) tableHeight() int {
	if h := m.height - 10; h > 3 {
		return h
	}
	return 3
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"n: New",
		"e/Enter: Edit",
		"d: Delete",
		"r: Refresh",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.loading = true
		m.message = ""
		m.err = nil
		return m, m.loadContacts()
	case "n":
		m.startEdit(nil)
		return m, nil
	case "e", "enter":
		if contact, ok := m.selected(); ok {
			m.startEdit(&contact)
		}
		return m, nil
	case "d":
		if contact, ok := m.selected(); ok {
			m.deleting = &contact
			m.viewMode = ViewConfirmDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) selected() (models.Contact, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.contacts) {
		return models.Contact{}, false
	}
	return m.contacts[i], true
}
