package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/gcontacts/models"
)

const (
	fieldGivenName = iota
	fieldFamilyName
	fieldEmail
	fieldPhone
)

func (m Model) renderEditView() string {
	var s strings.Builder

	if m.editing == "" {
		s.WriteString(titleStyle.Render("NEW CONTACT"))
	} else {
		s.WriteString(titleStyle.Render("EDIT CONTACT"))
	}
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}

	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.err = nil
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		in := m.formInput()
		if err := in.Validate(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		return m, m.saveContact(in)
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

// startEdit opens the form, prefilled from contact when it is non-nil.
func (m *Model) startEdit(contact *models.Contact) {
	inputs := make([]textinput.Model, 4)

	inputs[fieldGivenName] = textinput.New()
	inputs[fieldGivenName].Placeholder = "Given name"
	inputs[fieldGivenName].CharLimit = 100

	inputs[fieldFamilyName] = textinput.New()
	inputs[fieldFamilyName].Placeholder = "Family name"
	inputs[fieldFamilyName].CharLimit = 100

	inputs[fieldEmail] = textinput.New()
	inputs[fieldEmail].Placeholder = "Email"
	inputs[fieldEmail].CharLimit = 200

	inputs[fieldPhone] = textinput.New()
	inputs[fieldPhone].Placeholder = "Phone"
	inputs[fieldPhone].CharLimit = 40

	m.editing = ""
	if contact != nil {
		name := contact.PrimaryName()
		inputs[fieldGivenName].SetValue(name.GivenName)
		inputs[fieldFamilyName].SetValue(name.FamilyName)
		inputs[fieldEmail].SetValue(contact.PrimaryEmail())
		inputs[fieldPhone].SetValue(contact.PrimaryPhone())
		m.editing = contact.ResourceName
	}

	m.formInputs = inputs
	m.focusIndex = 0
	m.updateFormFocus()
	m.err = nil
	m.message = ""
	m.viewMode = ViewEdit
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) formInput() models.ContactInput {
	return models.ContactInput{
		GivenName:   m.formInputs[fieldGivenName].Value(),
		FamilyName:  m.formInputs[fieldFamilyName].Value(),
		Email:       m.formInputs[fieldEmail].Value(),
		PhoneNumber: m.formInputs[fieldPhone].Value(),
	}.Normalize()
}

func (m Model) saveContact(in models.ContactInput) tea.Cmd {
	ctx, client, resourceName := m.ctx, m.client, m.editing
	return func() tea.Msg {
		if resourceName == "" {
			_, err := client.Create(ctx, in)
			return contactSavedMsg{err: err}
		}
		return contactSavedMsg{err: client.Update(ctx, resourceName, in)}
	}
}
