// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides an interactive full-screen browser for Google Contacts
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/gcontacts/contacts"
	"github.com/harperreed/gcontacts/models"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewEdit
	ViewConfirmDelete
)

// Messages produced by background People API calls.
type (
	contactsLoadedMsg struct {
		contacts []models.Contact
		err      error
	}
	contactSavedMsg struct {
		err error
	}
	contactDeletedMsg struct {
		resourceName string
		err          error
	}
)

// Model is the main bubbletea model
type Model struct {
	ctx      context.Context
	client   *contacts.Client
	viewMode ViewMode

	// List view state
	contacts []models.Contact
	table    table.Model
	loading  bool

	// Edit view state; editing is "" for a new contact
	editing    string
	formInputs []textinput.Model
	focusIndex int

	// Delete confirmation state
	deleting *models.Contact

	// UI state
	message string
	err     error
	width   int
	height  int
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, client *contacts.Client) Model {
	m := Model{
		ctx:      ctx,
		client:   client,
		viewMode: ViewList,
		loading:  true,
		width:    80,
		height:   24,
	}
	m.table = m.buildTable()
	return m
}

// Run starts the full-screen program and blocks until it exits.
func Run(ctx context.Context, client *contacts.Client) error {
	_, err := tea.NewProgram(NewModel(ctx, client), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.loadContacts()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case contactsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.contacts = msg.contacts
			m.table = m.buildTable()
		}
		return m, nil

	case contactSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.viewMode = ViewList
		m.message = "Saved"
		m.loading = true
		return m, m.loadContacts()

	case contactDeletedMsg:
		m.viewMode = ViewList
		m.deleting = nil
		if msg.err != nil {
			m.err = msg.err
			m.message = "Error: " + msg.err.Error()
			return m, nil
		}
		m.message = "Deleted " + msg.resourceName
		m.loading = true
		return m, m.loadContacts()
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewEdit:
		return m.renderEditView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

func (m Model) loadContacts() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		list, err := client.List(ctx)
		return contactsLoadedMsg{contacts: list, err: err}
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
