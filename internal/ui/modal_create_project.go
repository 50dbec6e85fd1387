package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// CreateProjectModal asks for a new project name.
type CreateProjectModal struct {
	input textinput.Model
}

// Ensure CreateProjectModal implements View.
var _ View = (*CreateProjectModal)(nil)

// NewCreateProjectModal creates a create-project modal.
func NewCreateProjectModal() *CreateProjectModal {
	ti := textinput.New()
	ti.Placeholder = "project-name"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()
	return &CreateProjectModal{input: ti}
}

// Value returns the typed name.
func (m *CreateProjectModal) Value() string {
	return m.input.Value()
}

// Init implements View.
func (m *CreateProjectModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *CreateProjectModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				return m, nil
			}
			return m, func() tea.Msg { return CreateProjectMsg{Name: name} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements View.
func (m *CreateProjectModal) View() string {
	content := Styles.Title.Render("Create project") + "\n\n"
	content += m.input.View() + "\n\n"
	content += Styles.Hint.Render("Enter: create  Esc: cancel")
	return Styles.Box.Render(content)
}
