package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

const switcherRows = 10

// ProjectSwitcherModal picks a project by fuzzy name search.
type ProjectSwitcherModal struct {
	input    textinput.Model
	names    []string
	matches  []string
	selected int
}

// Ensure ProjectSwitcherModal implements View.
var _ View = (*ProjectSwitcherModal)(nil)

// NewProjectSwitcherModal creates a switcher over names.
func NewProjectSwitcherModal(names []string) *ProjectSwitcherModal {
	ti := textinput.New()
	ti.Placeholder = "search projects"
	ti.CharLimit = 64
	ti.Width = 36
	ti.Focus()
	m := &ProjectSwitcherModal{input: ti, names: names}
	m.filter()
	return m
}

// Matches returns the names matching the current query, best first.
func (m *ProjectSwitcherModal) Matches() []string {
	return m.matches
}

func (m *ProjectSwitcherModal) filter() {
	m.selected = 0
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.matches = m.names
		return
	}
	found := fuzzy.Find(query, m.names)
	m.matches = make([]string, 0, len(found))
	for _, f := range found {
		m.matches = append(m.matches, m.names[f.Index])
	}
}

// Init implements View.
func (m *ProjectSwitcherModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *ProjectSwitcherModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			if m.selected < len(m.matches) {
				name := m.matches[m.selected]
				return m, func() tea.Msg { return SelectProjectMsg{Name: name} }
			}
			return m, nil
		case "down", "ctrl+n":
			if m.selected < len(m.matches)-1 {
				m.selected++
			}
			return m, nil
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		}
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filter()
	}
	return m, cmd
}

// View implements View.
func (m *ProjectSwitcherModal) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Switch project") + "\n")
	b.WriteString(m.input.View() + "\n\n")
	if len(m.matches) == 0 {
		b.WriteString(Styles.Empty.Render("No matching projects") + "\n")
	}
	start := max(0, m.selected-switcherRows+1)
	for i := start; i < len(m.matches) && i < start+switcherRows; i++ {
		if i == m.selected {
			b.WriteString(Styles.Selected.Render("› "+m.matches[i]) + "\n")
		} else {
			b.WriteString(Styles.Muted.Render("  "+m.matches[i]) + "\n")
		}
	}
	b.WriteString("\n" + Styles.Hint.Render("Enter: select  Esc: cancel"))
	return Styles.BoxCompact.Render(b.String())
}
