package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"annotate/internal/guidelines"
)

// GuidelinesModal shows a project's guideline document rendered as markdown.
type GuidelinesModal struct {
	Project  string
	viewport viewport.Model
}

// Ensure GuidelinesModal implements View.
var _ View = (*GuidelinesModal)(nil)

// NewGuidelinesModal renders g for a terminal of the given width and height.
func NewGuidelinesModal(g guidelines.Guidelines, width, height int) *GuidelinesModal {
	w := min(max(width-8, 30), 100)
	h := max(height-10, 5)
	vp := viewport.New(w, h)
	vp.SetContent(renderMarkdown(g.Body, w))
	return &GuidelinesModal{Project: g.Project, viewport: vp}
}

// renderMarkdown falls back to the raw text if glamour cannot render it.
func renderMarkdown(body string, width int) string {
	if body == "" {
		return Styles.Empty.Render("No guidelines yet. Edit guidelines.md in the project directory.")
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return out
}

// Init implements View.
func (m *GuidelinesModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *GuidelinesModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return DismissModalMsg{} }
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements View.
func (m *GuidelinesModal) View() string {
	title := Styles.Title.Render("Guidelines: " + m.Project)
	return Styles.BoxCompact.Render(title + "\n" + m.viewport.View() + "\n" + Styles.Hint.Render("j/k: scroll  Esc: close"))
}
