package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type textItem string

func (t textItem) FilterValue() string { return string(t) }
func (t textItem) Title() string       { return string(t) }
func (t textItem) Description() string { return "" }

// TextPickerView lists the texts of one project. Enter opens the selected
// text in the workspace.
type TextPickerView struct {
	ProjectName string
	Texts       []string
	LabelCount  int
	Guideline   string
	list        list.Model
}

// Ensure TextPickerView implements View.
var _ View = (*TextPickerView)(nil)

// NewTextPickerView creates a picker for the given texts.
func NewTextPickerView(projectName string, texts []string, labelCount int, guideline string) *TextPickerView {
	items := make([]list.Item, len(texts))
	for i, t := range texts {
		items[i] = textItem(t)
	}
	l := list.New(items, NewCompactListDelegate(), 80, 20)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return &TextPickerView{
		ProjectName: projectName,
		Texts:       texts,
		LabelCount:  labelCount,
		Guideline:   guideline,
		list:        l,
	}
}

// SelectedText returns the highlighted text name.
func (v *TextPickerView) SelectedText() (string, bool) {
	sel, ok := v.list.SelectedItem().(textItem)
	if !ok {
		return "", false
	}
	return string(sel), true
}

// Filtering reports whether the list's filter input has the keyboard.
func (v *TextPickerView) Filtering() bool {
	return v.list.FilterState() == list.Filtering
}

// Init implements View.
func (v *TextPickerView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *TextPickerView) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.list.SetSize(msg.Width, max(msg.Height-5, 1))
		return v, nil
	}
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View implements View.
func (v *TextPickerView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(v.ProjectName) +
		Styles.Muted.Render(fmt.Sprintf("  %s, %s", plural(len(v.Texts), "text"), plural(v.LabelCount, "label"))) + "\n")
	b.WriteString(Styles.Hint.Render("Guidelines: "+v.Guideline) + "\n")
	b.WriteString(Styles.Hint.Render("Enter: annotate  /: filter  Esc: back  SPC: commands") + "\n\n")
	if len(v.Texts) == 0 {
		b.WriteString(Styles.Empty.Render("No texts. Import with: annotate text import " + v.ProjectName + " <file>"))
		return b.String()
	}
	b.WriteString(v.list.View())
	return b.String()
}
