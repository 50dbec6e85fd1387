package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ProjectSummary holds project info for the dashboard list.
type ProjectSummary struct {
	Name       string
	TextCount  int
	LabelCount int
}

type projectItem struct {
	ProjectSummary
}

func (p projectItem) FilterValue() string { return p.Name }
func (p projectItem) Title() string {
	return fmt.Sprintf("%s  %s, %s", p.Name, plural(p.TextCount, "text"), plural(p.LabelCount, "label"))
}
func (p projectItem) Description() string { return "" }

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// DashboardView lists all projects. Enter opens the selected one.
type DashboardView struct {
	list     list.Model
	Projects []ProjectSummary
}

// Ensure DashboardView implements View.
var _ View = (*DashboardView)(nil)

// NewDashboardView creates a dashboard. Projects arrive via ProjectsLoadedMsg.
func NewDashboardView() *DashboardView {
	l := list.New(nil, NewCompactListDelegate(), 80, 20)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return &DashboardView{list: l}
}

// Selected returns the index of the highlighted project.
func (d *DashboardView) Selected() int {
	return d.list.Index()
}

// SelectedName returns the highlighted project's name.
func (d *DashboardView) SelectedName() (string, bool) {
	i := d.list.Index()
	if i < 0 || i >= len(d.Projects) {
		return "", false
	}
	return d.Projects[i].Name, true
}

// SetProjects replaces the list, keeping the cursor where possible.
func (d *DashboardView) SetProjects(projects []ProjectSummary) {
	sel := d.list.Index()
	d.Projects = projects
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{ProjectSummary: p}
	}
	d.list.SetItems(items)
	if sel >= len(projects) {
		sel = len(projects) - 1
	}
	d.list.Select(max(sel, 0))
}

// Init implements View.
func (d *DashboardView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (d *DashboardView) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		d.list.SetSize(msg.Width, max(msg.Height-4, 1))
		return d, nil
	}
	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return d, cmd
}

// View implements View.
func (d *DashboardView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(fmt.Sprintf("Projects (%d)", len(d.Projects))) + "\n")
	b.WriteString(Styles.Hint.Render("Enter: open  SPC: commands") + "\n\n")
	if len(d.Projects) == 0 {
		b.WriteString(Styles.Empty.Render("No projects yet. SPC p c creates one."))
		return b.String()
	}
	b.WriteString(d.list.View())
	return b.String()
}
