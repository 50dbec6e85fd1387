package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"annotate/internal/annotation"
	"annotate/internal/config"
	"annotate/internal/guidelines"
	"annotate/internal/pointer"
	"annotate/internal/project"
	"annotate/internal/telemetry"
	"annotate/internal/watch"
)

// Deps are the services the UI works with. Annotations may be nil, in which
// case selections are kept in memory only.
type Deps struct {
	Config      config.Config
	Projects    *project.Manager
	Guidelines  *guidelines.Store
	Annotations *annotation.Store
	Telemetry   *telemetry.Recorder
	Log         *zap.Logger
	Hub         *pointer.Hub
	Context     context.Context
	// WatchLabels enables live reload of the open project's taxonomy.
	WatchLabels bool
}

// AppModel is the root model. It switches between the dashboard, the text
// picker of the active project, and the annotation workspace.
type AppModel struct {
	Deps

	Mode          AppMode
	Dashboard     *DashboardView
	Picker        *TextPickerView
	Workspace     *WorkspaceView
	KeyHandler    *KeyHandler
	Overlays      OverlayStack
	ActiveProject string
	Status        string
	StatusIsError bool

	allowMultiple bool
	width, height int

	watcher     *watch.FileWatcher
	watchDone   chan struct{}
	labelsWait  tea.Cmd
	sessionCtx  context.Context
	endSession  func()

	writer    *annotation.Writer
	lastSaved uint64
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model.
func NewAppModel(deps Deps) *AppModel {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Hub == nil {
		deps.Hub = pointer.NewHub()
	}
	if deps.Telemetry == nil {
		deps.Telemetry = telemetry.Disabled()
	}
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Guidelines == nil && deps.Projects != nil {
		deps.Guidelines = guidelines.NewStore(deps.Projects)
	}

	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDescForMode("SPC p c", func() tea.Msg { return ShowCreateProjectMsg{} }, "Create project", []AppMode{ModeDashboard})
	reg.BindWithDescForMode("SPC p d", func() tea.Msg { return ShowDeleteProjectMsg{} }, "Delete project", []AppMode{ModeDashboard})
	reg.BindWithDesc("SPC p p", func() tea.Msg { return ShowProjectSwitcherMsg{} }, "Switch project")
	reg.BindWithDescForMode("SPC g", func() tea.Msg { return ShowGuidelinesMsg{} }, "Guidelines", []AppMode{ModeTextPicker, ModeWorkspace})
	reg.BindWithDescForMode("SPC m", func() tea.Msg { return ToggleMultiSelectMsg{} }, "Toggle multi-select", []AppMode{ModeTextPicker, ModeWorkspace})
	reg.BindWithDesc("SPC r", func() tea.Msg { return RefreshMsg{} }, "Refresh")

	m := &AppModel{
		Deps:          deps,
		Mode:          ModeDashboard,
		Dashboard:     NewDashboardView(),
		KeyHandler:    NewKeyHandler(reg),
		allowMultiple: deps.Config.Selector.AllowMultiple,
		width:         80,
		height:        24,
	}
	if deps.Annotations != nil {
		m.writer = annotation.NewWriter(deps.Context, deps.Annotations)
	}
	return m
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Close stops the taxonomy watcher, releases the workspace and waits for
// queued selection writes. Call it after the program exits.
func (m *AppModel) Close() {
	m.closeWorkspace()
	m.stopWatcher()
	if m.writer != nil {
		m.writer.Close()
	}
}

// AllowMultiple reports whether new selections are multi-select.
func (m *AppModel) AllowMultiple() bool {
	return m.allowMultiple
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return loadProjectsCmd(a.Projects)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleWindowSize(msg)
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.MouseMsg:
		if a.Overlays.Len() > 0 {
			return a, nil
		}
		if pointer.IsPress(msg) {
			a.Hub.Publish(msg)
		}
	case ProjectsLoadedMsg:
		return a.handleProjectsLoaded(msg)
	case SelectProjectMsg:
		a.Overlays.Clear()
		return a, loadProjectCmd(a.Context, a.Projects, a.Guidelines, msg.Name)
	case ProjectLoadedMsg:
		return a.handleProjectLoaded(msg)
	case OpenTextMsg:
		return a, openTextCmd(a.Context, a.Projects, a.Annotations, msg.Project, msg.Text, a.segmentMode())
	case TextOpenedMsg:
		return a.handleTextOpened(msg)
	case SelectionSavedMsg:
		return a.handleSelectionSaved(msg)
	case LabelsChangedMsg:
		return a.handleLabelsChanged()
	case LabelsReloadedMsg:
		return a.handleLabelsReloaded(msg)
	case CreateProjectMsg:
		return a.handleCreateProject(msg)
	case DeleteProjectMsg:
		return a.handleDeleteProject(msg)
	case ShowCreateProjectMsg:
		return a.handleShowCreateProject()
	case ShowDeleteProjectMsg:
		return a.handleShowDeleteProject()
	case ShowProjectSwitcherMsg:
		return a.handleShowProjectSwitcher()
	case ShowGuidelinesMsg:
		return a.handleShowGuidelines()
	case ToggleMultiSelectMsg:
		return a.handleToggleMultiSelect()
	case RefreshMsg:
		return a.handleRefresh()
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	}

	if cmd, ok := a.Overlays.UpdateTop(msg); ok {
		return a, cmd
	}
	return a, a.updateCurrentView(msg)
}

func (a *appModelAdapter) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width, a.height = msg.Width, msg.Height
	var cmds []tea.Cmd
	if a.Dashboard != nil {
		_, cmd := a.Dashboard.Update(msg)
		cmds = append(cmds, cmd)
	}
	if a.Picker != nil {
		_, cmd := a.Picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	if a.Workspace != nil {
		_, cmd := a.Workspace.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *appModelAdapter) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.Overlays.Pop()
			return a, nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}

	a.KeyHandler.Mode = a.Mode

	// The workspace sees keys before single-key app bindings so that label
	// shortcuts and search input win over them. A pending leader sequence
	// always goes to the key handler.
	if a.Mode == ModeWorkspace && a.Workspace != nil && !a.KeyHandler.LeaderWaiting {
		if a.Workspace.HandleKey(msg) {
			return a, a.Workspace.Flush()
		}
	}
	if a.Mode == ModeTextPicker && a.Picker != nil && a.Picker.Filtering() {
		return a, a.updateCurrentView(msg)
	}

	if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
		return a, cmd
	}

	switch msg.String() {
	case "esc":
		return a.navigateBack()
	case "enter":
		switch a.Mode {
		case ModeDashboard:
			if name, ok := a.Dashboard.SelectedName(); ok {
				return a, func() tea.Msg { return SelectProjectMsg{Name: name} }
			}
			return a, nil
		case ModeTextPicker:
			if a.Picker != nil {
				if text, ok := a.Picker.SelectedText(); ok {
					p := a.Picker.ProjectName
					return a, func() tea.Msg { return OpenTextMsg{Project: p, Text: text} }
				}
			}
			return a, nil
		}
	}
	return a, a.updateCurrentView(msg)
}

// navigateBack leaves the workspace for the picker, or the picker for the
// dashboard.
func (a *appModelAdapter) navigateBack() (tea.Model, tea.Cmd) {
	switch a.Mode {
	case ModeWorkspace:
		a.closeWorkspace()
		a.Mode = ModeTextPicker
		return a, nil
	case ModeTextPicker:
		a.stopWatcher()
		a.Picker = nil
		a.ActiveProject = ""
		a.Mode = ModeDashboard
		return a, loadProjectsCmd(a.Projects)
	}
	return a, nil
}

func (a *appModelAdapter) updateCurrentView(msg tea.Msg) tea.Cmd {
	v := a.currentView()
	if v == nil {
		return nil
	}
	_, cmd := v.Update(msg)
	return cmd
}

func (a *AppModel) currentView() View {
	switch a.Mode {
	case ModeTextPicker:
		if a.Picker != nil {
			return a.Picker
		}
	case ModeWorkspace:
		if a.Workspace != nil {
			return a.Workspace
		}
	}
	return a.Dashboard
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var base string
	if top, ok := a.Overlays.Peek(); ok {
		base = lipgloss.Place(a.width, max(a.height-2, 1), lipgloss.Center, lipgloss.Center, top.View.View())
	} else if v := a.currentView(); v != nil {
		base = v.View()
	}
	if a.Status != "" {
		style := Styles.Status
		if a.StatusIsError {
			style = Styles.Error
		}
		base += "\n" + style.Render(a.Status)
	}
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		base += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
	}
	return base
}

func (a *AppModel) setStatus(s string, isErr bool) {
	a.Status = s
	a.StatusIsError = isErr
}
