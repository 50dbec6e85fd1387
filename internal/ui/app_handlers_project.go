package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"annotate/internal/project"
	"annotate/internal/watch"
)

func (a *appModelAdapter) handleProjectsLoaded(msg ProjectsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Log.Error("list projects", zap.Error(msg.Err))
		a.setStatus(fmt.Sprintf("List projects: %v", msg.Err), true)
		return a, nil
	}
	a.Dashboard.SetProjects(msg.Projects)
	return a, nil
}

// handleProjectLoaded switches to the project's text picker and starts
// watching its taxonomy.
func (a *appModelAdapter) handleProjectLoaded(msg ProjectLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Log.Error("load project", zap.Error(msg.Err))
		a.setStatus(fmt.Sprintf("Open project: %v", msg.Err), true)
		return a, nil
	}
	p := msg.Project
	if conflicts := p.Labels.ShortcutConflicts(); len(conflicts) > 0 {
		a.Log.Warn("shortcut conflicts", zap.String("project", p.Name), zap.Any("conflicts", conflicts))
	}

	a.closeWorkspace()
	a.stopWatcher()
	a.ActiveProject = p.Name
	a.Picker = NewTextPickerView(p.Name, p.Texts, p.Labels.Len(), msg.Guidelines.Summary())
	a.Picker.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	a.Mode = ModeTextPicker
	a.setStatus("", false)
	a.Log.Info("project opened", zap.String("project", p.Name), zap.Int("texts", len(p.Texts)))
	return a, a.startWatcher(p.Name)
}

func (a *appModelAdapter) handleCreateProject(msg CreateProjectMsg) (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	if a.Projects == nil || msg.Name == "" {
		return a, nil
	}
	if err := a.Projects.CreateProject(msg.Name); err != nil {
		a.setStatus(fmt.Sprintf("Create project: %v", err), true)
		return a, nil
	}
	a.Log.Info("project created", zap.String("project", msg.Name))
	a.setStatus("Project created", false)
	return a, loadProjectsCmd(a.Projects)
}

func (a *appModelAdapter) handleDeleteProject(msg DeleteProjectMsg) (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	if a.Projects == nil || msg.Name == "" {
		return a, nil
	}
	name := project.Normalize(msg.Name)
	if err := a.Projects.DeleteProject(name); err != nil {
		a.setStatus(fmt.Sprintf("Delete project: %v", err), true)
		return a, nil
	}
	if a.Annotations != nil {
		if n, err := a.Annotations.DeleteProject(a.Context, name); err != nil {
			a.Log.Error("delete annotations", zap.String("project", name), zap.Error(err))
		} else {
			a.Log.Info("annotations deleted", zap.String("project", name), zap.Int64("rows", n))
		}
	}
	a.setStatus("Project deleted", false)
	return a, loadProjectsCmd(a.Projects)
}

func (a *appModelAdapter) handleShowCreateProject() (tea.Model, tea.Cmd) {
	modal := NewCreateProjectModal()
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

func (a *appModelAdapter) handleShowDeleteProject() (tea.Model, tea.Cmd) {
	if a.Mode != ModeDashboard {
		return a, nil
	}
	name, ok := a.Dashboard.SelectedName()
	if !ok {
		return a, nil
	}
	modal := NewDeleteProjectConfirmModal(name)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

func (a *appModelAdapter) handleShowProjectSwitcher() (tea.Model, tea.Cmd) {
	if a.Projects == nil {
		return a, nil
	}
	infos, err := a.Projects.ListProjects()
	if err != nil {
		a.setStatus(fmt.Sprintf("List projects: %v", err), true)
		return a, nil
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	modal := NewProjectSwitcherModal(names)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

func (a *appModelAdapter) handleShowGuidelines() (tea.Model, tea.Cmd) {
	if a.ActiveProject == "" || a.Guidelines == nil {
		return a, nil
	}
	modal := NewGuidelinesModal(a.Guidelines.Load(a.ActiveProject), a.width, a.height)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

func (a *appModelAdapter) handleRefresh() (tea.Model, tea.Cmd) {
	switch a.Mode {
	case ModeTextPicker:
		return a, loadProjectCmd(a.Context, a.Projects, a.Guidelines, a.ActiveProject)
	case ModeWorkspace:
		return a, reloadLabelsCmd(a.Projects, a.Log, a.ActiveProject)
	}
	return a, loadProjectsCmd(a.Projects)
}

// startWatcher watches the project's labels file and returns the command
// that waits for the first change.
func (a *AppModel) startWatcher(projectName string) tea.Cmd {
	if !a.WatchLabels || a.Projects == nil {
		return nil
	}
	changed := make(chan struct{}, 1)
	fw, err := watch.NewFileWatcher(a.Projects.LabelsPath(projectName), a.Config.Workspace.WatchDebounce, a.Log, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		a.Log.Warn("taxonomy watcher unavailable", zap.Error(err))
		return nil
	}
	if err := fw.Start(context.Background()); err != nil {
		fw.Stop()
		a.Log.Warn("taxonomy watcher unavailable", zap.Error(err))
		return nil
	}
	a.watcher = fw
	a.watchDone = make(chan struct{})
	a.labelsWait = waitLabelsChangedCmd(changed, a.watchDone)
	return a.labelsWait
}

func (a *AppModel) stopWatcher() {
	if a.watcher == nil {
		return
	}
	a.watcher.Stop()
	close(a.watchDone)
	a.watcher, a.watchDone, a.labelsWait = nil, nil, nil
}
