package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"annotate/internal/annotation"
	"annotate/internal/project"
	"annotate/internal/selector"
)

func (a *AppModel) segmentMode() project.Mode {
	mode, err := project.ParseMode(a.Config.Workspace.Segmenter)
	if err != nil {
		return project.ModeSentence
	}
	return mode
}

// handleTextOpened mounts a workspace for the text and starts its telemetry
// session.
func (a *appModelAdapter) handleTextOpened(msg TextOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Log.Error("open text", zap.String("project", msg.Project), zap.String("text", msg.Text), zap.Error(msg.Err))
		a.setStatus(fmt.Sprintf("Open text: %v", msg.Err), true)
		return a, nil
	}
	a.closeWorkspace()

	opts := selector.DefaultOptions()
	opts.AllowMultiple = a.allowMultiple
	opts.ShowShortcuts = a.Config.Selector.ShowShortcuts

	ws := NewWorkspaceView(msg.Project, msg.Text, msg.Segments, msg.Labels, msg.Selections, opts, a.Hub)
	ws.Usage = msg.Usage
	if a.Guidelines != nil {
		ws.Guideline = a.Guidelines.Load(msg.Project).Summary()
	}
	ws.OnSelectionChange = a.selectionChanged(msg.Project, msg.Text)
	ws.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})

	a.sessionCtx, a.endSession = a.Telemetry.StartSession(a.Context, msg.Project, msg.Text, len(msg.Segments))
	a.Workspace = ws
	a.ActiveProject = msg.Project
	a.Mode = ModeWorkspace
	a.setStatus("", false)
	a.Log.Info("text opened",
		zap.String("project", msg.Project),
		zap.String("text", msg.Text),
		zap.Int("segments", len(msg.Segments)),
		zap.Int("annotated", ws.Annotated()))
	return a, nil
}

// selectionChanged is the parent side of the selector's change callback: it
// logs, records a span event and persists the selection.
func (a *AppModel) selectionChanged(projectName, text string) SelectionChangeFunc {
	return func(segment int, ids []string) tea.Cmd {
		a.Log.Debug("selection changed",
			zap.String("project", projectName),
			zap.String("text", text),
			zap.Int("segment", segment),
			zap.Strings("labels", ids))
		a.Telemetry.SelectionChanged(a.sessionCtx, segment, ids)
		if a.writer == nil {
			return nil
		}
		return waitSavedCmd(a.writer.Submit(annotation.Annotation{
			Project: projectName,
			Text:    text,
			Segment: segment,
			Labels:  ids,
		}))
	}
}

func (a *appModelAdapter) handleSelectionSaved(msg SelectionSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Log.Error("save selection", zap.String("project", msg.Project), zap.Int("segment", msg.Segment), zap.Error(msg.Err))
		a.setStatus(fmt.Sprintf("Save failed: %v", msg.Err), true)
		return a, nil
	}
	// Results can arrive out of order; older usage counts are stale.
	if msg.Seq <= a.lastSaved {
		return a, nil
	}
	a.lastSaved = msg.Seq
	if a.Workspace != nil && a.Workspace.Project == msg.Project {
		a.Workspace.Usage = msg.Usage
	}
	return a, nil
}

func (a *appModelAdapter) handleLabelsChanged() (tea.Model, tea.Cmd) {
	if a.ActiveProject == "" || a.Projects == nil {
		return a, nil
	}
	a.Log.Info("taxonomy changed on disk", zap.String("project", a.ActiveProject))
	return a, tea.Batch(reloadLabelsCmd(a.Projects, a.Log, a.ActiveProject), a.labelsWait)
}

// handleLabelsReloaded swaps the taxonomy into the open views. An invalid
// file keeps the previous labels.
func (a *appModelAdapter) handleLabelsReloaded(msg LabelsReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Project != a.ActiveProject {
		return a, nil
	}
	if msg.Err != nil {
		a.Log.Warn("reload taxonomy", zap.String("project", msg.Project), zap.Error(msg.Err))
		a.setStatus(fmt.Sprintf("labels.yaml: %v", msg.Err), true)
		return a, nil
	}
	if a.Picker != nil {
		a.Picker.LabelCount = len(msg.Labels)
	}
	if a.Workspace != nil {
		a.Workspace.SetLabels(msg.Labels)
	}
	a.setStatus(fmt.Sprintf("Labels reloaded (%d)", len(msg.Labels)), false)
	return a, nil
}

func (a *appModelAdapter) handleToggleMultiSelect() (tea.Model, tea.Cmd) {
	a.allowMultiple = !a.allowMultiple
	if a.Workspace != nil {
		a.Workspace.SetAllowMultiple(a.allowMultiple)
	}
	if a.allowMultiple {
		a.setStatus("Multi-select on", false)
	} else {
		a.setStatus("Single-select on", false)
	}
	return a, nil
}

// closeWorkspace unmounts the workspace: the selector releases its pointer
// subscription and the telemetry session ends.
func (a *AppModel) closeWorkspace() {
	if a.Workspace != nil {
		a.Workspace.Close()
		a.Workspace = nil
	}
	if a.endSession != nil {
		a.endSession()
		a.endSession = nil
	}
	a.sessionCtx = nil
}
