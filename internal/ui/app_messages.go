package ui

import (
	"annotate/internal/guidelines"
	"annotate/internal/label"
	"annotate/internal/project"
)

// SelectProjectMsg opens a project's text picker.
type SelectProjectMsg struct {
	Name string
}

// OpenTextMsg opens a text in the annotation workspace.
type OpenTextMsg struct {
	Project string
	Text    string
}

// ProjectsLoadedMsg carries the dashboard's project list.
type ProjectsLoadedMsg struct {
	Projects []ProjectSummary
	Err      error
}

// ProjectLoadedMsg carries a project opened from the dashboard or switcher.
type ProjectLoadedMsg struct {
	Project    *project.Project
	Guidelines guidelines.Guidelines
	Err        error
}

// TextOpenedMsg carries everything the workspace needs for one text.
type TextOpenedMsg struct {
	Project    string
	Text       string
	Segments   []project.Segment
	Labels     []label.Label
	Selections map[int][]string
	Usage      map[string]int
	Err        error
}

// SelectionSavedMsg reports the result of persisting one segment's labels.
// Seq orders results in the order the selections were made.
type SelectionSavedMsg struct {
	Seq     uint64
	Project string
	Segment int
	Usage   map[string]int
	Err     error
}

// LabelsChangedMsg is sent when the open project's taxonomy file changed on
// disk.
type LabelsChangedMsg struct{}

// LabelsReloadedMsg carries a re-read taxonomy.
type LabelsReloadedMsg struct {
	Project string
	Labels  []label.Label
	Err     error
}

// CreateProjectMsg is sent when the user confirms the create modal.
type CreateProjectMsg struct {
	Name string
}

// DeleteProjectMsg is sent when the user confirms project deletion.
type DeleteProjectMsg struct {
	Name string
}

// ShowCreateProjectMsg opens the create-project modal.
type ShowCreateProjectMsg struct{}

// ShowDeleteProjectMsg opens the delete confirmation for the selected project.
type ShowDeleteProjectMsg struct{}

// ShowProjectSwitcherMsg opens the project switcher.
type ShowProjectSwitcherMsg struct{}

// ShowGuidelinesMsg opens the guidelines of the current project.
type ShowGuidelinesMsg struct{}

// ToggleMultiSelectMsg flips the selector between single and multi select.
type ToggleMultiSelectMsg struct{}

// RefreshMsg reloads the current screen from disk.
type RefreshMsg struct{}

// DismissModalMsg closes the top modal.
type DismissModalMsg struct{}
