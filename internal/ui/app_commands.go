package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"annotate/internal/annotation"
	"annotate/internal/guidelines"
	"annotate/internal/project"
)

// loadProjectsCmd lists projects for the dashboard.
func loadProjectsCmd(m *project.Manager) tea.Cmd {
	return func() tea.Msg {
		if m == nil {
			return ProjectsLoadedMsg{}
		}
		infos, err := m.ListProjects()
		if err != nil {
			return ProjectsLoadedMsg{Err: err}
		}
		projects := make([]ProjectSummary, len(infos))
		for i, info := range infos {
			projects[i] = ProjectSummary{
				Name:       info.Name,
				TextCount:  info.TextCount,
				LabelCount: info.LabelCount,
			}
		}
		return ProjectsLoadedMsg{Projects: projects}
	}
}

// loadProjectCmd loads a project's taxonomy, texts and guidelines.
func loadProjectCmd(ctx context.Context, m *project.Manager, gs *guidelines.Store, name string) tea.Cmd {
	return func() tea.Msg {
		if m == nil {
			return ProjectLoadedMsg{Err: fmt.Errorf("no project manager")}
		}
		p, err := m.LoadProject(ctx, name)
		if err != nil {
			return ProjectLoadedMsg{Err: err}
		}
		msg := ProjectLoadedMsg{Project: p}
		if gs != nil {
			msg.Guidelines = gs.Load(p.Name)
		}
		return msg
	}
}

// openTextCmd reads and segments a text and loads its stored selections and
// the project's label usage. The store reads run concurrently.
func openTextCmd(ctx context.Context, m *project.Manager, store *annotation.Store, projectName, text string, mode project.Mode) tea.Cmd {
	return func() tea.Msg {
		msg := TextOpenedMsg{Project: projectName, Text: text}
		if m == nil {
			msg.Err = fmt.Errorf("no project manager")
			return msg
		}
		body, err := m.LoadText(projectName, text)
		if err != nil {
			msg.Err = err
			return msg
		}
		set, err := m.LoadLabels(projectName)
		if err != nil {
			msg.Err = fmt.Errorf("labels: %w", err)
			return msg
		}
		msg.Segments = project.Split(body, mode)
		msg.Labels = set.Labels()

		if store == nil {
			return msg
		}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			sel, err := store.ForText(gctx, projectName, text)
			msg.Selections = sel
			return err
		})
		g.Go(func() error {
			usage, err := store.LabelUsage(gctx, projectName)
			msg.Usage = usage
			return err
		})
		if err := g.Wait(); err != nil {
			msg.Err = fmt.Errorf("load annotations: %w", err)
		}
		return msg
	}
}

// waitSavedCmd waits for one queued selection write and reports it along
// with the project's label usage at that point.
func waitSavedCmd(reply <-chan annotation.Write) tea.Cmd {
	return func() tea.Msg {
		res := <-reply
		return SelectionSavedMsg{
			Seq:     res.Seq,
			Project: res.Annotation.Project,
			Segment: res.Annotation.Segment,
			Usage:   res.Usage,
			Err:     res.Err,
		}
	}
}

// reloadLabelsCmd re-reads a project's taxonomy after it changed on disk.
func reloadLabelsCmd(m *project.Manager, log *zap.Logger, projectName string) tea.Cmd {
	return func() tea.Msg {
		set, err := m.LoadLabels(projectName)
		if err != nil {
			return LabelsReloadedMsg{Project: projectName, Err: err}
		}
		for key, ids := range set.ShortcutConflicts() {
			log.Warn("shortcut bound to several labels",
				zap.String("project", projectName),
				zap.String("shortcut", key),
				zap.Strings("labels", ids))
		}
		return LabelsReloadedMsg{Project: projectName, Labels: set.Labels()}
	}
}

// waitLabelsChangedCmd blocks until the watcher reports a change or done is
// closed.
func waitLabelsChangedCmd(changed <-chan struct{}, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changed:
			return LabelsChangedMsg{}
		case <-done:
			return nil
		}
	}
}
