package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"annotate/internal/annotation"
	"annotate/internal/config"
	"annotate/internal/project"
)

// newTestApp builds an app over a temporary projects dir and database.
func newTestApp(t *testing.T) (*appModelAdapter, *project.Manager, *annotation.Store) {
	t.Helper()
	dir := t.TempDir()
	mgr := project.NewManager(filepath.Join(dir, "projects"))
	store, err := annotation.Open(filepath.Join(dir, "annotations.db"))
	if err != nil {
		t.Fatalf("annotation.Open: %v", err)
	}
	a := NewAppModel(Deps{
		Config:      config.Default(),
		Projects:    mgr,
		Annotations: store,
	})
	t.Cleanup(func() {
		a.Close()
		store.Close()
	})
	return &appModelAdapter{AppModel: a}, mgr, store
}

// drain runs cmd and feeds every resulting message back into the app until
// no commands remain. Batches are expanded.
func drain(t *testing.T, a *appModelAdapter, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("drain: too many steps")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			t.Fatal("drain: unexpected quit")
		default:
			if !isAppMsg(msg) {
				continue
			}
			_, next := a.Update(msg)
			queue = append(queue, next)
		}
	}
}

// isAppMsg filters out cursor blink and similar widget ticks.
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case SelectProjectMsg, OpenTextMsg, ProjectsLoadedMsg, ProjectLoadedMsg, TextOpenedMsg,
		SelectionSavedMsg, LabelsChangedMsg, LabelsReloadedMsg, CreateProjectMsg, DeleteProjectMsg,
		ShowCreateProjectMsg, ShowDeleteProjectMsg, ShowProjectSwitcherMsg, ShowGuidelinesMsg,
		ToggleMultiSelectMsg, RefreshMsg, DismissModalMsg:
		return true
	}
	return false
}

func typeKeys(t *testing.T, a *appModelAdapter, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := a.Update(keyMsg(k))
		drain(t, a, cmd)
	}
}

// openWorkspace creates project "letters" with one text and drives the app
// from the dashboard into the workspace.
func openWorkspace(t *testing.T) (*appModelAdapter, *annotation.Store) {
	t.Helper()
	a, mgr, store := newTestApp(t)
	if err := mgr.CreateProject("letters"); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	src := filepath.Join(t.TempDir(), "vicksburg.txt")
	if err := os.WriteFile(src, []byte("Dear Anna. We reached Vicksburg today. Grant is well."), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.ImportText("letters", src); err != nil {
		t.Fatalf("ImportText: %v", err)
	}

	drain(t, a, a.Init())
	typeKeys(t, a, "enter")
	if a.Mode != ModeTextPicker {
		t.Fatalf("expected text picker, got mode %v (status %q)", a.Mode, a.Status)
	}
	typeKeys(t, a, "enter")
	if a.Mode != ModeWorkspace || a.Workspace == nil {
		t.Fatalf("expected workspace, got mode %v (status %q)", a.Mode, a.Status)
	}
	return a, store
}

func TestApp_InitListsProjects(t *testing.T) {
	a, mgr, _ := newTestApp(t)
	for _, name := range []string{"beta", "alpha"} {
		if err := mgr.CreateProject(name); err != nil {
			t.Fatalf("CreateProject: %v", err)
		}
	}
	drain(t, a, a.Init())

	if len(a.Dashboard.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(a.Dashboard.Projects))
	}
	if a.Dashboard.Projects[0].Name != "alpha" || a.Dashboard.Projects[0].LabelCount != 4 {
		t.Errorf("unexpected first project %+v", a.Dashboard.Projects[0])
	}
	if !strings.Contains(a.View(), "Projects (2)") {
		t.Errorf("dashboard header missing:\n%s", a.View())
	}
}

func TestApp_CreateProject(t *testing.T) {
	a, mgr, _ := newTestApp(t)

	a.Update(ShowCreateProjectMsg{})
	top, ok := a.Overlays.Peek()
	if !ok {
		t.Fatal("expected create project overlay")
	}
	if _, ok := top.View.(*CreateProjectModal); !ok {
		t.Fatalf("expected CreateProjectModal, got %T", top.View)
	}

	_, cmd := a.Update(CreateProjectMsg{Name: "Civil War Letters"})
	drain(t, a, cmd)
	if a.Overlays.Len() != 0 {
		t.Errorf("expected overlay popped, got %d", a.Overlays.Len())
	}
	if !mgr.Exists("civil-war-letters") {
		t.Error("project directory not created")
	}
	if len(a.Dashboard.Projects) != 1 {
		t.Errorf("expected dashboard to list 1 project, got %d", len(a.Dashboard.Projects))
	}
}

func TestApp_DeleteProjectRemovesAnnotations(t *testing.T) {
	a, mgr, store := newTestApp(t)
	ctx := context.Background()
	if err := mgr.CreateProject("old"); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, annotation.Annotation{Project: "old", Text: "t.txt", Segment: 0, Labels: []string{"person"}}); err != nil {
		t.Fatal(err)
	}
	drain(t, a, a.Init())

	typeKeys(t, a, " ", "p", "d")
	top, ok := a.Overlays.Peek()
	if !ok {
		t.Fatal("expected confirm overlay")
	}
	if _, ok := top.View.(*ConfirmModal); !ok {
		t.Fatalf("expected ConfirmModal, got %T", top.View)
	}

	typeKeys(t, a, "y")
	if mgr.Exists("old") {
		t.Error("project still exists")
	}
	sel, err := store.ForText(ctx, "old", "t.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(sel) != 0 {
		t.Errorf("expected annotations removed, got %v", sel)
	}
	if a.Status != "Project deleted" {
		t.Errorf("status: got %q", a.Status)
	}
}

func TestApp_DeleteProjectCancelWithEsc(t *testing.T) {
	a, mgr, _ := newTestApp(t)
	if err := mgr.CreateProject("keep"); err != nil {
		t.Fatal(err)
	}
	drain(t, a, a.Init())

	a.Update(ShowDeleteProjectMsg{})
	if a.Overlays.Len() != 1 {
		t.Fatalf("expected overlay, got %d", a.Overlays.Len())
	}
	typeKeys(t, a, "esc")
	if a.Overlays.Len() != 0 {
		t.Errorf("expected overlay dismissed, got %d", a.Overlays.Len())
	}
	if !mgr.Exists("keep") {
		t.Error("project deleted on cancel")
	}
}

func TestApp_DeleteProjectNoOpOutsideDashboard(t *testing.T) {
	a, _ := openWorkspace(t)
	a.Update(ShowDeleteProjectMsg{})
	if a.Overlays.Len() != 0 {
		t.Errorf("expected no overlay in workspace, got %d", a.Overlays.Len())
	}
}

func TestApp_ShortcutPersistsSelection(t *testing.T) {
	a, store := openWorkspace(t)

	typeKeys(t, a, "p")
	if a.Mode != ModeWorkspace {
		t.Fatal("shortcut must not leave the workspace")
	}
	got, err := store.ForText(context.Background(), "letters", "vicksburg.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(got[0]) != 1 || got[0][0] != "person" {
		t.Errorf("stored selection: got %v", got)
	}
	if a.Workspace.Usage["person"] != 1 {
		t.Errorf("usage: got %v", a.Workspace.Usage)
	}

	typeKeys(t, a, "j", "o", "l")
	got, _ = store.ForText(context.Background(), "letters", "vicksburg.txt")
	if strings.Join(got[1], ",") != "org,place" {
		t.Errorf("segment 1: got %v", got[1])
	}

	typeKeys(t, a, "k", "p")
	got, _ = store.ForText(context.Background(), "letters", "vicksburg.txt")
	if _, ok := got[0]; ok {
		t.Errorf("segment 0 should be cleared, got %v", got[0])
	}
}

// savedMsgs runs cmd without feeding anything back and returns the
// SelectionSavedMsgs it produced.
func savedMsgs(cmd tea.Cmd) []SelectionSavedMsg {
	var out []SelectionSavedMsg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case SelectionSavedMsg:
			out = append(out, msg)
		}
	}
	return out
}

func TestApp_RapidTogglesKeepLastSelection(t *testing.T) {
	a, store := openWorkspace(t)

	_, on := a.Update(keyMsg("p"))
	_, off := a.Update(keyMsg("p"))
	saved := append(savedMsgs(off), savedMsgs(on)...)
	if len(saved) != 2 {
		t.Fatalf("expected 2 saves, got %d", len(saved))
	}
	if saved[0].Seq <= saved[1].Seq {
		t.Fatalf("expected the later toggle first, got seqs %d, %d", saved[0].Seq, saved[1].Seq)
	}
	for _, msg := range saved {
		a.Update(msg)
	}

	got, err := store.ForText(context.Background(), "letters", "vicksburg.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got[0]; ok {
		t.Errorf("segment 0 should be cleared, got %v", got[0])
	}
	if a.Workspace.Usage["person"] != 0 {
		t.Errorf("stale usage applied: %v", a.Workspace.Usage)
	}
}

func TestApp_ReopenRestoresSelections(t *testing.T) {
	a, _ := openWorkspace(t)
	typeKeys(t, a, "j", "d")

	typeKeys(t, a, "esc")
	if a.Mode != ModeTextPicker {
		t.Fatalf("expected picker after esc, got %v", a.Mode)
	}
	typeKeys(t, a, "enter")
	if a.Workspace == nil {
		t.Fatal("workspace not reopened")
	}
	if got := a.Workspace.Selections[1]; len(got) != 1 || got[0] != "date" {
		t.Errorf("restored selection: got %v", got)
	}
}

func TestApp_EscLeavesWorkspaceAndReleasesHub(t *testing.T) {
	a, _ := openWorkspace(t)
	if a.Hub.Len() != 1 {
		t.Fatalf("expected one pointer subscriber, got %d", a.Hub.Len())
	}

	typeKeys(t, a, "esc")
	if a.Mode != ModeTextPicker {
		t.Errorf("expected picker, got %v", a.Mode)
	}
	if a.Workspace != nil {
		t.Error("workspace should be unmounted")
	}
	if a.Hub.Len() != 0 {
		t.Errorf("expected no subscribers, got %d", a.Hub.Len())
	}

	typeKeys(t, a, "esc")
	if a.Mode != ModeDashboard || a.ActiveProject != "" {
		t.Errorf("expected dashboard, got %v active=%q", a.Mode, a.ActiveProject)
	}
}

func TestApp_DropdownEscDoesNotLeaveWorkspace(t *testing.T) {
	a, _ := openWorkspace(t)

	typeKeys(t, a, "enter", "x", "esc")
	if a.Mode != ModeWorkspace {
		t.Fatalf("first esc closes the dropdown only, got mode %v", a.Mode)
	}
	if a.Workspace.Selector().State().Open {
		t.Error("dropdown still open")
	}
	typeKeys(t, a, "esc", "esc")
	if a.Mode != ModeTextPicker {
		t.Errorf("expected picker, got %v", a.Mode)
	}
}

func TestApp_QuitWhenNoShortcutMatches(t *testing.T) {
	a, _ := openWorkspace(t)
	_, cmd := a.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestApp_MousePressOutsideClosesDropdown(t *testing.T) {
	a, _ := openWorkspace(t)
	typeKeys(t, a, "enter")
	_ = a.View()
	if !a.Workspace.Selector().State().Open {
		t.Fatal("dropdown should be open")
	}

	a.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if a.Workspace.Selector().State().Open {
		t.Error("outside press should close the dropdown")
	}
}

func TestApp_ToggleMultiSelect(t *testing.T) {
	a, _ := openWorkspace(t)
	if !a.AllowMultiple() {
		t.Fatal("default is multi-select")
	}
	typeKeys(t, a, " ", "m")
	if a.AllowMultiple() {
		t.Error("expected single-select after SPC m")
	}
	if a.Workspace.Selector().Options().AllowMultiple {
		t.Error("workspace selector not updated")
	}

	typeKeys(t, a, "p", "o")
	if got := a.Workspace.Selections[0]; len(got) != 1 || got[0] != "org" {
		t.Errorf("single-select replaces: got %v", got)
	}
}

func TestApp_LabelsReloadedKeepsStaleSelections(t *testing.T) {
	a, _ := openWorkspace(t)
	typeKeys(t, a, "d")

	labels := a.Workspace.Labels()[:2]
	a.Update(LabelsReloadedMsg{Project: "letters", Labels: labels})
	if len(a.Workspace.Labels()) != 2 {
		t.Errorf("labels not swapped: %d", len(a.Workspace.Labels()))
	}
	if got := a.Workspace.Selections[0]; len(got) != 1 || got[0] != "date" {
		t.Errorf("stale id dropped from selection: %v", got)
	}
	if !strings.HasPrefix(a.Status, "Labels reloaded") {
		t.Errorf("status: %q", a.Status)
	}

	a.Update(LabelsReloadedMsg{Project: "other", Labels: nil})
	if len(a.Workspace.Labels()) != 2 {
		t.Error("reload for another project must be ignored")
	}
}

func TestApp_GuidelinesOverlay(t *testing.T) {
	a, _ := openWorkspace(t)
	typeKeys(t, a, " ", "g")
	top, ok := a.Overlays.Peek()
	if !ok {
		t.Fatal("expected guidelines overlay")
	}
	if _, ok := top.View.(*GuidelinesModal); !ok {
		t.Fatalf("expected GuidelinesModal, got %T", top.View)
	}
	typeKeys(t, a, "esc")
	if a.Overlays.Len() != 0 || a.Mode != ModeWorkspace {
		t.Errorf("esc should only dismiss the overlay: overlays=%d mode=%v", a.Overlays.Len(), a.Mode)
	}
}

func TestApp_ProjectSwitcher(t *testing.T) {
	a, mgr, _ := newTestApp(t)
	for _, name := range []string{"letters", "ledgers", "diaries"} {
		if err := mgr.CreateProject(name); err != nil {
			t.Fatal(err)
		}
	}
	drain(t, a, a.Init())

	typeKeys(t, a, " ", "p", "p")
	top, ok := a.Overlays.Peek()
	if !ok {
		t.Fatal("expected switcher overlay")
	}
	sw, ok := top.View.(*ProjectSwitcherModal)
	if !ok {
		t.Fatalf("expected ProjectSwitcherModal, got %T", top.View)
	}
	typeKeys(t, a, "d", "i", "a")
	if m := sw.Matches(); len(m) == 0 || m[0] != "diaries" {
		t.Fatalf("matches: got %v", m)
	}
	typeKeys(t, a, "enter")
	if a.Mode != ModeTextPicker || a.ActiveProject != "diaries" {
		t.Errorf("expected diaries picker, got mode %v active %q", a.Mode, a.ActiveProject)
	}
	if a.Overlays.Len() != 0 {
		t.Error("switcher should close on select")
	}
}

func TestApp_LeaderShowsHelp(t *testing.T) {
	a, _, _ := newTestApp(t)
	typeKeys(t, a, " ")
	view := a.View()
	if !strings.Contains(view, "Refresh") {
		t.Errorf("expected leader help in view:\n%s", view)
	}
	if strings.Contains(view, "Guidelines") {
		t.Error("guidelines binding does not apply on the dashboard")
	}
	typeKeys(t, a, "esc")
	if a.KeyHandler.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
}

func TestApp_OpenMissingTextShowsError(t *testing.T) {
	a, mgr, _ := newTestApp(t)
	if err := mgr.CreateProject("letters"); err != nil {
		t.Fatal(err)
	}
	_, cmd := a.Update(OpenTextMsg{Project: "letters", Text: "ghost.txt"})
	drain(t, a, cmd)
	if a.Mode != ModeDashboard {
		t.Errorf("mode changed on error: %v", a.Mode)
	}
	if !a.StatusIsError || !strings.Contains(a.Status, "Open text") {
		t.Errorf("status: %q", a.Status)
	}
}
