package ui

import (
	"strings"
	"testing"
)

func testProjects() []ProjectSummary {
	return []ProjectSummary{
		{Name: "alpha", TextCount: 2, LabelCount: 4},
		{Name: "beta", TextCount: 1, LabelCount: 1},
		{Name: "gamma", TextCount: 0, LabelCount: 0},
	}
}

func TestDashboardView_JKNavigation(t *testing.T) {
	d := NewDashboardView()
	d.SetProjects(testProjects())

	if d.Selected() != 0 {
		t.Fatalf("expected initial Selected=0, got %d", d.Selected())
	}

	d.Update(keyMsg("j"))
	if d.Selected() != 1 {
		t.Errorf("after j: expected Selected=1, got %d", d.Selected())
	}
	d.Update(keyMsg("j"))
	d.Update(keyMsg("j"))
	if d.Selected() != 2 {
		t.Errorf("j at bottom: expected Selected=2, got %d", d.Selected())
	}

	d.Update(keyMsg("k"))
	if d.Selected() != 1 {
		t.Errorf("after k: expected Selected=1, got %d", d.Selected())
	}
	if name, ok := d.SelectedName(); !ok || name != "beta" {
		t.Errorf("SelectedName: got %q, %v", name, ok)
	}
}

func TestDashboardView_SetProjectsKeepsCursor(t *testing.T) {
	d := NewDashboardView()
	d.SetProjects(testProjects())
	d.Update(keyMsg("j"))
	d.Update(keyMsg("j"))

	d.SetProjects(testProjects()[:2])
	if d.Selected() != 1 {
		t.Errorf("cursor should clamp to last project, got %d", d.Selected())
	}
	d.SetProjects(nil)
	if _, ok := d.SelectedName(); ok {
		t.Error("no selection expected for empty list")
	}
}

func TestDashboardView_View(t *testing.T) {
	d := NewDashboardView()
	if !strings.Contains(d.View(), "No projects yet") {
		t.Errorf("empty dashboard should explain how to create a project:\n%s", d.View())
	}

	d.SetProjects(testProjects())
	out := d.View()
	for _, want := range []string{"Projects (3)", "alpha", "2 texts, 4 labels", "1 text, 1 label"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}
