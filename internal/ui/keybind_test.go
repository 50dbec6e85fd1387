package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	reg.Bind("SPC q", tea.Quit)
	reg.Bind("j", nil)

	if reg.Lookup("q") == nil {
		t.Error("expected q to be bound")
	}
	if reg.Lookup("SPC q") == nil {
		t.Error("expected SPC q to be bound")
	}
	if reg.Lookup("unknown") != nil {
		t.Error("expected unknown to be unbound")
	}
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	var executed bool
	reg.Bind("SPC x", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	// Press space -> leader waiting (Bubble Tea reports space as " ")
	consumed, cmd := h.Handle(keyMsg(" "))
	if !consumed || cmd != nil {
		t.Errorf("space: consumed=%v cmd=%v", consumed, cmd)
	}
	if !h.LeaderWaiting {
		t.Error("expected leader waiting after space")
	}

	// Press x -> execute SPC x
	consumed, cmd = h.Handle(keyMsg("x"))
	if !consumed {
		t.Errorf("x: expected consumed")
	}
	if h.LeaderWaiting {
		t.Error("leader should not be waiting after completing sequence")
	}
	if cmd != nil {
		cmd()
		if !executed {
			t.Error("expected command to execute")
		}
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	if !h.LeaderWaiting {
		t.Fatal("expected leader waiting")
	}

	consumed, cmd := h.Handle(keyMsg("esc"))
	if !consumed || cmd != nil {
		t.Errorf("esc: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
}

func TestKeyHandler_DeadEndEndsSequence(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("space p c", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	h.Handle(keyMsg("p"))
	if !h.LeaderWaiting || strings.Join(h.Buffer, " ") != "SPC p" {
		t.Fatalf("expected pending SPC p, got %v", h.Buffer)
	}
	consumed, cmd := h.Handle(keyMsg("z"))
	if !consumed || cmd != nil {
		t.Errorf("z: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting || h.Buffer != nil {
		t.Errorf("dead end should reset, got %v", h.Buffer)
	}
}

func TestKeyHandler_SingleKey(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg("q"))
	if !consumed || cmd == nil {
		t.Errorf("q: consumed=%v cmd=%v", consumed, cmd)
	}
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, _ := h.Handle(keyMsg("j"))
	if consumed {
		t.Error("unbound j should not be consumed")
	}
}

func TestKeyHandler_ModeFilter(t *testing.T) {
	reg := NewKeybindRegistry()
	var ran bool
	reg.BindWithDescForMode("SPC p d", func() tea.Msg { ran = true; return nil }, "Delete project", []AppMode{ModeDashboard})
	h := NewKeyHandler(reg)
	h.Mode = ModeWorkspace

	h.Handle(keyMsg(" "))
	h.Handle(keyMsg("p"))
	consumed, cmd := h.Handle(keyMsg("d"))
	if !consumed {
		t.Error("leader sequence keys should be consumed")
	}
	if cmd != nil {
		cmd()
	}
	if ran {
		t.Error("dashboard-only binding ran in workspace mode")
	}
}

func TestKeybindRegistry_LeaderHints(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDescForMode("SPC p c", tea.Quit, "Create project", []AppMode{ModeDashboard})
	reg.BindWithDesc("SPC p p", tea.Quit, "Switch project")
	reg.BindWithDescForMode("SPC m", tea.Quit, "Toggle multi-select", []AppMode{ModeWorkspace})

	hints := reg.LeaderHints("", ModeDashboard)
	if hints["p"] != "Project" {
		t.Errorf("p hint: got %q", hints["p"])
	}
	if hints["q"] != "Quit" {
		t.Errorf("q hint: got %q", hints["q"])
	}
	if _, ok := hints["m"]; ok {
		t.Error("workspace-only binding shown on dashboard")
	}

	sub := reg.LeaderHints("SPC p", ModeWorkspace)
	if len(sub) != 1 || sub["p"] != "Switch project" {
		t.Errorf("SPC p hints in workspace: got %v", sub)
	}
}

func TestRenderKeybindHelp(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC g", tea.Quit, "Guidelines")
	h := NewKeyHandler(reg)
	h.Handle(keyMsg(" "))

	out := RenderKeybindHelp(h, ModeWorkspace)
	if !strings.Contains(out, "Guidelines") || !strings.Contains(out, "SPC") {
		t.Errorf("help bar missing content:\n%s", out)
	}
	if RenderKeybindHelp(nil, ModeWorkspace) != "" {
		t.Error("nil handler should render nothing")
	}
}

// keyMsg creates a tea.KeyMsg for testing. Bubble Tea reports space as " ".
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
