package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	leaderKey = " " // what Bubble Tea reports for the space bar
	leaderSeq = "SPC"
)

type binding struct {
	cmd   tea.Cmd
	desc  string
	modes []AppMode // empty: every mode
}

func (b binding) activeIn(mode AppMode) bool {
	if len(b.modes) == 0 {
		return true
	}
	for _, m := range b.modes {
		if m == mode {
			return true
		}
	}
	return false
}

// KeybindRegistry holds the app-level key bindings. A sequence is written as
// space separated keys, with SPC for the leader: "q", "SPC p c".
type KeybindRegistry struct {
	bindings map[string]binding
}

func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{bindings: make(map[string]binding)}
}

// Bind maps seq to cmd in every mode, replacing an earlier binding.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDescForMode(seq, cmd, "", nil)
}

// BindWithDesc is Bind with the text shown in the leader hint bar.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	r.BindWithDescForMode(seq, cmd, desc, nil)
}

// BindWithDescForMode limits the binding to modes. The handler ignores it and
// the hint bar hides it everywhere else.
func (r *KeybindRegistry) BindWithDescForMode(seq string, cmd tea.Cmd, desc string, modes []AppMode) {
	r.bindings[canonicalSeq(seq)] = binding{cmd: cmd, desc: desc, modes: modes}
}

// Lookup returns the command bound to seq in any mode.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.bindings[canonicalSeq(seq)].cmd
}

func (r *KeybindRegistry) lookupIn(seq string, mode AppMode) tea.Cmd {
	b, ok := r.bindings[canonicalSeq(seq)]
	if !ok || !b.activeIn(mode) {
		return nil
	}
	return b.cmd
}

// HasPrefix reports whether some binding continues past seq.
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	return r.continues(seq, func(binding) bool { return true })
}

func (r *KeybindRegistry) continues(seq string, keep func(binding) bool) bool {
	prefix := canonicalSeq(seq) + " "
	for s, b := range r.bindings {
		if strings.HasPrefix(s, prefix) && keep(b) {
			return true
		}
	}
	return false
}

// Menu names for leader keys that lead to more keys.
var submenuLabel = map[string]string{
	"p": "Project",
	"t": "Text",
}

// LeaderHints lists the keys that may follow currentSeq in mode, keyed by
// the next key. An empty currentSeq means just after SPC. Keys that open a
// further level show a menu name instead of one of its actions.
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode AppMode) map[string]string {
	base := leaderSeq
	if currentSeq != "" {
		base = canonicalSeq(currentSeq)
	}
	inMode := func(b binding) bool { return b.activeIn(mode) }

	out := make(map[string]string)
	for seq, b := range r.bindings {
		rest, ok := strings.CutPrefix(seq, base+" ")
		if !ok || b.cmd == nil || !b.activeIn(mode) {
			continue
		}
		next, _, _ := strings.Cut(rest, " ")
		switch {
		case r.continues(base+" "+next, inMode):
			if name, ok := submenuLabel[next]; ok {
				out[next] = name
			} else {
				out[next] = next + "…"
			}
		case b.desc != "":
			out[next] = b.desc
		default:
			out[next] = seq
		}
	}
	return out
}

// canonicalSeq spells the space bar as SPC and collapses whitespace.
func canonicalSeq(seq string) string {
	keys := strings.Fields(seq)
	for i, k := range keys {
		keys[i] = seqKey(k)
	}
	return strings.Join(keys, " ")
}

func seqKey(s string) string {
	if s == " " || s == "space" {
		return leaderSeq
	}
	return s
}

// KeyHandler turns key presses into registry commands. Pressing the leader
// starts a sequence that is collected in Buffer until it resolves.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderWaiting bool
	Buffer        []string
	Mode          AppMode
}

func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Handle reports whether the key belongs to the binding system, in which case
// views must not see it, and the command to run if a sequence completed.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	s := msg.String()
	switch {
	case s == "esc":
		if !h.LeaderWaiting {
			return false, nil
		}
		h.reset()
		return true, nil
	case s == leaderKey:
		h.LeaderWaiting = true
		h.Buffer = []string{leaderSeq}
		return true, nil
	case h.LeaderWaiting:
		return true, h.extend(s)
	}
	if c := h.Registry.lookupIn(seqKey(s), h.Mode); c != nil {
		return true, c
	}
	return false, nil
}

// extend adds one key to the pending sequence. The sequence ends on a match
// or when no binding can complete it.
func (h *KeyHandler) extend(s string) tea.Cmd {
	h.Buffer = append(h.Buffer, seqKey(s))
	seq := strings.Join(h.Buffer, " ")
	if c := h.Registry.lookupIn(seq, h.Mode); c != nil {
		h.reset()
		return c
	}
	if !h.Registry.HasPrefix(seq) {
		h.reset()
	}
	return nil
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// KeyMap adapts the pending leader sequence to help.KeyMap for the hint bar.
type KeyMap struct {
	registry   *KeybindRegistry
	keyHandler *KeyHandler
	mode       AppMode
}

func NewKeyMap(registry *KeybindRegistry, keyHandler *KeyHandler, mode AppMode) help.KeyMap {
	return &KeyMap{registry: registry, keyHandler: keyHandler, mode: mode}
}

// ShortHelp lists the next keys in key order, then esc.
func (km *KeyMap) ShortHelp() []key.Binding {
	if km.registry == nil {
		return nil
	}
	var pending string
	if km.keyHandler != nil {
		pending = strings.Join(km.keyHandler.Buffer, " ")
	}
	hints := km.registry.LeaderHints(pending, km.mode)
	if len(hints) == 0 {
		return nil
	}

	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	return append(out, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

func (km *KeyMap) FullHelp() [][]key.Binding {
	if short := km.ShortHelp(); len(short) > 0 {
		return [][]key.Binding{short}
	}
	return nil
}
