package selector

import (
	"annotate/internal/label"
	"annotate/internal/pointer"

	tea "github.com/charmbracelet/bubbletea"
)

// Selector is one mounted label selector. It owns its transient State and an
// outside-click subscription; the selection itself stays with the parent.
type Selector struct {
	opts    Options
	state   State
	bounds  pointer.Bounds
	release func()
}

// New creates a selector. When hub is non-nil the selector subscribes for
// outside presses until Close is called.
func New(opts Options, hub *pointer.Hub) *Selector {
	s := &Selector{
		opts:  opts,
		state: Initial(),
	}
	if hub != nil {
		s.release = hub.Subscribe(s.onPointer)
	}
	return s
}

// Close releases the pointer subscription. Safe to call more than once.
func (s *Selector) Close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

func (s *Selector) onPointer(msg tea.MouseMsg) {
	if ev, ok := PointerEvent(s.state, s.bounds, msg); ok {
		s.Dispatch(ev)
	}
}

// Dispatch runs ev through the reducer. If the selection changes, the
// OnSelectionChange callback runs before Dispatch returns.
func (s *Selector) Dispatch(ev Event) Effect {
	next, eff := Reduce(s.opts, s.state, ev)
	s.state = next
	if eff.Changed && s.opts.OnSelectionChange != nil {
		s.opts.OnSelectionChange(eff.Selection)
	}
	return eff
}

// State returns the current transient state.
func (s *Selector) State() State {
	return s.state
}

// Options returns the current options.
func (s *Selector) Options() Options {
	return s.opts
}

// SetBounds records where the selector is drawn, for outside-click detection.
func (s *Selector) SetBounds(b pointer.Bounds) {
	s.bounds = b
}

// Bounds returns the last recorded screen bounds.
func (s *Selector) Bounds() pointer.Bounds {
	return s.bounds
}

// SetLabels replaces the candidate labels. The filtered list may change, so
// the focus is cleared.
func (s *Selector) SetLabels(labels []label.Label) {
	s.opts.Labels = labels
	s.state.FocusedIndex = -1
}

// SetSelected replaces the controlled selection. Ids are kept as given, even
// when no label matches them.
func (s *Selector) SetSelected(ids []string) {
	s.opts.Selected = ids
}

// SetAllowMultiple switches between multi and single select. The current
// selection is kept as is.
func (s *Selector) SetAllowMultiple(on bool) {
	s.opts.AllowMultiple = on
}

// SetOnSelectionChange replaces the change callback.
func (s *Selector) SetOnSelectionChange(fn func([]string)) {
	s.opts.OnSelectionChange = fn
}

// Filtered returns the labels matching the current search term.
func (s *Selector) Filtered() []label.Label {
	return Filtered(s.opts, s.state)
}

// Focused returns the focused label, if any.
func (s *Selector) Focused() (label.Label, bool) {
	f := s.Filtered()
	if s.state.FocusedIndex < 0 || s.state.FocusedIndex >= len(f) {
		return label.Label{}, false
	}
	return f[s.state.FocusedIndex], true
}

// Chips returns the selected labels to render. Ids without a label are
// skipped but remain in the selection.
func (s *Selector) Chips() []label.Label {
	return label.Resolve(s.opts.Labels, s.opts.Selected)
}

// IsSelected reports whether id is in the current selection.
func (s *Selector) IsSelected(id string) bool {
	for _, sel := range s.opts.Selected {
		if sel == id {
			return true
		}
	}
	return false
}

// HandleKey dispatches a key press. It returns false when the key was not
// meant for the selector, including printable keys that match no shortcut,
// so the parent can use them.
func (s *Selector) HandleKey(msg tea.KeyMsg, focus Focus) bool {
	ev, ok := KeyEvent(s.state, msg, focus)
	if !ok {
		return false
	}
	if ev.Kind == EventShortcut {
		if !s.opts.ShowShortcuts {
			return false
		}
		if _, match := label.MatchShortcut(s.opts.Labels, ev.Key); !match {
			return false
		}
	}
	s.Dispatch(ev)
	return true
}
