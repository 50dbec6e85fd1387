package selector

import (
	"unicode/utf8"

	"annotate/internal/pointer"

	tea "github.com/charmbracelet/bubbletea"
)

// Focus is the element of the selector holding keyboard focus.
type Focus int

const (
	// FocusNone means the selector does not own keyboard input.
	FocusNone Focus = iota
	// FocusTrigger is the closed selector's trigger.
	FocusTrigger
	// FocusSearch is the search field of the open dropdown.
	FocusSearch
	// FocusList is the option list of the open dropdown.
	FocusList
)

// KeyEvent maps a key press to a selector event. ok is false when the key
// means nothing to the selector and should be handled by the parent.
//
// Printable keys are search input while the search field has focus; anywhere
// else they are shortcut candidates.
func KeyEvent(st State, msg tea.KeyMsg, focus Focus) (Event, bool) {
	switch msg.Type {
	case tea.KeyEsc:
		if st.Open {
			return Event{Kind: EventEscape}, true
		}
		return Event{}, false
	case tea.KeyDown:
		if st.Open {
			return Event{Kind: EventArrowDown}, true
		}
		return Event{}, false
	case tea.KeyUp:
		if st.Open {
			return Event{Kind: EventArrowUp}, true
		}
		return Event{}, false
	case tea.KeyEnter:
		if st.Open {
			return Event{Kind: EventEnter}, true
		}
		if focus == FocusTrigger {
			return Event{Kind: EventOpen}, true
		}
		return Event{}, false
	case tea.KeySpace:
		if st.Open && focus == FocusSearch {
			return Event{Kind: EventSearch, Term: st.SearchTerm + " "}, true
		}
		if !st.Open && focus == FocusTrigger {
			return Event{Kind: EventOpen}, true
		}
		return Event{}, false
	case tea.KeyBackspace:
		if st.Open && focus == FocusSearch {
			if st.SearchTerm == "" {
				return Event{}, true
			}
			_, size := utf8.DecodeLastRuneInString(st.SearchTerm)
			return Event{Kind: EventSearch, Term: st.SearchTerm[:len(st.SearchTerm)-size]}, true
		}
		return Event{}, false
	case tea.KeyRunes:
		if msg.Alt {
			return Event{}, false
		}
		if st.Open && focus == FocusSearch {
			return Event{Kind: EventSearch, Term: st.SearchTerm + string(msg.Runes)}, true
		}
		if len(msg.Runes) != 1 || msg.Paste {
			return Event{}, false
		}
		return Event{Kind: EventShortcut, Key: string(msg.Runes)}, true
	}
	return Event{}, false
}

// PointerEvent maps a pointer press to a selector event. A press outside
// bounds while open closes the dropdown; everything else is left to the view.
func PointerEvent(st State, bounds pointer.Bounds, msg tea.MouseMsg) (Event, bool) {
	if !st.Open || !pointer.IsPress(msg) {
		return Event{}, false
	}
	if bounds.Contains(msg.X, msg.Y) {
		return Event{}, false
	}
	return Event{Kind: EventOutsidePointer}, true
}
