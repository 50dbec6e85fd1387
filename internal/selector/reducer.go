package selector

import (
	"unicode/utf8"

	"annotate/internal/label"
)

// State is the transient UI state of one selector instance.
type State struct {
	Open         bool
	SearchTerm   string
	FocusedIndex int // index into the filtered list; -1 = none
}

// Initial returns the state a selector starts in: closed, empty search,
// nothing focused.
func Initial() State {
	return State{FocusedIndex: -1}
}

// EventKind identifies a selector input.
type EventKind int

const (
	EventNone EventKind = iota
	EventOpen
	EventEscape
	EventOutsidePointer
	EventArrowDown
	EventArrowUp
	EventEnter
	EventSearch
	EventShortcut
	EventToggle
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventEscape:
		return "escape"
	case EventOutsidePointer:
		return "outside_pointer"
	case EventArrowDown:
		return "arrow_down"
	case EventArrowUp:
		return "arrow_up"
	case EventEnter:
		return "enter"
	case EventSearch:
		return "search"
	case EventShortcut:
		return "shortcut"
	case EventToggle:
		return "toggle"
	default:
		return "none"
	}
}

// Event is a single selector input.
type Event struct {
	Kind     EventKind
	Term     string // EventSearch: the new search term
	Key      string // EventShortcut: the typed character
	Modified bool   // EventShortcut: ctrl/alt/meta held
	ID       string // EventToggle: label id
}

// Options configure a selector. Labels and Selected are controlled by the
// parent; the selector only reads them.
type Options struct {
	Labels            []label.Label
	Selected          []string
	OnSelectionChange func([]string)
	AllowMultiple     bool
	ShowShortcuts     bool
}

// DefaultOptions returns options with multi-select and shortcuts enabled.
func DefaultOptions() Options {
	return Options{AllowMultiple: true, ShowShortcuts: true}
}

// Effect reports a selection change requested by a transition.
type Effect struct {
	Changed   bool
	Selection []string
}

// Filtered returns the labels visible for st.
func Filtered(opts Options, st State) []label.Label {
	return label.Filter(opts.Labels, st.SearchTerm)
}

// Reduce applies ev to st. It never mutates opts.Selected; a requested change
// is returned in the Effect for the caller to deliver.
func Reduce(opts Options, st State, ev Event) (State, Effect) {
	switch ev.Kind {
	case EventOpen:
		if !st.Open {
			st.Open = true
			st.FocusedIndex = -1
		}
		return st, Effect{}

	case EventEscape, EventOutsidePointer:
		if st.Open {
			st = closed(st)
		}
		return st, Effect{}

	case EventArrowDown:
		if !st.Open {
			return st, Effect{}
		}
		n := len(Filtered(opts, st))
		switch {
		case n == 0:
			st.FocusedIndex = -1
		case st.FocusedIndex < -1 || st.FocusedIndex >= n-1:
			st.FocusedIndex = 0
		default:
			st.FocusedIndex++
		}
		return st, Effect{}

	case EventArrowUp:
		if !st.Open {
			return st, Effect{}
		}
		n := len(Filtered(opts, st))
		switch {
		case n == 0:
			st.FocusedIndex = -1
		case st.FocusedIndex <= 0 || st.FocusedIndex >= n:
			st.FocusedIndex = n - 1
		default:
			st.FocusedIndex--
		}
		return st, Effect{}

	case EventEnter:
		if !st.Open {
			return st, Effect{}
		}
		filtered := Filtered(opts, st)
		// With nothing focused, a search narrowed to one label commits it.
		if st.FocusedIndex == -1 && len(filtered) == 1 {
			return toggle(opts, st, filtered[0].ID)
		}
		if st.FocusedIndex < 0 || st.FocusedIndex >= len(filtered) {
			return st, Effect{}
		}
		return toggle(opts, st, filtered[st.FocusedIndex].ID)

	case EventSearch:
		if !st.Open || ev.Term == st.SearchTerm {
			return st, Effect{}
		}
		st.SearchTerm = ev.Term
		st.FocusedIndex = -1
		return st, Effect{}

	case EventShortcut:
		if !opts.ShowShortcuts || ev.Modified || utf8.RuneCountInString(ev.Key) != 1 {
			return st, Effect{}
		}
		l, ok := label.MatchShortcut(opts.Labels, ev.Key)
		if !ok {
			return st, Effect{}
		}
		return toggle(opts, st, l.ID)

	case EventToggle:
		if ev.ID == "" {
			return st, Effect{}
		}
		return toggle(opts, st, ev.ID)
	}
	return st, Effect{}
}

func toggle(opts Options, st State, id string) (State, Effect) {
	next := Toggle(opts.Selected, id, opts.AllowMultiple)
	if !opts.AllowMultiple {
		st = closed(st)
	}
	return st, Effect{Changed: true, Selection: next}
}

func closed(st State) State {
	st.Open = false
	st.SearchTerm = ""
	st.FocusedIndex = -1
	return st
}

// Toggle returns the selection after toggling id. With allowMultiple the id is
// removed if present and appended otherwise. Without it, toggling the sole
// selected id clears the selection and anything else replaces it with [id].
// The input slice is never modified.
func Toggle(selection []string, id string, allowMultiple bool) []string {
	if !allowMultiple {
		if len(selection) == 1 && selection[0] == id {
			return []string{}
		}
		return []string{id}
	}
	out := make([]string, 0, len(selection)+1)
	found := false
	for _, s := range selection {
		if s == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, id)
	}
	return out
}
