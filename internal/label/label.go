// Package label defines annotation labels and the pure list operations the
// label selector is built on: filtering, shortcut matching, and id resolution.
package label

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyID is returned when a label has a blank id.
	ErrEmptyID = errors.New("label id is empty")
	// ErrDuplicateID is returned when two labels in a set share an id.
	ErrDuplicateID = errors.New("duplicate label id")
	// ErrBadShortcut is returned when a shortcut is not a single character.
	ErrBadShortcut = errors.New("shortcut must be a single character")
)

// Label is a named, colored category with an optional one-key shortcut.
// Labels are owned by project configuration; the selector never mutates them.
type Label struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	Shortcut    string `yaml:"shortcut,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Set is an ordered label list with unique ids.
type Set struct {
	labels []Label
	byID   map[string]int
}

// NewSet validates labels and returns them as a Set.
// Duplicate shortcuts are allowed; see ShortcutConflicts.
func NewSet(labels []Label) (Set, error) {
	s := Set{
		labels: make([]Label, 0, len(labels)),
		byID:   make(map[string]int, len(labels)),
	}
	for _, l := range labels {
		if strings.TrimSpace(l.ID) == "" {
			return Set{}, fmt.Errorf("label %q: %w", l.Name, ErrEmptyID)
		}
		if _, dup := s.byID[l.ID]; dup {
			return Set{}, fmt.Errorf("%w: %s", ErrDuplicateID, l.ID)
		}
		if l.Shortcut != "" && utf8.RuneCountInString(l.Shortcut) != 1 {
			return Set{}, fmt.Errorf("label %s shortcut %q: %w", l.ID, l.Shortcut, ErrBadShortcut)
		}
		s.byID[l.ID] = len(s.labels)
		s.labels = append(s.labels, l)
	}
	return s, nil
}

// Labels returns the labels in source order. The slice must not be modified.
func (s Set) Labels() []Label {
	return s.labels
}

// Len returns the number of labels.
func (s Set) Len() int {
	return len(s.labels)
}

// Get returns the label with the given id.
func (s Set) Get(id string) (Label, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Label{}, false
	}
	return s.labels[i], true
}

// ShortcutConflicts returns shortcut keys (lowercased) bound to more than one
// label, mapped to the ids that share them.
func (s Set) ShortcutConflicts() map[string][]string {
	seen := make(map[string][]string)
	for _, l := range s.labels {
		if l.Shortcut == "" {
			continue
		}
		k := strings.ToLower(l.Shortcut)
		seen[k] = append(seen[k], l.ID)
	}
	out := make(map[string][]string)
	for k, ids := range seen {
		if len(ids) > 1 {
			out[k] = ids
		}
	}
	return out
}

// Filter returns the labels whose name contains term, ignoring case, in their
// original order. An empty term returns labels unchanged.
func Filter(labels []Label, term string) []Label {
	if term == "" {
		return labels
	}
	needle := strings.ToLower(term)
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		if strings.Contains(strings.ToLower(l.Name), needle) {
			out = append(out, l)
		}
	}
	return out
}

// MatchShortcut returns the first label whose shortcut equals key, ignoring case.
func MatchShortcut(labels []Label, key string) (Label, bool) {
	if key == "" {
		return Label{}, false
	}
	for _, l := range labels {
		if l.Shortcut != "" && strings.EqualFold(l.Shortcut, key) {
			return l, true
		}
	}
	return Label{}, false
}

// Resolve maps ids to labels in id order. Ids with no matching label are
// dropped silently.
func Resolve(labels []Label, ids []string) []Label {
	if len(ids) == 0 {
		return nil
	}
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l.ID] = i
	}
	out := make([]Label, 0, len(ids))
	for _, id := range ids {
		if i, ok := index[id]; ok {
			out = append(out, labels[i])
		}
	}
	return out
}
