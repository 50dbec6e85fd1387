package selector

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"annotate/internal/label"
)

func personPlace() []label.Label {
	return []label.Label{
		{ID: "a", Name: "Person", Shortcut: "p"},
		{ID: "b", Name: "Place", Shortcut: "l"},
	}
}

func threeLabels() []label.Label {
	return []label.Label{
		{ID: "x", Name: "Alpha"},
		{ID: "y", Name: "Beta"},
		{ID: "z", Name: "Gamma"},
	}
}

func openState() State {
	return State{Open: true, FocusedIndex: -1}
}

func TestReduce_Transitions(t *testing.T) {
	multi := Options{Labels: threeLabels(), AllowMultiple: true, ShowShortcuts: true}
	tests := []struct {
		name string
		st   State
		ev   Event
		want State
	}{
		{"open from closed", Initial(), Event{Kind: EventOpen}, State{Open: true, FocusedIndex: -1}},
		{"open while open keeps state", State{Open: true, SearchTerm: "a", FocusedIndex: 0}, Event{Kind: EventOpen}, State{Open: true, SearchTerm: "a", FocusedIndex: 0}},
		{"escape closes and resets", State{Open: true, SearchTerm: "be", FocusedIndex: 0}, Event{Kind: EventEscape}, Initial()},
		{"escape while closed is no-op", Initial(), Event{Kind: EventEscape}, Initial()},
		{"outside pointer resets", State{Open: true, SearchTerm: "xyz", FocusedIndex: -1}, Event{Kind: EventOutsidePointer}, Initial()},
		{"down from none", openState(), Event{Kind: EventArrowDown}, State{Open: true, FocusedIndex: 0}},
		{"down wraps", State{Open: true, FocusedIndex: 2}, Event{Kind: EventArrowDown}, State{Open: true, FocusedIndex: 0}},
		{"up from none goes last", openState(), Event{Kind: EventArrowUp}, State{Open: true, FocusedIndex: 2}},
		{"up wraps from zero", State{Open: true, FocusedIndex: 0}, Event{Kind: EventArrowUp}, State{Open: true, FocusedIndex: 2}},
		{"up moves back", State{Open: true, FocusedIndex: 2}, Event{Kind: EventArrowUp}, State{Open: true, FocusedIndex: 1}},
		{"down on empty filter", State{Open: true, SearchTerm: "qq", FocusedIndex: -1}, Event{Kind: EventArrowDown}, State{Open: true, SearchTerm: "qq", FocusedIndex: -1}},
		{"up on empty filter", State{Open: true, SearchTerm: "qq", FocusedIndex: -1}, Event{Kind: EventArrowUp}, State{Open: true, SearchTerm: "qq", FocusedIndex: -1}},
		{"arrows ignored when closed", Initial(), Event{Kind: EventArrowDown}, Initial()},
		{"search resets focus", State{Open: true, FocusedIndex: 1}, Event{Kind: EventSearch, Term: "a"}, State{Open: true, SearchTerm: "a", FocusedIndex: -1}},
		{"same search keeps focus", State{Open: true, SearchTerm: "a", FocusedIndex: 1}, Event{Kind: EventSearch, Term: "a"}, State{Open: true, SearchTerm: "a", FocusedIndex: 1}},
		{"search ignored when closed", Initial(), Event{Kind: EventSearch, Term: "a"}, Initial()},
		{"enter out of range", openState(), Event{Kind: EventEnter}, openState()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, eff := Reduce(multi, tt.st, tt.ev)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("state mismatch (-want +got):\n%s", diff)
			}
			if eff.Changed {
				t.Errorf("expected no selection change, got %v", eff.Selection)
			}
		})
	}
}

func TestReduce_EnterTogglesFocused(t *testing.T) {
	opts := Options{Labels: threeLabels(), Selected: []string{"x"}, AllowMultiple: true}
	st, eff := Reduce(opts, State{Open: true, FocusedIndex: 1}, Event{Kind: EventEnter})
	assert.True(t, st.Open, "multi-select stays open")
	assert.Equal(t, 1, st.FocusedIndex)
	assert.True(t, eff.Changed)
	assert.Equal(t, []string{"x", "y"}, eff.Selection)
	assert.Equal(t, []string{"x"}, opts.Selected, "input selection untouched")
}

func TestReduce_EnterCommitsSoleMatch(t *testing.T) {
	single := Options{Labels: personPlace()}
	st, eff := Reduce(single, State{Open: true, SearchTerm: "per", FocusedIndex: -1}, Event{Kind: EventEnter})
	assert.True(t, eff.Changed)
	assert.Equal(t, []string{"a"}, eff.Selection)
	assert.Equal(t, Initial(), st)

	// Two matches and no focus: nothing to pick.
	st, eff = Reduce(single, openState(), Event{Kind: EventEnter})
	assert.False(t, eff.Changed)
	assert.Equal(t, openState(), st)
}

func TestReduce_SingleSelectCloses(t *testing.T) {
	opts := Options{Labels: threeLabels(), Selected: []string{"x"}}
	st, eff := Reduce(opts, State{Open: true, SearchTerm: "a", FocusedIndex: 0}, Event{Kind: EventToggle, ID: "z"})
	assert.Equal(t, Initial(), st)
	assert.Equal(t, []string{"z"}, eff.Selection)

	_, eff = Reduce(opts, openState(), Event{Kind: EventToggle, ID: "x"})
	assert.Equal(t, []string{}, eff.Selection, "toggling the sole selection clears it")
}

func TestReduce_Shortcut(t *testing.T) {
	opts := Options{Labels: personPlace(), AllowMultiple: true, ShowShortcuts: true}

	_, eff := Reduce(opts, Initial(), Event{Kind: EventShortcut, Key: "P"})
	assert.Equal(t, []string{"a"}, eff.Selection, "case-insensitive match")

	_, eff = Reduce(opts, Initial(), Event{Kind: EventShortcut, Key: "p", Modified: true})
	assert.False(t, eff.Changed, "modifier suppresses shortcut")

	_, eff = Reduce(opts, Initial(), Event{Kind: EventShortcut, Key: "q"})
	assert.False(t, eff.Changed, "no match is a no-op")

	opts.ShowShortcuts = false
	_, eff = Reduce(opts, Initial(), Event{Kind: EventShortcut, Key: "p"})
	assert.False(t, eff.Changed, "shortcuts disabled")
}

func TestReduce_ToggleUnknownID(t *testing.T) {
	opts := Options{Labels: personPlace(), AllowMultiple: true}
	_, eff := Reduce(opts, Initial(), Event{Kind: EventToggle, ID: "ghost"})
	assert.True(t, eff.Changed, "unknown ids are not rejected")
	assert.Equal(t, []string{"ghost"}, eff.Selection)
}

func TestToggle_MultiInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d", "e"}
	sel := []string{}
	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		had := contains(sel, id)
		next := Toggle(sel, id, true)

		assert.Equal(t, !had, contains(next, id), "toggle flips presence of %s", id)
		assertNoDuplicates(t, next)
		assert.ElementsMatch(t, sel, Toggle(next, id, true), "toggle twice restores set")
		sel = next
	}
}

func TestToggle_SingleLengthAtMostOne(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	ids := []string{"a", "b", "c"}
	sel := []string{}
	for i := 0; i < 200; i++ {
		sel = Toggle(sel, ids[rng.Intn(len(ids))], false)
		if len(sel) > 1 {
			t.Fatalf("single-select selection grew to %v", sel)
		}
	}
}

func TestReduce_FocusAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	opts := Options{Labels: append(threeLabels(), personPlace()...), AllowMultiple: true, ShowShortcuts: true}
	terms := []string{"", "a", "p", "zz", "et", "Pl"}
	st := Initial()
	for i := 0; i < 2000; i++ {
		var ev Event
		switch rng.Intn(8) {
		case 0:
			ev = Event{Kind: EventOpen}
		case 1:
			ev = Event{Kind: EventEscape}
		case 2:
			ev = Event{Kind: EventArrowDown}
		case 3:
			ev = Event{Kind: EventArrowUp}
		case 4:
			ev = Event{Kind: EventEnter}
		case 5:
			ev = Event{Kind: EventSearch, Term: terms[rng.Intn(len(terms))]}
		case 6:
			ev = Event{Kind: EventOutsidePointer}
		case 7:
			ev = Event{Kind: EventShortcut, Key: "p"}
		}
		var eff Effect
		st, eff = Reduce(opts, st, ev)
		if eff.Changed {
			opts.Selected = eff.Selection
		}
		n := len(Filtered(opts, st))
		if st.FocusedIndex < -1 || st.FocusedIndex > n-1 {
			t.Fatalf("step %d (%s): focused %d out of range for %d items", i, ev.Kind, st.FocusedIndex, n)
		}
		if !st.Open && (st.SearchTerm != "" || st.FocusedIndex != -1) {
			t.Fatalf("step %d: closed state not reset: %+v", i, st)
		}
	}
}

func contains(sel []string, id string) bool {
	for _, s := range sel {
		if s == id {
			return true
		}
	}
	return false
}

func assertNoDuplicates(t *testing.T, sel []string) {
	t.Helper()
	seen := make(map[string]bool)
	for _, s := range sel {
		if seen[s] {
			t.Fatalf("duplicate id %q in %v", s, sel)
		}
		seen[s] = true
	}
}
