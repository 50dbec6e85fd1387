// Package selector implements the label selector used by the annotation
// workspace to attach labels to a text segment.
//
// The transition table lives in Reduce, a pure function of (options, state,
// event). Selector wraps it with the per-instance plumbing: the controlled
// selection, the change callback, and the outside-click subscription on the
// pointer hub. KeyEvent and PointerEvent translate Bubble Tea input into
// reducer events.
package selector
