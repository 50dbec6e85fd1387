// Package ui implements the annotate terminal interface with Bubble Tea.
//
// The root AppModel switches between three modes: the project dashboard, the
// text picker of one project, and the annotation workspace. Modals (create,
// delete, switch project, guidelines) are pushed on an OverlayStack and take
// input first. Leader-key commands start with SPC.
//
// Mouse presses are published to a pointer.Hub before normal routing so that
// the workspace's label selector can close on clicks outside of it.
package ui
