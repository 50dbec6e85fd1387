package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"annotate/internal/label"
	"annotate/internal/selector"
	"annotate/internal/ui/textutil"
)

const defaultSelectorRows = 8

// selectorRegion is the part of a rendered selector under a pointer.
type selectorRegion int

const (
	regionNone selectorRegion = iota
	regionTrigger
	regionSearch
	regionRow
)

// LabelSelectorView draws a selector.Selector inline: a trigger line with the
// selection chips and, while open, a search line and the option rows.
type LabelSelectorView struct {
	Sel     *selector.Selector
	Focus   selector.Focus
	MaxRows int

	rowStart int // filtered index of the first drawn row
	rows     int // option rows drawn by the last render
}

// NewLabelSelectorView wraps sel.
func NewLabelSelectorView(sel *selector.Selector) *LabelSelectorView {
	return &LabelSelectorView{Sel: sel, Focus: selector.FocusNone, MaxRows: defaultSelectorRows}
}

// Render draws the selector at the given width.
func (v *LabelSelectorView) Render(width int) string {
	st := v.Sel.State()
	lines := []string{v.renderTrigger(st, width)}
	if !st.Open {
		v.rows = 0
		return strings.Join(lines, "\n")
	}

	lines = append(lines, v.renderSearch(st, width))

	filtered := v.Sel.Filtered()
	if len(filtered) == 0 {
		v.rowStart, v.rows = 0, 0
		lines = append(lines, "  "+Styles.Empty.Render("No labels found"))
		return strings.Join(lines, "\n")
	}

	v.scrollTo(st.FocusedIndex, len(filtered))
	end := min(v.rowStart+v.maxRows(), len(filtered))
	v.rows = end - v.rowStart
	for i := v.rowStart; i < end; i++ {
		lines = append(lines, v.renderRow(filtered[i], i == st.FocusedIndex, width))
	}
	if hidden := len(filtered) - v.rows; hidden > 0 {
		lines = append(lines, "  "+Styles.Muted.Render(fmt.Sprintf("%d more", hidden)))
	}
	return strings.Join(lines, "\n")
}

func (v *LabelSelectorView) maxRows() int {
	if v.MaxRows <= 0 {
		return defaultSelectorRows
	}
	return v.MaxRows
}

func (v *LabelSelectorView) scrollTo(focused, n int) {
	rows := v.maxRows()
	if focused >= 0 {
		if focused < v.rowStart {
			v.rowStart = focused
		} else if focused >= v.rowStart+rows {
			v.rowStart = focused - rows + 1
		}
	}
	if v.rowStart > n-rows {
		v.rowStart = n - rows
	}
	if v.rowStart < 0 {
		v.rowStart = 0
	}
}

func (v *LabelSelectorView) renderTrigger(st selector.State, width int) string {
	prefix := "Labels"
	if v.Focus == selector.FocusTrigger {
		prefix = Styles.Trigger.Render(prefix)
	} else {
		prefix = Styles.Title.Render(prefix)
	}
	arrow := "▾"
	if st.Open {
		arrow = "▴"
	}

	chips := v.Sel.Chips()
	if len(chips) == 0 {
		return prefix + " " + Styles.Empty.Render("none") + " " + Styles.Muted.Render(arrow)
	}
	parts := make([]string, 0, len(chips))
	used := textutil.VisualWidth("Labels  " + arrow)
	for i, c := range chips {
		chip := ChipStyle(c.Color).Render(c.Name)
		w := lipgloss.Width(chip) + 1
		if used+w > width && width > 0 {
			parts = append(parts, Styles.Muted.Render(fmt.Sprintf("+%d", len(chips)-i)))
			break
		}
		parts = append(parts, chip)
		used += w
	}
	return prefix + " " + strings.Join(parts, " ") + " " + Styles.Muted.Render(arrow)
}

func (v *LabelSelectorView) renderSearch(st selector.State, width int) string {
	term := st.SearchTerm
	var body string
	switch {
	case term == "" && v.Focus == selector.FocusSearch:
		body = "█" + Styles.Muted.Render(" type to filter")
	case term == "":
		body = Styles.Muted.Render("type to filter")
	case v.Focus == selector.FocusSearch:
		body = textutil.Truncate(term, max(width-6, 1)) + "█"
	default:
		body = textutil.Truncate(term, max(width-5, 1))
	}
	return "  " + Styles.Muted.Render("/") + " " + body
}

func (v *LabelSelectorView) renderRow(l label.Label, focused bool, width int) string {
	cursor := " "
	if focused {
		cursor = "›"
	}
	check := " "
	if v.Sel.IsSelected(l.ID) {
		check = "✓"
	}
	hint := ""
	if v.Sel.Options().ShowShortcuts && l.Shortcut != "" {
		hint = " [" + l.Shortcut + "]"
	}
	name := textutil.Truncate(l.Name, max(width-10-len(hint), 4))
	text := fmt.Sprintf("%s %s ", cursor, check)
	swatch := SwatchStyle(l.Color).Render("■")
	if focused {
		return text + swatch + " " + Styles.Selected.Render(name) + Styles.Muted.Render(hint)
	}
	return text + swatch + " " + Styles.Normal.Render(name) + Styles.Muted.Render(hint)
}

// hit maps a line offset within the last render to a region. For rows, the
// filtered index is returned as well.
func (v *LabelSelectorView) hit(relY int) (selectorRegion, int) {
	switch {
	case relY == 0:
		return regionTrigger, -1
	case !v.Sel.State().Open:
		return regionNone, -1
	case relY == 1:
		return regionSearch, -1
	case relY-2 < v.rows:
		return regionRow, v.rowStart + relY - 2
	}
	return regionNone, -1
}
