package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"annotate/internal/label"
	"annotate/internal/pointer"
	"annotate/internal/project"
	"annotate/internal/selector"
	"annotate/internal/ui/textutil"
)

// Workspace focus regions, in Tab order.
const (
	focusSegments = "segments"
	focusLabels   = "labels"
)

// SelectionChangeFunc is called with every new selection of a segment. The
// returned command, if any, is run by the workspace's Update.
type SelectionChangeFunc func(segment int, ids []string) tea.Cmd

// WorkspaceView shows the segments of one text and an inline label selector
// for the current segment. The selector is controlled: selections live in
// Selections and are fed back after every change.
type WorkspaceView struct {
	Project    string
	Text       string
	Segments   []project.Segment
	Selections map[int][]string
	Current    int
	Usage      map[string]int
	Guideline  string

	OnSelectionChange SelectionChangeFunc

	labels   []label.Label
	sel      *selector.Selector
	selView  *LabelSelectorView
	focus    *FocusManager
	pending  []tea.Cmd
	width    int
	height   int
	segTop   int // first segment index drawn
	listY    int // line of the first segment row
	selY     int // line of the selector trigger
	segLines int // segment rows drawn
}

// Ensure WorkspaceView implements View.
var _ View = (*WorkspaceView)(nil)

// NewWorkspaceView creates a workspace. The selector subscribes to hub for
// outside presses; Close releases it.
func NewWorkspaceView(projectName, text string, segs []project.Segment, labels []label.Label, selections map[int][]string, opts selector.Options, hub *pointer.Hub) *WorkspaceView {
	if selections == nil {
		selections = make(map[int][]string)
	}
	w := &WorkspaceView{
		Project:    projectName,
		Text:       text,
		Segments:   segs,
		Selections: selections,
		labels:     labels,
		focus:      NewFocusManager(focusSegments, focusLabels),
		width:      80,
		height:     24,
	}
	opts.Labels = labels
	opts.Selected = selections[0]
	opts.OnSelectionChange = w.selectionChanged
	w.sel = selector.New(opts, hub)
	w.selView = NewLabelSelectorView(w.sel)
	w.focus.OnChange = func(_, to string) {
		if to == focusLabels {
			w.selView.Focus = selector.FocusTrigger
		} else {
			w.selView.Focus = selector.FocusNone
		}
	}
	return w
}

// Close releases the selector's pointer subscription.
func (w *WorkspaceView) Close() {
	w.sel.Close()
}

// Selector exposes the embedded selector.
func (w *WorkspaceView) Selector() *selector.Selector {
	return w.sel
}

// Labels returns the current taxonomy.
func (w *WorkspaceView) Labels() []label.Label {
	return w.labels
}

// SetLabels swaps the taxonomy, e.g. after the labels file changed. Stored
// selections keep ids that no longer exist.
func (w *WorkspaceView) SetLabels(labels []label.Label) {
	w.labels = labels
	w.sel.SetLabels(labels)
}

// SetAllowMultiple switches between single and multi select.
func (w *WorkspaceView) SetAllowMultiple(on bool) {
	w.sel.SetAllowMultiple(on)
}

// CurrentSelection returns the labels of the current segment.
func (w *WorkspaceView) CurrentSelection() []string {
	return w.Selections[w.Current]
}

// Annotated counts segments with at least one label.
func (w *WorkspaceView) Annotated() int {
	n := 0
	for _, ids := range w.Selections {
		if len(ids) > 0 {
			n++
		}
	}
	return n
}

// selectionChanged is the selector's OnSelectionChange callback.
func (w *WorkspaceView) selectionChanged(ids []string) {
	if len(w.Segments) == 0 {
		return
	}
	seg := w.Current
	stored := append([]string(nil), ids...)
	if len(stored) == 0 {
		delete(w.Selections, seg)
	} else {
		w.Selections[seg] = stored
	}
	w.sel.SetSelected(stored)
	if w.OnSelectionChange != nil {
		if cmd := w.OnSelectionChange(seg, stored); cmd != nil {
			w.pending = append(w.pending, cmd)
		}
	}
}

func (w *WorkspaceView) flush() tea.Cmd {
	if len(w.pending) == 0 {
		return nil
	}
	cmds := w.pending
	w.pending = nil
	return tea.Batch(cmds...)
}

// moveTo makes segment i current and points the selector at its labels.
func (w *WorkspaceView) moveTo(i int) {
	if len(w.Segments) == 0 {
		return
	}
	i = max(0, min(i, len(w.Segments)-1))
	if i == w.Current {
		return
	}
	if w.sel.State().Open {
		w.sel.Dispatch(selector.Event{Kind: selector.EventEscape})
	}
	w.Current = i
	w.sel.SetSelected(w.Selections[i])
}

// Capturing reports whether the workspace must see every key first,
// including the leader key and single-key app bindings.
func (w *WorkspaceView) Capturing() bool {
	return w.focus.Is(focusLabels) || w.sel.State().Open
}

// Init implements View.
func (w *WorkspaceView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (w *WorkspaceView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
	case tea.KeyMsg:
		w.HandleKey(msg)
	case tea.MouseMsg:
		w.handleMouse(msg)
	}
	w.syncFocus()
	return w, w.flush()
}

// HandleKey routes a key press and reports whether it was used. Commands
// produced by selection changes are returned by the next Update or by Flush.
func (w *WorkspaceView) HandleKey(msg tea.KeyMsg) bool {
	defer w.syncFocus()
	st := w.sel.State()

	if msg.Type == tea.KeyTab || msg.Type == tea.KeyShiftTab {
		switch {
		case st.Open && w.selView.Focus == selector.FocusSearch:
			w.selView.Focus = selector.FocusList
		case st.Open:
			w.selView.Focus = selector.FocusSearch
		case msg.Type == tea.KeyTab:
			w.focus.Next()
		default:
			w.focus.Prev()
		}
		return true
	}

	// Without segments there is nothing to label.
	if len(w.Segments) == 0 {
		return false
	}

	if w.focus.Is(focusSegments) && !st.Open {
		switch msg.String() {
		case "j", "down":
			w.moveTo(w.Current + 1)
			return true
		case "k", "up":
			w.moveTo(w.Current - 1)
			return true
		case "g", "home":
			w.moveTo(0)
			return true
		case "G", "end":
			w.moveTo(len(w.Segments) - 1)
			return true
		case "enter":
			w.focus.SetFocus(focusLabels)
			w.sel.Dispatch(selector.Event{Kind: selector.EventOpen})
			w.selView.Focus = selector.FocusSearch
			return true
		}
		return w.sel.HandleKey(msg, selector.FocusNone)
	}

	if w.focus.Is(focusLabels) && !st.Open && msg.Type == tea.KeyEsc {
		w.focus.SetFocus(focusSegments)
		return true
	}

	if !w.sel.HandleKey(msg, w.selView.Focus) {
		// An open dropdown swallows everything but ctrl+c.
		return st.Open && msg.Type != tea.KeyCtrlC
	}
	if w.sel.State().Open && !st.Open {
		w.selView.Focus = selector.FocusSearch
	}
	return true
}

// Flush returns commands queued by selection changes since the last call.
func (w *WorkspaceView) Flush() tea.Cmd {
	return w.flush()
}

// syncFocus keeps the selector's focus consistent with its state: a closed
// selector cannot have its search or list focused.
func (w *WorkspaceView) syncFocus() {
	open := w.sel.State().Open
	switch {
	case open && w.selView.Focus != selector.FocusSearch && w.selView.Focus != selector.FocusList:
		w.focus.SetFocus(focusLabels)
		w.selView.Focus = selector.FocusSearch
	case !open && (w.selView.Focus == selector.FocusSearch || w.selView.Focus == selector.FocusList):
		if w.focus.Is(focusLabels) {
			w.selView.Focus = selector.FocusTrigger
		} else {
			w.selView.Focus = selector.FocusNone
		}
	}
}

func (w *WorkspaceView) handleMouse(msg tea.MouseMsg) {
	if !pointer.IsPress(msg) || msg.Button != tea.MouseButtonLeft {
		return
	}
	b := w.sel.Bounds()
	if b.Contains(msg.X, msg.Y) {
		region, idx := w.selView.hit(msg.Y - b.Y)
		switch region {
		case regionTrigger:
			w.focus.SetFocus(focusLabels)
			if !w.sel.State().Open && len(w.Segments) > 0 {
				w.sel.Dispatch(selector.Event{Kind: selector.EventOpen})
				w.selView.Focus = selector.FocusSearch
			}
		case regionSearch:
			w.selView.Focus = selector.FocusSearch
		case regionRow:
			if f := w.sel.Filtered(); idx >= 0 && idx < len(f) {
				w.selView.Focus = selector.FocusList
				w.sel.Dispatch(selector.Event{Kind: selector.EventToggle, ID: f[idx].ID})
			}
		}
		return
	}
	if row := msg.Y - w.listY; row >= 0 && row < w.segLines {
		w.focus.SetFocus(focusSegments)
		w.moveTo(w.segTop + row)
	}
}

// View implements View.
func (w *WorkspaceView) View() string {
	width := max(w.width, 20)
	var b strings.Builder

	header := Styles.Title.Render(w.Project+" / "+w.Text) +
		Styles.Muted.Render(fmt.Sprintf("  segment %d of %d, %d annotated", w.Current+1, len(w.Segments), w.Annotated()))
	b.WriteString(header + "\n")
	hint := "j/k: move  Enter: label  Tab: focus  Esc: back  SPC: commands"
	if w.Guideline != "" {
		hint = w.Guideline + "  " + hint
	}
	b.WriteString(Styles.Hint.Render(textutil.Truncate(hint, width)) + "\n\n")
	w.listY = 3

	bodyLines := 0
	if len(w.Segments) == 0 {
		b.WriteString(Styles.Empty.Render("This text has no segments.") + "\n")
		w.segLines = 0
		bodyLines = 1
	} else {
		b.WriteString(w.renderSegments(width))
		bodyLines = w.segLines
	}
	b.WriteString("\n")

	w.selY = w.listY + bodyLines + 1
	block := w.selView.Render(width)
	w.sel.SetBounds(pointer.Bounds{X: 0, Y: w.selY, Width: width, Height: lipgloss.Height(block)})
	b.WriteString(block + "\n")

	if usage := w.renderUsage(width); usage != "" {
		b.WriteString("\n" + usage)
	}
	return b.String()
}

// visibleSegments is how many segment rows fit above the selector.
func (w *WorkspaceView) visibleSegments() int {
	reserved := 8 + w.selView.maxRows()
	return max(3, w.height-reserved)
}

func (w *WorkspaceView) renderSegments(width int) string {
	rows := min(w.visibleSegments(), len(w.Segments))
	if w.Current < w.segTop {
		w.segTop = w.Current
	} else if w.Current >= w.segTop+rows {
		w.segTop = w.Current - rows + 1
	}
	w.segTop = max(0, min(w.segTop, len(w.Segments)-rows))
	w.segLines = rows

	var b strings.Builder
	for i := w.segTop; i < w.segTop+rows; i++ {
		seg := w.Segments[i]
		cursor := "  "
		style := Styles.Normal
		if i == w.Current {
			cursor = Styles.Selected.Render("▸ ")
			style = Styles.Current
		}
		num := Styles.Muted.Render(fmt.Sprintf("%3d ", i+1))
		marks := w.renderMarks(w.Selections[i])
		avail := width - 6 - lipgloss.Width(marks)
		b.WriteString(cursor + num + style.Render(textutil.PadRight(seg.Text, max(avail, 8))) + marks + "\n")
	}
	return b.String()
}

// renderMarks draws a colored dot per resolved label of a segment.
func (w *WorkspaceView) renderMarks(ids []string) string {
	resolved := label.Resolve(w.labels, ids)
	if len(resolved) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(" ")
	for _, l := range resolved {
		b.WriteString(SwatchStyle(l.Color).Render("●"))
	}
	return b.String()
}

func (w *WorkspaceView) renderUsage(width int) string {
	if len(w.Usage) == 0 {
		return ""
	}
	ids := make([]string, 0, len(w.Usage))
	for id := range w.Usage {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if w.Usage[ids[i]] != w.Usage[ids[j]] {
			return w.Usage[ids[i]] > w.Usage[ids[j]]
		}
		return ids[i] < ids[j]
	})
	names := make(map[string]string, len(w.labels))
	for _, l := range w.labels {
		names[l.ID] = l.Name
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			name = id
		}
		parts = append(parts, fmt.Sprintf("%s %d", name, w.Usage[id]))
	}
	return Styles.Muted.Render(textutil.Truncate("project usage: "+strings.Join(parts, " · "), width))
}
