// Package pointer provides a process-wide pointer event hub. The root model
// publishes every mouse press; components that need outside-click detection
// subscribe for their lifetime and release the subscription when destroyed.
package pointer

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Listener receives published pointer events.
type Listener func(tea.MouseMsg)

type subscription struct {
	id int
	fn Listener
}

// Hub broadcasts pointer events to subscribers in subscription order.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns a release func that removes it.
// Release is idempotent and safe to defer.
func (h *Hub) Subscribe(fn Listener) (release func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscription{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers msg to every current subscriber synchronously.
// Listeners may subscribe or release during delivery; changes apply to the
// next Publish.
func (h *Hub) Publish(msg tea.MouseMsg) {
	h.mu.Lock()
	subs := make([]subscription, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		s.fn(msg)
	}
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Bounds is a rectangle in terminal cells.
type Bounds struct {
	X, Y, Width, Height int
}

// Contains reports whether the cell (x, y) falls inside b.
// A zero-size rectangle contains nothing.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// IsPress reports whether msg is a button press (as opposed to motion,
// release, or wheel scrolling).
func IsPress(msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionPress {
		return false
	}
	switch msg.Button {
	case tea.MouseButtonLeft, tea.MouseButtonMiddle, tea.MouseButtonRight:
		return true
	}
	return false
}
