package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// resizeHub fans terminal resizes out to subscribers. It lives on the event
// loop goroutine.
type resizeHub struct {
	handlers map[int]func()
	next     int
}

func newResizeHub() *resizeHub {
	return &resizeHub{handlers: make(map[int]func())}
}

// OnResize implements engine.Viewport.
func (h *resizeHub) OnResize(fn func()) func() {
	id := h.next
	h.next++
	h.handlers[id] = fn
	return func() { delete(h.handlers, id) }
}

func (h *resizeHub) fire() {
	for _, fn := range h.handlers {
		fn()
	}
}

// frameQueue runs queued callbacks on the next frame tick. At most one tick
// is outstanding.
type frameQueue struct {
	interval time.Duration
	queued   []func()
	ticking  bool
}

// RequestFrame implements engine.FrameScheduler.
func (f *frameQueue) RequestFrame(fn func()) {
	f.queued = append(f.queued, fn)
}

// cmd returns the tick for queued callbacks, or nil when none is needed.
func (f *frameQueue) cmd() tea.Cmd {
	if len(f.queued) == 0 || f.ticking {
		return nil
	}
	f.ticking = true
	return tea.Tick(f.interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func (f *frameQueue) run() {
	f.ticking = false
	q := f.queued
	f.queued = nil
	for _, fn := range q {
		fn()
	}
}
