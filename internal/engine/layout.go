package engine

// Viewport delivers resize notifications. OnResize registers fn and returns a
// function that removes it.
type Viewport interface {
	OnResize(fn func()) (cancel func())
}

// FrameScheduler runs fn once on the next animation frame.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// WidthControl is a companion control whose width follows the chart.
type WidthControl interface {
	SetWidth(w int)
}

// WidthSource reports the rendered width of the chart surface.
type WidthSource interface {
	Width() int
}

// LayoutSynchronizer keeps a WidthControl as wide as the chart minus a fixed
// buffer. Resize events are coalesced into at most one pass per frame.
type LayoutSynchronizer struct {
	viewport Viewport
	frames   FrameScheduler
	control  WidthControl
	buffer   int

	src         WidthSource
	unsubscribe func()
	pending     bool
	// gen invalidates frame callbacks scheduled before the last Disarm.
	gen uint64
}

// NewLayoutSynchronizer creates a disarmed synchronizer.
func NewLayoutSynchronizer(viewport Viewport, frames FrameScheduler, control WidthControl, buffer int) *LayoutSynchronizer {
	return &LayoutSynchronizer{
		viewport: viewport,
		frames:   frames,
		control:  control,
		buffer:   buffer,
	}
}

// Arm applies the width of src immediately and subscribes to resizes. Any
// previous subscription is removed first.
func (l *LayoutSynchronizer) Arm(src WidthSource) {
	l.Disarm()
	l.src = src
	l.sync()
	l.unsubscribe = l.viewport.OnResize(l.onResize)
}

// Disarm removes the resize subscription and drops any pending pass.
func (l *LayoutSynchronizer) Disarm() {
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
	l.src = nil
	l.pending = false
	l.gen++
}

// Armed reports whether a resize subscription is installed.
func (l *LayoutSynchronizer) Armed() bool {
	return l.unsubscribe != nil
}

func (l *LayoutSynchronizer) onResize() {
	if l.pending {
		return
	}
	l.pending = true
	gen := l.gen
	l.frames.RequestFrame(func() {
		if gen != l.gen {
			return
		}
		l.pending = false
		l.sync()
	})
}

func (l *LayoutSynchronizer) sync() {
	if l.src == nil {
		return
	}
	l.control.SetWidth(max(0, l.src.Width()-l.buffer))
}
