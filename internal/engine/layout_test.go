package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dm/karma-go/internal/chart"
)

func newTestLayout(buffer int) (*LayoutSynchronizer, *fakeViewport, *fakeFrames, *fakeControl) {
	vp := &fakeViewport{}
	frames := &fakeFrames{}
	ctl := &fakeControl{}
	return NewLayoutSynchronizer(vp, frames, ctl, buffer), vp, frames, ctl
}

func TestLayoutSynchronizer_ArmAppliesWidthImmediately(t *testing.T) {
	l, vp, _, ctl := newTestLayout(6)
	surface := &chart.Surface{Width: 80}

	l.Arm(&fakeInstance{surface: surface})

	assert.Equal(t, []int{74}, ctl.widths)
	assert.True(t, l.Armed())
	assert.Len(t, vp.handlers, 1)
}

func TestLayoutSynchronizer_CoalescesResizesPerFrame(t *testing.T) {
	l, vp, frames, ctl := newTestLayout(6)
	surface := &chart.Surface{Width: 80}
	l.Arm(&fakeInstance{surface: surface})

	surface.Width = 120
	for range 5 {
		vp.resize()
	}
	assert.Len(t, frames.queued, 1)
	assert.Equal(t, []int{74}, ctl.widths, "no update before the frame")

	frames.flush()
	assert.Equal(t, []int{74, 114}, ctl.widths)

	// A resize after the frame schedules a new pass.
	surface.Width = 90
	vp.resize()
	frames.flush()
	assert.Equal(t, []int{74, 114, 84}, ctl.widths)
}

func TestLayoutSynchronizer_RearmReplacesSubscription(t *testing.T) {
	l, vp, frames, ctl := newTestLayout(6)
	surface := &chart.Surface{Width: 80}

	l.Arm(&fakeInstance{surface: surface})
	vp.resize()
	l.Arm(&fakeInstance{surface: surface})
	l.Arm(&fakeInstance{surface: surface})

	assert.Len(t, vp.handlers, 1)
	frames.flush()
	assert.Equal(t, []int{74, 74, 74}, ctl.widths, "frame scheduled before re-arm is ignored")

	vp.resize()
	assert.Len(t, frames.queued, 1)
}

func TestLayoutSynchronizer_Disarm(t *testing.T) {
	l, vp, frames, ctl := newTestLayout(6)
	l.Arm(&fakeInstance{surface: &chart.Surface{Width: 80}})

	vp.resize()
	l.Disarm()
	frames.flush()

	assert.False(t, l.Armed())
	assert.Empty(t, vp.handlers)
	assert.Equal(t, []int{74}, ctl.widths)
}

func TestLayoutSynchronizer_WidthNeverNegative(t *testing.T) {
	l, _, _, ctl := newTestLayout(6)
	l.Arm(&fakeInstance{surface: &chart.Surface{Width: 4}})
	assert.Equal(t, []int{0}, ctl.widths)
}
