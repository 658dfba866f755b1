package tui

import (
	"time"

	"github.com/dm/karma-go/internal/chart"
	"github.com/dm/karma-go/internal/engine"
	"github.com/dm/karma-go/internal/model"
)

// GateResultMsg reports the outcome of waiting for the chart library.
type GateResultMsg struct {
	Pending engine.Pending
	Lib     chart.Library
	Err     error
}

// ResultMsg delivers one sweep result to the event loop.
type ResultMsg struct {
	Result engine.Result
	src    <-chan engine.Result
}

// SweepDoneMsg signals that a sweep's result channel was closed.
type SweepDoneMsg struct{ SweepID string }

// SelectionMsg delivers the measurement of the target under the range
// control.
type SelectionMsg struct {
	Target      int
	Run         model.RunIdentity
	Measurement model.Measurement
	Err         error
}

// FrameMsg runs the callbacks queued for the next animation frame.
type FrameMsg time.Time
