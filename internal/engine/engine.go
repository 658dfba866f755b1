package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/dm/karma-go/internal/chart"
	"github.com/dm/karma-go/internal/format"
	"github.com/dm/karma-go/internal/model"
)

// State is the lifecycle state of an Engine.
type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// ErrSuperseded is returned by Complete when a later Begin has started
// another run, or when the Pending was already completed.
var ErrSuperseded = errors.New("initialization superseded")

// Options configures an Engine. Surface is required; the rest is optional.
type Options struct {
	Gate     *Gate
	Surface  *chart.Surface
	Layout   *LayoutSynchronizer
	Theme    chart.Theme
	Recorder Recorder
	Logger   *slog.Logger
	// XTicks is the number of labelled ticks on the position axis.
	XTicks int
}

// Engine owns the live chart: its instance, the series and failure overlay
// it draws, and the identity of the run whose data it accepts. It is not
// safe for concurrent use; all calls must come from one goroutine.
type Engine struct {
	gate     *Gate
	surface  *chart.Surface
	layout   *LayoutSynchronizer
	theme    chart.Theme
	recorder Recorder
	logger   *slog.Logger
	xTicks   int

	epoch    model.RunEpoch
	series   *model.SeriesStore
	failures *model.FailureOverlay
	chart    chart.Instance
	xMin     float64
	xMax     float64
	gen      uint64
}

// Pending is an initialization started by Begin and awaiting a library.
type Pending struct {
	gen     uint64
	Run     model.RunIdentity
	AxisMin float64
	AxisMax float64
}

// New creates an uninitialized Engine.
func New(opts Options) *Engine {
	e := &Engine{
		gate:     opts.Gate,
		surface:  opts.Surface,
		layout:   opts.Layout,
		theme:    opts.Theme,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		xTicks:   opts.XTicks,
	}
	if e.surface == nil {
		e.surface = &chart.Surface{}
	}
	if e.recorder == nil {
		e.recorder = nopRecorder{}
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// Init tears down the current chart, activates run and builds a new chart
// once the library is available. If the library never loads the engine
// stays uninitialized and the error wraps ErrGateTimeout.
func (e *Engine) Init(ctx context.Context, axisMin, axisMax float64, run model.RunIdentity) error {
	p := e.Begin(axisMin, axisMax, run)
	lib, err := e.AwaitLibrary(ctx)
	if err != nil {
		e.Fail(p, err)
		return err
	}
	return e.Complete(p, lib)
}

// Begin performs the synchronous half of Init: the old chart is destroyed,
// the layout subscription removed and run becomes the active run. From here
// until Complete every Upsert and Mark is a no-op.
func (e *Engine) Begin(axisMin, axisMax float64, run model.RunIdentity) Pending {
	e.teardown()
	e.epoch.SetActive(run)
	e.gen++
	return Pending{gen: e.gen, Run: run, AxisMin: axisMin, AxisMax: axisMax}
}

// AwaitLibrary waits on the gate. It touches no engine state and may run on
// any goroutine.
func (e *Engine) AwaitLibrary(ctx context.Context) (chart.Library, error) {
	if e.gate == nil {
		return nil, fmt.Errorf("%w: no gate configured", ErrGateTimeout)
	}
	return e.gate.Await(ctx)
}

// Fail reports that the library wait for p ended with err. It returns false,
// recording nothing, when p has been superseded.
func (e *Engine) Fail(p Pending, err error) bool {
	if !e.IsCurrent(p) {
		return false
	}
	if errors.Is(err, ErrGateTimeout) {
		e.recorder.GateTimeout()
	}
	return true
}

// Complete constructs the chart for p with empty data and arms the layout
// synchronizer. It returns ErrSuperseded when Begin was called again since p
// was issued or p already has a chart.
func (e *Engine) Complete(p Pending, lib chart.Library) error {
	if p.gen != e.gen || e.chart != nil {
		return ErrSuperseded
	}
	series := model.NewSeriesStore()
	failures := model.NewFailureOverlay()
	inst, err := lib.New(e.surface, e.config(p, series, failures))
	if err != nil {
		return fmt.Errorf("construct chart: %w", err)
	}
	e.series, e.failures, e.chart = series, failures, inst
	e.xMin, e.xMax = p.AxisMin, p.AxisMax
	if e.layout != nil {
		e.layout.Arm(inst)
	}
	e.logger.Debug("chart ready",
		"lap_count", p.Run.LapCount,
		"player_count", p.Run.PlayerCount,
		"axis_min", p.AxisMin,
		"axis_max", p.AxisMax)
	return nil
}

// IsCurrent reports whether p was issued by the latest Begin.
func (e *Engine) IsCurrent(p Pending) bool {
	return p.gen == e.gen
}

func (e *Engine) teardown() {
	if e.layout != nil {
		e.layout.Disarm()
	}
	if e.chart != nil {
		e.chart.Destroy()
		e.chart = nil
	}
	e.series, e.failures = nil, nil
}

func (e *Engine) config(p Pending, series *model.SeriesStore, failures *model.FailureOverlay) chart.Config {
	return chart.Config{
		X: chart.Axis{
			Min:    p.AxisMin,
			Max:    p.AxisMax,
			Ticks:  e.xTicks,
			Format: format.FormatTick,
		},
		Y: chart.Axis{
			Min:    0,
			Max:    100,
			Format: func(v float64) string { return fmt.Sprintf("%.0f", v) },
		},
		Tooltip: chart.Tooltip{
			Title: format.FormatTooltip,
			Label: format.FormatPercent,
		},
		Datasets: []chart.Dataset{
			{Label: "similarity", Glyph: '•', Line: true, Data: series},
			{Label: "failed", Glyph: '×', Overlay: true, Data: failures},
		},
		Theme:   e.theme,
		Animate: false,
	}
}

// Upsert records value at position for run and redraws. Calls for an
// inactive run, for a position that is negative or not a number, or made
// while no chart exists, are dropped.
func (e *Engine) Upsert(position, value float64, run model.RunIdentity) {
	if !e.epoch.IsActive(run) {
		e.recorder.UpdateDropped("sample")
		return
	}
	if !validPosition(position) {
		e.recorder.UpdateDropped("invalid")
		return
	}
	if e.chart == nil {
		return
	}
	e.series.Upsert(position, value)
	e.recorder.SampleAccepted()
	e.logger.Debug("sample", "position", position, "value", value)
	e.redraw()
}

// Mark records a failed measurement at position for run. A position is
// marked at most once per run; repeats do not redraw.
func (e *Engine) Mark(position float64, run model.RunIdentity) {
	if !e.epoch.IsActive(run) {
		e.recorder.UpdateDropped("marker")
		return
	}
	if !validPosition(position) {
		e.recorder.UpdateDropped("invalid")
		return
	}
	if e.chart == nil {
		return
	}
	if !e.failures.Mark(position) {
		return
	}
	e.recorder.MarkerAdded()
	e.logger.Debug("failure marker", "position", position)
	e.redraw()
}

// validPosition rejects positions the ordered series cannot hold.
func validPosition(p float64) bool {
	return p >= 0 && !math.IsInf(p, 1)
}

func (e *Engine) redraw() {
	e.chart.Update()
	e.recorder.Redraw()
}

// State reports whether a chart instance exists.
func (e *Engine) State() State {
	if e.chart == nil {
		return Uninitialized
	}
	return Ready
}

// Active returns the active run.
func (e *Engine) Active() (model.RunIdentity, bool) {
	return e.epoch.Active()
}

// IsActive reports whether run is the active run.
func (e *Engine) IsActive(run model.RunIdentity) bool {
	return e.epoch.IsActive(run)
}

// Bounds returns the position axis range of the current chart.
func (e *Engine) Bounds() (axisMin, axisMax float64) {
	return e.xMin, e.xMax
}

// Samples returns a copy of the current series.
func (e *Engine) Samples() []model.Sample {
	if e.series == nil {
		return nil
	}
	return e.series.Samples()
}

// Failures returns a copy of the current failure markers.
func (e *Engine) Failures() []model.FailureMarker {
	if e.failures == nil {
		return nil
	}
	return e.failures.Markers()
}

// View renders the chart, or "" when there is none.
func (e *Engine) View() string {
	if e.chart == nil {
		return ""
	}
	return e.chart.View()
}

// Tooltip returns the readout of the sample nearest to position.
func (e *Engine) Tooltip(position float64) (title, label string, ok bool) {
	if e.chart == nil {
		return "", "", false
	}
	return e.chart.Tooltip(position)
}
