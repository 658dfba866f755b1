package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dm/karma-go/internal/chart"
	"github.com/dm/karma-go/internal/model"
)

// MockMeasurer implements Measurer for testing.
type MockMeasurer struct {
	MeasureFn func(ctx context.Context, target int, run model.RunIdentity) (model.Measurement, error)

	mu    sync.Mutex
	calls []int
}

func (m *MockMeasurer) Measure(ctx context.Context, target int, run model.RunIdentity) (model.Measurement, error) {
	m.mu.Lock()
	m.calls = append(m.calls, target)
	m.mu.Unlock()
	if m.MeasureFn != nil {
		return m.MeasureFn(ctx, target, run)
	}
	return model.Measurement{Target: target, Run: run, Similarity: 0.5}, nil
}

func (m *MockMeasurer) Calls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.calls...)
}

var errMockFailure = errors.New("mock failure")

// fakeSource becomes ready after a number of lookups.
type fakeSource struct {
	lib     chart.Library
	readyAt int
	lookups int
}

func (f *fakeSource) Lookup() (chart.Library, bool) {
	f.lookups++
	if f.lib == nil || f.lookups < f.readyAt {
		return nil, false
	}
	return f.lib, true
}

// fakeLibrary records every instance it builds.
type fakeLibrary struct {
	instances []*fakeInstance
	err       error
}

func (l *fakeLibrary) New(surface *chart.Surface, cfg chart.Config) (chart.Instance, error) {
	if l.err != nil {
		return nil, l.err
	}
	inst := &fakeInstance{surface: surface, cfg: cfg}
	l.instances = append(l.instances, inst)
	return inst, nil
}

func (l *fakeLibrary) live() int {
	n := 0
	for _, inst := range l.instances {
		if !inst.destroyed {
			n++
		}
	}
	return n
}

type fakeInstance struct {
	surface   *chart.Surface
	cfg       chart.Config
	updates   int
	destroyed bool
}

func (i *fakeInstance) Update()      { i.updates++ }
func (i *fakeInstance) Destroy()     { i.destroyed = true }
func (i *fakeInstance) Width() int   { return i.surface.Width }
func (i *fakeInstance) View() string { return "" }

func (i *fakeInstance) Tooltip(float64) (string, string, bool) { return "", "", false }

// fakeViewport fires resize handlers on demand.
type fakeViewport struct {
	handlers map[int]func()
	next     int
}

func (v *fakeViewport) OnResize(fn func()) func() {
	if v.handlers == nil {
		v.handlers = make(map[int]func())
	}
	id := v.next
	v.next++
	v.handlers[id] = fn
	return func() { delete(v.handlers, id) }
}

func (v *fakeViewport) resize() {
	for _, fn := range v.handlers {
		fn()
	}
}

// fakeFrames queues callbacks until flush.
type fakeFrames struct {
	queued []func()
}

func (f *fakeFrames) RequestFrame(fn func()) { f.queued = append(f.queued, fn) }

func (f *fakeFrames) flush() {
	q := f.queued
	f.queued = nil
	for _, fn := range q {
		fn()
	}
}

type fakeControl struct {
	widths []int
}

func (c *fakeControl) SetWidth(w int) { c.widths = append(c.widths, w) }

// countingRecorder counts Recorder calls.
type countingRecorder struct {
	accepted, markers, redraws, timeouts int
	dropped                              map[string]int
}

func (r *countingRecorder) SampleAccepted() { r.accepted++ }
func (r *countingRecorder) MarkerAdded()    { r.markers++ }
func (r *countingRecorder) Redraw()         { r.redraws++ }
func (r *countingRecorder) GateTimeout()    { r.timeouts++ }

func (r *countingRecorder) UpdateDropped(kind string) {
	if r.dropped == nil {
		r.dropped = make(map[string]int)
	}
	r.dropped[kind]++
}

// recordingHandler keeps every log record it handles.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) all() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]slog.Record(nil), h.records...)
}
