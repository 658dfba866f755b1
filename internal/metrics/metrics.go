// Package metrics exports engine and sweep activity to prometheus.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements engine.Recorder and records sweep timings.
type Metrics struct {
	samples     prometheus.Counter
	markers     prometheus.Counter
	dropped     *prometheus.CounterVec
	redraws     prometheus.Counter
	timeouts    prometheus.Counter
	chartReady  prometheus.Gauge
	measureTime *prometheus.HistogramVec

	chartState atomic.Value // string
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "karma_samples_accepted_total",
			Help: "Samples written to the live series.",
		}),
		markers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "karma_failure_markers_total",
			Help: "Failure markers added to the overlay.",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "karma_stale_updates_total",
			Help: "Producer calls dropped because their run was superseded.",
		}, []string{"kind"}),
		redraws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "karma_chart_redraws_total",
			Help: "Redraw requests issued to the chart.",
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "karma_chart_load_timeouts_total",
			Help: "Times the chart library failed to load within its budget.",
		}),
		chartReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "karma_chart_ready",
			Help: "1 while a chart instance exists.",
		}),
		measureTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "karma_measurement_duration_seconds",
			Help:    "Time spent measuring one target.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.samples, m.markers, m.dropped, m.redraws, m.timeouts, m.chartReady, m.measureTime)
	m.chartState.Store("starting")
	return m
}

func (m *Metrics) SampleAccepted()           { m.samples.Inc() }
func (m *Metrics) MarkerAdded()              { m.markers.Inc() }
func (m *Metrics) UpdateDropped(kind string) { m.dropped.WithLabelValues(kind).Inc() }
func (m *Metrics) Redraw()                   { m.redraws.Inc() }
func (m *Metrics) GateTimeout()              { m.timeouts.Inc() }

// ObserveMeasurement records how long one sweep target took.
func (m *Metrics) ObserveMeasurement(d time.Duration, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	m.measureTime.WithLabelValues(outcome).Observe(d.Seconds())
}

// SetChartState publishes the chart lifecycle state for the health endpoint.
func (m *Metrics) SetChartState(state string, ready bool) {
	m.chartState.Store(state)
	if ready {
		m.chartReady.Set(1)
	} else {
		m.chartReady.Set(0)
	}
}

// ChartState returns the last published chart state.
func (m *Metrics) ChartState() string {
	return m.chartState.Load().(string)
}
