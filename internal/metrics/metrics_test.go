package metrics

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/karma-go/internal/engine"
)

var _ engine.Recorder = (*Metrics)(nil)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SampleAccepted()
	m.SampleAccepted()
	m.MarkerAdded()
	m.UpdateDropped("sample")
	m.UpdateDropped("sample")
	m.UpdateDropped("marker")
	m.Redraw()
	m.GateTimeout()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.samples))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.markers))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dropped.WithLabelValues("sample")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped.WithLabelValues("marker")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.redraws))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.timeouts))
}

func TestMetrics_ChartState(t *testing.T) {
	m := New(prometheus.NewRegistry())
	assert.Equal(t, "starting", m.ChartState())

	m.SetChartState("ready", true)
	assert.Equal(t, "ready", m.ChartState())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chartReady))

	m.SetChartState("unavailable", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.chartReady))
}

func TestMetrics_ObserveMeasurement(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveMeasurement(120*time.Millisecond, false)
	m.ObserveMeasurement(2*time.Second, true)

	assert.Equal(t, 2, testutil.CollectAndCount(m.measureTime))
}

func newTestServer(t *testing.T) (*Server, *Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := New(reg)
	return NewServer("127.0.0.1:0", m, reg, nil), m
}

func TestServer_Healthz(t *testing.T) {
	srv, m := newTestServer(t)
	m.SetChartState("ready", true)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ready", body.Chart)
}

func TestServer_Metrics(t *testing.T) {
	srv, m := newTestServer(t)
	m.SampleAccepted()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "karma_samples_accepted_total 1")
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
