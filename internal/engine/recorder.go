package engine

// Recorder observes engine activity. Implementations must be safe for
// concurrent use; the metrics package provides one backed by prometheus.
type Recorder interface {
	SampleAccepted()
	MarkerAdded()
	// UpdateDropped counts producer calls rejected by the run guard. kind is
	// "sample" or "marker".
	UpdateDropped(kind string)
	Redraw()
	GateTimeout()
}

type nopRecorder struct{}

func (nopRecorder) SampleAccepted()      {}
func (nopRecorder) MarkerAdded()         {}
func (nopRecorder) UpdateDropped(string) {}
func (nopRecorder) Redraw()              {}
func (nopRecorder) GateTimeout()         {}
