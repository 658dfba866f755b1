package model

import "slices"

// FailureOverlay holds failure markers for the current run. Markers are never
// duplicated and never removed while the run lasts.
type FailureOverlay struct {
	markers []FailureMarker
}

// NewFailureOverlay creates an empty FailureOverlay.
func NewFailureOverlay() *FailureOverlay {
	return &FailureOverlay{}
}

// Mark appends a marker at position unless one is already present.
// It reports whether a marker was added.
func (o *FailureOverlay) Mark(position float64) bool {
	if o.Has(position) {
		return false
	}
	o.markers = append(o.markers, FailureMarker{Position: position})
	return true
}

// Has reports whether a marker exists at position.
func (o *FailureOverlay) Has(position float64) bool {
	return slices.ContainsFunc(o.markers, func(m FailureMarker) bool {
		return m.Position == position
	})
}

// Len returns the number of markers.
func (o *FailureOverlay) Len() int {
	return len(o.markers)
}

// At returns the coordinates of the i-th marker in insertion order. Markers
// sit on the floor of the value axis.
func (o *FailureOverlay) At(i int) (x, y float64) {
	return o.markers[i].Position, 0
}

// Markers returns a copy of the markers in insertion order.
func (o *FailureOverlay) Markers() []FailureMarker {
	return slices.Clone(o.markers)
}
