package model

import "slices"

// SeriesStore is an ordered, position-unique collection of samples.
// Entries are always sorted ascending by Position and no two entries share a
// Position.
type SeriesStore struct {
	samples []Sample
}

// NewSeriesStore creates an empty SeriesStore.
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{}
}

// Upsert inserts a sample at position, or overwrites the value of the sample
// already stored there. It reports whether a new entry was inserted.
//
// The insertion point is the lower bound of position: the smallest index i
// with samples[i].Position >= position.
func (s *SeriesStore) Upsert(position, value float64) (inserted bool) {
	i, found := s.search(position)
	if found {
		s.samples[i].Value = value
		return false
	}
	s.samples = slices.Insert(s.samples, i, Sample{Position: position, Value: value})
	return true
}

// search returns the lower bound of position and whether the entry there
// holds exactly that position.
func (s *SeriesStore) search(position float64) (int, bool) {
	return slices.BinarySearchFunc(s.samples, position, func(e Sample, p float64) int {
		switch {
		case e.Position < p:
			return -1
		case e.Position > p:
			return 1
		}
		return 0
	})
}

// Len returns the number of samples.
func (s *SeriesStore) Len() int {
	return len(s.samples)
}

// At returns the coordinates of the i-th sample in ascending position order.
func (s *SeriesStore) At(i int) (x, y float64) {
	e := s.samples[i]
	return e.Position, e.Value
}

// Get returns the value stored at position, if any.
func (s *SeriesStore) Get(position float64) (float64, bool) {
	if i, found := s.search(position); found {
		return s.samples[i].Value, true
	}
	return 0, false
}

// Samples returns a copy of the stored samples in ascending position order.
func (s *SeriesStore) Samples() []Sample {
	return slices.Clone(s.samples)
}

// Clear removes all samples.
func (s *SeriesStore) Clear() {
	s.samples = s.samples[:0]
}
