package model

import "time"

const defaultSparklineCap = 60

// SparklinePoint is one recent sweep result stored in the ring buffer.
type SparklinePoint struct {
	Timestamp  time.Time
	Target     int
	Elapsed    time.Duration
	Similarity float64 // in [0, 1]
	Failed     bool
}

// Field selects the value Values extracts from each point.
type Field int

const (
	// FieldElapsed is the measurement time in milliseconds.
	FieldElapsed Field = iota
	// FieldSimilarity is the similarity in percent; failed points read 0.
	FieldSimilarity
)

// SparklineHistory is a fixed-size ring buffer of SparklinePoints.
// When the buffer is full, new pushes overwrite the oldest entry.
type SparklineHistory struct {
	buf  []SparklinePoint
	head int // index of the next write position
	size int // number of valid entries
}

// NewSparklineHistory creates a SparklineHistory with the given capacity.
// If cap <= 0, the defaultSparklineCap (60) is used.
func NewSparklineHistory(capacity int) *SparklineHistory {
	if capacity <= 0 {
		capacity = defaultSparklineCap
	}
	return &SparklineHistory{
		buf: make([]SparklinePoint, capacity),
	}
}

// Push appends a new point to the history, overwriting the oldest if full.
func (h *SparklineHistory) Push(p SparklinePoint) {
	h.buf[h.head] = p
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries in the history.
func (h *SparklineHistory) Len() int {
	return h.size
}

// Clear resets the history to empty.
func (h *SparklineHistory) Clear() {
	h.head = 0
	h.size = 0
}

// Failures counts failed points currently held.
func (h *SparklineHistory) Failures() int {
	n := 0
	h.each(func(p SparklinePoint) {
		if p.Failed {
			n++
		}
	})
	return n
}

// Values returns field for every point in chronological order (oldest first).
func (h *SparklineHistory) Values(field Field) []float64 {
	out := make([]float64, 0, h.size)
	h.each(func(p SparklinePoint) {
		switch field {
		case FieldElapsed:
			out = append(out, float64(p.Elapsed.Milliseconds()))
		case FieldSimilarity:
			if p.Failed {
				out = append(out, 0)
			} else {
				out = append(out, p.Similarity*100)
			}
		}
	})
	return out
}

func (h *SparklineHistory) each(fn func(SparklinePoint)) {
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := range h.size {
		fn(h.buf[(start+i)%len(h.buf)])
	}
}
