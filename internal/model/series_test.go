package model

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesStore_UpsertOutOfOrder(t *testing.T) {
	s := NewSeriesStore()
	assert.True(t, s.Upsert(120000, 73.5))
	assert.True(t, s.Upsert(60000, 81.0))
	assert.False(t, s.Upsert(60000, 79.2))

	assert.Equal(t, []Sample{
		{Position: 60000, Value: 79.2},
		{Position: 120000, Value: 73.5},
	}, s.Samples())
}

func TestSeriesStore_InsertAtEnds(t *testing.T) {
	s := NewSeriesStore()
	s.Upsert(50, 1)
	s.Upsert(10, 2) // front
	s.Upsert(90, 3) // back
	s.Upsert(30, 4) // middle
	s.Upsert(70, 5) // middle

	require.Equal(t, 5, s.Len())
	var xs []float64
	for i := 0; i < s.Len(); i++ {
		x, _ := s.At(i)
		xs = append(xs, x)
	}
	assert.Equal(t, []float64{10, 30, 50, 70, 90}, xs)
}

func TestSeriesStore_RandomSequenceKeepsOrderAndLastValue(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := NewSeriesStore()
	last := map[float64]float64{}

	for i := 0; i < 2000; i++ {
		pos := float64(rng.IntN(200) * 1000)
		val := rng.Float64() * 100
		s.Upsert(pos, val)
		last[pos] = val
	}

	samples := s.Samples()
	require.Len(t, samples, len(last))
	assert.True(t, sort.SliceIsSorted(samples, func(i, j int) bool {
		return samples[i].Position < samples[j].Position
	}))
	for i := 1; i < len(samples); i++ {
		assert.Less(t, samples[i-1].Position, samples[i].Position, "duplicate or unordered position at %d", i)
	}
	for _, e := range samples {
		assert.Equal(t, last[e.Position], e.Value, "position %v", e.Position)
	}
}

func TestSeriesStore_ValueNotClamped(t *testing.T) {
	s := NewSeriesStore()
	s.Upsert(1, 140)
	s.Upsert(2, -5)

	v, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, 140.0, v)
	v, ok = s.Get(2)
	require.True(t, ok)
	assert.Equal(t, -5.0, v)
}

func TestSeriesStore_GetMissing(t *testing.T) {
	s := NewSeriesStore()
	s.Upsert(10, 1)
	_, ok := s.Get(11)
	assert.False(t, ok)
	_, ok = s.Get(0)
	assert.False(t, ok)
}

func TestSeriesStore_SamplesIsCopy(t *testing.T) {
	s := NewSeriesStore()
	s.Upsert(1, 1)
	out := s.Samples()
	out[0].Value = 99

	v, _ := s.Get(1)
	assert.Equal(t, 1.0, v)
}

func TestSeriesStore_Clear(t *testing.T) {
	s := NewSeriesStore()
	s.Upsert(1, 1)
	s.Upsert(2, 2)
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Samples())

	s.Upsert(3, 3)
	assert.Equal(t, 1, s.Len())
}
