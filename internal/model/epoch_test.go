package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunEpoch_NothingActiveInitially(t *testing.T) {
	var e RunEpoch
	assert.False(t, e.IsActive(RunIdentity{}))
	_, ok := e.Active()
	assert.False(t, ok)
}

func TestRunEpoch_ComparesByValue(t *testing.T) {
	var e RunEpoch
	e.SetActive(RunIdentity{LapCount: 2, PlayerCount: 4})

	assert.True(t, e.IsActive(RunIdentity{LapCount: 2, PlayerCount: 4}))
	assert.False(t, e.IsActive(RunIdentity{LapCount: 9, PlayerCount: 9}))
	assert.False(t, e.IsActive(RunIdentity{LapCount: 2, PlayerCount: 5}))
	assert.False(t, e.IsActive(RunIdentity{LapCount: 4, PlayerCount: 2}))
}

func TestRunEpoch_SetActiveSupersedes(t *testing.T) {
	var e RunEpoch
	old := RunIdentity{LapCount: 25, PlayerCount: 32}
	e.SetActive(old)
	e.SetActive(RunIdentity{LapCount: 25, PlayerCount: 16})

	assert.False(t, e.IsActive(old))
	active, ok := e.Active()
	assert.True(t, ok)
	assert.Equal(t, RunIdentity{LapCount: 25, PlayerCount: 16}, active)
}
