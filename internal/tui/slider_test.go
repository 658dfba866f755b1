package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/dm/karma-go/internal/chart"
	"github.com/dm/karma-go/internal/karma"
)

func TestRangeControl_StartsCentered(t *testing.T) {
	r := newRangeControl()
	assert.Equal(t, karma.SliderPositions/2, r.index)
	assert.Empty(t, r.View(), "no width, nothing to draw")
}

func TestRangeControl_MoveClamps(t *testing.T) {
	r := newRangeControl()

	assert.True(t, r.move(-1000))
	assert.Equal(t, 0, r.index)
	assert.False(t, r.move(-1), "already at the first position")

	assert.True(t, r.move(1000))
	assert.Equal(t, karma.SliderPositions-1, r.index)
	assert.False(t, r.move(1))
	assert.InDelta(t, 1.0, r.percent(), 1e-9)
}

func TestRangeControl_ViewSpansPlotArea(t *testing.T) {
	r := newRangeControl()
	r.SetWidth(40)

	view := r.View()
	assert.Equal(t, chart.GutterWidth+40, lipgloss.Width(view))
	assert.True(t, strings.HasPrefix(view, strings.Repeat(" ", chart.GutterWidth)))
}
