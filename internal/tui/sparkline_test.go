package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testColor is a neutral color used for sparkline tests.
var testColor = lipgloss.Color("#ffffff")

func TestRenderSparkline_Empty(t *testing.T) {
	assert.Equal(t, strings.Repeat(" ", 10), stripANSI(RenderSparkline(nil, 10, testColor)))
	assert.Equal(t, strings.Repeat(" ", 10), stripANSI(RenderSparkline([]float64{}, 10, testColor)))
}

func TestRenderSparkline_ZeroWidth(t *testing.T) {
	assert.Empty(t, RenderSparkline([]float64{1, 2, 3}, 0, testColor))
}

func TestRenderSparkline_FlatSitsOnFloor(t *testing.T) {
	result := stripANSI(RenderSparkline([]float64{40, 40, 40, 40}, 4, testColor))
	assert.Equal(t, "▁▁▁▁", result)
}

func TestRenderSparkline_ScalesBetweenMinAndMax(t *testing.T) {
	values := []float64{100, 200, 300, 400, 500, 600, 700, 800}
	result := []rune(stripANSI(RenderSparkline(values, 8, testColor)))

	require.Len(t, result, 8)
	assert.Equal(t, '▁', result[0])
	assert.Equal(t, '█', result[7])
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i], result[i-1], "bars must not decrease for ascending input")
	}
}

func TestRenderSparkline_LeftPads(t *testing.T) {
	result := []rune(stripANSI(RenderSparkline([]float64{1, 2}, 6, testColor)))
	require.Len(t, result, 6)
	assert.Equal(t, "    ", string(result[:4]))
	assert.Equal(t, []rune{'▁', '█'}, result[4:])
}

func TestRenderSparkline_KeepsLastWidthValues(t *testing.T) {
	values := []float64{1000, 1, 2, 3}
	result := []rune(stripANSI(RenderSparkline(values, 3, testColor)))
	require.Len(t, result, 3)
	// The dropped outlier no longer sets the scale.
	assert.Equal(t, []rune{'▁', '▄', '█'}, result)
}
