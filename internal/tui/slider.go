package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/dm/karma-go/internal/chart"
	"github.com/dm/karma-go/internal/karma"
)

// rangeControl is the target selector drawn under the chart. Its width is
// set by the layout synchronizer so the bar spans the plot area.
type rangeControl struct {
	bar   progress.Model
	index int
	width int
}

func newRangeControl() *rangeControl {
	bar := progress.New(
		progress.WithSolidFill(string(colorCyan)),
		progress.WithoutPercentage(),
	)
	bar.Width = 0
	return &rangeControl{bar: bar, index: karma.SliderPositions / 2}
}

// SetWidth implements engine.WidthControl.
func (r *rangeControl) SetWidth(w int) {
	r.width = w
	r.bar.Width = w
}

func (r *rangeControl) move(delta int) bool {
	next := min(max(r.index+delta, 0), karma.SliderPositions-1)
	if next == r.index {
		return false
	}
	r.index = next
	return true
}

func (r *rangeControl) percent() float64 {
	return float64(r.index) / float64(karma.SliderPositions-1)
}

// View renders the bar indented to start where the plot area starts.
func (r *rangeControl) View() string {
	if r.width <= 0 {
		return ""
	}
	return strings.Repeat(" ", chart.GutterWidth) + r.bar.ViewAs(r.percent())
}
