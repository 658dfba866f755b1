// Package chart is the plotting dependency of the engine: a typed
// configuration, the Library/Instance contracts, a Host through which a
// Library becomes available asynchronously, and a terminal scatter renderer.
package chart

import "github.com/charmbracelet/lipgloss"

// Series is a read-only view of plotted points. Implementations own the
// data; an Instance reads it on every redraw.
type Series interface {
	Len() int
	At(i int) (x, y float64)
}

// Axis configures one axis.
type Axis struct {
	Min, Max float64
	// Ticks is the number of labelled ticks. Zero selects a default.
	Ticks int
	// Format renders a tick label. Nil uses %g.
	Format func(v float64) string
}

// Tooltip formats the hover readout for a point.
type Tooltip struct {
	Title func(x float64) string
	Label func(y float64) string
}

// Dataset is one plotted series.
type Dataset struct {
	Label string
	Color lipgloss.Color
	Glyph rune
	// Line joins consecutive points.
	Line bool
	// Overlay datasets take the theme's failure color when Color is empty.
	Overlay bool
	Data    Series
}

// Theme holds the color tokens of a chart.
type Theme struct {
	Axis    lipgloss.Color
	Label   lipgloss.Color
	Sample  lipgloss.Color
	Failure lipgloss.Color
}

// Config is everything an Instance needs to draw.
type Config struct {
	X, Y     Axis
	Tooltip  Tooltip
	Datasets []Dataset
	Theme    Theme
	// Animate enables transitions between redraws.
	Animate bool
}

// Surface is the drawing region a chart renders into. The host resizes it;
// an Instance reads its dimensions on each render.
type Surface struct {
	Width, Height int
}

// Library constructs chart instances.
type Library interface {
	New(surface *Surface, cfg Config) (Instance, error)
}

// Instance is a live chart.
type Instance interface {
	// Update redraws from the current dataset contents.
	Update()
	// Destroy releases the instance. It must be called before another
	// instance takes over the same surface.
	Destroy()
	// Width is the rendered width of the drawing surface in cells.
	Width() int
	View() string
	// Tooltip returns the hover readout for the point of dataset 0 nearest
	// to x.
	Tooltip(x float64) (title, label string, ok bool)
}
