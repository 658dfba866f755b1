package chart

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GutterWidth is the number of columns left of the plot area taken by y-axis
// labels and the axis line.
const GutterWidth = 6

const (
	defaultTicks = 5
	// rows below the plot area: axis line and tick labels.
	footerRows = 2
	lineGlyph  = '·'
)

// ErrNoSurface is returned when an instance is created without a surface.
var ErrNoSurface = errors.New("chart: nil surface")

// Terminal is a Library that renders scatter charts as text.
type Terminal struct {
	theme Theme
}

// NewTerminal creates a terminal Library. Datasets without a color take
// theme tokens.
func NewTerminal(theme Theme) *Terminal {
	return &Terminal{theme: theme}
}

// New creates a Plot drawing into surface.
func (t *Terminal) New(surface *Surface, cfg Config) (Instance, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if cfg.X.Max < cfg.X.Min || cfg.Y.Max < cfg.Y.Min {
		return nil, fmt.Errorf("chart: inverted axis range x=[%g,%g] y=[%g,%g]",
			cfg.X.Min, cfg.X.Max, cfg.Y.Min, cfg.Y.Max)
	}
	if cfg.Theme == (Theme{}) {
		cfg.Theme = t.theme
	}
	p := &Plot{surface: surface, cfg: cfg}
	p.render()
	return p, nil
}

// Plot is a terminal chart instance.
type Plot struct {
	surface   *Surface
	cfg       Config
	frame     string
	frameW    int
	frameH    int
	redraws   int
	destroyed bool
}

// Update re-renders from the datasets.
func (p *Plot) Update() {
	if p.destroyed {
		return
	}
	p.redraws++
	p.render()
}

// Destroy detaches the plot from its surface and drops its datasets.
func (p *Plot) Destroy() {
	p.destroyed = true
	p.frame = ""
	p.cfg.Datasets = nil
}

// Destroyed reports whether Destroy has been called.
func (p *Plot) Destroyed() bool { return p.destroyed }

// Redraws is the number of Update calls since construction.
func (p *Plot) Redraws() int { return p.redraws }

// Width is the current surface width.
func (p *Plot) Width() int {
	if p.destroyed {
		return 0
	}
	return max(0, p.surface.Width)
}

// View returns the last frame, re-rendering first if the surface was resized.
func (p *Plot) View() string {
	if p.destroyed {
		return ""
	}
	if p.surface.Width != p.frameW || p.surface.Height != p.frameH {
		p.render()
	}
	return p.frame
}

// Tooltip reads the point of the first dataset nearest to x.
func (p *Plot) Tooltip(x float64) (string, string, bool) {
	if p.destroyed || len(p.cfg.Datasets) == 0 || p.cfg.Datasets[0].Data == nil {
		return "", "", false
	}
	data := p.cfg.Datasets[0].Data
	best, bestDist := -1, math.Inf(1)
	for i := range data.Len() {
		px, _ := data.At(i)
		if d := math.Abs(px - x); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return "", "", false
	}
	px, py := data.At(best)
	title := formatOr(p.cfg.Tooltip.Title, px)
	label := formatOr(p.cfg.Tooltip.Label, py)
	return title, label, true
}

func formatOr(f func(float64) string, v float64) string {
	if f == nil {
		return fmt.Sprintf("%g", v)
	}
	return f(v)
}

type cell struct {
	r     rune
	color lipgloss.Color
}

func (p *Plot) render() {
	p.frameW, p.frameH = p.surface.Width, p.surface.Height
	cols := p.surface.Width - GutterWidth
	rows := p.surface.Height - footerRows
	if cols < 1 || rows < 1 {
		p.frame = ""
		return
	}

	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
	}

	for _, ds := range p.cfg.Datasets {
		if ds.Data == nil {
			continue
		}
		glyph := ds.Glyph
		if glyph == 0 {
			glyph = '•'
		}
		color := ds.Color
		switch {
		case color != "":
		case ds.Overlay:
			color = p.cfg.Theme.Failure
		default:
			color = p.cfg.Theme.Sample
		}
		prevCol, prevRow := -1, -1
		for i := range ds.Data.Len() {
			x, y := ds.Data.At(i)
			c, ok := scale(x, p.cfg.X.Min, p.cfg.X.Max, cols)
			if !ok {
				prevCol = -1
				continue
			}
			r, ok := scale(y, p.cfg.Y.Min, p.cfg.Y.Max, rows)
			if !ok {
				prevCol = -1
				continue
			}
			r = rows - 1 - r
			if ds.Line && prevCol >= 0 {
				joinCells(grid, prevCol, prevRow, c, r, color)
			}
			grid[r][c] = cell{r: glyph, color: color}
			prevCol, prevRow = c, r
		}
	}

	axis := lipgloss.NewStyle().Foreground(p.cfg.Theme.Axis)
	label := lipgloss.NewStyle().Foreground(p.cfg.Theme.Label)

	var b strings.Builder
	for r := range rows {
		b.WriteString(label.Render(p.yLabel(r, rows)))
		b.WriteString(axis.Render("┤"))
		for _, c := range grid[r] {
			if c.r == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(c.color).Render(string(c.r)))
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(" ", GutterWidth-1))
	b.WriteString(axis.Render("└" + strings.Repeat("─", cols)))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", GutterWidth))
	b.WriteString(label.Render(p.xLabels(cols)))
	p.frame = b.String()
}

// yLabel returns the gutter text for a plot row: labels on the top, middle
// and bottom rows, blanks elsewhere.
func (p *Plot) yLabel(row, rows int) string {
	width := GutterWidth - 1
	mid := (rows - 1) / 2
	var v float64
	switch {
	case row == 0:
		v = p.cfg.Y.Max
	case row == rows-1:
		v = p.cfg.Y.Min
	case row == mid:
		v = (p.cfg.Y.Max + p.cfg.Y.Min) / 2
	default:
		return strings.Repeat(" ", width)
	}
	s := formatOr(p.cfg.Y.Format, v)
	if len(s) > width-1 {
		s = s[:width-1]
	}
	return fmt.Sprintf("%*s ", width-1, s)
}

// xLabels lays tick labels out under the plot area, dropping any that would
// overlap the previous one.
func (p *Plot) xLabels(cols int) string {
	ticks := p.cfg.X.Ticks
	if ticks <= 0 {
		ticks = defaultTicks
	}
	line := []rune(strings.Repeat(" ", cols))
	next := 0
	for i := range ticks {
		frac := 0.0
		if ticks > 1 {
			frac = float64(i) / float64(ticks-1)
		}
		v := p.cfg.X.Min + frac*(p.cfg.X.Max-p.cfg.X.Min)
		text := []rune(formatOr(p.cfg.X.Format, v))
		col := int(math.Round(frac * float64(cols-1)))
		start := min(max(col-len(text)/2, 0), cols-len(text))
		if start < next || start < 0 {
			continue
		}
		copy(line[start:], text)
		next = start + len(text) + 1
	}
	return strings.TrimRight(string(line), " ")
}

// scale maps v in [lo, hi] onto 0..n-1. Values outside the range are not
// drawn.
func scale(v, lo, hi float64, n int) (int, bool) {
	if v < lo || v > hi || math.IsNaN(v) {
		return 0, false
	}
	if hi == lo {
		return 0, true
	}
	return int(math.Round((v - lo) / (hi - lo) * float64(n-1))), true
}

func joinCells(grid [][]cell, c0, r0, c1, r1 int, color lipgloss.Color) {
	if c1-c0 < 2 {
		return
	}
	for c := c0 + 1; c < c1; c++ {
		t := float64(c-c0) / float64(c1-c0)
		r := int(math.Round(float64(r0) + t*float64(r1-r0)))
		if grid[r][c].r == 0 {
			grid[r][c] = cell{r: lineGlyph, color: color}
		}
	}
}
