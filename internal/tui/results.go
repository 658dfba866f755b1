package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/karma-go/internal/format"
	"github.com/dm/karma-go/internal/karma"
)

// Column layout of the results table. The car list takes what is left.
const (
	colSet     = 0
	colTotal   = 1
	colOff     = 2
	colCars    = 3
	fixedWidth = 30
)

// renderChartPlaceholder fills the chart area while no chart exists.
func renderChartPlaceholder(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	var text string
	switch app.chart {
	case chartUnavailable:
		text = StyleError.Render("chart unavailable") + StyleDim.Render("  press r to retry")
	default:
		text = StyleDim.Render("waiting for renderer...")
	}
	return lipgloss.Place(width, app.chartRows(), lipgloss.Center, lipgloss.Center, text)
}

// renderReadout renders the line under the range control: the selected
// target, its similarity if known and the nearest plotted sample.
func renderReadout(app *App) string {
	target := app.selectedTarget()
	parts := []string{
		StyleAccent.Render("target " + format.FormatLapTime(target)),
		StyleDim.Render(fmt.Sprintf("(%d/%d)", app.slider.index+1, karma.SliderPositions)),
	}

	switch {
	case app.calculating:
		parts = append(parts, StyleYellow.Render("calculating..."))
	case app.selErr != nil:
		parts = append(parts, StyleError.Render(classifyError(app.selErr)))
	case app.selection != nil:
		parts = append(parts, "similarity "+StyleGreen.Render(format.FormatPercent(app.selection.Similarity*100)))
	default:
		parts = append(parts, StyleDim.Render("enter to calculate"))
	}

	if title, label, ok := app.engine.Tooltip(float64(target)); ok {
		parts = append(parts, StyleDim.Render("nearest "+title+" "+label))
	}
	return " " + strings.Join(parts, "  ")
}

// renderResults renders one page of the selected measurement's sets: the
// summed lap time, its deviation from the target and the cars drawn.
func renderResults(app *App) string {
	m := app.selection
	if m == nil || len(m.Subsets) == 0 {
		return ""
	}
	width := app.width
	if width <= 0 {
		width = 80
	}

	all := make([]int, len(m.Subsets))
	for i := range all {
		all[i] = i
	}
	pageIdx := currentPageIndices(all, app.pager.page, app.pager.pageSize)
	pc := pageCount(len(all), app.pager.pageSize)

	hdr := StyleDim.Render(fmt.Sprintf("Sets for %s  [pgup/pgdn: page]  Page %d/%d",
		format.FormatLapTime(m.Target), app.pager.page+1, pc))

	tolerance := app.cfg.Tolerance
	offStyles := make([]lipgloss.Style, 0, len(pageIdx))
	t := ltable.New().
		Headers("Set", "Total", "Off", "Cars").
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false).
		Width(width)

	carsWidth := max(10, width-fixedWidth)
	for _, i := range pageIdx {
		subset := m.Subsets[i]
		total := karma.Total(app.cars, subset)
		dev := karma.Deviation(total, m.Target)
		offStyles = append(offStyles, DeviationStyle(dev, tolerance))
		t = t.Row(
			format.FormatCount(i+1),
			format.FormatLapTime(total),
			format.FormatSignedPercent(dev),
			truncateName(carIDs(app.cars, subset), carsWidth),
		)
	}

	t = t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == ltable.HeaderRow {
			return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
		}
		switch col {
		case colSet:
			return StyleDim
		case colOff:
			if row >= 0 && row < len(offStyles) {
				return offStyles[row]
			}
		case colTotal, colCars:
			return lipgloss.NewStyle().Foreground(colorWhite)
		}
		return lipgloss.NewStyle()
	})

	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String())
}

// carIDs lists the ids of the cars in subset.
func carIDs(cars []karma.Car, subset []int) string {
	ids := make([]string, 0, len(subset))
	for _, i := range subset {
		if i >= 0 && i < len(cars) {
			ids = append(ids, cars[i].ID)
		}
	}
	return strings.Join(ids, ", ")
}
