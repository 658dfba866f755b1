package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/dm/karma-go/internal/engine"
	"github.com/dm/karma-go/internal/format"
	"github.com/dm/karma-go/internal/karma"
	"github.com/dm/karma-go/internal/model"
)

const (
	sparkWidth   = 12
	maxErrLength = 40
)

// renderBanner renders the top status bar.
//
// Layout:
//
//	left:   run parameters, "laps N · players M"
//	center: chart status ("● READY", "● WAITING FOR RENDERER" or
//	        "● RENDERER UNAVAILABLE  <error>")
//	right:  "cached n/100 · failed k" and a sparkline of recent
//	        measurement times while a sweep is running
func renderBanner(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := fmt.Sprintf("karma · laps %s · players %s",
		format.FormatCount(app.run.LapCount), format.FormatCount(app.run.PlayerCount))

	var center string
	switch app.chart {
	case chartReady:
		center = StyleStatusReady.Render("● READY")
	case chartUnavailable:
		text := "● RENDERER UNAVAILABLE"
		if app.lastErr != nil {
			text += "  " + classifyError(app.lastErr)
		}
		center = StyleStatusFailed.Render(text)
	default:
		center = StyleStatusWaiting.Render("● WAITING FOR RENDERER")
	}

	right := StyleDim.Render(fmt.Sprintf("cached %s/%d · failed %s",
		format.FormatCount(app.cache.Count(app.run, app.targets)),
		len(app.targets),
		format.FormatCount(len(app.failed))))

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	used := lipgloss.Width(left) + lipgloss.Width(center) + lipgloss.Width(right)
	if app.sweeping && used+sparkWidth+1 <= innerWidth {
		right = RenderSparkline(app.history.Values(model.FieldElapsed), sparkWidth, colorPurple) + " " + right
		used += sparkWidth + 1
	}
	spacing := max(0, innerWidth-used)
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", rightSpacing) +
		right
	if used > innerWidth {
		row = ansi.Truncate(row, max(0, innerWidth), "…")
	}

	return StyleHeader.Width(width).Render(row)
}

// truncateName shortens s to at most maxWidth terminal cells, ending it with
// "..." when there is room for one.
func truncateName(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// classifyError maps an error to a short label for the banner and readout.
// Unknown errors are shown as-is, truncated.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	var se *karma.SubsetError
	switch {
	case errors.Is(err, engine.ErrGateTimeout):
		return "Renderer did not load"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timeout"
	case errors.As(err, &se):
		switch se.Kind {
		case karma.NotEnoughRuns:
			return fmt.Sprintf("Only %d/%d sets within tolerance", se.Found, se.Required)
		case karma.TargetUnreachable:
			return "Target unreachable"
		default:
			return "Not enough cars"
		}
	}
	return truncateName(err.Error(), maxErrLength)
}
