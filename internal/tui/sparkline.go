package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks are the eight bar heights of a sparkline.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline draws the last width values as block bars scaled between
// the smallest and largest of them. The result is always width cells wide:
// short input is left-padded with spaces and a flat series sits on the floor.
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}

	lo, hi := slices.Min(values), slices.Max(values)
	top := len(sparkBlocks) - 1

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(top))
		}
		sb.WriteRune(sparkBlocks[min(max(idx, 0), top)])
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
