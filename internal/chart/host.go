package chart

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Host is where a Library becomes available. Lookup is safe to call from any
// goroutine while a loader calls Provide.
type Host struct {
	lib atomic.Pointer[Library]
}

// Provide publishes lib. Later calls replace it.
func (h *Host) Provide(lib Library) {
	h.lib.Store(&lib)
}

// Lookup returns the published Library, if any.
func (h *Host) Lookup() (Library, bool) {
	p := h.lib.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Load provides a Terminal library drawing with theme on h. A zero theme is
// detected from the terminal background first; that queries the terminal and
// may take a while, so Load is meant to run on its own goroutine, and callers
// that share the terminal with an input reader should pass a theme.
func Load(ctx context.Context, h *Host, theme Theme) {
	if theme == (Theme{}) {
		theme = DetectTheme()
	}
	if ctx.Err() != nil {
		return
	}
	h.Provide(NewTerminal(theme))
}

// DetectTheme picks color tokens for the terminal background.
func DetectTheme() Theme {
	if lipgloss.HasDarkBackground() {
		return DarkTheme
	}
	return LightTheme
}

// Built-in themes.
var (
	DarkTheme = Theme{
		Axis:    lipgloss.Color("#6b7280"),
		Label:   lipgloss.Color("#cbd5e1"),
		Sample:  lipgloss.Color("#06b6d4"),
		Failure: lipgloss.Color("#ef4444"),
	}
	LightTheme = Theme{
		Axis:    lipgloss.Color("#4b5563"),
		Label:   lipgloss.Color("#1e293b"),
		Sample:  lipgloss.Color("#2563eb"),
		Failure: lipgloss.Color("#dc2626"),
	}
)
