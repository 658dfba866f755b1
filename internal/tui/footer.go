package tui

// renderFooter renders the key binding help footer at full terminal width.
// When app.showHelp is true, shows all key bindings; otherwise a brief hint
// and whether a sweep is still running.
func renderFooter(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	text := "? for help"
	switch {
	case app.showHelp:
		text = helpText
	case app.sweeping:
		text += "  ·  sweep " + shortID(app.sweepID) + " running"
	}
	return StyleDim.Width(width).Render(text)
}

// shortID returns the random tail of a sweep id, enough to tell sweeps apart
// in the log.
func shortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}
