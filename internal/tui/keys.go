package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds all key bindings for the TUI.
type keyMap struct {
	Quit         key.Binding
	Restart      key.Binding
	Help         key.Binding
	Left         key.Binding
	Right        key.Binding
	JumpLeft     key.Binding
	JumpRight    key.Binding
	Select       key.Binding
	MoreLaps     key.Binding
	FewerLaps    key.Binding
	MorePlayers  key.Binding
	FewerPlayers key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
}

// keys is the global key map.
var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Restart: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "restart sweep"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "lower target"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "raise target"),
	),
	JumpLeft: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "target -10"),
	),
	JumpRight: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "target +10"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "calculate target"),
	),
	MoreLaps: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "more laps"),
	),
	FewerLaps: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "fewer laps"),
	),
	MorePlayers: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "more players"),
	),
	FewerPlayers: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "fewer players"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("pgup", "<"),
		key.WithHelp("pgup", "prev sets"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("pgdown", ">"),
		key.WithHelp("pgdn", "next sets"),
	),
}

// helpText is the full help string displayed in the footer when help is toggled on.
const helpText = "q: quit  r: restart  ←/→ [/]: target  enter: calculate  +/-: laps  ↑/↓: players  pgup/pgdn: sets  ?: toggle help"
