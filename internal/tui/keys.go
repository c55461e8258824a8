package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Building  key.Binding
	Server    key.Binding
	Switch    key.Binding
	AP        key.Binding
	LinkMode  key.Binding
	Click     key.Binding
	Traffic   key.Binding
	Stop      key.Binding
	Clear     key.Binding
	Pause     key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Building: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "add building"),
	),
	Server: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "add server"),
	),
	Switch: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "add switch"),
	),
	AP: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "add AP"),
	),
	LinkMode: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "link mode"),
	),
	Click: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "click node"),
	),
	Traffic: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "traffic"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "stop newest"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear all"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("shift+up"),
		key.WithHelp("shift+↑", "move node up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("shift+down"),
		key.WithHelp("shift+↓", "move node down"),
	),
	MoveLeft: key.NewBinding(
		key.WithKeys("shift+left"),
		key.WithHelp("shift+←", "move node left"),
	),
	MoveRight: key.NewBinding(
		key.WithKeys("shift+right"),
		key.WithHelp("shift+→", "move node right"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.LinkMode, k.Click, k.Traffic, k.Clear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Building, k.Server, k.Switch, k.AP},
		{k.LinkMode, k.Click, k.Clear},
		{k.Traffic, k.Stop, k.Pause},
		{k.MoveUp, k.MoveDown, k.MoveLeft, k.MoveRight},
		{k.Help, k.Quit},
	}
}
