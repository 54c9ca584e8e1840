package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Preset  key.Binding
	Toggle  key.Binding
	Reset   key.Binding
	Dev     key.Binding
	Dismiss key.Binding
	Tail    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// newKeyMap binds one digit per preset, 1 through 9.
func newKeyMap(presets int) keyMap {
	presets = min(max(presets, 1), 9)
	digits := make([]string, presets)
	for i := range digits {
		digits[i] = strconv.Itoa(i + 1)
	}
	presetHelp := "1"
	if presets > 1 {
		presetHelp = fmt.Sprintf("1-%d", presets)
	}
	return keyMap{
		Preset:  key.NewBinding(key.WithKeys(digits...), key.WithHelp(presetHelp, "preset")),
		Toggle:  key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s/space", "start/pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Dev:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dev run")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss toast")),
		Tail:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tail")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Preset, k.Toggle, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Preset, k.Toggle, k.Reset, k.Dev},
		{k.Dismiss, k.Tail, k.Help, k.Quit},
	}
}
