package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the focus screen.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
}

// DefaultTheme is the neon tiger palette.
func DefaultTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("208"), // Orange
		Secondary: lipgloss.Color("213"), // Pink
		Success:   lipgloss.Color("10"),  // Green
		Warning:   lipgloss.Color("11"),  // Yellow
		Error:     lipgloss.Color("9"),   // Red
		Muted:     lipgloss.Color("240"), // Gray
	}
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title       lipgloss.Style
	Preset      lipgloss.Style
	PresetOn    lipgloss.Style
	PresetLock  lipgloss.Style
	Clock       lipgloss.Style
	ClockDone   lipgloss.Style
	Status      lipgloss.Style
	Toast       lipgloss.Style
	LockedToast lipgloss.Style
	TailTitle   lipgloss.Style
	TailItem    lipgloss.Style
	Error       lipgloss.Style
	Muted       lipgloss.Style
}

// NewStyles builds the styles for t.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(1, 0, 0, 0),
		Preset:     lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1),
		PresetOn:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1).Underline(true),
		PresetLock: lipgloss.NewStyle().Foreground(t.Muted).Faint(true).Padding(0, 1),
		Clock:      lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Padding(1, 2),
		ClockDone:  lipgloss.NewStyle().Bold(true).Foreground(t.Success).Padding(1, 2),
		Status:     lipgloss.NewStyle().Foreground(t.Muted),
		Toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),
		LockedToast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Warning).
			Foreground(t.Warning).
			Padding(0, 1),
		TailTitle: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		TailItem:  lipgloss.NewStyle().PaddingLeft(2),
		Error:     lipgloss.NewStyle().Foreground(t.Error),
		Muted:     lipgloss.NewStyle().Foreground(t.Muted),
	}
}
