package ui

import (
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	Title        lipgloss.Style
	Row          lipgloss.Style
	SelectedRow  lipgloss.Style
	CursorRow    lipgloss.Style
	Empty        lipgloss.Style
	ListBox      lipgloss.Style
	ListBoxFocus lipgloss.Style
	Input        lipgloss.Style
	InputFocus   lipgloss.Style
	Button       lipgloss.Style
	ButtonFocus  lipgloss.Style
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	Status       lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	warn := lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#F59E0B"}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(subtle).
		Padding(0, 1)
	button := lipgloss.NewStyle().
		Padding(0, 2).
		MarginRight(1).
		Border(lipgloss.NormalBorder()).
		BorderForeground(subtle)

	return styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Row:          lipgloss.NewStyle(),
		SelectedRow:  lipgloss.NewStyle().Reverse(true).Bold(true),
		CursorRow:    lipgloss.NewStyle().Foreground(accent),
		Empty:        lipgloss.NewStyle().Foreground(subtle).Italic(true),
		ListBox:      box,
		ListBoxFocus: box.BorderForeground(accent),
		Input:        box,
		InputFocus:   box.BorderForeground(accent),
		Button:       button,
		ButtonFocus:  button.BorderForeground(accent).Foreground(accent).Bold(true),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(warn).
			Padding(1, 3),
		DialogTitle: lipgloss.NewStyle().Bold(true).Foreground(warn).MarginBottom(1),
		Status:      lipgloss.NewStyle().Foreground(subtle),
	}
}
