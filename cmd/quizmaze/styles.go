package main

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styling for the play session.
type Styles struct {
	Title    lipgloss.Style
	Room     lipgloss.Style
	Moves    lipgloss.Style
	Puzzle   lipgloss.Style
	Message  lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	MapBlock lipgloss.Style
	Prompt   lipgloss.Style
	Help     lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BC34A")),
		Room: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f2f2f2")),
		Moves: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2196F3")),
		Puzzle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC107")).
			Bold(true),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6dae0")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e53935")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BC34A")).
			Bold(true),
		MapBlock: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4db6ac")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BC34A")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true),
	}
}
