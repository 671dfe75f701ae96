package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Query         lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	SelectionBg   lipgloss.Style
	CardTitle     lipgloss.Style
	CardMeta      lipgloss.Style
	Calories      lipgloss.Style
	PageControl   lipgloss.Style
	PageActive    lipgloss.Style
	PageFocus     lipgloss.Style
	Demo          lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Query: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:  lipgloss.NewStyle().Faint(true).MarginTop(1),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		CardTitle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		CardMeta:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Calories:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		PageControl:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		PageActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		PageFocus:     lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")),
		Demo:          lipgloss.NewStyle().Foreground(lipgloss.Color("51")), // cyan
	}
}
