package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"recipegrip/internal/ui/input/modes"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	titleStyle   lipgloss.Style
	sectionStyle lipgloss.Style
	keyStyle     lipgloss.Style
	descStyle    lipgloss.Style
	noteStyle    lipgloss.Style
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		sectionStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1),
		keyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		descStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		noteStyle: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
	}
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

// RenderKeyReference generates the key reference shown in the pager
func (r *HelpRenderer) RenderKeyReference(keys modes.KeyMap) string {
	sections := []helpSection{
		{"Pages", []key.Binding{keys.Next, keys.Prev, keys.First, keys.Last, keys.SkipBack, keys.SkipFwd, keys.Jump}},
		{"Pagination Bar", []key.Binding{keys.FocusBar}},
		{"Results", []key.Binding{keys.Up, keys.Down, keys.Open}},
		{"Search", []key.Binding{keys.Search, keys.Cancel, keys.Retry}},
		{"Other", []key.Binding{keys.Help, keys.Quit}},
	}

	width := 0
	for _, s := range sections {
		for _, b := range s.bindings {
			width = max(width, lipgloss.Width(b.Help().Key))
		}
	}

	var help strings.Builder
	help.WriteString(r.titleStyle.Render("recipegrip Help"))
	help.WriteString("\n")

	for _, s := range sections {
		help.WriteString(r.sectionStyle.Render(s.title))
		help.WriteString("\n")
		for _, b := range s.bindings {
			h := b.Help()
			pad := strings.Repeat(" ", width-lipgloss.Width(h.Key)+2)
			help.WriteString(fmt.Sprintf("  %s%s%s\n", r.keyStyle.Render(h.Key), pad, r.descStyle.Render(h.Desc)))
		}
		if s.title == "Pagination Bar" {
			help.WriteString(r.noteStyle.Render("  With the bar focused, ←/→ move between controls and enter activates one"))
			help.WriteString("\n")
		}
	}

	help.WriteString("\n")
	help.WriteString(r.noteStyle.Render("  « first  ‹ previous  [n] current page  … hidden pages  › next  » last"))
	return help.String()
}
