package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"recipegrip/internal/domain"
	"recipegrip/internal/paging"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Query         string
	Searched      bool // a search has loaded at least once
	Page          int
	TotalPages    int
	Offset        int // absolute index of the first result on the page
	Results       []domain.Recipe
	SelectedIndex int
	Window        paging.Window
	BarFocus      int // focused control index, -1 when the bar is not focused
	Loading       bool
	Spinner       string
	StatusMessage string
	StatusIsError bool
	Prompt        string
	TextInput     string
	HelpView      string
	Demo          bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles     *Styles
	cardRender *RecipeRenderer
	pageRender *PaginationRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showCalories, showSource bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:     styles,
		cardRender: NewRecipeRenderer(styles, showCalories, showSource),
		pageRender: NewPaginationRenderer(styles),
	}
}

// Layout lines outside the result list: title + margin, input or query
// line + gap, bar, status, help, and the container padding.
const chromeLines = 2 + 2 + 2 + 2 + 2 + 2

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")

	switch {
	case state.Prompt != "":
		content.WriteString(state.Prompt + state.TextInput)
		content.WriteString("\n\n")
	case state.Query != "":
		content.WriteString(r.styles.Dim.Render("Results for ") + r.styles.Query.Render(fmt.Sprintf("%q", state.Query)))
		content.WriteString("\n\n")
	}

	var mainContent string
	switch {
	case !state.Searched && state.Loading:
		mainContent = r.styles.Dim.Render("Searching...")
	case !state.Searched:
		mainContent = r.styles.Dim.Render("Press / to search recipes")
	case len(state.Results) == 0:
		mainContent = r.styles.Dim.Render(fmt.Sprintf("No recipes found for %q", state.Query))
	default:
		mainContent = r.renderResultList(state)
	}
	content.WriteString(mainContent)

	if bar := r.pageRender.Render(state.Window, state.BarFocus); bar != "" {
		content.WriteString("\n\n")
		content.WriteString(bar)
	}

	if state.StatusMessage != "" {
		style := r.styles.Status
		if state.StatusIsError {
			style = style.Inherit(r.styles.StatusError)
		}
		content.WriteString("\n")
		content.WriteString(style.Render(state.StatusMessage))
	}

	helpText := state.HelpView
	if helpText == "" {
		helpText = "Press ? for help"
	}
	helpText = r.styles.Help.Render(helpText)

	// Push the help to the bottom of the screen
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := state.Height - 2
	if availableLines <= 0 {
		availableLines = 22
	}
	helpLines := lipgloss.Height(helpText)
	if paddingNeeded := availableLines - currentLines - helpLines; paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}
	content.WriteString("\n")
	content.WriteString(helpText)

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("recipegrip")

	var indicators []string
	if state.Loading {
		indicators = append(indicators, r.styles.StatusLoading.Render(strings.TrimSpace(state.Spinner+" Loading")))
	}
	if state.Searched && state.TotalPages > 0 {
		indicators = append(indicators, r.styles.Dim.Render(fmt.Sprintf("page %d of %d", state.Page, state.TotalPages)))
	}
	if state.Demo {
		indicators = append(indicators, r.styles.Demo.Render("[demo]"))
	}
	if len(indicators) == 0 {
		return logo
	}

	rightContent := strings.Join(indicators, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	availableWidth := termWidth - 4 // main container padding
	paddingWidth := availableWidth - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + rightContent
	}
	return logo + "  " + rightContent
}

// renderResultList renders the cards that fit, scrolled to keep the
// selection visible
func (r *Renderer) renderResultList(state ViewState) string {
	maxCards := len(state.Results)
	if state.Height > 0 {
		maxCards = (state.Height - chromeLines) / CardHeight
		if maxCards < 1 {
			maxCards = 1
		}
	}

	start := 0
	if state.SelectedIndex >= maxCards {
		start = state.SelectedIndex - maxCards + 1
	}
	end := start + maxCards
	if end > len(state.Results) {
		end = len(state.Results)
	}

	cardWidth := state.Width - 4
	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", start)))
	}
	for i := start; i < end; i++ {
		lines = append(lines, r.cardRender.RenderRecipe(
			state.Results[i],
			state.Offset+i+1,
			i == state.SelectedIndex && state.BarFocus < 0,
			state.Query,
			cardWidth,
		))
	}
	if below := len(state.Results) - end; below > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", below)))
	}
	return strings.Join(lines, "\n")
}
