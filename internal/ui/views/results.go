package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"recipegrip/internal/domain"
)

// RecipeRenderer handles rendering of result cards
type RecipeRenderer struct {
	styles       *Styles
	showCalories bool
	showSource   bool
}

// NewRecipeRenderer creates a new recipe renderer
func NewRecipeRenderer(styles *Styles, showCalories, showSource bool) *RecipeRenderer {
	return &RecipeRenderer{
		styles:       styles,
		showCalories: showCalories,
		showSource:   showSource,
	}
}

// CardHeight is the number of lines one card takes
const CardHeight = 2

// RenderRecipe renders one card. number is the absolute position of the
// recipe in the result set, starting at 1.
func (r *RecipeRenderer) RenderRecipe(recipe domain.Recipe, number int, isSelected bool, query string, width int) string {
	bg := lipgloss.NewStyle()
	if isSelected {
		bg = r.styles.SelectionBg
	}

	label := recipe.Label
	if label == "" {
		label = "(untitled)"
	}
	prefix := fmt.Sprintf("%3d. ", number)
	if width > 0 {
		label = truncate(label, width-len(prefix)-4)
	}

	titleStyle := r.styles.CardTitle.Inherit(bg)
	title := bg.Render(prefix)
	if query != "" {
		title += r.highlightMatch(label, query, r.styles.Highlight.Inherit(bg), titleStyle)
	} else {
		title += titleStyle.Render(label)
	}

	meta := r.renderMeta(recipe, bg)
	return title + "\n" + bg.Render(strings.Repeat(" ", len(prefix))) + meta
}

func (r *RecipeRenderer) renderMeta(recipe domain.Recipe, bg lipgloss.Style) string {
	metaStyle := r.styles.CardMeta.Inherit(bg)
	var parts []string
	if r.showCalories && recipe.Calories > 0 {
		parts = append(parts, r.styles.Calories.Inherit(bg).Render(fmt.Sprintf("%d kcal", int(math.Round(recipe.Calories)))))
	}
	switch n := recipe.IngredientCount(); n {
	case 0:
	case 1:
		parts = append(parts, metaStyle.Render("1 ingredient"))
	default:
		parts = append(parts, metaStyle.Render(fmt.Sprintf("%d ingredients", n)))
	}
	if recipe.TotalTime > 0 {
		parts = append(parts, metaStyle.Render(fmt.Sprintf("%d min", int(recipe.TotalTime))))
	}
	if r.showSource && recipe.Source != "" {
		parts = append(parts, metaStyle.Render(recipe.Source))
	}
	return strings.Join(parts, metaStyle.Render(" · "))
}

// highlightMatch highlights the first case-insensitive match of query in text
func (r *RecipeRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	index := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if index == -1 || len(strings.ToLower(text)) != len(text) {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}
	return strings.Join(result, "")
}

// truncate shortens s to at most max runes, ending with an ellipsis
func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
