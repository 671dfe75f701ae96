package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"recipegrip/internal/domain"
)

// buildRecipeInfo generates the detail page for a recipe shown in the pager
func buildRecipeInfo(recipe domain.Recipe, number int) string {
	bold := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var info strings.Builder

	info.WriteString(bold.Render(fmt.Sprintf("#%d %s", number, recipe.Label)))
	info.WriteString("\n\n")

	if recipe.Source != "" {
		info.WriteString(fmt.Sprintf("Source: %s\n", recipe.Source))
	}
	if recipe.URL != "" {
		info.WriteString(fmt.Sprintf("URL: %s\n", recipe.URL))
	}
	if id := recipe.ID(); id != "" {
		info.WriteString(dim.Render(fmt.Sprintf("ID: %s", id)))
		info.WriteString("\n")
	}
	info.WriteString("\n")

	// Nutrition
	info.WriteString(bold.Render("Overview:"))
	info.WriteString("\n")
	if recipe.Yield > 0 {
		info.WriteString(fmt.Sprintf("  Serves: %g\n", recipe.Yield))
	}
	if recipe.Calories > 0 {
		info.WriteString("  Calories: ")
		info.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Render(fmt.Sprintf("%d kcal", int(math.Round(recipe.Calories)))))
		if recipe.Yield > 0 {
			info.WriteString(fmt.Sprintf(" (%d per serving)", int(math.Round(recipe.Calories/recipe.Yield))))
		}
		info.WriteString("\n")
	}
	if recipe.TotalTime > 0 {
		info.WriteString(fmt.Sprintf("  Time: %d min\n", int(recipe.TotalTime)))
	}
	if len(recipe.DietLabels) > 0 {
		info.WriteString(fmt.Sprintf("  Diet: %s\n", strings.Join(recipe.DietLabels, ", ")))
	}
	if len(recipe.HealthLabels) > 0 {
		info.WriteString(fmt.Sprintf("  Health: %s\n", strings.Join(recipe.HealthLabels, ", ")))
	}

	// Parsed ingredients carry weights, plain lines are the fallback
	info.WriteString("\n")
	info.WriteString(bold.Render(fmt.Sprintf("Ingredients (%d):", recipe.IngredientCount())))
	info.WriteString("\n")
	switch {
	case len(recipe.Ingredients) > 0:
		for _, ing := range recipe.Ingredients {
			info.WriteString("  • ")
			info.WriteString(ing.Text)
			if ing.Weight > 0 {
				info.WriteString(dim.Render(fmt.Sprintf(" (%dg)", int(math.Round(ing.Weight)))))
			}
			info.WriteString("\n")
		}
	case len(recipe.IngredientLines) > 0:
		for _, line := range recipe.IngredientLines {
			info.WriteString("  • ")
			info.WriteString(line)
			info.WriteString("\n")
		}
	default:
		info.WriteString(dim.Render("  none listed"))
		info.WriteString("\n")
	}

	info.WriteString("\n")
	info.WriteString("Press q to close")

	return info.String()
}
