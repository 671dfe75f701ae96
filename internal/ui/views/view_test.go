package views

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"recipegrip/internal/domain"
	"recipegrip/internal/paging"
)

func sampleRecipes(n int) []domain.Recipe {
	recipes := make([]domain.Recipe, n)
	for i := range recipes {
		recipes[i] = domain.Recipe{
			URI:             fmt.Sprintf("http://www.edamam.com/ontologies/edamam.owl#recipe_%d", i),
			Label:           fmt.Sprintf("Pasta Dish %d", i+1),
			Source:          "Food52",
			Calories:        412.6,
			IngredientLines: []string{"pasta", "salt", "olive oil"},
		}
	}
	return recipes
}

func TestRenderBeforeFirstSearch(t *testing.T) {
	out := NewRenderer(true, true).Render(ViewState{Width: 80, Height: 24, BarFocus: -1})

	assert.Contains(t, out, "recipegrip")
	assert.Contains(t, out, "Press / to search recipes")
	assert.Contains(t, out, "Press ? for help")
	assert.NotContains(t, out, "«")
}

func TestRenderNoResults(t *testing.T) {
	out := NewRenderer(true, true).Render(ViewState{
		Width: 80, Height: 24, Query: "zzzz", Searched: true, BarFocus: -1,
	})
	assert.Contains(t, out, `No recipes found for "zzzz"`)
}

func TestRenderResults(t *testing.T) {
	state := ViewState{
		Width:      100,
		Height:     40,
		Query:      "pasta",
		Searched:   true,
		Page:       3,
		TotalPages: 10,
		Offset:     20,
		Results:    sampleRecipes(10),
		Window:     paging.ComputeWindow(3, 10, 5),
		BarFocus:   -1,
	}
	out := NewRenderer(true, true).Render(state)

	assert.Contains(t, out, "page 3 of 10")
	assert.Contains(t, out, "Results for")
	assert.Contains(t, out, `"pasta"`)
	assert.Contains(t, out, " 21. ", "cards are numbered across pages")
	assert.Contains(t, out, " 30. ")
	assert.Contains(t, out, "413 kcal")
	assert.Contains(t, out, "3 ingredients")
	assert.Contains(t, out, "Food52")
	assert.Contains(t, out, "[3]")
}

func TestRenderHidesOptionalMeta(t *testing.T) {
	state := ViewState{
		Width: 100, Height: 40, Query: "pasta", Searched: true,
		Page: 1, TotalPages: 1, Results: sampleRecipes(1), BarFocus: -1,
	}
	out := NewRenderer(false, false).Render(state)

	assert.NotContains(t, out, "kcal")
	assert.NotContains(t, out, "Food52")
	assert.Contains(t, out, "3 ingredients")
}

func TestRenderScrollsToSelection(t *testing.T) {
	state := ViewState{
		Width: 80, Height: 20, Query: "pasta", Searched: true,
		Page: 1, TotalPages: 1, Results: sampleRecipes(10), SelectedIndex: 9, BarFocus: -1,
	}
	out := NewRenderer(true, true).Render(state)

	assert.Contains(t, out, "Pasta Dish 10")
	assert.NotContains(t, out, "Pasta Dish 6")
	assert.Contains(t, out, "more above")
}

func TestRenderStatusAndPrompt(t *testing.T) {
	state := ViewState{
		Width: 80, Height: 24, Searched: false, BarFocus: -1,
		Prompt: "Search recipes: ", TextInput: "soup",
		StatusMessage: "fetch page 2 failed", StatusIsError: true,
		Loading: true, Spinner: "⠋", Demo: true,
	}
	out := NewRenderer(true, true).Render(state)

	assert.Contains(t, out, "Search recipes: soup")
	assert.Contains(t, out, "fetch page 2 failed")
	assert.Contains(t, out, "Loading")
	assert.Contains(t, out, "[demo]")
	assert.Contains(t, out, "Searching...")
}

func TestRenderFitsHeight(t *testing.T) {
	state := ViewState{
		Width: 80, Height: 24, Query: "pasta", Searched: true,
		Page: 1, TotalPages: 10, Results: sampleRecipes(10),
		Window: paging.ComputeWindow(1, 10, 5), BarFocus: -1,
		StatusMessage: "ok",
	}
	out := NewRenderer(true, true).Render(state)
	assert.LessOrEqual(t, strings.Count(out, "\n")+1, 24)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "…", truncate("abcd", 1))
	assert.Empty(t, truncate("abcd", 0))
}
