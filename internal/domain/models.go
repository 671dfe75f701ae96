package domain

import "strings"

// Recipe represents a single search hit
type Recipe struct {
	URI             string
	Label           string
	Image           string
	Source          string
	URL             string
	Yield           float64
	Calories        float64
	TotalTime       float64 // minutes, 0 if unknown
	DietLabels      []string
	HealthLabels    []string
	IngredientLines []string
	Ingredients     []Ingredient
}

// Ingredient is one parsed ingredient of a recipe
type Ingredient struct {
	Text     string
	Quantity float64
	Measure  string
	Food     string
	Weight   float64 // grams
}

const recipeURIMarker = "recipe_"

// ID returns the recipe identifier embedded in its URI
func (r Recipe) ID() string {
	idx := strings.Index(r.URI, recipeURIMarker)
	if idx < 0 {
		return r.URI
	}
	return r.URI[idx+len(recipeURIMarker):]
}

// IngredientCount returns the number of ingredients, preferring parsed ones
func (r Recipe) IngredientCount() int {
	if len(r.Ingredients) > 0 {
		return len(r.Ingredients)
	}
	return len(r.IngredientLines)
}
