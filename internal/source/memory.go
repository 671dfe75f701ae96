package source

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"recipegrip/internal/domain"
)

// Memory serves pages from records held in memory
type Memory[T any] struct {
	records func(query string) []T
	latency time.Duration
}

// NewMemory serves the same records for every query
func NewMemory[T any](records []T) *Memory[T] {
	return &Memory[T]{records: func(string) []T { return records }}
}

// NewMemoryFunc serves records produced per query
func NewMemoryFunc[T any](records func(query string) []T) *Memory[T] {
	return &Memory[T]{records: records}
}

// WithLatency delays every fetch by d, or until ctx is done
func (m *Memory[T]) WithLatency(d time.Duration) *Memory[T] {
	m.latency = d
	return m
}

// FetchPage returns records[offset:offset+limit], short or empty past the end
func (m *Memory[T]) FetchPage(ctx context.Context, query string, offset, limit int) ([]T, error) {
	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := m.records(query)
	if offset >= len(records) {
		return []T{}, nil
	}
	end := min(offset+limit, len(records))
	out := make([]T, end-offset)
	copy(out, records[offset:end])
	return out, nil
}

var (
	demoStyles = []string{"Classic", "Spicy", "Roasted", "Creamy", "Grilled", "Quick", "Rustic", "Lemon", "Garlic", "Smoky"}
	demoDishes = []string{"Soup", "Salad", "Stew", "Pasta", "Curry", "Tacos", "Bowl", "Pie", "Skillet", "Risotto"}
	demoSites  = []string{"Food Network", "Serious Eats", "BBC Good Food", "Epicurious", "Bon Appetit", "Simply Recipes"}
	demoFoods  = []string{"onion", "garlic", "olive oil", "salt", "black pepper", "butter", "tomato", "lemon", "parsley", "rice", "chicken", "carrot"}
)

// DemoRecipes generates count deterministic recipes for query, for running
// without API credentials
func DemoRecipes(query string, count int) []domain.Recipe {
	query = strings.TrimSpace(query)
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(query)))
	seed := int(h.Sum32() % 997)

	recipes := make([]domain.Recipe, count)
	for i := range recipes {
		n := seed + i*7
		style := demoStyles[n%len(demoStyles)]
		dish := demoDishes[(n/3)%len(demoDishes)]
		label := fmt.Sprintf("%s %s %s #%d", style, titleCase(query), dish, i+1)

		ingredients := make([]domain.Ingredient, 3+n%8)
		lines := make([]string, len(ingredients))
		for j := range ingredients {
			food := demoFoods[(n+j)%len(demoFoods)]
			ingredients[j] = domain.Ingredient{
				Text:     fmt.Sprintf("%d cups %s", j%3+1, food),
				Quantity: float64(j%3 + 1),
				Measure:  "cup",
				Food:     food,
				Weight:   float64(50 + 25*j),
			}
			lines[j] = ingredients[j].Text
		}

		id := fmt.Sprintf("%08x%04d", seed, i)
		recipes[i] = domain.Recipe{
			URI:             "http://www.edamam.com/ontologies/edamam.owl#recipe_" + id,
			Label:           label,
			Source:          demoSites[n%len(demoSites)],
			URL:             "https://example.com/recipes/" + id,
			Yield:           float64(2 + n%6),
			Calories:        350 + float64((n*137)%2400) + 0.42,
			TotalTime:       float64(10 + (n*13)%110),
			DietLabels:      []string{"Balanced"},
			HealthLabels:    []string{"Peanut-Free", "Tree-Nut-Free"},
			IngredientLines: lines,
			Ingredients:     ingredients,
		}
	}
	return recipes
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
