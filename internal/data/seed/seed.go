package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"philcali.me/nutrition/internal/data"
)

//go:embed recipes.yaml
var recipesYAML []byte

// Recipes returns a fresh copy of the seed collection, in document order,
// keyed under the given partition.
func Recipes(pk string) ([]data.RecipeDTO, error) {
	var recipes []data.RecipeDTO
	if err := yaml.Unmarshal(recipesYAML, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse seed recipes: %w", err)
	}
	seen := make(map[string]bool, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]
		if seen[recipe.SK] {
			return nil, fmt.Errorf("duplicate seed recipe id: %s", recipe.SK)
		}
		if !recipe.Category.Valid() {
			return nil, fmt.Errorf("seed recipe %s has unknown category %q", recipe.SK, recipe.Category)
		}
		seen[recipe.SK] = true
		recipe.PK = pk
		recipe.Position = i
		if recipe.Instructions == nil {
			recipe.Instructions = []string{}
		}
		if recipe.Reviews == nil {
			recipe.Reviews = []data.ReviewDTO{}
		}
	}
	return recipes, nil
}
