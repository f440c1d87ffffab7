package recipes

import (
	"fmt"
	"slices"
	"time"

	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/data/seed"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/memory"
)

type collection struct {
	PK      string
	Recipes []data.RecipeDTO
	index   map[string]int
}

func (c *collection) reindex() {
	c.index = make(map[string]int, len(c.Recipes))
	for i, recipe := range c.Recipes {
		c.index[recipe.SK] = i
	}
}

// detach copies the slices of a stored recipe so callers cannot reach into
// the store.
func detach(recipe data.RecipeDTO) data.RecipeDTO {
	recipe.Ingredients = slices.Clone(recipe.Ingredients)
	recipe.Instructions = slices.Clone(recipe.Instructions)
	recipe.Reviews = slices.Clone(recipe.Reviews)
	return recipe
}

type RecipeMemoryService struct {
	registry *memory.Registry[collection]
}

func NewRecipeService() *RecipeMemoryService {
	return &RecipeMemoryService{
		registry: memory.NewRegistry(func(accountId string) (*collection, error) {
			pk := fmt.Sprintf("%s:Recipe", accountId)
			seeded, err := seed.Recipes(pk)
			if err != nil {
				return nil, err
			}
			c := &collection{PK: pk, Recipes: seeded}
			c.reindex()
			return c, nil
		}),
	}
}

func (rs *RecipeMemoryService) ListRecipes(accountId string, filter data.RecipeFilter) ([]data.RecipeDTO, error) {
	results := make([]data.RecipeDTO, 0)
	err := rs.registry.Read(accountId, func(c *collection) error {
		for _, recipe := range c.Recipes {
			if filter.Matches(recipe) {
				results = append(results, detach(recipe))
			}
		}
		return nil
	})
	return results, err
}

func (rs *RecipeMemoryService) GetRecipe(accountId string, recipeId string) (data.RecipeDTO, error) {
	var recipe data.RecipeDTO
	err := rs.registry.Read(accountId, func(c *collection) error {
		i, ok := c.index[recipeId]
		if !ok {
			return exceptions.NotFound("recipe", recipeId)
		}
		recipe = detach(c.Recipes[i])
		return nil
	})
	return recipe, err
}

func (rs *RecipeMemoryService) ToggleFavorite(accountId string, recipeId string) error {
	return rs.registry.Write(accountId, func(c *collection) error {
		if i, ok := c.index[recipeId]; ok {
			c.Recipes[i].IsFavorited = !c.Recipes[i].IsFavorited
		}
		return nil
	})
}

func (rs *RecipeMemoryService) AddGeneratedRecipes(accountId string, generated []data.GeneratedRecipeDTO, tag data.SourceTag) ([]data.RecipeDTO, error) {
	batch := make([]data.RecipeDTO, 0, len(generated))
	if len(generated) == 0 {
		return batch, nil
	}
	err := rs.registry.Write(accountId, func(c *collection) error {
		now := time.Now()
		batchId := data.NewBatchId()
		ids := make(map[string]bool, len(generated))
		for i, g := range generated {
			id := data.NewRecipeId(tag)
			if _, exists := c.index[id]; exists || ids[id] {
				return exceptions.Conflict("recipe", id)
			}
			ids[id] = true
			batch = append(batch, g.ToRecipe(c.PK, id, tag, batchId, i, now))
		}
		stored := make([]data.RecipeDTO, 0, len(batch)+len(c.Recipes))
		for _, recipe := range batch {
			stored = append(stored, detach(recipe))
		}
		c.Recipes = append(stored, c.Recipes...)
		c.reindex()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}
