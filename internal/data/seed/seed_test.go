package seed_test

import (
	"testing"

	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/data/seed"
)

func TestRecipes(t *testing.T) {
	recipes, err := seed.Recipes("nobody:Recipe")
	if err != nil {
		t.Fatalf("Failed to load seed recipes: %s", err)
	}
	if len(recipes) != 12 {
		t.Fatalf("Expected 12 seed recipes, got %d", len(recipes))
	}
	if recipes[0].SK != "1" || recipes[0].Category != data.BREAKFAST {
		t.Fatalf("Unexpected first seed recipe: %v", recipes[0])
	}
	for i, recipe := range recipes {
		if recipe.PK != "nobody:Recipe" {
			t.Fatalf("Expected partition to be set, got %s", recipe.PK)
		}
		if recipe.Position != i {
			t.Fatalf("Expected position %d, got %d", i, recipe.Position)
		}
		if len(recipe.Instructions) == 0 {
			t.Fatalf("Seed recipe %s has no instructions", recipe.SK)
		}
	}

	t.Run("fresh copies", func(t *testing.T) {
		again, err := seed.Recipes("other:Recipe")
		if err != nil {
			t.Fatalf("Failed to load seed recipes: %s", err)
		}
		again[0].Instructions[0] = "changed"
		if recipes[0].Instructions[0] == "changed" {
			t.Fatal("Seed copies share instruction storage")
		}
	})
}
