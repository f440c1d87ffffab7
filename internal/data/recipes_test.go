package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedRecipeInstructions(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		expected []string
		invalid  bool
	}{
		{name: "list is kept", body: `["Chop", "Stir"]`, expected: []string{"Chop", "Stir"}},
		{name: "single string", body: `"Mix everything and bake."`, expected: []string{"Mix everything and bake."}},
		{name: "blank string", body: `"   "`, expected: []string{}},
		{name: "null", body: `null`, expected: []string{}},
		{name: "numbers", body: `[1, 2]`, invalid: true},
		{name: "object", body: `{"step": "Chop"}`, invalid: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var generated GeneratedRecipeDTO
			err := json.Unmarshal([]byte(`{"recipeName": "Soup", "ingredients": ["water"], "instructions": `+tc.body+`}`), &generated)
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			recipe := generated.ToRecipe("pk", "ai-1", SOURCE_AI, "batch", 0, time.Now())
			assert.Equal(t, tc.expected, recipe.Instructions)
		})
	}

	t.Run("missing instructions", func(t *testing.T) {
		var generated GeneratedRecipeDTO
		require.NoError(t, json.Unmarshal([]byte(`{"recipeName": "Soup"}`), &generated))
		recipe := generated.ToRecipe("pk", "ai-1", SOURCE_AI, "batch", 0, time.Now())
		assert.Equal(t, []string{}, recipe.Instructions)
		assert.Equal(t, []string{}, recipe.Ingredients)
	})
}

func TestGeneratedRecipeToRecipe(t *testing.T) {
	now := time.Now()
	calories := 420.0
	generated := GeneratedRecipeDTO{
		RecipeName:   "Tomato Omelette",
		Ingredients:  []string{"eggs", "tomato"},
		Instructions: Steps{"Whisk", "Cook"},
		Reasoning:    "Uses what you have",
		Calories:     &calories,
	}

	t.Run("ai recipes", func(t *testing.T) {
		recipe := generated.ToRecipe("Nutrition:user:Recipe", "ai-7", SOURCE_AI, "batch-1", 2, now)
		assert.Equal(t, "Nutrition:user:Recipe", recipe.PK)
		assert.Equal(t, "ai-7", recipe.SK)
		assert.Equal(t, AI_GENERATED, recipe.Category)
		assert.Equal(t, GENERATED_IMAGE_HINT, recipe.ImageHint)
		assert.Equal(t, "ai recipe", recipe.ImageHint)
		assert.False(t, recipe.IsFavorited)
		assert.Equal(t, "batch-1", recipe.Batch)
		assert.Equal(t, 2, recipe.Position)
		assert.Equal(t, now, recipe.CreateTime)
		assert.Equal(t, &calories, recipe.Calories)
		assert.Nil(t, recipe.Rating)
		assert.Empty(t, recipe.Reviews)
	})

	t.Run("pantry recipes", func(t *testing.T) {
		recipe := generated.ToRecipe("pk", "pantry-1", SOURCE_PANTRY, "batch-2", 0, now)
		assert.Equal(t, PANTRY, recipe.Category)
		assert.Equal(t, []string{"Whisk", "Cook"}, recipe.Instructions)
	})

	t.Run("recipe ids carry the source", func(t *testing.T) {
		assert.Regexp(t, `^ai-[0-9a-f-]{36}$`, NewRecipeId(SOURCE_AI))
		assert.Regexp(t, `^pantry-[0-9a-f-]{36}$`, NewRecipeId(SOURCE_PANTRY))
	})
}
