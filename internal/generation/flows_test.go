package generation_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/generation"
)

type fakeGenerator struct {
	answer  string
	err     error
	prompts []generation.Prompt
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt generation.Prompt, out any) error {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.answer), out)
}

const image = "data:image/jpeg;base64,aGVsbG8="

func TestSuggestRecipes(t *testing.T) {
	fake := &fakeGenerator{answer: `{"suggestedRecipes": [
		{"recipeName": "Salmon Bowl", "ingredients": ["salmon", "rice"], "instructions": "Cook it all.",
		 "nutritionalInformation": "500 kcal", "suitabilityScore": 9, "reasoning": "High protein"}
	]}`}
	flows := generation.NewFlows(fake, nil)
	out, err := flows.SuggestRecipes(context.Background(), generation.SuggestRecipesInput{
		LoggedMeals: []generation.LoggedMeal{{Name: "Oatmeal", Calories: 350}},
		Goals:       data.DefaultGoals(),
	})
	require.NoError(t, err)
	require.Len(t, out.SuggestedRecipes, 1)
	recipe := out.SuggestedRecipes[0]
	assert.Equal(t, data.Steps{"Cook it all."}, recipe.Instructions)
	assert.Equal(t, 9.0, *recipe.SuitabilityScore)

	require.Len(t, fake.prompts, 1)
	assert.Equal(t, "suggestRecipes", fake.prompts[0].Flow)
	assert.Contains(t, fake.prompts[0].Text, `"name":"Oatmeal"`)
	assert.Contains(t, fake.prompts[0].Text, `"calories":2500`)
	assert.Contains(t, fake.prompts[0].Text, "none given")
	assert.Nil(t, fake.prompts[0].Image)
}

func TestGenerateRecipesFromIngredients(t *testing.T) {
	t.Run("renders the pantry", func(t *testing.T) {
		fake := &fakeGenerator{answer: `{"recipes": [
			{"recipeName": "Omelette", "ingredients": ["eggs"], "instructions": ["Whisk", "Fry"], "reasoning": "Quick"}
		]}`}
		flows := generation.NewFlows(fake, nil)
		out, err := flows.GenerateRecipesFromIngredients(context.Background(), generation.GenerateRecipesInput{
			Ingredients: []string{"eggs", "chives"},
		})
		require.NoError(t, err)
		require.Len(t, out.Recipes, 1)
		assert.Equal(t, data.Steps{"Whisk", "Fry"}, out.Recipes[0].Instructions)
		assert.Contains(t, fake.prompts[0].Text, `["eggs","chives"]`)
	})

	t.Run("requires ingredients", func(t *testing.T) {
		fake := &fakeGenerator{}
		flows := generation.NewFlows(fake, nil)
		_, err := flows.GenerateRecipesFromIngredients(context.Background(), generation.GenerateRecipesInput{})
		var invalid *exceptions.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Empty(t, fake.prompts)
	})

	t.Run("rejects recipes without names", func(t *testing.T) {
		fake := &fakeGenerator{answer: `{"recipes": [{"ingredients": ["eggs"]}]}`}
		flows := generation.NewFlows(fake, nil)
		_, err := flows.GenerateRecipesFromIngredients(context.Background(), generation.GenerateRecipesInput{
			Ingredients: []string{"eggs"},
		})
		var upstream *exceptions.UpstreamError
		assert.ErrorAs(t, err, &upstream)
	})
}

func TestImageFlows(t *testing.T) {
	t.Run("identify ingredients", func(t *testing.T) {
		fake := &fakeGenerator{answer: `{"ingredients": ["milk", "eggs"]}`}
		flows := generation.NewFlows(fake, nil)
		ingredients, err := flows.IdentifyIngredients(context.Background(), image)
		require.NoError(t, err)
		assert.Equal(t, []string{"milk", "eggs"}, ingredients)
		require.NotNil(t, fake.prompts[0].Image)
		assert.Equal(t, "image/jpeg", fake.prompts[0].Image.MimeType)
		assert.Equal(t, "aGVsbG8=", fake.prompts[0].Image.Data)
	})

	t.Run("log meal", func(t *testing.T) {
		fake := &fakeGenerator{answer: `{"name": "Pasta", "calories": 650, "protein": 20, "carbs": 90, "fat": 18}`}
		flows := generation.NewFlows(fake, nil)
		estimate, err := flows.LogMealFromImage(context.Background(), generation.ImageInput{ImageDataUri: image})
		require.NoError(t, err)
		assert.Equal(t, generation.MealEstimate{Name: "Pasta", Calories: 650, Protein: 20, Carbs: 90, Fat: 18}, estimate)
	})

	t.Run("log meal rejects negative estimates", func(t *testing.T) {
		fake := &fakeGenerator{answer: `{"name": "Pasta", "calories": -1}`}
		flows := generation.NewFlows(fake, nil)
		_, err := flows.LogMealFromImage(context.Background(), generation.ImageInput{ImageDataUri: image})
		var upstream *exceptions.UpstreamError
		assert.ErrorAs(t, err, &upstream)
	})

	t.Run("bad images never reach the model", func(t *testing.T) {
		fake := &fakeGenerator{}
		flows := generation.NewFlows(fake, nil)
		_, err := flows.LogMealFromImage(context.Background(), generation.ImageInput{ImageDataUri: "not an image"})
		var invalid *exceptions.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Empty(t, fake.prompts)
	})
}

func TestProvideAssistance(t *testing.T) {
	t.Run("answers", func(t *testing.T) {
		fake := &fakeGenerator{answer: `{"answer": "Until golden brown."}`}
		flows := generation.NewFlows(fake, nil)
		out, err := flows.ProvideAssistance(context.Background(), generation.AssistanceInput{
			Question:    "How long?",
			RecipeName:  "Pancakes",
			CurrentStep: "Flip the pancake",
		})
		require.NoError(t, err)
		assert.Equal(t, "Until golden brown.", out.Answer)
		assert.Contains(t, fake.prompts[0].Text, "Current Step: Flip the pancake")
	})

	t.Run("generator failures pass through", func(t *testing.T) {
		cause := exceptions.Upstream("generation", errors.New("unavailable"))
		flows := generation.NewFlows(&fakeGenerator{err: cause}, nil)
		_, err := flows.ProvideAssistance(context.Background(), generation.AssistanceInput{
			Question:   "How long?",
			RecipeName: "Pancakes",
		})
		assert.ErrorIs(t, err, cause)
	})
}

func TestArCookingFlows(t *testing.T) {
	t.Run("highlight ingredients", func(t *testing.T) {
		fake := &fakeGenerator{answer: `{"instructions": "Highlight the oats in the pantry.", "nutritionalInfo": "{\"calories\": 150}"}`}
		flows := generation.NewFlows(fake, nil)
		out, err := flows.HighlightIngredients(context.Background(), generation.HighlightInput{
			Recipe:    "Recipe: Oatmeal. Ingredients: oats, milk.",
			ArContext: "Pantry to the left.",
		})
		require.NoError(t, err)
		assert.Equal(t, "Highlight the oats in the pantry.", out.Instructions)
		assert.Equal(t, `{"calories": 150}`, out.NutritionalInfo)
		assert.Equal(t, "highlightIngredients", fake.prompts[0].Flow)
		assert.Contains(t, fake.prompts[0].Text, "AR Context: Pantry to the left.")
	})

	t.Run("highlight requires the context", func(t *testing.T) {
		fake := &fakeGenerator{}
		flows := generation.NewFlows(fake, nil)
		_, err := flows.HighlightIngredients(context.Background(), generation.HighlightInput{Recipe: "Oatmeal"})
		var invalid *exceptions.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Empty(t, fake.prompts)
	})

	t.Run("adaptive guidance", func(t *testing.T) {
		fake := &fakeGenerator{answer: `{"feedback": "Lower the heat.", "nextStepSuggestion": "Add the eggs."}`}
		flows := generation.NewFlows(fake, nil)
		out, err := flows.ProvideAdaptiveGuidance(context.Background(), generation.GuidanceInput{
			CurrentStepDescription: "Heat the oil",
			UserActionDescription:  "The oil is smoking",
		})
		require.NoError(t, err)
		assert.Equal(t, generation.GuidanceOutput{Feedback: "Lower the heat.", NextStepSuggestion: "Add the eggs."}, out)
		assert.Contains(t, fake.prompts[0].Text, "User Action Description: The oil is smoking")
	})

	t.Run("adaptive guidance needs both answers", func(t *testing.T) {
		fake := &fakeGenerator{answer: `{"feedback": "Lower the heat."}`}
		flows := generation.NewFlows(fake, nil)
		_, err := flows.ProvideAdaptiveGuidance(context.Background(), generation.GuidanceInput{
			CurrentStepDescription: "Heat the oil",
			UserActionDescription:  "The oil is smoking",
		})
		var upstream *exceptions.UpstreamError
		assert.ErrorAs(t, err, &upstream)
	})
}

func weeklyPlan(days int) string {
	entries := make([]string, days)
	for i := range entries {
		entries[i] = `{"day": "Day", "meals": {"breakfast": "Oats", "lunch": "Salad", "dinner": "Salmon", "snack": "Apple"},
			"dailyTotals": {"calories": 2100, "protein": 140, "carbs": 220, "fat": 60}, "workoutSuggestion": "Run 5k"}`
	}
	return `{"weeklyPlan": [` + strings.Join(entries, ",") + `]}`
}

func TestProvidePersonalizedPlan(t *testing.T) {
	input := generation.PlanInput{
		Gender:        "female",
		HeightCm:      168,
		WeightKg:      62,
		Goal:          "Build Muscle",
		ActivityLevel: "moderately_active",
	}

	t.Run("seven days", func(t *testing.T) {
		fake := &fakeGenerator{answer: weeklyPlan(7)}
		flows := generation.NewFlows(fake, nil)
		out, err := flows.ProvidePersonalizedPlan(context.Background(), input)
		require.NoError(t, err)
		require.Len(t, out.WeeklyPlan, 7)
		assert.Equal(t, "Salmon", out.WeeklyPlan[0].Meals.Dinner)
		assert.Equal(t, 140.0, out.WeeklyPlan[6].DailyTotals.Protein)
		assert.Contains(t, fake.prompts[0].Text, "Height: 168 cm")
		assert.Contains(t, fake.prompts[0].Text, "Dietary Preferences: none given")
	})

	t.Run("short plans are rejected", func(t *testing.T) {
		flows := generation.NewFlows(&fakeGenerator{answer: weeklyPlan(3)}, nil)
		_, err := flows.ProvidePersonalizedPlan(context.Background(), input)
		var upstream *exceptions.UpstreamError
		assert.ErrorAs(t, err, &upstream)
	})

	t.Run("missing meals are rejected", func(t *testing.T) {
		answer := strings.Replace(weeklyPlan(7), `"snack": "Apple"`, `"snack": ""`, 1)
		flows := generation.NewFlows(&fakeGenerator{answer: answer}, nil)
		_, err := flows.ProvidePersonalizedPlan(context.Background(), input)
		var upstream *exceptions.UpstreamError
		assert.ErrorAs(t, err, &upstream)
	})

	t.Run("body measurements are required", func(t *testing.T) {
		fake := &fakeGenerator{}
		flows := generation.NewFlows(fake, nil)
		invalidInput := input
		invalidInput.WeightKg = 0
		_, err := flows.ProvidePersonalizedPlan(context.Background(), invalidInput)
		var invalid *exceptions.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Empty(t, fake.prompts)
	})
}
