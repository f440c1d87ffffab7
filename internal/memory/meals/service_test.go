package meals_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/dynamodb/token"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/memory/meals"
)

func TestMealMemoryService(t *testing.T) {
	samples := []data.MealInputDTO{
		{Name: "Oatmeal with Berries", Calories: 350, Protein: 10, Carbs: 60, Fat: 8},
		{Name: "Grilled Chicken Salad", Calories: 500, Protein: 40, Carbs: 30, Fat: 25},
	}
	service := meals.NewMealService(token.NewGCM(), samples...)
	accountId := "nutrition-user"

	t.Run("ListMeals starts with samples", func(t *testing.T) {
		page, err := service.ListMeals(accountId, data.QueryParams{})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Oatmeal with Berries", page.Items[0].Name)
		assert.Nil(t, page.NextToken)
	})

	t.Run("AddMeal appends in insertion order", func(t *testing.T) {
		first, err := service.AddMeal(accountId, data.MealInputDTO{Name: "Apple", Calories: 95})
		require.NoError(t, err)
		second, err := service.AddMeal(accountId, data.MealInputDTO{Name: "Apple", Calories: 95})
		require.NoError(t, err)
		assert.NotEqual(t, first.SK, second.SK)
		all, err := data.AllMeals(service, accountId)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, first.SK, all[2].SK)
		assert.Equal(t, second.SK, all[3].SK)
	})

	t.Run("AddMeal rejects invalid input", func(t *testing.T) {
		_, err := service.AddMeal(accountId, data.MealInputDTO{Name: "Broken", Protein: -4})
		var invalid *exceptions.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		all, err := data.AllMeals(service, accountId)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("ListMeals pages", func(t *testing.T) {
		seen := make(map[string]bool)
		params := data.QueryParams{Limit: 3}
		first, err := service.ListMeals(accountId, params)
		require.NoError(t, err)
		require.Len(t, first.Items, 3)
		require.NotNil(t, first.NextToken)
		params.NextToken = first.NextToken
		second, err := service.ListMeals(accountId, params)
		require.NoError(t, err)
		require.Len(t, second.Items, 1)
		assert.Nil(t, second.NextToken)
		for _, meal := range append(first.Items, second.Items...) {
			assert.False(t, seen[meal.SK], "duplicate meal %s", meal.SK)
			seen[meal.SK] = true
		}
	})

	t.Run("ListMeals rejects bad tokens", func(t *testing.T) {
		_, err := service.ListMeals(accountId, data.QueryParams{NextToken: []byte("garbage")})
		var invalid *exceptions.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "nextToken is not valid", invalid.Message)

		first, err := service.ListMeals(accountId, data.QueryParams{Limit: 1})
		require.NoError(t, err)
		require.NotNil(t, first.NextToken)
		_, err = service.ListMeals("someone-else", data.QueryParams{Limit: 1, NextToken: first.NextToken})
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("accounts are isolated", func(t *testing.T) {
		all, err := data.AllMeals(service, "someone-else")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("rapid adds never collide", func(t *testing.T) {
		ids := make(map[string]bool)
		for i := 0; i < 200; i++ {
			meal, err := service.AddMeal("burst", data.MealInputDTO{Name: "Snack"})
			require.NoError(t, err)
			assert.False(t, ids[meal.SK])
			ids[meal.SK] = true
		}
	})
}
