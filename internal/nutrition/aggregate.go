package nutrition

import (
	"math"

	"philcali.me/nutrition/internal/data"
)

type Goal string

const (
	CALORIES Goal = "calories"
	PROTEIN  Goal = "protein"
	CARBS    Goal = "carbs"
	FAT      Goal = "fat"
)

func ComputeTotals(meals []data.MealDTO) data.NutritionTotals {
	var totals data.NutritionTotals
	for _, meal := range meals {
		totals.Calories += meal.Calories
		totals.Protein += meal.Protein
		totals.Carbs += meal.Carbs
		totals.Fat += meal.Fat
	}
	return totals
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percent of goal reached. A goal that is not positive counts as met once
// anything has been eaten.
func Percent(value, goal float64) float64 {
	if goal <= 0 {
		if value <= 0 {
			return 0
		}
		return 100
	}
	return round2(value / goal * 100)
}

func progress(value, goal float64) data.GoalProgress {
	return data.GoalProgress{
		Value:   value,
		Goal:    goal,
		Percent: Percent(value, goal),
	}
}

func BuildView(totals data.NutritionTotals, goals data.NutritionGoals) data.NutritionView {
	return data.NutritionView{
		Calories: progress(totals.Calories, goals.Calories),
		Macros: data.MacroProgress{
			Protein: progress(totals.Protein, goals.Protein),
			Carbs:   progress(totals.Carbs, goals.Carbs),
			Fat:     progress(totals.Fat, goals.Fat),
		},
	}
}

func pairs(totals data.NutritionTotals, goals data.NutritionGoals) []struct {
	goal   Goal
	value  float64
	target float64
} {
	return []struct {
		goal   Goal
		value  float64
		target float64
	}{
		{CALORIES, totals.Calories, goals.Calories},
		{PROTEIN, totals.Protein, goals.Protein},
		{CARBS, totals.Carbs, goals.Carbs},
		{FAT, totals.Fat, goals.Fat},
	}
}

// Crossed lists the goals that were below target before and have reached it
// after, in calories, protein, carbs, fat order.
func Crossed(before, after data.NutritionTotals, goals data.NutritionGoals) []Goal {
	crossed := make([]Goal, 0)
	was := pairs(before, goals)
	for i, now := range pairs(after, goals) {
		if now.target <= 0 {
			continue
		}
		if was[i].value < now.target && now.value >= now.target {
			crossed = append(crossed, now.goal)
		}
	}
	return crossed
}
