package plans

import (
	"math"

	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/generation"
)

const (
	UNITS_METRIC   = "metric"
	UNITS_IMPERIAL = "imperial"
)

// PlanInput takes height and weight in centimeters and kilograms, or in
// feet, inches and pounds when Units is imperial.
type PlanInput struct {
	Units              string  `json:"units"`
	Gender             string  `json:"gender"`
	Height             float64 `json:"height"`
	Weight             float64 `json:"weight"`
	HeightFt           float64 `json:"heightFt"`
	HeightIn           float64 `json:"heightIn"`
	WeightLbs          float64 `json:"weightLbs"`
	Goal               string  `json:"goal"`
	ActivityLevel      string  `json:"activityLevel"`
	DietaryPreferences string  `json:"dietaryPreferences"`
}

func (p PlanInput) toData() (generation.PlanInput, error) {
	input := generation.PlanInput{
		Gender:             p.Gender,
		HeightCm:           p.Height,
		WeightKg:           p.Weight,
		Goal:               p.Goal,
		ActivityLevel:      p.ActivityLevel,
		DietaryPreferences: p.DietaryPreferences,
	}
	switch p.Units {
	case "", UNITS_METRIC:
	case UNITS_IMPERIAL:
		input.HeightCm = math.Round((p.HeightFt*12 + p.HeightIn) * 2.54)
		input.WeightKg = math.Round(p.WeightLbs * 0.453592)
	default:
		return input, exceptions.InvalidInput("units must be one of metric, imperial")
	}
	return input, nil
}

type Meals struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snack     string `json:"snack"`
}

type Day struct {
	Day               string               `json:"day"`
	Meals             Meals                `json:"meals"`
	DailyTotals       data.NutritionTotals `json:"dailyTotals"`
	WorkoutSuggestion string               `json:"workoutSuggestion"`
}

type Plan struct {
	WeeklyPlan []Day `json:"weeklyPlan"`
}

func NewPlan(out generation.PlanOutput) Plan {
	days := make([]Day, len(out.WeeklyPlan))
	for i, day := range out.WeeklyPlan {
		days[i] = Day{
			Day:               day.Day,
			Meals:             Meals(day.Meals),
			DailyTotals:       day.DailyTotals,
			WorkoutSuggestion: day.WorkoutSuggestion,
		}
	}
	return Plan{WeeklyPlan: days}
}
