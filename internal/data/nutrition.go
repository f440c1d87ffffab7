package data

type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type NutritionGoals struct {
	Calories float64 `json:"calories" validate:"gt=0"`
	Protein  float64 `json:"protein" validate:"gt=0"`
	Carbs    float64 `json:"carbs" validate:"gt=0"`
	Fat      float64 `json:"fat" validate:"gt=0"`
}

func DefaultGoals() NutritionGoals {
	return NutritionGoals{
		Calories: 2500,
		Protein:  150,
		Carbs:    280,
		Fat:      70,
	}
}

type GoalProgress struct {
	Value   float64 `json:"value"`
	Goal    float64 `json:"goal"`
	Percent float64 `json:"percent"`
}

type MacroProgress struct {
	Protein GoalProgress `json:"protein"`
	Carbs   GoalProgress `json:"carbs"`
	Fat     GoalProgress `json:"fat"`
}

type NutritionView struct {
	Calories GoalProgress  `json:"calories"`
	Macros   MacroProgress `json:"macros"`
}
