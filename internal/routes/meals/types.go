package meals

import (
	"time"

	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/generation"
)

type MealInput struct {
	Name      string  `json:"name"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
	ImageHint *string `json:"imageHint,omitempty"`
}

func (m *MealInput) ToData() data.MealInputDTO {
	return data.MealInputDTO{
		Name:      m.Name,
		Calories:  m.Calories,
		Protein:   m.Protein,
		Carbs:     m.Carbs,
		Fat:       m.Fat,
		ImageHint: m.ImageHint,
	}
}

type Meal struct {
	Id           string    `json:"id"`
	Name         string    `json:"name"`
	Calories     float64   `json:"calories"`
	Protein      float64   `json:"protein"`
	Carbs        float64   `json:"carbs"`
	Fat          float64   `json:"fat"`
	ImageHint    *string   `json:"imageHint,omitempty"`
	CreateTime   time.Time `json:"createTime"`
	GoalsReached []string  `json:"goalsReached,omitempty"`
}

func NewMeal(meal data.MealDTO) Meal {
	return Meal{
		Id:         meal.SK,
		Name:       meal.Name,
		Calories:   meal.Calories,
		Protein:    meal.Protein,
		Carbs:      meal.Carbs,
		Fat:        meal.Fat,
		ImageHint:  meal.ImageHint,
		CreateTime: meal.CreateTime,
	}
}

type AnalyzeInput struct {
	ImageDataUri string `json:"imageDataUri"`
}

type MealEstimate struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func NewMealEstimate(estimate generation.MealEstimate) MealEstimate {
	return MealEstimate(estimate)
}
