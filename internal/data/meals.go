package data

import "time"

type MealDTO struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	Name       string    `dynamodbav:"name"`
	Calories   float64   `dynamodbav:"calories"`
	Protein    float64   `dynamodbav:"protein"`
	Carbs      float64   `dynamodbav:"carbs"`
	Fat        float64   `dynamodbav:"fat"`
	ImageHint  *string   `dynamodbav:"imageHint"`
	CreateTime time.Time `dynamodbav:"createTime"`
}

type MealInputDTO struct {
	Name      string  `validate:"required"`
	Calories  float64 `validate:"gte=0"`
	Protein   float64 `validate:"gte=0"`
	Carbs     float64 `validate:"gte=0"`
	Fat       float64 `validate:"gte=0"`
	ImageHint *string
}

type MealRepository interface {
	ListMeals(accountId string, params QueryParams) (QueryResults[MealDTO], error)
	AddMeal(accountId string, input MealInputDTO) (MealDTO, error)
}

// AllMeals follows next tokens until the whole meal log has been read.
func AllMeals(repo MealRepository, accountId string) ([]MealDTO, error) {
	meals := make([]MealDTO, 0)
	params := QueryParams{}
	for {
		page, err := repo.ListMeals(accountId, params)
		if err != nil {
			return nil, err
		}
		meals = append(meals, page.Items...)
		if len(page.NextToken) == 0 {
			return meals, nil
		}
		params.NextToken = page.NextToken
	}
}
