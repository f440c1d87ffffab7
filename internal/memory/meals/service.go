package meals

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/dynamodb/token"
	"philcali.me/nutrition/internal/memory"
	"philcali.me/nutrition/internal/validation"
)

type mealLog struct {
	PK    string
	Meals []data.MealDTO
}

type MealMemoryService struct {
	registry       *memory.Registry[mealLog]
	TokenMarshaler token.TokenMarshaler
}

// NewMealService starts every account with the same sample meals so a fresh
// log has something to aggregate.
func NewMealService(marshaler token.TokenMarshaler, samples ...data.MealInputDTO) *MealMemoryService {
	return &MealMemoryService{
		TokenMarshaler: marshaler,
		registry: memory.NewRegistry(func(accountId string) (*mealLog, error) {
			log := &mealLog{PK: fmt.Sprintf("%s:Meal", accountId)}
			for _, sample := range samples {
				meal, err := newMeal(log.PK, sample)
				if err != nil {
					return nil, err
				}
				log.Meals = append(log.Meals, meal)
			}
			return log, nil
		}),
	}
}

func newMeal(pk string, input data.MealInputDTO) (data.MealDTO, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return data.MealDTO{}, err
	}
	return data.MealDTO{
		PK:         pk,
		SK:         id.String(),
		Name:       input.Name,
		Calories:   input.Calories,
		Protein:    input.Protein,
		Carbs:      input.Carbs,
		Fat:        input.Fat,
		ImageHint:  input.ImageHint,
		CreateTime: time.Now(),
	}, nil
}

func (ms *MealMemoryService) ListMeals(accountId string, params data.QueryParams) (data.QueryResults[data.MealDTO], error) {
	var results data.QueryResults[data.MealDTO]
	err := ms.registry.Read(accountId, func(log *mealLog) error {
		page, err := memory.Page(log.Meals, log.PK, func(m data.MealDTO) string {
			return m.SK
		}, accountId, params, ms.TokenMarshaler)
		results = page
		return err
	})
	return results, err
}

func (ms *MealMemoryService) AddMeal(accountId string, input data.MealInputDTO) (data.MealDTO, error) {
	if err := validation.Struct(input); err != nil {
		return data.MealDTO{}, err
	}
	var meal data.MealDTO
	err := ms.registry.Write(accountId, func(log *mealLog) error {
		created, err := newMeal(log.PK, input)
		if err != nil {
			return err
		}
		log.Meals = append(log.Meals, created)
		meal = created
		return nil
	})
	return meal, err
}
