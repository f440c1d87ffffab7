package meals

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/dynamodb/services"
	"philcali.me/nutrition/internal/dynamodb/token"
	"philcali.me/nutrition/internal/validation"
)

// MealDynamoDBService keys meals by UUIDv7 so a forward query returns them
// in insertion order.
type MealDynamoDBService struct {
	repository *services.RepositoryDynamoDBService[data.MealDTO]
}

func NewMealService(tableName string, client *dynamodb.Client, marshaler token.TokenMarshaler) *MealDynamoDBService {
	return &MealDynamoDBService{
		repository: &services.RepositoryDynamoDBService[data.MealDTO]{
			DynamoDB:       client,
			TableName:      tableName,
			TokenMarshaler: marshaler,
			Name:           "Meal",
			Shim: func(pk, sk string) data.MealDTO {
				return data.MealDTO{PK: pk, SK: sk}
			},
			GetSK: func(md data.MealDTO) string {
				return md.SK
			},
		},
	}
}

func (ms *MealDynamoDBService) ListMeals(accountId string, params data.QueryParams) (data.QueryResults[data.MealDTO], error) {
	return ms.repository.List(accountId, params)
}

func (ms *MealDynamoDBService) AddMeal(accountId string, input data.MealInputDTO) (data.MealDTO, error) {
	if err := validation.Struct(input); err != nil {
		return data.MealDTO{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return data.MealDTO{}, err
	}
	return ms.repository.Create(data.MealDTO{
		PK:         ms.repository.PK(accountId),
		SK:         id.String(),
		Name:       input.Name,
		Calories:   input.Calories,
		Protein:    input.Protein,
		Carbs:      input.Carbs,
		Fat:        input.Fat,
		ImageHint:  input.ImageHint,
		CreateTime: time.Now(),
	})
}
