package recipes

import (
	"errors"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/data/seed"
	"philcali.me/nutrition/internal/dynamodb/services"
	"philcali.me/nutrition/internal/exceptions"
)

const toggleAttempts = 3

type seedMarker struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	CreateTime time.Time `dynamodbav:"createTime"`
}

// RecipeDynamoDBService installs the seed recipes into an account's
// partition the first time the account touches its collection.
type RecipeDynamoDBService struct {
	repository *services.RepositoryDynamoDBService[data.RecipeDTO]
	markers    *services.RepositoryDynamoDBService[seedMarker]
}

func NewRecipeService(tableName string, client *dynamodb.Client) *RecipeDynamoDBService {
	return &RecipeDynamoDBService{
		repository: &services.RepositoryDynamoDBService[data.RecipeDTO]{
			DynamoDB:  client,
			TableName: tableName,
			Name:      "Recipe",
			Shim: func(pk, sk string) data.RecipeDTO {
				return data.RecipeDTO{PK: pk, SK: sk}
			},
			GetSK: func(rd data.RecipeDTO) string {
				return rd.SK
			},
		},
		markers: &services.RepositoryDynamoDBService[seedMarker]{
			DynamoDB:  client,
			TableName: tableName,
			Name:      "RecipeSeed",
			Shim: func(pk, sk string) seedMarker {
				return seedMarker{PK: pk, SK: sk}
			},
			GetSK: func(sm seedMarker) string {
				return sm.SK
			},
		},
	}
}

// ensureSeeded claims the account's seed marker before writing seeds, so
// only the first caller installs them and later callers never overwrite a
// recipe the account has since changed.
func (rs *RecipeDynamoDBService) ensureSeeded(accountId string) error {
	_, err := rs.markers.Get(accountId, "Global")
	var notFound *exceptions.NotFoundError
	if err == nil || !errors.As(err, &notFound) {
		return err
	}
	now := time.Now()
	_, err = rs.markers.Create(seedMarker{
		PK:         rs.markers.PK(accountId),
		SK:         "Global",
		CreateTime: now,
	})
	var conflict *exceptions.ConflictError
	if errors.As(err, &conflict) {
		return nil
	}
	if err != nil {
		return err
	}
	recipes, err := seed.Recipes(rs.repository.PK(accountId))
	if err == nil {
		for i := range recipes {
			recipes[i].CreateTime = now
		}
		err = rs.repository.BatchCreate(recipes)
	}
	if err != nil {
		// Release the claim so the next call can try again.
		return errors.Join(err, rs.markers.Delete(accountId, "Global"))
	}
	return nil
}

// Newest generated batch first, seeds last, each in its own order.
func sortRecipes(recipes []data.RecipeDTO) {
	sort.SliceStable(recipes, func(i, j int) bool {
		if recipes[i].Batch != recipes[j].Batch {
			return recipes[i].Batch > recipes[j].Batch
		}
		return recipes[i].Position < recipes[j].Position
	})
}

func (rs *RecipeDynamoDBService) ListRecipes(accountId string, filter data.RecipeFilter) ([]data.RecipeDTO, error) {
	if err := rs.ensureSeeded(accountId); err != nil {
		return nil, err
	}
	all, err := rs.repository.QueryAll(accountId)
	if err != nil {
		return nil, err
	}
	sortRecipes(all)
	results := make([]data.RecipeDTO, 0, len(all))
	for _, recipe := range all {
		if filter.Matches(recipe) {
			results = append(results, recipe)
		}
	}
	return results, nil
}

func (rs *RecipeDynamoDBService) GetRecipe(accountId string, recipeId string) (data.RecipeDTO, error) {
	if err := rs.ensureSeeded(accountId); err != nil {
		return data.RecipeDTO{}, err
	}
	return rs.repository.Get(accountId, recipeId)
}

// ToggleFavorite flips the flag only if nobody else flipped it since it was
// read, retrying a few times under contention.
func (rs *RecipeDynamoDBService) ToggleFavorite(accountId string, recipeId string) error {
	if err := rs.ensureSeeded(accountId); err != nil {
		return err
	}
	var err error
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		var current data.RecipeDTO
		current, err = rs.repository.Get(accountId, recipeId)
		var notFound *exceptions.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if err != nil {
			return err
		}
		unchanged := expression.Name("isFavorited").Equal(expression.Value(current.IsFavorited))
		_, err = rs.repository.Update(accountId, recipeId, func(update expression.UpdateBuilder) expression.UpdateBuilder {
			return update.Set(expression.Name("isFavorited"), expression.Value(!current.IsFavorited))
		}, &unchanged)
		if !services.IsConditionFailure(err) {
			return err
		}
	}
	return err
}

func (rs *RecipeDynamoDBService) AddGeneratedRecipes(accountId string, generated []data.GeneratedRecipeDTO, tag data.SourceTag) ([]data.RecipeDTO, error) {
	batch := make([]data.RecipeDTO, 0, len(generated))
	if len(generated) == 0 {
		return batch, nil
	}
	if err := rs.ensureSeeded(accountId); err != nil {
		return nil, err
	}
	pk := rs.repository.PK(accountId)
	batchId := data.NewBatchId()
	now := time.Now()
	for i, g := range generated {
		batch = append(batch, g.ToRecipe(pk, data.NewRecipeId(tag), tag, batchId, i, now))
	}
	if err := rs.repository.CreateAll(batch); err != nil {
		return nil, err
	}
	return batch, nil
}
