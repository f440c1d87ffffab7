package data

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	BREAKFAST    Category = "Breakfast"
	LUNCH        Category = "Lunch"
	DINNER       Category = "Dinner"
	SNACK        Category = "Snack"
	DESSERT      Category = "Dessert"
	AI_GENERATED Category = "AI-Generated"
	PANTRY       Category = "Pantry"
)

func (c Category) Valid() bool {
	switch c {
	case BREAKFAST, LUNCH, DINNER, SNACK, DESSERT, AI_GENERATED, PANTRY:
		return true
	}
	return false
}

type SourceTag string

const (
	SOURCE_AI     SourceTag = "ai"
	SOURCE_PANTRY SourceTag = "pantry"
)

func (t SourceTag) Category() Category {
	if t == SOURCE_PANTRY {
		return PANTRY
	}
	return AI_GENERATED
}

const GENERATED_IMAGE_HINT = "ai recipe"

type ReviewDTO struct {
	Author    string  `dynamodbav:"author" yaml:"author"`
	AvatarUrl string  `dynamodbav:"avatarUrl" yaml:"avatarUrl"`
	Rating    float64 `dynamodbav:"rating" yaml:"rating"`
	Comment   string  `dynamodbav:"comment" yaml:"comment"`
}

type RecipeDTO struct {
	PK                     string      `dynamodbav:"PK" yaml:"-"`
	SK                     string      `dynamodbav:"SK" yaml:"id"`
	RecipeName             string      `dynamodbav:"recipeName" yaml:"recipeName"`
	Ingredients            []string    `dynamodbav:"ingredients" yaml:"ingredients"`
	Instructions           []string    `dynamodbav:"instructions" yaml:"instructions"`
	Reasoning              string      `dynamodbav:"reasoning" yaml:"reasoning"`
	Category               Category    `dynamodbav:"category" yaml:"category"`
	ImageHint              string      `dynamodbav:"imageHint" yaml:"imageHint"`
	IsFavorited            bool        `dynamodbav:"isFavorited" yaml:"isFavorited"`
	Calories               *float64    `dynamodbav:"calories" yaml:"calories"`
	Protein                *float64    `dynamodbav:"protein" yaml:"protein"`
	Carbs                  *float64    `dynamodbav:"carbs" yaml:"carbs"`
	Fat                    *float64    `dynamodbav:"fat" yaml:"fat"`
	Rating                 *float64    `dynamodbav:"rating" yaml:"rating"`
	HealthScore            *float64    `dynamodbav:"healthScore" yaml:"healthScore"`
	SuitabilityScore       *float64    `dynamodbav:"suitabilityScore" yaml:"suitabilityScore"`
	NutritionalInformation *string     `dynamodbav:"nutritionalInformation" yaml:"nutritionalInformation"`
	Reviews                []ReviewDTO `dynamodbav:"reviews" yaml:"reviews"`
	Batch                  string      `dynamodbav:"batch" yaml:"-"`
	Position               int         `dynamodbav:"position" yaml:"-"`
	CreateTime             time.Time   `dynamodbav:"createTime" yaml:"-"`
}

type RecipeFilter struct {
	Category      *Category
	FavoritesOnly bool
}

func (f RecipeFilter) Matches(recipe RecipeDTO) bool {
	if f.Category != nil && recipe.Category != *f.Category {
		return false
	}
	return !f.FavoritesOnly || recipe.IsFavorited
}

// Steps decodes instructions that arrive either as a list of steps or as a
// single block of text.
type Steps []string

func (s *Steps) UnmarshalJSON(b []byte) error {
	var many []string
	if err := json.Unmarshal(b, &many); err == nil {
		*s = many
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return fmt.Errorf("instructions must be a string or a list of strings: %w", err)
	}
	if strings.TrimSpace(one) == "" {
		*s = Steps{}
		return nil
	}
	*s = Steps{one}
	return nil
}

// GeneratedRecipeDTO is a recipe as returned by the generation service, before
// it is normalized into a RecipeDTO.
type GeneratedRecipeDTO struct {
	RecipeName             string   `json:"recipeName" validate:"required"`
	Ingredients            []string `json:"ingredients" validate:"required"`
	Instructions           Steps    `json:"instructions"`
	Reasoning              string   `json:"reasoning"`
	NutritionalInformation *string  `json:"nutritionalInformation,omitempty"`
	SuitabilityScore       *float64 `json:"suitabilityScore,omitempty"`
	Calories               *float64 `json:"calories,omitempty" validate:"omitempty,gte=0"`
	Protein                *float64 `json:"protein,omitempty" validate:"omitempty,gte=0"`
	Carbs                  *float64 `json:"carbs,omitempty" validate:"omitempty,gte=0"`
	Fat                    *float64 `json:"fat,omitempty" validate:"omitempty,gte=0"`
}

func NewRecipeId(tag SourceTag) string {
	return fmt.Sprintf("%s-%s", tag, uuid.Must(uuid.NewV7()).String())
}

// NewBatchId orders generated batches; later batches compare greater.
func NewBatchId() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (g GeneratedRecipeDTO) ToRecipe(pk string, sk string, tag SourceTag, batch string, position int, now time.Time) RecipeDTO {
	instructions := []string(g.Instructions)
	if instructions == nil {
		instructions = []string{}
	}
	ingredients := g.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return RecipeDTO{
		PK:                     pk,
		SK:                     sk,
		RecipeName:             g.RecipeName,
		Ingredients:            ingredients,
		Instructions:           instructions,
		Reasoning:              g.Reasoning,
		Category:               tag.Category(),
		ImageHint:              GENERATED_IMAGE_HINT,
		IsFavorited:            false,
		Calories:               g.Calories,
		Protein:                g.Protein,
		Carbs:                  g.Carbs,
		Fat:                    g.Fat,
		SuitabilityScore:       g.SuitabilityScore,
		NutritionalInformation: g.NutritionalInformation,
		Batch:                  batch,
		Position:               position,
		CreateTime:             now,
	}
}

type RecipeRepository interface {
	ListRecipes(accountId string, filter RecipeFilter) ([]RecipeDTO, error)
	GetRecipe(accountId string, recipeId string) (RecipeDTO, error)
	ToggleFavorite(accountId string, recipeId string) error
	AddGeneratedRecipes(accountId string, generated []GeneratedRecipeDTO, tag SourceTag) ([]RecipeDTO, error)
}
