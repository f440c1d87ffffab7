package recipes

import (
	"time"

	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/generation"
)

type Review struct {
	Author    string  `json:"author"`
	AvatarUrl string  `json:"avatarUrl"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment"`
}

type Recipe struct {
	Id                     string        `json:"id"`
	RecipeName             string        `json:"recipeName"`
	Ingredients            []string      `json:"ingredients"`
	Instructions           []string      `json:"instructions"`
	Reasoning              string        `json:"reasoning"`
	Category               data.Category `json:"category"`
	ImageHint              string        `json:"imageHint"`
	IsFavorited            bool          `json:"isFavorited"`
	Calories               *float64      `json:"calories,omitempty"`
	Protein                *float64      `json:"protein,omitempty"`
	Carbs                  *float64      `json:"carbs,omitempty"`
	Fat                    *float64      `json:"fat,omitempty"`
	Rating                 *float64      `json:"rating,omitempty"`
	HealthScore            *float64      `json:"healthScore,omitempty"`
	SuitabilityScore       *float64      `json:"suitabilityScore,omitempty"`
	NutritionalInformation *string       `json:"nutritionalInformation,omitempty"`
	Reviews                []Review      `json:"reviews,omitempty"`
	CreateTime             time.Time     `json:"createTime"`
}

func NewRecipe(recipe data.RecipeDTO) Recipe {
	reviews := make([]Review, len(recipe.Reviews))
	for i, review := range recipe.Reviews {
		reviews[i] = Review(review)
	}
	instructions := recipe.Instructions
	if instructions == nil {
		instructions = []string{}
	}
	ingredients := recipe.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return Recipe{
		Id:                     recipe.SK,
		RecipeName:             recipe.RecipeName,
		Ingredients:            ingredients,
		Instructions:           instructions,
		Reasoning:              recipe.Reasoning,
		Category:               recipe.Category,
		ImageHint:              recipe.ImageHint,
		IsFavorited:            recipe.IsFavorited,
		Calories:               recipe.Calories,
		Protein:                recipe.Protein,
		Carbs:                  recipe.Carbs,
		Fat:                    recipe.Fat,
		Rating:                 recipe.Rating,
		HealthScore:            recipe.HealthScore,
		SuitabilityScore:       recipe.SuitabilityScore,
		NutritionalInformation: recipe.NutritionalInformation,
		Reviews:                reviews,
		CreateTime:             recipe.CreateTime,
	}
}

type Recipes struct {
	Items []Recipe `json:"items"`
}

func NewRecipes(recipes []data.RecipeDTO) Recipes {
	items := make([]Recipe, len(recipes))
	for i, recipe := range recipes {
		items[i] = NewRecipe(recipe)
	}
	return Recipes{Items: items}
}

type SuggestionInput struct {
	Preferences string `json:"preferences"`
}

type AssistInput struct {
	Question    string `json:"question"`
	CurrentStep *int   `json:"currentStep,omitempty"`
}

type Assistance struct {
	Answer string `json:"answer"`
}

type HighlightInput struct {
	ArContext string `json:"arContext"`
}

type Highlight struct {
	Instructions    string `json:"instructions"`
	NutritionalInfo string `json:"nutritionalInfo"`
}

func NewHighlight(out generation.HighlightOutput) Highlight {
	return Highlight(out)
}

type GuidanceInput struct {
	CurrentStep *int   `json:"currentStep,omitempty"`
	UserAction  string `json:"userAction"`
}

type Guidance struct {
	Feedback           string `json:"feedback"`
	NextStepSuggestion string `json:"nextStepSuggestion"`
}

func NewGuidance(out generation.GuidanceOutput) Guidance {
	return Guidance(out)
}
