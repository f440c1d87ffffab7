package recipes

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/generation"
	"philcali.me/nutrition/internal/routes"
	"philcali.me/nutrition/internal/routes/util"
)

type Advisor interface {
	SuggestRecipes(ctx context.Context, input generation.SuggestRecipesInput) (generation.SuggestRecipesOutput, error)
	ProvideAssistance(ctx context.Context, input generation.AssistanceInput) (generation.AssistanceOutput, error)
	HighlightIngredients(ctx context.Context, input generation.HighlightInput) (generation.HighlightOutput, error)
	ProvideAdaptiveGuidance(ctx context.Context, input generation.GuidanceInput) (generation.GuidanceOutput, error)
}

const DEFAULT_AR_CONTEXT = "User is in a modern kitchen. A pantry is to the left, refrigerator to the right. Countertop has a cutting board and a knife set."


type RecipeService struct {
	data     data.RecipeRepository
	meals    data.MealRepository
	goals    data.NutritionGoals
	advisor  Advisor
	inFlight *generation.InFlight
}

func NewRoute(
	data data.RecipeRepository,
	meals data.MealRepository,
	goals data.NutritionGoals,
	advisor Advisor,
	inFlight *generation.InFlight) routes.Service {
	return &RecipeService{
		data:     data,
		meals:    meals,
		goals:    goals,
		advisor:  advisor,
		inFlight: inFlight,
	}
}

func (rs *RecipeService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/recipes":                      util.AuthorizedRoute(rs.ListRecipes),
		"GET:/recipes/:recipeId":            util.AuthorizedRoute(rs.GetRecipe),
		"POST:/recipes/:recipeId/favorite":  util.AuthorizedRoute(rs.ToggleFavorite),
		"POST:/recipes/:recipeId/assist":    util.AuthorizedRoute(rs.Assist),
		"POST:/recipes/:recipeId/highlight": util.AuthorizedRoute(rs.Highlight),
		"POST:/recipes/:recipeId/guidance":  util.AuthorizedRoute(rs.Guidance),
		"POST:/recipes/suggestions":         util.AuthorizedRoute(rs.SuggestRecipes),
	}
}

func filterFromQuery(event events.APIGatewayV2HTTPRequest) (data.RecipeFilter, error) {
	var filter data.RecipeFilter
	if value, ok := event.QueryStringParameters["category"]; ok && value != "" {
		category := data.Category(value)
		if !category.Valid() {
			return filter, exceptions.InvalidInput(fmt.Sprintf("Unknown category %s", value))
		}
		filter.Category = &category
	}
	if value, ok := event.QueryStringParameters["favorites"]; ok {
		filter.FavoritesOnly = value == "true"
	}
	return filter, nil
}

func (rs *RecipeService) ListRecipes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	filter, err := filterFromQuery(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	items, err := rs.data.ListRecipes(util.Username(ctx), filter)
	return util.SerializeResponseOK(NewRecipes, items, err)
}

func (rs *RecipeService) GetRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := rs.data.GetRecipe(util.Username(ctx), util.RequestParam(ctx, "recipeId"))
	return util.SerializeResponseOK(NewRecipe, item, err)
}

func (rs *RecipeService) ToggleFavorite(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeResponseNoContent(rs.data.ToggleFavorite(util.Username(ctx), util.RequestParam(ctx, "recipeId")))
}

// stepOf picks an instruction by index, the first one when no index is given.
// A recipe without instructions has an empty current step.
func stepOf(recipe data.RecipeDTO, index *int) (string, error) {
	step := 0
	if index != nil {
		step = *index
	}
	if len(recipe.Instructions) == 0 {
		return "", nil
	}
	if step < 0 || step >= len(recipe.Instructions) {
		return "", exceptions.InvalidInput(fmt.Sprintf("currentStep must be between 0 and %d", len(recipe.Instructions)-1))
	}
	return recipe.Instructions[step], nil
}

// Assist answers a question about one step of a stored recipe. Without a
// step index the first step is used.
func (rs *RecipeService) Assist(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[AssistInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	accountId := util.Username(ctx)
	recipe, err := rs.data.GetRecipe(accountId, util.RequestParam(ctx, "recipeId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	currentStep, err := stepOf(recipe, input.CurrentStep)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	var answer generation.AssistanceOutput
	err = rs.inFlight.Run(accountId, func() error {
		answer, err = rs.advisor.ProvideAssistance(ctx, generation.AssistanceInput{
			Question:    input.Question,
			RecipeName:  recipe.RecipeName,
			CurrentStep: currentStep,
		})
		return err
	})
	return util.SerializeResponseOK(func(out generation.AssistanceOutput) Assistance {
		return Assistance{Answer: out.Answer}
	}, answer, err)
}

func (rs *RecipeService) SuggestRecipes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	var input SuggestionInput
	if event.Body != "" {
		parsed, err := util.ParseBody[SuggestionInput](event)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}
		input = parsed
	}
	accountId := util.Username(ctx)
	meals, err := data.AllMeals(rs.meals, accountId)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	logged := make([]generation.LoggedMeal, len(meals))
	for i, meal := range meals {
		logged[i] = generation.LoggedMeal{
			Name:     meal.Name,
			Calories: meal.Calories,
			Protein:  meal.Protein,
			Carbs:    meal.Carbs,
			Fat:      meal.Fat,
		}
	}
	var added []data.RecipeDTO
	err = rs.inFlight.Run(accountId, func() error {
		suggested, err := rs.advisor.SuggestRecipes(ctx, generation.SuggestRecipesInput{
			LoggedMeals:     logged,
			Goals:           rs.goals,
			UserPreferences: input.Preferences,
		})
		if err != nil {
			return err
		}
		added, err = rs.data.AddGeneratedRecipes(accountId, suggested.SuggestedRecipes, data.SOURCE_AI)
		return err
	})
	return util.SerializeResponseOK(NewRecipes, added, err)
}

func describeRecipe(recipe data.RecipeDTO) string {
	return fmt.Sprintf("Recipe: %s. Ingredients: %s. Instructions: %s",
		recipe.RecipeName,
		strings.Join(recipe.Ingredients, ", "),
		strings.Join(recipe.Instructions, " "))
}

func (rs *RecipeService) Highlight(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	var input HighlightInput
	if event.Body != "" {
		parsed, err := util.ParseBody[HighlightInput](event)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}
		input = parsed
	}
	if strings.TrimSpace(input.ArContext) == "" {
		input.ArContext = DEFAULT_AR_CONTEXT
	}
	accountId := util.Username(ctx)
	recipe, err := rs.data.GetRecipe(accountId, util.RequestParam(ctx, "recipeId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	var out generation.HighlightOutput
	err = rs.inFlight.Run(accountId, func() error {
		out, err = rs.advisor.HighlightIngredients(ctx, generation.HighlightInput{
			Recipe:    describeRecipe(recipe),
			ArContext: input.ArContext,
		})
		return err
	})
	return util.SerializeResponseOK(NewHighlight, out, err)
}

func (rs *RecipeService) Guidance(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[GuidanceInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	accountId := util.Username(ctx)
	recipe, err := rs.data.GetRecipe(accountId, util.RequestParam(ctx, "recipeId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	currentStep, err := stepOf(recipe, input.CurrentStep)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if currentStep == "" {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput(fmt.Sprintf("Recipe %s has no steps to guide", recipe.SK))
	}
	var out generation.GuidanceOutput
	err = rs.inFlight.Run(accountId, func() error {
		out, err = rs.advisor.ProvideAdaptiveGuidance(ctx, generation.GuidanceInput{
			CurrentStepDescription: currentStep,
			UserActionDescription:  input.UserAction,
		})
		return err
	})
	return util.SerializeResponseOK(NewGuidance, out, err)
}
