package pantry

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/generation"
	"philcali.me/nutrition/internal/routes"
	"philcali.me/nutrition/internal/routes/recipes"
	"philcali.me/nutrition/internal/routes/util"
)

type RecipeGenerator interface {
	GenerateRecipesFromIngredients(ctx context.Context, input generation.GenerateRecipesInput) (generation.GenerateRecipesOutput, error)
}

type PantryService struct {
	data       data.RecipeRepository
	identifier generation.IngredientIdentifier
	generator  RecipeGenerator
	inFlight   *generation.InFlight
}

func NewRoute(
	data data.RecipeRepository,
	identifier generation.IngredientIdentifier,
	generator RecipeGenerator,
	inFlight *generation.InFlight) routes.Service {
	return &PantryService{
		data:       data,
		identifier: identifier,
		generator:  generator,
		inFlight:   inFlight,
	}
}

func (ps *PantryService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"POST:/pantry/ingredients": util.AuthorizedRoute(ps.IdentifyIngredients),
		"POST:/pantry/recipes":     util.AuthorizedRoute(ps.GenerateRecipes),
	}
}

func cleanIngredients(ingredients []string) []string {
	cleaned := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		if trimmed := strings.TrimSpace(ingredient); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func (ps *PantryService) IdentifyIngredients(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[IdentifyInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if input.ImageDataUri == "" {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("imageDataUri is required")
	}
	var found []string
	err = ps.inFlight.Run(util.Username(ctx), func() error {
		found, err = ps.identifier.IdentifyIngredients(ctx, input.ImageDataUri)
		return err
	})
	return util.SerializeResponseOK(func(items []string) Ingredients {
		return Ingredients{Ingredients: cleanIngredients(items)}
	}, found, err)
}

func (ps *PantryService) GenerateRecipes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[GenerateInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	ingredients := cleanIngredients(input.Ingredients)
	if len(ingredients) == 0 && input.ImageDataUri == "" {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Either ingredients or imageDataUri is required")
	}
	accountId := util.Username(ctx)
	var added []data.RecipeDTO
	err = ps.inFlight.Run(accountId, func() error {
		if len(ingredients) == 0 {
			found, err := ps.identifier.IdentifyIngredients(ctx, input.ImageDataUri)
			if err != nil {
				return err
			}
			ingredients = cleanIngredients(found)
			if len(ingredients) == 0 {
				return exceptions.InvalidInput("No ingredients could be identified in the image")
			}
		}
		generated, err := ps.generator.GenerateRecipesFromIngredients(ctx, generation.GenerateRecipesInput{
			Ingredients: ingredients,
		})
		if err != nil {
			return err
		}
		added, err = ps.data.AddGeneratedRecipes(accountId, generated.Recipes, data.SOURCE_PANTRY)
		return err
	})
	return util.SerializeResponseOK(recipes.NewRecipes, added, err)
}
