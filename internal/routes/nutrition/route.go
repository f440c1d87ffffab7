package nutrition

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/nutrition"
	"philcali.me/nutrition/internal/routes"
	"philcali.me/nutrition/internal/routes/util"
)

type Summary struct {
	Meals  int                  `json:"meals"`
	Totals data.NutritionTotals `json:"totals"`
	data.NutritionView
}

type NutritionService struct {
	data  data.MealRepository
	goals data.NutritionGoals
}

func NewRoute(data data.MealRepository, goals data.NutritionGoals) routes.Service {
	return &NutritionService{
		data:  data,
		goals: goals,
	}
}

func (ns *NutritionService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/nutrition": util.AuthorizedRoute(ns.GetNutrition),
	}
}

func (ns *NutritionService) GetNutrition(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	meals, err := data.AllMeals(ns.data, util.Username(ctx))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	totals := nutrition.ComputeTotals(meals)
	return util.SerializeResponseOK(util.Identity[Summary], Summary{
		Meals:         len(meals),
		Totals:        totals,
		NutritionView: nutrition.BuildView(totals, ns.goals),
	}, nil)
}
