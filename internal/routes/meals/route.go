package meals

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/generation"
	"philcali.me/nutrition/internal/notifications"
	"philcali.me/nutrition/internal/nutrition"
	"philcali.me/nutrition/internal/routes"
	"philcali.me/nutrition/internal/routes/util"
)

type MealAnalyzer interface {
	LogMealFromImage(ctx context.Context, input generation.ImageInput) (generation.MealEstimate, error)
}

type MealService struct {
	data          data.MealRepository
	goals         data.NutritionGoals
	analyzer      MealAnalyzer
	inFlight      *generation.InFlight
	notifications notifications.NotificationService
	logger        *zap.Logger
}

func NewRoute(
	data data.MealRepository,
	goals data.NutritionGoals,
	analyzer MealAnalyzer,
	inFlight *generation.InFlight,
	notifier notifications.NotificationService,
	logger *zap.Logger) routes.Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MealService{
		data:          data,
		goals:         goals,
		analyzer:      analyzer,
		inFlight:      inFlight,
		notifications: notifier,
		logger:        logger,
	}
}

func (ms *MealService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/meals":          util.AuthorizedRoute(ms.ListMeals),
		"POST:/meals":         util.AuthorizedRoute(ms.AddMeal),
		"POST:/meals/analyze": util.AuthorizedRoute(ms.AnalyzeMeal),
	}
}

func (ms *MealService) ListMeals(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	params, err := util.QueryParams(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	items, err := ms.data.ListMeals(util.Username(ctx), params)
	return util.SerializeResponseOK(util.ConvertQueryResultsPartial(NewMeal), items, err)
}

// AddMeal logs the meal and raises an alert for every daily goal it pushed
// over the line. A failed alert never fails the request.
func (ms *MealService) AddMeal(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[MealInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	accountId := util.Username(ctx)
	logged, err := data.AllMeals(ms.data, accountId)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := ms.data.AddMeal(accountId, input.ToData())
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	before := nutrition.ComputeTotals(logged)
	after := nutrition.ComputeTotals(append(logged, created))
	meal := NewMeal(created)
	for _, goal := range nutrition.Crossed(before, after, ms.goals) {
		meal.GoalsReached = append(meal.GoalsReached, string(goal))
	}
	if len(meal.GoalsReached) > 0 {
		err := ms.notifications.Notify(ctx, notifications.Alert{
			AccountId: accountId,
			Meal:      created.Name,
			Goals:     meal.GoalsReached,
			Totals:    after,
			Targets:   ms.goals,
		})
		if err != nil {
			ms.logger.Warn("Failed to deliver goal alert",
				zap.String("accountId", accountId),
				zap.Strings("goals", meal.GoalsReached),
				zap.Error(err))
		}
	}
	return util.SerializeResponseOK(util.Identity[Meal], meal, nil)
}

func (ms *MealService) AnalyzeMeal(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[AnalyzeInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	var estimate generation.MealEstimate
	err = ms.inFlight.Run(util.Username(ctx), func() error {
		estimate, err = ms.analyzer.LogMealFromImage(ctx, generation.ImageInput{ImageDataUri: input.ImageDataUri})
		return err
	})
	return util.SerializeResponseOK(NewMealEstimate, estimate, err)
}
