package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsRekognition "github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
	"philcali.me/nutrition/internal/config"
	"philcali.me/nutrition/internal/data"
	mealDynamo "philcali.me/nutrition/internal/dynamodb/meals"
	recipeDynamo "philcali.me/nutrition/internal/dynamodb/recipes"
	"philcali.me/nutrition/internal/dynamodb/token"
	"philcali.me/nutrition/internal/generation"
	"philcali.me/nutrition/internal/logging"
	mealMemory "philcali.me/nutrition/internal/memory/meals"
	recipeMemory "philcali.me/nutrition/internal/memory/recipes"
	"philcali.me/nutrition/internal/notifications"
	"philcali.me/nutrition/internal/rekognition"
	"philcali.me/nutrition/internal/routes"
	"philcali.me/nutrition/internal/routes/meals"
	"philcali.me/nutrition/internal/routes/nutrition"
	"philcali.me/nutrition/internal/routes/pantry"
	"philcali.me/nutrition/internal/routes/plans"
	"philcali.me/nutrition/internal/routes/recipes"
	"philcali.me/nutrition/internal/routes/subscriptions"
	"philcali.me/nutrition/internal/sns/services"
)

// Every account starts its in-memory log with these meals.
var sampleMeals = []data.MealInputDTO{
	{Name: "Oatmeal with Berries", Calories: 350, Protein: 10, Carbs: 60, Fat: 8},
	{Name: "Grilled Chicken Salad", Calories: 500, Protein: 40, Carbs: 30, Fat: 25},
	{Name: "Apple Slices with Peanut Butter", Calories: 250, Protein: 5, Carbs: 30, Fat: 15},
}

type App struct {
	Router *routes.Router
	Logger *zap.Logger
}

func NewApp(ctx context.Context) (*App, error) {
	conf, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := logging.New(conf.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	cfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	marshaler := token.NewGCM()

	var mealData data.MealRepository
	var recipeData data.RecipeRepository
	switch conf.StoreBackend {
	case config.BACKEND_DYNAMODB:
		client := dynamodb.NewFromConfig(cfg)
		mealData = mealDynamo.NewMealService(conf.TableName, client, marshaler)
		recipeData = recipeDynamo.NewRecipeService(conf.TableName, client)
	default:
		mealData = mealMemory.NewMealService(marshaler, sampleMeals...)
		recipeData = recipeMemory.NewRecipeService()
	}

	flows := generation.NewFlows(generation.NewGeminiGenerator(generation.GeminiOptions{
		ApiKey:  conf.GeminiApiKey,
		BaseURL: conf.GeminiBaseURL,
		Model:   conf.GeminiModel,
		Timeout: conf.GenerationTimeout,
		Logger:  logger,
	}), logger)

	var identifier generation.IngredientIdentifier = flows
	if conf.IngredientDetector == config.DETECTOR_REKOGNITION {
		identifier = rekognition.NewLabelDetector(awsRekognition.NewFromConfig(cfg))
	}

	var notifier notifications.NotificationService = notifications.NoopNotificationService{}
	if conf.TopicArn != "" {
		notifier = services.NewNotificationService(sns.NewFromConfig(cfg), conf.TopicArn)
	}

	inFlight := generation.NewInFlight()
	router := routes.NewRouter(
		meals.NewRoute(mealData, conf.Goals, flows, inFlight, notifier, logger),
		nutrition.NewRoute(mealData, conf.Goals),
		recipes.NewRoute(recipeData, mealData, conf.Goals, flows, inFlight),
		pantry.NewRoute(recipeData, identifier, flows, inFlight),
		plans.NewRoute(flows, inFlight),
		subscriptions.NewRoute(notifier),
	)
	router.Logger = logger
	logger.Info("Nutrition API ready",
		zap.String("backend", conf.StoreBackend),
		zap.String("detector", conf.IngredientDetector),
		zap.Bool("alerts", conf.TopicArn != ""),
		zap.Int("routes", len(router.Routes)))
	return &App{
		Router: router,
		Logger: logger,
	}, nil
}

func (app *App) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return app.Router.Invoke(request, ctx), nil
}

func main() {
	app, err := NewApp(context.Background())
	if err != nil {
		panic(err)
	}
	defer app.Logger.Sync()
	lambda.Start(app.HandleRequest)
}
