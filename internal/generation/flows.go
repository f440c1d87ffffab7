package generation

import (
	"context"
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/validation"
)

type LoggedMeal struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type SuggestRecipesInput struct {
	LoggedMeals     []LoggedMeal        `json:"loggedMeals"`
	Goals           data.NutritionGoals `json:"nutritionalGoals"`
	UserPreferences string              `json:"userPreferences"`
}

type SuggestRecipesOutput struct {
	SuggestedRecipes []data.GeneratedRecipeDTO `json:"suggestedRecipes" validate:"required,dive"`
}

type GenerateRecipesInput struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,required"`
}

type GenerateRecipesOutput struct {
	Recipes []data.GeneratedRecipeDTO `json:"recipes" validate:"required,dive"`
}

type ImageInput struct {
	ImageDataUri string `json:"imageDataUri" validate:"required"`
}

type IdentifyIngredientsOutput struct {
	Ingredients []string `json:"ingredients" validate:"required"`
}

type MealEstimate struct {
	Name     string  `json:"name" validate:"required"`
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
}

type AssistanceInput struct {
	Question    string `json:"question" validate:"required"`
	RecipeName  string `json:"recipeName" validate:"required"`
	CurrentStep string `json:"currentStep"`
}

type AssistanceOutput struct {
	Answer string `json:"answer" validate:"required"`
}

type HighlightInput struct {
	Recipe    string `json:"recipe" validate:"required"`
	ArContext string `json:"arContext" validate:"required"`
}

type HighlightOutput struct {
	Instructions    string `json:"instructions" validate:"required"`
	NutritionalInfo string `json:"nutritionalInfo" validate:"required"`
}

type GuidanceInput struct {
	CurrentStepDescription string `json:"currentStepDescription" validate:"required"`
	UserActionDescription  string `json:"userActionDescription" validate:"required"`
}

type GuidanceOutput struct {
	Feedback           string `json:"feedback" validate:"required"`
	NextStepSuggestion string `json:"nextStepSuggestion" validate:"required"`
}

type PlanInput struct {
	Gender             string  `json:"gender" validate:"required"`
	HeightCm           float64 `json:"height" validate:"gt=0"`
	WeightKg           float64 `json:"weight" validate:"gt=0"`
	Goal               string  `json:"goal" validate:"required"`
	ActivityLevel      string  `json:"activityLevel" validate:"required"`
	DietaryPreferences string  `json:"dietaryPreferences"`
}

type DailyMeals struct {
	Breakfast string `json:"breakfast" validate:"required"`
	Lunch     string `json:"lunch" validate:"required"`
	Dinner    string `json:"dinner" validate:"required"`
	Snack     string `json:"snack" validate:"required"`
}

type DailyPlan struct {
	Day               string               `json:"day" validate:"required"`
	Meals             DailyMeals           `json:"meals"`
	DailyTotals       data.NutritionTotals `json:"dailyTotals"`
	WorkoutSuggestion string               `json:"workoutSuggestion" validate:"required"`
}

// PlanOutput holds one entry per day of the week, Monday first.
type PlanOutput struct {
	WeeklyPlan []DailyPlan `json:"weeklyPlan" validate:"len=7,dive"`
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

var prompts = template.Must(template.New("flows").Funcs(template.FuncMap{"json": toJSON}).Parse(`
{{define "suggestRecipes"}}You are a nutritional advisor. Analyze the user's logged meals, nutritional goals, and food preferences to suggest recipes that align with their dietary needs.
Logged Meals: {{json .LoggedMeals}}
Nutritional Goals: {{json .Goals}}
User Preferences: {{if .UserPreferences}}{{.UserPreferences}}{{else}}none given{{end}}
Suggest diverse, appealing recipes that meet the user's goals and preferences, and explain why each one was chosen.
Answer with a JSON object {"suggestedRecipes": [...]} where each recipe has recipeName, ingredients (array of strings), instructions (array of step strings), nutritionalInformation (a string), suitabilityScore (a number) and reasoning.{{end}}
{{define "generateRecipes"}}You are an expert chef. Based on the ingredients provided, create a list of 3 diverse and creative recipes. For each recipe, provide a name, the full list of ingredients (including amounts), step-by-step instructions, and a brief reasoning for why it is a good use of the ingredients.
Ingredients Available: {{json .Ingredients}}
Answer with a JSON object {"recipes": [...]} where each recipe has recipeName, ingredients, instructions and reasoning.{{end}}
{{define "identifyIngredients"}}You are an expert at identifying food items from an image. Analyze the attached image of a pantry, refrigerator, or countertop and identify every edible food ingredient you can see. List only the ingredients.
Answer with a JSON object {"ingredients": [...]}.{{end}}
{{define "logMeal"}}You are a nutrition expert. Analyze the meal in the attached image and give it a descriptive name. Estimate its calories (kcal), protein (g), carbohydrates (g) and fat (g).
Answer with a JSON object {"name": "", "calories": 0, "protein": 0, "carbs": 0, "fat": 0}.{{end}}
{{define "assist"}}You are a helpful cooking assistant guiding a user through a recipe step by step. Answer the user's question based on the current recipe and step.
Recipe Name: {{.RecipeName}}
Current Step: {{.CurrentStep}}
User Question: {{.Question}}
Answer with a JSON object {"answer": ""}.{{end}}
{{define "highlightIngredients"}}You are an assistant guiding a user through a recipe in an augmented reality kitchen. Analyze the recipe and identify the ingredients needed for the next step. Describe how to highlight those ingredients in the user's kitchen based on the AR context, and give aggregated nutritional information for them.
Recipe: {{.Recipe}}
AR Context: {{.ArContext}}
Answer with a JSON object {"instructions": "", "nutritionalInfo": ""}.{{end}}
{{define "adaptiveGuidance"}}You are a cooking assistant giving real-time feedback during an AR cooking session. Based on the current step and what the user did, give feedback on their technique and suggest the next step.
Current Step Description: {{.CurrentStepDescription}}
User Action Description: {{.UserActionDescription}}
Answer with a JSON object {"feedback": "", "nextStepSuggestion": ""}.{{end}}
{{define "personalizedPlan"}}You are an expert nutritionist and personal trainer. Based on the user's data, create a detailed and actionable 7-day health plan.
User Data:
- Gender: {{.Gender}}
- Height: {{.HeightCm}} cm
- Weight: {{.WeightKg}} kg
- Goal: {{.Goal}}
- Activity Level: {{.ActivityLevel}}
- Dietary Preferences: {{if .DietaryPreferences}}{{.DietaryPreferences}}{{else}}none given{{end}}
For each day from Monday to Sunday, suggest a breakfast, lunch, dinner and healthy snack that fit the dietary preferences, a brief workout that serves the goal (vary it through the week), and the estimated daily calories, protein (g), carbs (g) and fat (g) of the meals.
Answer with a JSON object {"weeklyPlan": [{"day": "", "meals": {"breakfast": "", "lunch": "", "dinner": "", "snack": ""}, "dailyTotals": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}, "workoutSuggestion": ""}]} with exactly seven entries.{{end}}
`))

type Flows struct {
	Generator Generator
	Logger    *zap.Logger
}

func NewFlows(generator Generator, logger *zap.Logger) *Flows {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flows{
		Generator: generator,
		Logger:    logger,
	}
}

func render(name string, input any) (string, error) {
	var text strings.Builder
	if err := prompts.ExecuteTemplate(&text, name, input); err != nil {
		return "", err
	}
	return strings.TrimSpace(text.String()), nil
}

// run validates input, prompts the model and holds the answer to the output
// schema. A schema violation is the model's fault, not the caller's.
func (f *Flows) run(ctx context.Context, name string, input any, image *InlineImage, out any) error {
	if err := validation.Struct(input); err != nil {
		return err
	}
	text, err := render(name, input)
	if err != nil {
		return err
	}
	start := time.Now()
	err = f.Generator.Generate(ctx, Prompt{Flow: name, Text: text, Image: image}, out)
	f.Logger.Info("Generation flow finished",
		zap.String("flow", name),
		zap.Duration("latency", time.Since(start)),
		zap.Bool("ok", err == nil))
	if err != nil {
		return err
	}
	if err := validation.Struct(out); err != nil {
		return exceptions.Upstream("generation", err)
	}
	return nil
}

func (f *Flows) SuggestRecipes(ctx context.Context, input SuggestRecipesInput) (SuggestRecipesOutput, error) {
	if input.LoggedMeals == nil {
		input.LoggedMeals = []LoggedMeal{}
	}
	var out SuggestRecipesOutput
	err := f.run(ctx, "suggestRecipes", input, nil, &out)
	return out, err
}

func (f *Flows) GenerateRecipesFromIngredients(ctx context.Context, input GenerateRecipesInput) (GenerateRecipesOutput, error) {
	var out GenerateRecipesOutput
	err := f.run(ctx, "generateRecipes", input, nil, &out)
	return out, err
}

func (f *Flows) IdentifyIngredientsFromImage(ctx context.Context, input ImageInput) (IdentifyIngredientsOutput, error) {
	var out IdentifyIngredientsOutput
	image, err := ParseDataURI(input.ImageDataUri)
	if err != nil {
		return out, err
	}
	err = f.run(ctx, "identifyIngredients", input, &image, &out)
	return out, err
}

func (f *Flows) LogMealFromImage(ctx context.Context, input ImageInput) (MealEstimate, error) {
	var out MealEstimate
	image, err := ParseDataURI(input.ImageDataUri)
	if err != nil {
		return out, err
	}
	err = f.run(ctx, "logMeal", input, &image, &out)
	return out, err
}

func (f *Flows) ProvideAssistance(ctx context.Context, input AssistanceInput) (AssistanceOutput, error) {
	var out AssistanceOutput
	err := f.run(ctx, "assist", input, nil, &out)
	return out, err
}

func (f *Flows) HighlightIngredients(ctx context.Context, input HighlightInput) (HighlightOutput, error) {
	var out HighlightOutput
	err := f.run(ctx, "highlightIngredients", input, nil, &out)
	return out, err
}

func (f *Flows) ProvideAdaptiveGuidance(ctx context.Context, input GuidanceInput) (GuidanceOutput, error) {
	var out GuidanceOutput
	err := f.run(ctx, "adaptiveGuidance", input, nil, &out)
	return out, err
}

func (f *Flows) ProvidePersonalizedPlan(ctx context.Context, input PlanInput) (PlanOutput, error) {
	var out PlanOutput
	err := f.run(ctx, "personalizedPlan", input, nil, &out)
	return out, err
}

func (f *Flows) IdentifyIngredients(ctx context.Context, imageDataUri string) ([]string, error) {
	out, err := f.IdentifyIngredientsFromImage(ctx, ImageInput{ImageDataUri: imageDataUri})
	if err != nil {
		return nil, err
	}
	return out.Ingredients, nil
}
