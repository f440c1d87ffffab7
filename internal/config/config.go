package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/validation"
)

const (
	BACKEND_MEMORY   = "memory"
	BACKEND_DYNAMODB = "dynamodb"

	DETECTOR_GEMINI      = "gemini"
	DETECTOR_REKOGNITION = "rekognition"
)

type Config struct {
	TableName          string `validate:"required_if=StoreBackend dynamodb"`
	StoreBackend       string `validate:"oneof=memory dynamodb"`
	TopicArn           string
	GeminiApiKey       string        `validate:"required"`
	GeminiModel        string        `validate:"required"`
	GeminiBaseURL      string        `validate:"required,url"`
	GenerationTimeout  time.Duration `validate:"gt=0"`
	IngredientDetector string        `validate:"oneof=gemini rekognition"`
	Goals              data.NutritionGoals
	LogLevel           string
}

func lookup(name string, fallback string) string {
	if value, ok := os.LookupEnv(name); ok && value != "" {
		return value
	}
	return fallback
}

func lookupFloat(name string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, err)
	}
	return parsed, nil
}

// LoadConfig reads the environment, after loading a .env file when one
// exists in the working directory.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	timeout, err := time.ParseDuration(lookup("GENERATION_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("GENERATION_TIMEOUT must be a duration: %w", err)
	}
	defaults := data.DefaultGoals()
	goals := data.NutritionGoals{}
	for _, goal := range []struct {
		name     string
		target   *float64
		fallback float64
	}{
		{"DAILY_CALORIE_GOAL", &goals.Calories, defaults.Calories},
		{"DAILY_PROTEIN_GOAL", &goals.Protein, defaults.Protein},
		{"DAILY_CARBS_GOAL", &goals.Carbs, defaults.Carbs},
		{"DAILY_FAT_GOAL", &goals.Fat, defaults.Fat},
	} {
		if *goal.target, err = lookupFloat(goal.name, goal.fallback); err != nil {
			return nil, err
		}
	}
	config := &Config{
		TableName:          os.Getenv("TABLE_NAME"),
		StoreBackend:       lookup("STORE_BACKEND", BACKEND_MEMORY),
		TopicArn:           os.Getenv("TOPIC_ARN"),
		GeminiApiKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        lookup("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:      lookup("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GenerationTimeout:  timeout,
		IngredientDetector: lookup("INGREDIENT_DETECTOR", DETECTOR_GEMINI),
		Goals:              goals,
		LogLevel:           lookup("LOG_LEVEL", "info"),
	}
	if err := validation.Struct(config); err != nil {
		return nil, err
	}
	return config, nil
}
