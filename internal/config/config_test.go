package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/nutrition/internal/config"
	"philcali.me/nutrition/internal/data"
	"philcali.me/nutrition/internal/exceptions"
)

var variables = []string{
	"TABLE_NAME", "STORE_BACKEND", "TOPIC_ARN", "GEMINI_API_KEY", "GEMINI_MODEL",
	"GEMINI_BASE_URL", "GENERATION_TIMEOUT", "INGREDIENT_DETECTOR", "DAILY_CALORIE_GOAL",
	"DAILY_PROTEIN_GOAL", "DAILY_CARBS_GOAL", "DAILY_FAT_GOAL", "LOG_LEVEL",
}

// isolate runs in an empty directory with every variable cleared.
func isolate(t *testing.T) {
	for _, name := range variables {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		isolate(t)
		t.Setenv("GEMINI_API_KEY", "secret")
		cfg, err := config.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, config.BACKEND_MEMORY, cfg.StoreBackend)
		assert.Equal(t, config.DETECTOR_GEMINI, cfg.IngredientDetector)
		assert.Equal(t, 60*time.Second, cfg.GenerationTimeout)
		assert.Equal(t, data.DefaultGoals(), cfg.Goals)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("overrides", func(t *testing.T) {
		isolate(t)
		t.Setenv("GEMINI_API_KEY", "secret")
		t.Setenv("STORE_BACKEND", "dynamodb")
		t.Setenv("TABLE_NAME", "NutritionData")
		t.Setenv("GENERATION_TIMEOUT", "5s")
		t.Setenv("DAILY_CALORIE_GOAL", "2000")
		cfg, err := config.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "NutritionData", cfg.TableName)
		assert.Equal(t, 5*time.Second, cfg.GenerationTimeout)
		assert.Equal(t, 2000.0, cfg.Goals.Calories)
		assert.Equal(t, 150.0, cfg.Goals.Protein)
	})

	t.Run("reads .env files", func(t *testing.T) {
		isolate(t)
		os.Unsetenv("GEMINI_API_KEY")
		require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte("GEMINI_API_KEY=from-file\n"), 0600))
		cfg, err := config.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.GeminiApiKey)
	})

	t.Run("dynamodb requires a table", func(t *testing.T) {
		isolate(t)
		t.Setenv("GEMINI_API_KEY", "secret")
		t.Setenv("STORE_BACKEND", "dynamodb")
		_, err := config.LoadConfig()
		var invalid *exceptions.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, invalid.Message, "TableName")
	})

	t.Run("rejects zero goals", func(t *testing.T) {
		isolate(t)
		t.Setenv("GEMINI_API_KEY", "secret")
		t.Setenv("DAILY_FAT_GOAL", "0")
		_, err := config.LoadConfig()
		var invalid *exceptions.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("rejects bad numbers", func(t *testing.T) {
		isolate(t)
		t.Setenv("GEMINI_API_KEY", "secret")
		t.Setenv("DAILY_PROTEIN_GOAL", "lots")
		_, err := config.LoadConfig()
		assert.ErrorContains(t, err, "DAILY_PROTEIN_GOAL")
	})
}
