package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/nutrition/internal/exceptions"
)

func TestPlanInputUnits(t *testing.T) {
	t.Run("metric by default", func(t *testing.T) {
		input, err := PlanInput{Gender: "male", Height: 180, Weight: 75}.toData()
		require.NoError(t, err)
		assert.Equal(t, 180.0, input.HeightCm)
		assert.Equal(t, 75.0, input.WeightKg)
	})

	t.Run("imperial is converted and rounded", func(t *testing.T) {
		input, err := PlanInput{Units: UNITS_IMPERIAL, HeightFt: 5, HeightIn: 11, WeightLbs: 165}.toData()
		require.NoError(t, err)
		assert.Equal(t, 180.0, input.HeightCm)
		assert.Equal(t, 75.0, input.WeightKg)
	})

	t.Run("unknown units", func(t *testing.T) {
		_, err := PlanInput{Units: "cubits"}.toData()
		var invalid *exceptions.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
	})
}
