package rekognition_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrekognition "github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/rekognition"
)

type fakeRekognition struct {
	input  *awsrekognition.DetectLabelsInput
	labels []types.Label
	err    error
}

func (f *fakeRekognition) DetectLabels(ctx context.Context, params *awsrekognition.DetectLabelsInput, optFns ...func(*awsrekognition.Options)) (*awsrekognition.DetectLabelsOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &awsrekognition.DetectLabelsOutput{Labels: f.labels}, nil
}

func food(name string) types.Label {
	return types.Label{
		Name:       aws.String(name),
		Categories: []types.LabelCategory{{Name: aws.String(rekognition.FOOD_CATEGORY)}},
	}
}

func TestLabelDetector(t *testing.T) {
	t.Run("keeps specific food labels", func(t *testing.T) {
		fake := &fakeRekognition{labels: []types.Label{
			food("Food"),
			food("Egg"),
			{Name: aws.String("Apple"), Parents: []types.Parent{{Name: aws.String("Fruit")}}},
			{Name: aws.String("Refrigerator")},
			food("egg"),
		}}
		detector := rekognition.NewLabelDetector(fake)
		ingredients, err := detector.IdentifyIngredients(context.Background(), "data:image/png;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, []string{"egg", "apple"}, ingredients)
		assert.Equal(t, []byte("hello"), fake.input.Image.Bytes)
		assert.Equal(t, float32(rekognition.DEFAULT_MIN_CONFIDENCE), *fake.input.MinConfidence)
	})

	t.Run("service failures are upstream errors", func(t *testing.T) {
		detector := rekognition.NewLabelDetector(&fakeRekognition{err: errors.New("throttled")})
		_, err := detector.IdentifyIngredients(context.Background(), "data:image/png;base64,aGVsbG8=")
		var upstream *exceptions.UpstreamError
		assert.ErrorAs(t, err, &upstream)
	})

	t.Run("bad images are rejected", func(t *testing.T) {
		fake := &fakeRekognition{}
		detector := rekognition.NewLabelDetector(fake)
		_, err := detector.IdentifyIngredients(context.Background(), "garbage")
		var invalid *exceptions.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
		assert.Nil(t, fake.input)
	})
}
