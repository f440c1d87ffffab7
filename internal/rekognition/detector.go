package rekognition

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"philcali.me/nutrition/internal/exceptions"
	"philcali.me/nutrition/internal/generation"
)

const (
	DEFAULT_MAX_LABELS     = 50
	DEFAULT_MIN_CONFIDENCE = 75
	FOOD_CATEGORY          = "Food and Beverage"
)

// Labels too broad to be an ingredient on their own.
var generic = map[string]bool{
	"food":       true,
	"produce":    true,
	"plant":      true,
	"meal":       true,
	"dish":       true,
	"beverage":   true,
	"vegetable":  true,
	"fruit":      true,
	"ingredient": true,
}

type DetectLabelsAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// LabelDetector identifies pantry ingredients from image labels instead of
// asking the generative model.
type LabelDetector struct {
	Client        DetectLabelsAPI
	MaxLabels     int32
	MinConfidence float32
}

func NewLabelDetector(client DetectLabelsAPI) *LabelDetector {
	return &LabelDetector{
		Client:        client,
		MaxLabels:     DEFAULT_MAX_LABELS,
		MinConfidence: DEFAULT_MIN_CONFIDENCE,
	}
}

func isFood(label types.Label) bool {
	for _, category := range label.Categories {
		if aws.ToString(category.Name) == FOOD_CATEGORY {
			return true
		}
	}
	for _, parent := range label.Parents {
		switch aws.ToString(parent.Name) {
		case "Food", "Produce", "Fruit", "Vegetable", "Beverage":
			return true
		}
	}
	return false
}

func (d *LabelDetector) IdentifyIngredients(ctx context.Context, imageDataUri string) ([]string, error) {
	image, err := generation.ParseDataURI(imageDataUri)
	if err != nil {
		return nil, err
	}
	raw, err := image.Bytes()
	if err != nil {
		return nil, exceptions.InvalidInput("image payload is not valid base64")
	}
	output, err := d.Client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: raw},
		MaxLabels:     aws.Int32(d.MaxLabels),
		MinConfidence: aws.Float32(d.MinConfidence),
	})
	if err != nil {
		return nil, exceptions.Upstream("rekognition", err)
	}
	ingredients := make([]string, 0, len(output.Labels))
	seen := make(map[string]bool)
	for _, label := range output.Labels {
		name := strings.ToLower(aws.ToString(label.Name))
		if name == "" || generic[name] || seen[name] || !isFood(label) {
			continue
		}
		seen[name] = true
		ingredients = append(ingredients, name)
	}
	return ingredients, nil
}
