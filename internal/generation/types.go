package generation

import "context"

type InlineImage struct {
	MimeType string
	Data     string
}

type Prompt struct {
	Flow  string
	Text  string
	Image *InlineImage
}

// Generator sends a prompt to a hosted model and decodes the JSON object it
// answers with into out.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt, out any) error
}

type IngredientIdentifier interface {
	IdentifyIngredients(ctx context.Context, imageDataUri string) ([]string, error)
}
