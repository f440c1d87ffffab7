package pantry

type IdentifyInput struct {
	ImageDataUri string `json:"imageDataUri"`
}

type Ingredients struct {
	Ingredients []string `json:"ingredients"`
}

// GenerateInput carries either an ingredient list or a photo of the pantry.
// A photo is only consulted when no ingredients are given.
type GenerateInput struct {
	Ingredients  []string `json:"ingredients"`
	ImageDataUri string   `json:"imageDataUri"`
}
