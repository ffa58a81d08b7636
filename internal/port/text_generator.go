package port

import "context"

// GenerationConfig controls sampling for a single model call.
type GenerationConfig struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// InlineImage is binary image data sent alongside the prompt.
type InlineImage struct {
	MimeType string
	Data     []byte
}

// GenerateInput carries everything needed for one model call.
type GenerateInput struct {
	APIKey string
	Prompt string
	Image  *InlineImage
	Config GenerationConfig
}

// GenerateOutput is the model's raw text answer.
type GenerateOutput struct {
	Text         string
	ModelUsed    string
	FinishReason string
}

// TextGenerator abstracts a generative-language model.
type TextGenerator interface {
	Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error)
}
