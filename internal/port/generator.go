package port

import "context"

// Generator sends a prompt to a hosted text-generation model.
type Generator interface {
	// Generate returns the raw text of the first completion for prompt,
	// authenticated with credential.
	Generate(ctx context.Context, credential, prompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
