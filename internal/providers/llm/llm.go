package llm

import "context"

type Provider interface {
	// Generate returns the full text completion for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateJSON asks the model for a JSON-only response.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Close() error
}
