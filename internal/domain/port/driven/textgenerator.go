package driven

import "context"

// TextGenerator defines the driven port for on-demand content generation.
// It is invoked only when the eligible candidate set is empty.
type TextGenerator interface {
	// Generate produces post text for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
