package summary

import "context"

// Generator produces text completions.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
