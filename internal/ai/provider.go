// Package ai generates answers to policy questions from retrieved context
// using an external text-completion provider.
package ai

import "context"

// Provider is a text-generation backend. It is an opaque black box to the
// rest of the service: prompt in, answer text out.
type Provider interface {
	// Name identifies the provider.
	Name() string

	// Generate produces a completion for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
