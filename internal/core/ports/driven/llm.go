package driven

import "context"

// TokenFunc receives one generated text fragment. Returning an error
// aborts generation; the adapter stops reading and returns that error.
// The callback is invoked synchronously as fragments arrive, which is
// what carries consumer backpressure into the generation read loop.
type TokenFunc func(token string) error

// GenerateRequest describes one generation call.
type GenerateRequest struct {
	// System is the system instruction, may be empty.
	System string

	// Prompt is the full user-facing prompt.
	Prompt string

	// Temperature controls randomness (0 = provider default).
	Temperature float64

	// MaxTokens caps the generated length (0 = provider default).
	MaxTokens int
}

// LLMService produces text from a prompt as an incremental token
// stream.
//
// Implementations may include:
//   - Ollama (local models, NDJSON streaming)
//   - OpenAI (chat completions, SSE streaming)
type LLMService interface {
	// GenerateStream runs one generation, invoking emit once per text
	// fragment in arrival order. It returns nil only when the model
	// finished the sequence naturally; an error from emit is returned
	// unchanged.
	GenerateStream(ctx context.Context, req GenerateRequest, emit TokenFunc) error

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
