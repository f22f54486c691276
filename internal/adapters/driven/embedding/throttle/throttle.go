// Package throttle wraps an embedding service with a client-side rate
// limit, protecting shared embedding backends from ingestion bursts.
package throttle

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/mhaddaou/docchat/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService rate-limits calls to an inner embedding service.
// A batch of n texts consumes n tokens, so large uploads spread out
// instead of arriving as one burst.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
}

// New wraps inner with a limit of requestsPerSecond and the given
// burst size. A burst below 1 is raised to 1 so single requests always
// fit.
func New(inner driven.EmbeddingService, requestsPerSecond float64, burst int) *EmbeddingService {
	if burst < 1 {
		burst = 1
	}
	return &EmbeddingService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Embed waits for one token, then delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.Embed(ctx, text)
}

// EmbedBatch waits for one token per text, then delegates. Batches
// larger than the burst size wait in burst-sized instalments.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	remaining := len(texts)
	for remaining > 0 {
		n := remaining
		if n > s.limiter.Burst() {
			n = s.limiter.Burst()
		}
		if err := s.limiter.WaitN(ctx, n); err != nil {
			return nil, err
		}
		remaining -= n
	}
	return s.inner.EmbedBatch(ctx, texts)
}

// Dimensions delegates to the inner service.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName delegates to the inner service.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping delegates to the inner service without consuming tokens.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close delegates to the inner service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }
