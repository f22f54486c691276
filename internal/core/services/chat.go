package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mhaddaou/docchat/internal/core/domain"
	"github.com/mhaddaou/docchat/internal/core/ports/driven"
	"github.com/mhaddaou/docchat/internal/core/ports/driving"
	"github.com/mhaddaou/docchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Retrieval defaults, applied when options leave them unset.
const (
	DefaultTopK      = 3
	DefaultThreshold = 0.4
)

// ChatService answers questions against a session's indexed documents.
// Retrieval, prompt assembly and the persistence of the question all
// happen synchronously in Answer; only token generation runs behind
// the returned stream.
type ChatService struct {
	store     driven.ChatStore
	index     driven.VectorIndex
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	prompts   PromptBuilder
	topK      int
	threshold float32
}

// ChatOption configures a ChatService.
type ChatOption func(*ChatService)

// WithTopK sets how many passages retrieval returns.
func WithTopK(k int) ChatOption {
	return func(s *ChatService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithThreshold sets the minimum similarity score a passage must reach
// to be considered relevant.
func WithThreshold(t float32) ChatOption {
	return func(s *ChatService) {
		if t >= 0 {
			s.threshold = t
		}
	}
}

// NewChatService creates a chat service.
func NewChatService(
	store driven.ChatStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	opts ...ChatOption,
) *ChatService {
	s := &ChatService{
		store:     store,
		index:     index,
		embedder:  embedder,
		llm:       llm,
		topK:      DefaultTopK,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer records the question, retrieves relevant passages and starts
// generating a grounded answer. Errors before generation begins are
// returned directly; once a stream is returned, failures surface via
// its Err method. The answer is persisted only when generation
// finishes cleanly.
func (s *ChatService) Answer(
	ctx context.Context, ownerID, sessionID, query string,
) (*domain.AnswerStream, error) {
	logger.Section("Answering")

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if _, err := s.store.GetSession(ctx, sessionID, ownerID); err != nil {
		return nil, err
	}

	// The question is part of the history whatever happens next.
	if _, err := s.store.AppendMessage(ctx, sessionID, domain.RoleHuman, query); err != nil {
		return nil, fmt.Errorf("recording question: %w", err)
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	hits, err := s.index.Search(ctx, sessionID, vector, s.topK, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexFailure, err)
	}
	logger.Debug("Session %s: %d passages above threshold %.2f", sessionID, len(hits), s.threshold)

	passages := make([]domain.Passage, len(hits))
	for i, h := range hits {
		passages[i] = domain.Passage{Text: h.Text, Source: h.Source, Score: h.Score}
	}

	req := driven.GenerateRequest{
		System: s.prompts.System(),
		Prompt: s.prompts.Build(query, passages),
	}

	stream := domain.NewAnswerStream()
	go s.generate(ctx, sessionID, req, stream)
	return stream, nil
}

// generate drives the model and settles the stream. It records the
// answer only on a clean, non-empty completion.
func (s *ChatService) generate(
	ctx context.Context, sessionID string, req driven.GenerateRequest, stream *domain.AnswerStream,
) {
	var answer strings.Builder

	err := s.llm.GenerateStream(ctx, req, func(token string) error {
		if err := stream.Push(ctx, token); err != nil {
			return err
		}
		answer.WriteString(token)
		return nil
	})
	if err != nil {
		stream.Close(fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err))
		return
	}
	if answer.Len() == 0 {
		stream.Close(fmt.Errorf("%w: model produced no output", domain.ErrGenerationFailure))
		return
	}

	if _, err := s.store.AppendMessage(ctx, sessionID, domain.RoleAI, answer.String()); err != nil {
		stream.Close(fmt.Errorf("recording answer: %w", err))
		return
	}

	logger.Debug("Session %s: answered with %d characters", sessionID, answer.Len())
	stream.Close(nil)
}
