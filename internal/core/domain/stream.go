package domain

import "context"

// AnswerStream relays generated answer fragments from the producer
// (the generation capability) to a single consumer (the transport).
// The channel is unbuffered so the producer never reads ahead of what
// the consumer has accepted; fragments arrive in generation order and
// are never dropped or duplicated.
type AnswerStream struct {
	tokens chan string
	done   chan struct{}
	err    error
}

// NewAnswerStream creates an open stream. The producer must call
// Close exactly once when the turn ends.
func NewAnswerStream() *AnswerStream {
	return &AnswerStream{
		tokens: make(chan string),
		done:   make(chan struct{}),
	}
}

// Tokens returns the fragment channel. It is closed when the turn
// finishes; the consumer must then check Err to distinguish a clean
// completion from an abort.
func (s *AnswerStream) Tokens() <-chan string {
	return s.tokens
}

// Push hands one fragment to the consumer, blocking until it is
// accepted or ctx is cancelled. Returning ctx.Err() tells the producer
// the consumer is gone and generation should be abandoned.
func (s *AnswerStream) Push(ctx context.Context, token string) error {
	select {
	case s.tokens <- token:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the stream. A nil err means the answer completed cleanly
// and the full content was persisted. Must be called exactly once.
func (s *AnswerStream) Close(err error) {
	s.err = err
	close(s.done)
	close(s.tokens)
}

// Err reports how the stream ended. It blocks until Close is called,
// so it is safe to call as soon as Tokens is drained.
func (s *AnswerStream) Err() error {
	<-s.done
	return s.err
}
