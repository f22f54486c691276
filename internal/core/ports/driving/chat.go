package driving

import (
	"context"

	"github.com/mhaddaou/docchat/internal/core/domain"
)

// ChatService answers a query from a session's indexed documents,
// streaming the generated answer token by token.
type ChatService interface {
	// Answer runs one chat turn. The human message is durably recorded
	// before the call returns; retrieval and prompt construction also
	// happen synchronously, so session, embedding and index failures
	// surface as the returned error and no stream exists.
	//
	// The returned stream delivers generation fragments as they
	// arrive. The ai message is persisted only when the stream closes
	// with a nil error; any mid-stream failure or caller cancellation
	// closes the stream with a taxonomy error and persists nothing.
	Answer(ctx context.Context, ownerID, sessionID, query string) (*domain.AnswerStream, error)
}
