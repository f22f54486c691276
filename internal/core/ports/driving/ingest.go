package driving

import (
	"context"

	"github.com/mhaddaou/docchat/internal/core/domain"
)

// IngestService turns an uploaded document into searchable vectors in
// the session's collection.
type IngestService interface {
	// Ingest parses, chunks, embeds and indexes one document as a
	// single logical unit. On failure no partial vectors from this
	// document survive and no Document is recorded.
	Ingest(ctx context.Context, ownerID, sessionID, filename string, data []byte) (*domain.Document, error)
}
