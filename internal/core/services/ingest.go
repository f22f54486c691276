package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mhaddaou/docchat/internal/chunker"
	"github.com/mhaddaou/docchat/internal/core/domain"
	"github.com/mhaddaou/docchat/internal/core/ports/driven"
	"github.com/mhaddaou/docchat/internal/core/ports/driving"
	"github.com/mhaddaou/docchat/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the offline indexing path: parse, chunk, embed,
// index, record. Each document is all-or-nothing: a failure anywhere
// leaves no vectors from it in the session's collection and no
// Document record.
type IngestService struct {
	store    driven.ChatStore
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	files    driven.FileStore
	registry driven.NormaliserRegistry
	splitter *chunker.Splitter
}

// NewIngestService creates an ingest service.
func NewIngestService(
	store driven.ChatStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	files driven.FileStore,
	registry driven.NormaliserRegistry,
	splitter *chunker.Splitter,
) *IngestService {
	return &IngestService{
		store:    store,
		index:    index,
		embedder: embedder,
		files:    files,
		registry: registry,
		splitter: splitter,
	}
}

// Ingest indexes one uploaded document into the session's collection.
func (s *IngestService) Ingest(
	ctx context.Context, ownerID, sessionID, filename string, data []byte,
) (*domain.Document, error) {
	logger.Section("Document Ingestion")
	logger.Debug("Session %s: ingesting %q (%d bytes)", sessionID, filename, len(data))

	if _, err := s.store.GetSession(ctx, sessionID, ownerID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrInvalidInput)
	}

	// 1. Parse to normalized text.
	norm, ok := s.registry.Resolve(filename)
	if !ok {
		return nil, fmt.Errorf("%w: no parser for %q", domain.ErrUnsupportedFormat, filename)
	}
	text, err := norm.Normalise(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	text = chunker.Normalise(text)
	if text == "" {
		return nil, fmt.Errorf("%w: %q yielded no extractable text", domain.ErrUnsupportedFormat, filename)
	}

	// 2. Chunk.
	chunks := s.splitter.Split(text)
	logger.Debug("Split into %d chunks", len(chunks))

	// 3. Embed every chunk, batched and order-preserving.
	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbeddingUnavailable, len(vectors), len(chunks))
	}

	// 4. Store the raw bytes.
	location, err := s.files.Save(ctx, ownerID, sessionID, filename, data)
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	// 5. Insert all vectors as one logical unit.
	docID := uuid.New().String()
	points := make([]driven.Point, len(chunks))
	for i := range chunks {
		points[i] = driven.Point{
			ID:         fmt.Sprintf("%s:%d", docID, i),
			DocumentID: docID,
			Source:     filename,
			Text:       chunks[i],
			Vector:     vectors[i],
		}
	}
	if err := s.index.Upsert(ctx, sessionID, points); err != nil {
		// Make sure nothing from this document survives.
		s.rollback(ctx, sessionID, docID, location)
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexFailure, err)
	}

	// 6. Record the document only after indexing succeeded.
	doc := &domain.Document{
		ID:        docID,
		SessionID: sessionID,
		Name:      filename,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		s.rollback(ctx, sessionID, docID, location)
		return nil, fmt.Errorf("recording document: %w", err)
	}

	logger.Info("Indexed %q into session %s: %d vectors", filename, sessionID, len(points))
	return doc, nil
}

// rollback removes the document's vectors and stored file so a failed
// ingestion leaves nothing behind. Best effort; failures are logged.
func (s *IngestService) rollback(ctx context.Context, sessionID, docID, location string) {
	if err := s.index.DeleteDocument(ctx, sessionID, docID); err != nil {
		logger.Warn("Rollback of document %s failed: %v", docID, err)
	}
	if err := s.files.Delete(ctx, location); err != nil {
		logger.Warn("Rollback of stored file %s failed: %v", location, err)
	}
}
