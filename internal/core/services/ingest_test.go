package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaddaou/docchat/internal/chunker"
	"github.com/mhaddaou/docchat/internal/core/domain"
)

func newTestIngestService(store *mockChatStore, index *mockVectorIndex, embedder *mockEmbeddingService, files *mockFileStore) *IngestService {
	registry := &mockRegistry{normaliser: &mockNormaliser{exts: []string{".txt"}}}
	return NewIngestService(store, index, embedder, files, registry, chunker.New())
}

func TestIngestService_Ingest(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	index := newMockVectorIndex()
	files := &mockFileStore{}
	service := newTestIngestService(store, index, &mockEmbeddingService{embedding: []float32{0.1, 0.2}}, files)
	ctx := context.Background()

	doc, err := service.Ingest(ctx, "alice", "s1", "notes.txt", []byte("The warranty lasts two years."))

	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "s1", doc.SessionID)
	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, "alice/s1/notes.txt", doc.Location)

	// Vectors landed in the session's collection with retrieval payload.
	require.Len(t, index.points["s1"], 1)
	point := index.points["s1"][0]
	assert.Equal(t, doc.ID, point.DocumentID)
	assert.Equal(t, "notes.txt", point.Source)
	assert.Equal(t, "The warranty lasts two years.", point.Text)

	// Document record visible in the store.
	docs, err := store.ListDocuments(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)
}

func TestIngestService_Ingest_MultipleChunks(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	index := newMockVectorIndex()
	service := NewIngestService(store, index, &mockEmbeddingService{embedding: []float32{0.1}}, &mockFileStore{},
		&mockRegistry{normaliser: &mockNormaliser{exts: []string{".txt"}}},
		chunker.New(chunker.WithChunkSize(10), chunker.WithOverlap(2)))

	doc, err := service.Ingest(context.Background(), "alice", "s1", "long.txt", []byte("abcdefghijklmnopqrstuvwxyz"))

	require.NoError(t, err)
	points := index.points["s1"]
	require.Greater(t, len(points), 1)
	for _, p := range points {
		assert.Equal(t, doc.ID, p.DocumentID)
		assert.NotEmpty(t, p.Text)
		assert.Contains(t, p.ID, doc.ID)
	}
}

func TestIngestService_Ingest_UnknownSession(t *testing.T) {
	service := newTestIngestService(newMockChatStore(), newMockVectorIndex(), &mockEmbeddingService{embedding: []float32{0.1}}, &mockFileStore{})

	_, err := service.Ingest(context.Background(), "alice", "missing", "notes.txt", []byte("text"))

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestIngestService_Ingest_WrongOwner(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	service := newTestIngestService(store, newMockVectorIndex(), &mockEmbeddingService{embedding: []float32{0.1}}, &mockFileStore{})

	_, err := service.Ingest(context.Background(), "bob", "s1", "notes.txt", []byte("text"))

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestIngestService_Ingest_EmptyUpload(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	service := newTestIngestService(store, newMockVectorIndex(), &mockEmbeddingService{embedding: []float32{0.1}}, &mockFileStore{})

	_, err := service.Ingest(context.Background(), "alice", "s1", "notes.txt", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestService_Ingest_UnsupportedExtension(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	service := newTestIngestService(store, newMockVectorIndex(), &mockEmbeddingService{embedding: []float32{0.1}}, &mockFileStore{})

	_, err := service.Ingest(context.Background(), "alice", "s1", "photo.png", []byte{0x89, 0x50})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestIngestService_Ingest_NoExtractableText(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	registry := &mockRegistry{normaliser: &mockNormaliser{exts: []string{".txt"}, text: "   \n\n  "}}
	service := NewIngestService(store, newMockVectorIndex(), &mockEmbeddingService{embedding: []float32{0.1}}, &mockFileStore{}, registry, chunker.New())

	_, err := service.Ingest(context.Background(), "alice", "s1", "blank.txt", []byte("x"))

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestIngestService_Ingest_EmbedFailure(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	index := newMockVectorIndex()
	embedder := &mockEmbeddingService{batchErr: errors.New("connection refused")}
	service := newTestIngestService(store, index, embedder, &mockFileStore{})
	ctx := context.Background()

	_, err := service.Ingest(ctx, "alice", "s1", "notes.txt", []byte("text"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	// Nothing indexed, nothing recorded.
	assert.Empty(t, index.points["s1"])
	docs, _ := store.ListDocuments(ctx, "s1")
	assert.Empty(t, docs)
}

func TestIngestService_Ingest_VectorCountMismatch(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	embedder := &mockEmbeddingService{embedding: []float32{0.1}, short: true}
	service := newTestIngestService(store, newMockVectorIndex(), embedder, &mockFileStore{})

	_, err := service.Ingest(context.Background(), "alice", "s1", "notes.txt", []byte("text"))

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIngestService_Ingest_UpsertFailureRollsBack(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	index := newMockVectorIndex()
	index.upsertErr = errors.New("collection write failed")
	files := &mockFileStore{}
	service := newTestIngestService(store, index, &mockEmbeddingService{embedding: []float32{0.1}}, files)
	ctx := context.Background()

	_, err := service.Ingest(ctx, "alice", "s1", "notes.txt", []byte("text"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexFailure)
	assert.Len(t, index.deleted, 1)
	// The stored upload must not be left orphaned.
	assert.Equal(t, files.saved, files.deleted)

	docs, _ := store.ListDocuments(ctx, "s1")
	assert.Empty(t, docs)
}

func TestIngestService_Ingest_RecordFailureRollsBackIndex(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	store.saveDocErr = errors.New("disk full")
	index := newMockVectorIndex()
	files := &mockFileStore{}
	service := newTestIngestService(store, index, &mockEmbeddingService{embedding: []float32{0.1}}, files)

	_, err := service.Ingest(context.Background(), "alice", "s1", "notes.txt", []byte("text"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "recording document")
	// The document's vectors and stored file were removed again.
	assert.Empty(t, index.points["s1"])
	assert.Len(t, index.deleted, 1)
	assert.Equal(t, files.saved, files.deleted)
}

func TestIngestService_Ingest_FileStoreFailure(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	index := newMockVectorIndex()
	files := &mockFileStore{saveErr: errors.New("permission denied")}
	service := newTestIngestService(store, index, &mockEmbeddingService{embedding: []float32{0.1}}, files)

	_, err := service.Ingest(context.Background(), "alice", "s1", "notes.txt", []byte("text"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "storing upload")
	assert.Empty(t, index.points["s1"])
}

func TestIngestService_Ingest_SecondDocumentAccumulates(t *testing.T) {
	store := newMockChatStore()
	store.addSession("s1", "alice")
	index := newMockVectorIndex()
	service := newTestIngestService(store, index, &mockEmbeddingService{embedding: []float32{0.1}}, &mockFileStore{})
	ctx := context.Background()

	first, err := service.Ingest(ctx, "alice", "s1", "a.txt", []byte("first document"))
	require.NoError(t, err)
	second, err := service.Ingest(ctx, "alice", "s1", "b.txt", []byte("second document"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, index.points["s1"], 2)
	docs, _ := store.ListDocuments(ctx, "s1")
	assert.Len(t, docs, 2)
}
