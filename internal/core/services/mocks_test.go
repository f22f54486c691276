package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mhaddaou/docchat/internal/core/domain"
	"github.com/mhaddaou/docchat/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockChatStore implements driven.ChatStore for testing.
type mockChatStore struct {
	mu        sync.Mutex
	sessions  map[string]*domain.Session
	messages  map[string][]domain.Message
	documents map[string][]domain.Document
	nextMsgID int64

	getErr    error
	appendErr error
	// appendErrRole fails AppendMessage only for that role when set.
	appendErrRole domain.Role
	saveDocErr    error
	deleteErr     error
}

func newMockChatStore() *mockChatStore {
	return &mockChatStore{
		sessions:  make(map[string]*domain.Session),
		messages:  make(map[string][]domain.Message),
		documents: make(map[string][]domain.Document),
	}
}

func (m *mockChatStore) addSession(id, ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &domain.Session{ID: id, OwnerID: ownerID, CreatedAt: time.Now()}
}

func (m *mockChatStore) CreateSession(_ context.Context, ownerID string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &domain.Session{
		ID:        fmt.Sprintf("session-%d", len(m.sessions)+1),
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *mockChatStore) GetSession(_ context.Context, id, ownerID string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[id]
	if !ok || s.OwnerID != ownerID {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (m *mockChatStore) ListSessions(_ context.Context, ownerID string) ([]domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Session
	for _, s := range m.sessions {
		if s.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockChatStore) DeleteSession(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	s, ok := m.sessions[id]
	if !ok || s.OwnerID != ownerID {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	delete(m.messages, id)
	delete(m.documents, id)
	return nil
}

func (m *mockChatStore) AppendMessage(_ context.Context, sessionID string, role domain.Role, content string) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil && (m.appendErrRole == "" || m.appendErrRole == role) {
		return nil, m.appendErr
	}
	m.nextMsgID++
	msg := domain.Message{
		ID:        m.nextMsgID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	m.messages[sessionID] = append(m.messages[sessionID], msg)
	return &msg, nil
}

func (m *mockChatStore) ListMessages(_ context.Context, sessionID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Message(nil), m.messages[sessionID]...), nil
}

func (m *mockChatStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveDocErr != nil {
		return m.saveDocErr
	}
	m.documents[doc.SessionID] = append(m.documents[doc.SessionID], *doc)
	return nil
}

func (m *mockChatStore) ListDocuments(_ context.Context, sessionID string) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Document(nil), m.documents[sessionID]...), nil
}

func (m *mockChatStore) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	mu      sync.Mutex
	points  map[string][]driven.Point // sessionID -> points
	hits    []driven.Hit
	dropped []string
	deleted []string // "sessionID/documentID"

	upsertErr error
	searchErr error
	deleteErr error
	dropErr   error
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{points: make(map[string][]driven.Point)}
}

func (m *mockVectorIndex) Upsert(_ context.Context, sessionID string, points []driven.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.points[sessionID] = append(m.points[sessionID], points...)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ string, _ []float32, k int, _ float32) ([]driven.Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) DeleteDocument(_ context.Context, sessionID, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, sessionID+"/"+documentID)
	kept := m.points[sessionID][:0]
	for _, p := range m.points[sessionID] {
		if p.DocumentID != documentID {
			kept = append(kept, p)
		}
	}
	m.points[sessionID] = kept
	return nil
}

func (m *mockVectorIndex) DropCollection(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dropErr != nil {
		return m.dropErr
	}
	m.dropped = append(m.dropped, sessionID)
	delete(m.points, sessionID)
	return nil
}

func (m *mockVectorIndex) Close() error { return nil }

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	batchErr  error
	short     bool // return one fewer vector than texts
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	n := len(texts)
	if m.short && n > 0 {
		n--
	}
	result := make([][]float32, n)
	for i := range result {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(m.embedding) }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockLLMService implements driven.LLMService for testing. It emits
// tokens one at a time and can fail mid-stream.
type mockLLMService struct {
	tokens    []string
	failAfter int // emit this many tokens then return failErr
	failErr   error
	lastReq   driven.GenerateRequest
	mu        sync.Mutex
}

func (m *mockLLMService) GenerateStream(_ context.Context, req driven.GenerateRequest, emit driven.TokenFunc) error {
	m.mu.Lock()
	m.lastReq = req
	m.mu.Unlock()
	for i, tok := range m.tokens {
		if m.failErr != nil && i == m.failAfter {
			return m.failErr
		}
		if err := emit(tok); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockLLMService) request() driven.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockFileStore implements driven.FileStore for testing.
type mockFileStore struct {
	saveErr   error
	deleteErr error
	saved     []string
	deleted   []string
}

func (m *mockFileStore) Save(_ context.Context, ownerID, sessionID, filename string, _ []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	location := ownerID + "/" + sessionID + "/" + filename
	m.saved = append(m.saved, location)
	return location, nil
}

func (m *mockFileStore) Delete(_ context.Context, location string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, location)
	return nil
}

// mockNormaliser implements driven.Normaliser for testing.
type mockNormaliser struct {
	exts []string
	text string
	err  error
}

func (m *mockNormaliser) Extensions() []string { return m.exts }

func (m *mockNormaliser) Normalise(_ context.Context, _ string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(data), nil
}

// mockRegistry implements driven.NormaliserRegistry for testing.
type mockRegistry struct {
	normaliser driven.Normaliser
}

func (m *mockRegistry) Resolve(filename string) (driven.Normaliser, bool) {
	if m.normaliser == nil {
		return nil, false
	}
	for _, ext := range m.normaliser.Extensions() {
		if strings.HasSuffix(strings.ToLower(filename), ext) {
			return m.normaliser, true
		}
	}
	return nil, false
}
