package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaddaou/docchat/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "chat.db"), store.Path())
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs the migration check again against an up-to-date
	// schema.
	store, err = NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestStore_CreateAndGetSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := store.GetSession(ctx, created.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "alice", got.OwnerID)
}

func TestStore_CreateSession_RequiresOwner(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateSession(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_GetSession_WrongOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "alice")
	require.NoError(t, err)

	_, err = store.GetSession(ctx, created.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_GetSession_Unknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSession(context.Background(), "no-such-id", "alice")

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_ListSessions_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateSession(ctx, "alice")
	require.NoError(t, err)
	second, err := store.CreateSession(ctx, "alice")
	require.NoError(t, err)
	_, err = store.CreateSession(ctx, "bob")
	require.NoError(t, err)

	sessions, err := store.ListSessions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// Ties on created_at fall back to id order, newest insert first
	// either way.
	ids := []string{sessions[0].ID, sessions[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}

func TestStore_AppendAndListMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "alice")
	require.NoError(t, err)

	human, err := store.AppendMessage(ctx, session.ID, domain.RoleHuman, "what is the warranty?")
	require.NoError(t, err)
	ai, err := store.AppendMessage(ctx, session.ID, domain.RoleAI, "Two years.")
	require.NoError(t, err)
	assert.Greater(t, ai.ID, human.ID)

	messages, err := store.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleHuman, messages[0].Role)
	assert.Equal(t, "what is the warranty?", messages[0].Content)
	assert.Equal(t, domain.RoleAI, messages[1].Role)
	assert.Equal(t, "Two years.", messages[1].Content)
}

func TestStore_AppendMessage_RejectsUnknownRole(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "alice")
	require.NoError(t, err)

	_, err = store.AppendMessage(ctx, session.ID, domain.Role("system"), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_SaveAndListDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "alice")
	require.NoError(t, err)

	doc := &domain.Document{
		ID:        "doc-1",
		SessionID: session.ID,
		Name:      "manual.pdf",
		Location:  "/uploads/alice/manual.pdf",
		CreatedAt: session.CreatedAt,
	}
	require.NoError(t, store.SaveDocument(ctx, doc))

	docs, err := store.ListDocuments(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "manual.pdf", docs[0].Name)
	assert.Equal(t, "/uploads/alice/manual.pdf", docs[0].Location)
}

func TestStore_DeleteSession_CascadesRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "alice")
	require.NoError(t, err)
	_, err = store.AppendMessage(ctx, session.ID, domain.RoleHuman, "hello")
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", SessionID: session.ID, Name: "a.txt", Location: "x", CreatedAt: session.CreatedAt,
	}))

	require.NoError(t, store.DeleteSession(ctx, session.ID, "alice"))

	_, err = store.GetSession(ctx, session.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	messages, err := store.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	docs, err := store.ListDocuments(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_DeleteSession_WrongOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "alice")
	require.NoError(t, err)

	err = store.DeleteSession(ctx, session.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Still there for the real owner.
	_, err = store.GetSession(ctx, session.ID, "alice")
	assert.NoError(t, err)
}
