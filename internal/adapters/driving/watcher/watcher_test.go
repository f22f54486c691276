package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaddaou/docchat/internal/core/domain"
)

type recordedIngest struct {
	ownerID   string
	sessionID string
	filename  string
	data      []byte
}

type stubIngest struct {
	mu    sync.Mutex
	calls []recordedIngest
	err   error
}

func (s *stubIngest) Ingest(_ context.Context, ownerID, sessionID, filename string, data []byte) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, recordedIngest{ownerID, sessionID, filename, data})
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Document{ID: "d1", SessionID: sessionID, Name: filename}, nil
}

func (s *stubIngest) recorded() []recordedIngest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedIngest(nil), s.calls...)
}

func TestSplitInboxPath(t *testing.T) {
	root := filepath.Join("inbox")

	tests := []struct {
		name    string
		path    string
		owner   string
		session string
		file    string
		ok      bool
	}{
		{
			name:    "well formed",
			path:    filepath.Join(root, "alice", "s1", "notes.txt"),
			owner:   "alice",
			session: "s1",
			file:    "notes.txt",
			ok:      true,
		},
		{
			name: "too shallow",
			path: filepath.Join(root, "alice", "notes.txt"),
		},
		{
			name: "too deep",
			path: filepath.Join(root, "alice", "s1", "sub", "notes.txt"),
		},
		{
			name: "hidden file",
			path: filepath.Join(root, "alice", "s1", ".notes.txt.swp"),
		},
		{
			name: "hidden session dir",
			path: filepath.Join(root, "alice", ".git", "config"),
		},
		{
			name: "outside root",
			path: filepath.Join("elsewhere", "alice", "s1", "notes.txt"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, session, file, ok := splitInboxPath(root, tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.owner, owner)
				assert.Equal(t, tt.session, session)
				assert.Equal(t, tt.file, file)
			}
		})
	}
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".swp"))
	assert.False(t, isHidden("notes.txt"))
	assert.False(t, isHidden("."))
	assert.False(t, isHidden(".."))
}

func TestWatcher_New_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "inbox")
	w, err := New(root, &stubIngest{})
	require.NoError(t, err)
	defer w.Close()

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWatcher_HandleEvent_IngestsAndRemoves(t *testing.T) {
	root := t.TempDir()
	ingest := &stubIngest{}
	w, err := New(root, ingest)
	require.NoError(t, err)
	defer w.Close()

	dir := filepath.Join(root, "alice", "s1")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	w.handleEvent(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})

	calls := ingest.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "alice", calls[0].ownerID)
	assert.Equal(t, "s1", calls[0].sessionID)
	assert.Equal(t, "notes.txt", calls[0].filename)
	assert.Equal(t, []byte("hello"), calls[0].data)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWatcher_HandleEvent_FailedIngestKeepsFile(t *testing.T) {
	root := t.TempDir()
	ingest := &stubIngest{err: domain.ErrIndexFailure}
	w, err := New(root, ingest)
	require.NoError(t, err)
	defer w.Close()

	dir := filepath.Join(root, "alice", "s1")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	w.handleEvent(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})

	require.Len(t, ingest.recorded(), 1)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWatcher_HandleEvent_SkipsWrongDepth(t *testing.T) {
	root := t.TempDir()
	ingest := &stubIngest{}
	w, err := New(root, ingest)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(root, "stray.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	w.handleEvent(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})

	assert.Empty(t, ingest.recorded())
}

func TestWatcher_HandleEvent_SkipsEmptyFile(t *testing.T) {
	root := t.TempDir()
	ingest := &stubIngest{}
	w, err := New(root, ingest)
	require.NoError(t, err)
	defer w.Close()

	dir := filepath.Join(root, "alice", "s1")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	w.handleEvent(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})

	assert.Empty(t, ingest.recorded())
}

func TestWatcher_HandleEvent_ChmodIgnored(t *testing.T) {
	root := t.TempDir()
	ingest := &stubIngest{}
	w, err := New(root, ingest)
	require.NoError(t, err)
	defer w.Close()

	dir := filepath.Join(root, "alice", "s1")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	w.handleEvent(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Chmod})

	assert.Empty(t, ingest.recorded())
}

func TestWatcher_EndToEnd(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "alice", "s1")
	require.NoError(t, os.MkdirAll(dir, 0o700))

	ingest := &stubIngest{}
	w, err := New(root, ingest)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// Move-in pattern: write elsewhere, then rename into the inbox.
	tmp := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(tmp, []byte("hello"), 0o600))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, "notes.txt")))

	require.Eventually(t, func() bool {
		return len(ingest.recorded()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	calls := ingest.recorded()
	assert.Equal(t, "alice", calls[0].ownerID)
	assert.Equal(t, "s1", calls[0].sessionID)
}
