// Package watcher ingests documents dropped into an inbox directory.
//
// The inbox is laid out as <inbox>/<owner>/<session>/<file>. Files are
// expected to be moved in atomically (mv into place); a file is
// ingested when it appears and removed again on success, so the inbox
// only ever holds files that are pending or failed.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/mhaddaou/docchat/internal/core/ports/driving"
	"github.com/mhaddaou/docchat/internal/logger"
)

// Watcher feeds inbox files to the ingest service.
type Watcher struct {
	root   string
	ingest driving.IngestService
	fs     *fsnotify.Watcher
}

// New creates a watcher over the inbox root, picking up the owner and
// session directories that already exist.
func New(root string, ingest driving.IngestService) (*Watcher, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("creating inbox %s: %w", root, err)
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{root: root, ingest: ingest, fs: fs}
	if err := w.watchTree(); err != nil {
		fs.Close()
		return nil, err
	}
	return w, nil
}

// watchTree registers the root plus the two directory levels below it.
func (w *Watcher) watchTree() error {
	if err := w.fs.Add(w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}
	return filepath.WalkDir(w.root, func(path string, entry os.DirEntry, err error) error {
		if err != nil || !entry.IsDir() || path == w.root {
			return err
		}
		if isHidden(entry.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Start begins processing events until ctx is cancelled or Close is
// called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("Inbox watcher: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if isHidden(filepath.Base(event.Name)) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Already ingested and removed, or gone again.
		return
	}
	if info.IsDir() {
		// A new owner or session directory; watch it for files.
		if w.isLevelDir(event.Name) {
			if err := w.fs.Add(event.Name); err != nil {
				logger.Warn("Watching %s: %v", event.Name, err)
			}
		}
		return
	}

	ownerID, sessionID, filename, ok := splitInboxPath(w.root, event.Name)
	if !ok {
		logger.Debug("Ignoring inbox file outside <owner>/<session>/ layout: %s", event.Name)
		return
	}

	data, err := os.ReadFile(event.Name)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Reading inbox file %s: %v", event.Name, err)
		}
		return
	}
	if len(data) == 0 {
		// Still being written; the write event will follow.
		return
	}

	doc, err := w.ingest.Ingest(ctx, ownerID, sessionID, filename, data)
	if err != nil {
		logger.Warn("Ingesting inbox file %s: %v", event.Name, err)
		return
	}
	logger.Info("Ingested inbox file %s into session %s (document %s)", filename, sessionID, doc.ID)

	if err := os.Remove(event.Name); err != nil && !os.IsNotExist(err) {
		logger.Warn("Removing ingested inbox file %s: %v", event.Name, err)
	}
}

// isLevelDir reports whether path is an owner or session directory,
// the only directory depths the inbox layout has.
func (w *Watcher) isLevelDir(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	depth := len(strings.Split(rel, string(filepath.Separator)))
	return depth == 1 || depth == 2
}

// splitInboxPath maps an inbox file path onto the owner, session and
// filename it addresses. Paths at any other depth, or with hidden
// components, do not resolve.
func splitInboxPath(root, path string) (ownerID, sessionID, filename string, ok bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", "", "", false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 3 {
		return "", "", "", false
	}
	for _, part := range parts {
		if part == "" || isHidden(part) {
			return "", "", "", false
		}
	}
	return parts[0], parts[1], parts[2], true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
