// Package httpapi exposes the chat, ingestion and session services
// over HTTP, streaming answers as server-sent events.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mhaddaou/docchat/internal/core/ports/driven"
	"github.com/mhaddaou/docchat/internal/core/ports/driving"
	"github.com/mhaddaou/docchat/internal/logger"
)

// MaxUploadBytes caps one document upload.
const MaxUploadBytes = 50 << 20 // 50 MiB

// Server is the HTTP front of the application.
type Server struct {
	auth     driven.Authenticator
	chat     driving.ChatService
	ingest   driving.IngestService
	sessions driving.SessionService

	addr     string
	server   *http.Server
	listener net.Listener
}

// NewServer creates a server listening on addr once started.
func NewServer(
	addr string,
	auth driven.Authenticator,
	chat driving.ChatService,
	ingest driving.IngestService,
	sessions driving.SessionService,
) *Server {
	s := &Server{
		auth:     auth,
		chat:     chat,
		ingest:   ingest,
		sessions: sessions,
		addr:     addr,
	}
	s.server = &http.Server{
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: SSE responses stay open for the duration of
		// a generation.
	}
	return s
}

// Handler returns the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /chat/create_session", s.authenticated(s.handleCreateSession))
	mux.HandleFunc("POST /chat/chat", s.authenticated(s.handleChat))
	mux.HandleFunc("POST /chat/get_sessions", s.authenticated(s.handleGetSessions))
	mux.HandleFunc("POST /chat/get_messages", s.authenticated(s.handleGetMessages))
	mux.HandleFunc("POST /chat/delete_session", s.authenticated(s.handleDeleteSession))
	mux.HandleFunc("POST /docs/upload", s.authenticated(s.handleUpload))
	mux.HandleFunc("POST /docs/first_upload", s.authenticated(s.handleFirstUpload))
	mux.HandleFunc("POST /docs/get_documents", s.authenticated(s.handleGetDocuments))
	return mux
}

// Start begins serving. It returns once the listener is bound; errors
// after that are logged.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("HTTP server stopped: %v", err)
		}
	}()

	logger.Info("Listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, useful when the configured port was
// 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
