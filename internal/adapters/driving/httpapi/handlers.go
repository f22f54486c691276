package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mhaddaou/docchat/internal/core/domain"
	"github.com/mhaddaou/docchat/internal/logger"
)

// ownerHandler is a handler that runs after authentication resolved
// the caller.
type ownerHandler func(w http.ResponseWriter, r *http.Request, ownerID string)

// authenticated resolves the bearer token before invoking next.
func (s *Server) authenticated(next ownerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		ownerID, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, ownerID)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request, ownerID string) {
	session, err := s.sessions.Create(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "Session created successfully",
		"session_id": session.ID,
	})
}

func (s *Server) handleGetSessions(w http.ResponseWriter, r *http.Request, ownerID string) {
	sessions, err := s.sessions.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]sessionResponse, len(sessions))
	for i, session := range sessions {
		out[i] = sessionResponse{
			ID:        session.ID,
			CreatedAt: session.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	messages, err := s.sessions.Messages(r.Context(), ownerID, req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]messageResponse, len(messages))
	for i, msg := range messages {
		out[i] = messageResponse{
			ID:        msg.ID,
			Type:      string(msg.Role),
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDocuments(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	docs, err := s.sessions.Documents(r.Context(), ownerID, req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]documentResponse, len(docs))
	for i, doc := range docs {
		out[i] = documentResponse{
			ID:        doc.ID,
			Name:      doc.Name,
			CreatedAt: doc.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.sessions.Delete(r.Context(), ownerID, req.SessionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	stream, err := s.chat.Answer(r.Context(), ownerID, req.SessionID, req.Query)
	if err != nil {
		writeError(w, err)
		return
	}

	streamSSE(w, stream)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, ownerID string) {
	filename, data, err := readUpload(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sessionID := r.FormValue("session_id")

	doc, err := s.ingest.Ingest(r.Context(), ownerID, sessionID, filename, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Message:    "Embedding completed",
		SessionID:  doc.SessionID,
		DocumentID: doc.ID,
		Name:       doc.Name,
	})
}

// handleFirstUpload creates a session and ingests the first document
// in one call. If ingestion fails the fresh session is removed again
// so the caller never ends up with an empty orphan.
func (s *Server) handleFirstUpload(w http.ResponseWriter, r *http.Request, ownerID string) {
	filename, data, err := readUpload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := s.sessions.Create(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := s.ingest.Ingest(r.Context(), ownerID, session.ID, filename, data)
	if err != nil {
		if delErr := s.sessions.Delete(r.Context(), ownerID, session.ID); delErr != nil {
			logger.Warn("Removing session %s after failed first upload: %v", session.ID, delErr)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Message:    "Embedding completed",
		SessionID:  session.ID,
		DocumentID: doc.ID,
		Name:       doc.Name,
	})
}

// readUpload pulls the uploaded file out of the multipart form.
func readUpload(r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		return "", nil, fmt.Errorf("%w: parsing upload: %w", domain.ErrInvalidInput, err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("%w: missing file field", domain.ErrInvalidInput)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", nil, fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrInvalidInput, MaxUploadBytes)
	}
	return header.Filename, data, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding request body: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Writing response: %v", err)
	}
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrGenerationFailure),
		errors.Is(err, domain.ErrIndexFailure):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
