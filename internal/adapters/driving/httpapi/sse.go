package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mhaddaou/docchat/internal/core/domain"
	"github.com/mhaddaou/docchat/internal/logger"
)

// sseEvent is one frame of the answer stream. Token frames carry the
// generated fragment; the final frame is either "complete" or "error".
type sseEvent struct {
	Token   string `json:"token,omitempty"`
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// streamSSE relays an answer stream to the client as server-sent
// events, one frame per token, closing with a complete or error frame.
func streamSSE(w http.ResponseWriter, stream *domain.AnswerStream) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	for token := range stream.Tokens() {
		writeSSE(w, sseEvent{Token: token, Type: "token"})
		flush()
	}

	if err := stream.Err(); err != nil {
		writeSSE(w, sseEvent{Type: "error", Message: err.Error()})
	} else {
		writeSSE(w, sseEvent{Type: "complete"})
	}
	flush()
}

func writeSSE(w http.ResponseWriter, event sseEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn("Encoding stream event: %v", err)
		return
	}
	if _, err := w.Write(append(append([]byte("data: "), data...), '\n', '\n')); err != nil {
		logger.Warn("Writing stream event: %v", err)
	}
}
