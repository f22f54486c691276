package httpapi

import "time"

// Request and response bodies for the JSON endpoints.

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

type sessionResponse struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type messageResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type documentResponse struct {
	ID        string    `json:"document_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type uploadResponse struct {
	Message    string `json:"message"`
	SessionID  string `json:"session_id"`
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
}
