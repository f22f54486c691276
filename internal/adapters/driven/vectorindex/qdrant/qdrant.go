// Package qdrant provides a vector index adapter backed by a Qdrant
// server, using its REST API directly.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mhaddaou/docchat/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:6333"
	DefaultTimeout = 15 * time.Second
)

// collectionPrefix namespaces docchat collections on a shared Qdrant
// server.
const collectionPrefix = "docchat-session-"

// Config holds configuration for the Qdrant vector index.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey is sent in the api-key header when set.
	APIKey string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// VectorIndex keeps one Qdrant collection per session, created lazily
// on first upsert with cosine distance and the dimensionality of the
// incoming vectors.
type VectorIndex struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewVectorIndex creates a new Qdrant vector index.
func NewVectorIndex(cfg Config) *VectorIndex {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &VectorIndex{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

func collectionName(sessionID string) string {
	return collectionPrefix + sessionID
}

// pointID maps our point identifiers onto valid Qdrant ids, which must
// be UUIDs or unsigned integers. The mapping is deterministic so
// re-upserting a point overwrites rather than duplicates.
func pointID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}

// Upsert appends points to the session's collection, creating it if
// needed. Qdrant applies one upsert call atomically, which gives the
// all-or-nothing behaviour a document ingest relies on.
func (v *VectorIndex) Upsert(ctx context.Context, sessionID string, points []driven.Point) error {
	if len(points) == 0 {
		return nil
	}

	if err := v.ensureCollection(ctx, sessionID, len(points[0].Vector)); err != nil {
		return err
	}

	qdrantPoints := make([]map[string]any, len(points))
	for i, p := range points {
		qdrantPoints[i] = map[string]any{
			"id":     pointID(p.ID),
			"vector": p.Vector,
			"payload": map[string]any{
				"document_id": p.DocumentID,
				"source":      p.Source,
				"text":        p.Text,
			},
		}
	}

	path := fmt.Sprintf("/collections/%s/points?wait=true", collectionName(sessionID))
	return v.do(ctx, http.MethodPut, path, map[string]any{"points": qdrantPoints}, nil)
}

// ensureCollection creates the session's collection when missing.
// Qdrant answers the creation PUT with 200 when the collection already
// exists with the same schema.
func (v *VectorIndex) ensureCollection(ctx context.Context, sessionID string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("qdrant: invalid vector dimension %d", dimensions)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}
	path := "/collections/" + collectionName(sessionID)
	err := v.do(ctx, http.MethodPut, path, body, nil)
	if err != nil && isStatus(err, http.StatusConflict) {
		// Already created concurrently.
		return nil
	}
	return err
}

// searchResponse is the Qdrant points/search response format.
type searchResponse struct {
	Result []struct {
		Score   float32        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns at most k hits above the threshold, best first.
// A session that never ingested anything has no collection; Qdrant's
// 404 for it maps to an empty result, not an error.
func (v *VectorIndex) Search(ctx context.Context, sessionID string, vector []float32, k int, threshold float32) ([]driven.Hit, error) {
	body := map[string]any{
		"vector":          vector,
		"limit":           k,
		"score_threshold": threshold,
		"with_payload":    true,
	}

	var resp searchResponse
	path := fmt.Sprintf("/collections/%s/points/search", collectionName(sessionID))
	if err := v.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return []driven.Hit{}, nil
		}
		return nil, err
	}

	hits := make([]driven.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hit := driven.Hit{Score: r.Score}
		if text, ok := r.Payload["text"].(string); ok {
			hit.Text = text
		}
		if source, ok := r.Payload["source"].(string); ok {
			hit.Source = source
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// DeleteDocument removes every point carrying the document's id in its
// payload.
func (v *VectorIndex) DeleteDocument(ctx context.Context, sessionID, documentID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "document_id", "match": map[string]any{"value": documentID}},
			},
		},
	}
	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", collectionName(sessionID))
	err := v.do(ctx, http.MethodPost, path, body, nil)
	if err != nil && isStatus(err, http.StatusNotFound) {
		// No collection means nothing to roll back.
		return nil
	}
	return err
}

// DropCollection removes the session's collection entirely.
func (v *VectorIndex) DropCollection(ctx context.Context, sessionID string) error {
	err := v.do(ctx, http.MethodDelete, "/collections/"+collectionName(sessionID), nil, nil)
	if err != nil && isStatus(err, http.StatusNotFound) {
		return nil
	}
	return err
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

// statusError reports a non-2xx Qdrant response.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant error (status %d): %s", e.status, e.body)
}

func isStatus(err error, status int) bool {
	se, ok := err.(*statusError)
	return ok && se.status == status
}

func (v *VectorIndex) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if v.apiKey != "" {
		req.Header.Set("api-key", v.apiKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{status: resp.StatusCode, body: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
