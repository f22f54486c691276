// Package memory provides an in-memory vector index for development
// and testing.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/mhaddaou/docchat/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex
// with brute-force cosine similarity search. Each session gets its own
// point slice, so isolation between sessions falls out of the layout.
type VectorIndex struct {
	mu          sync.RWMutex
	collections map[string][]driven.Point
}

// NewVectorIndex creates a new in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		collections: make(map[string][]driven.Point),
	}
}

// Upsert appends points to the session's collection, creating it if
// needed.
func (v *VectorIndex) Upsert(_ context.Context, sessionID string, points []driven.Point) error {
	if len(points) == 0 {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.collections[sessionID] = append(v.collections[sessionID], points...)
	return nil
}

// Search scores every point in the session's collection and returns at
// most k hits above the threshold, best first.
func (v *VectorIndex) Search(_ context.Context, sessionID string, vector []float32, k int, threshold float32) ([]driven.Hit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	points, ok := v.collections[sessionID]
	if !ok || k <= 0 {
		return []driven.Hit{}, nil
	}

	hits := make([]driven.Hit, 0, len(points))
	for _, p := range points {
		score := cosineSimilarity(vector, p.Vector)
		if score >= threshold {
			hits = append(hits, driven.Hit{Text: p.Text, Source: p.Source, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteDocument removes every point upserted for the given document.
func (v *VectorIndex) DeleteDocument(_ context.Context, sessionID, documentID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	points, ok := v.collections[sessionID]
	if !ok {
		return nil
	}
	kept := points[:0]
	for _, p := range points {
		if p.DocumentID != documentID {
			kept = append(kept, p)
		}
	}
	v.collections[sessionID] = kept
	return nil
}

// DropCollection removes the session's collection entirely.
func (v *VectorIndex) DropCollection(_ context.Context, sessionID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.collections, sessionID)
	return nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.collections = make(map[string][]driven.Point)
	return nil
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
