package driven

import "context"

// FileStore keeps the raw bytes of uploaded documents. The core treats
// the returned location as opaque; it is recorded on the Document and
// never interpreted.
type FileStore interface {
	// Save durably stores data for the given owner and session under a
	// generated name derived from the original filename, and returns
	// the storage location.
	Save(ctx context.Context, ownerID, sessionID, filename string, data []byte) (string, error)

	// Delete removes a previously saved file. Deleting a location that
	// no longer exists is not an error.
	Delete(ctx context.Context, location string) error
}
