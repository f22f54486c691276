package driven

import "context"

// Normaliser extracts plain text from raw document bytes.
// Each normaliser handles specific file extensions (e.g., PDF,
// Markdown, plain text).
type Normaliser interface {
	// Extensions returns the lower-case file extensions this
	// normaliser handles, dot included (".pdf").
	Extensions() []string

	// Normalise extracts plain text from the raw bytes. Implementations
	// return an error wrapping domain.ErrUnsupportedFormat when the
	// bytes cannot be parsed.
	Normalise(ctx context.Context, name string, data []byte) (string, error)
}

// NormaliserRegistry selects a normaliser for a filename.
type NormaliserRegistry interface {
	// Resolve returns the normaliser for the filename's extension,
	// or false when no registered normaliser handles it.
	Resolve(filename string) (Normaliser, bool)
}
