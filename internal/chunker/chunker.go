// Package chunker provides fixed-size text chunking with overlap.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultChunkSize is the default window size in runes.
const DefaultChunkSize = 1000

// DefaultOverlap is the default overlap between consecutive windows.
const DefaultOverlap = 100

// Splitter cuts normalized text into overlapping fixed-size windows.
// Windows are taken over runes so multi-byte text never splits inside
// a character. Splitting is deterministic.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the window size in runes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// The window must always advance.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured window size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured window overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split cuts text into windows of ChunkSize runes, each overlapping
// the previous by Overlap runes. Text shorter than one window yields
// exactly one chunk. Empty text yields no chunks; no chunk is empty.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	step := s.chunkSize - s.overlap

	chunks := make([]string, 0, total/step+1)
	for start := 0; start < total; start += step {
		end := start + s.chunkSize
		if end > total {
			end = total
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == total {
			break
		}
	}

	return chunks
}

var blankRuns = regexp.MustCompile(`\n{2,}`)

// Normalise prepares raw extracted text for splitting: CRLF becomes
// LF and runs of blank lines collapse to single newlines, so windows
// do not degenerate into near-empty chunks.
func Normalise(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
