package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultChunkSize, s.ChunkSize())
	assert.Equal(t, DefaultOverlap, s.Overlap())
}

func TestNew_ClampsOverlap(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(100))
	assert.Less(t, s.Overlap(), s.ChunkSize())
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s := New()
	chunks := s.Split("short text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplit_EmptyText(t *testing.T) {
	s := New()
	assert.Empty(t, s.Split(""))
}

func TestSplit_WindowsOverlap(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(3))
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := s.Split(text)

	require.Len(t, chunks, 4)
	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "hijklmnopq", chunks[1])
	assert.Equal(t, "opqrstuvwx", chunks[2])
	assert.Equal(t, "vwxyz", chunks[3])

	// Each window starts with the tail of the previous one.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-3:])
		assert.True(t, strings.HasPrefix(chunks[i], tail))
	}
}

func TestSplit_FullCoverage(t *testing.T) {
	s := New(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)

	// Dropping each window's overlap prefix reconstructs the input.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(string([]rune(c)[10:]))
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplit_Deterministic(t *testing.T) {
	s := New(WithChunkSize(64), WithOverlap(16))
	text := strings.Repeat("determinism matters. ", 100)
	assert.Equal(t, s.Split(text), s.Split(text))
}

func TestSplit_NoEmptyChunks(t *testing.T) {
	s := New(WithChunkSize(7), WithOverlap(2))
	for _, c := range s.Split("some input that ends exactly where it ends") {
		assert.NotEmpty(t, c)
	}
}

func TestSplit_MultiByteRunesStayIntact(t *testing.T) {
	s := New(WithChunkSize(4), WithOverlap(1))
	chunks := s.Split("héllo wörld ünïcode")
	for _, c := range chunks {
		assert.True(t, strings.ToValidUTF8(c, "?") == c, "chunk split inside a rune: %q", c)
	}
}

func TestNormalise_CollapsesBlankRuns(t *testing.T) {
	in := "first line\n\n\nsecond line\n\nthird line\r\n\r\nfourth"
	out := Normalise(in)
	assert.Equal(t, "first line\nsecond line\nthird line\nfourth", out)
}

func TestNormalise_TrimsEdges(t *testing.T) {
	assert.Equal(t, "body", Normalise("\n\n body \n\n"))
}
