package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaddaou/docchat/internal/core/domain"
)

func TestExtensions(t *testing.T) {
	assert.Contains(t, New().Extensions(), ".txt")
}

func TestNormalise_PassesTextThrough(t *testing.T) {
	text, err := New().Normalise(context.Background(), "a.txt", []byte("  hello world \n"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestNormalise_RejectsBinary(t *testing.T) {
	_, err := New().Normalise(context.Background(), "a.txt", []byte{0xff, 0xfe, 0x00, 0x80})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
