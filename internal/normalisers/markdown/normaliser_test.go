package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensions(t *testing.T) {
	assert.ElementsMatch(t, []string{".md", ".markdown"}, New().Extensions())
}

func TestNormalise_StripsFormatting(t *testing.T) {
	in := "# Returns\n\nThe **return policy** is [30 days](https://example.com).\n\n- item one\n- item two\n"

	text, err := New().Normalise(context.Background(), "policy.md", []byte(in))
	require.NoError(t, err)

	assert.Contains(t, text, "The return policy is 30 days.")
	assert.Contains(t, text, "item one")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "**")
	assert.NotContains(t, text, "https://example.com")
}

func TestNormalise_RemovesCodeBlocks(t *testing.T) {
	in := "intro\n\n```go\nfmt.Println(\"hi\")\n```\n\noutro"

	text, err := New().Normalise(context.Background(), "doc.md", []byte(in))
	require.NoError(t, err)

	assert.Contains(t, text, "intro")
	assert.Contains(t, text, "outro")
	assert.NotContains(t, text, "Println")
}
