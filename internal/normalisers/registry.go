package normalisers

import (
	"path/filepath"
	"strings"

	"github.com/mhaddaou/docchat/internal/core/ports/driven"
	"github.com/mhaddaou/docchat/internal/normalisers/docx"
	"github.com/mhaddaou/docchat/internal/normalisers/html"
	"github.com/mhaddaou/docchat/internal/normalisers/markdown"
	"github.com/mhaddaou/docchat/internal/normalisers/pdf"
	"github.com/mhaddaou/docchat/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps file extensions to normalisers.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]driven.Normaliser)}
}

// Register adds a normaliser for every extension it reports.
// Later registrations win on conflict.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// Resolve returns the normaliser for the filename's extension.
func (r *Registry) Resolve(filename string) (driven.Normaliser, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	n, ok := r.byExt[ext]
	return n, ok
}

// Defaults returns a registry with the built-in normalisers: PDF,
// DOCX, HTML, Markdown and plain text.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(pdf.New())
	return r
}
