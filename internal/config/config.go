// Package config loads the docchat configuration file. Everything has
// a default, so the server runs with no file at all; a TOML file
// overrides selectively.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Provider names accepted by the embedding and llm sections.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Index backend names.
const (
	IndexMemory = "memory"
	IndexQdrant = "qdrant"
)

// Storage backend names.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config is the full docchat configuration.
type Config struct {
	Server    Server    `toml:"server"`
	Auth      Auth      `toml:"auth"`
	Storage   Storage   `toml:"storage"`
	Uploads   Uploads   `toml:"uploads"`
	Inbox     Inbox     `toml:"inbox"`
	Embedding Embedding `toml:"embedding"`
	LLM       LLM       `toml:"llm"`
	Index     Index     `toml:"index"`
	Retrieval Retrieval `toml:"retrieval"`
	Chunking  Chunking  `toml:"chunking"`
}

// Server configures the HTTP listener.
type Server struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`
}

// Auth holds the static bearer-token table.
type Auth struct {
	// Tokens maps bearer tokens to owner identities.
	Tokens map[string]string `toml:"tokens"`
}

// Storage selects and configures the chat store backend.
type Storage struct {
	// Backend is "sqlite" or "memory".
	Backend string `toml:"backend"`

	// DataDir holds the SQLite database (default: ~/.docchat/data).
	DataDir string `toml:"data_dir"`
}

// Uploads configures where raw document bytes are kept.
type Uploads struct {
	// Dir is the uploads root (default: ~/.docchat/uploads).
	Dir string `toml:"dir"`
}

// Inbox configures the drop-directory auto-ingest watcher.
type Inbox struct {
	// Enabled turns the watcher on.
	Enabled bool `toml:"enabled"`

	// Dir is watched for files laid out as <owner>/<session>/<file>.
	Dir string `toml:"dir"`
}

// Embedding selects and configures the embedding provider.
type Embedding struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// Model names the embedding model.
	Model string `toml:"model"`

	// APIKey authenticates against hosted providers. Falls back to
	// OPENAI_API_KEY when empty.
	APIKey string `toml:"api_key"`

	// RequestsPerSecond caps the embedding request rate; 0 disables
	// throttling.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// Burst is the throttle burst size.
	Burst int `toml:"burst"`
}

// LLM selects and configures the generation provider.
type LLM struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// Model names the generation model.
	Model string `toml:"model"`

	// APIKey authenticates against hosted providers. Falls back to
	// OPENAI_API_KEY when empty.
	APIKey string `toml:"api_key"`
}

// Index selects and configures the vector index backend.
type Index struct {
	// Backend is "memory" or "qdrant".
	Backend string `toml:"backend"`

	// BaseURL is the Qdrant endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey is the Qdrant api key, if the server requires one.
	APIKey string `toml:"api_key"`
}

// Retrieval configures similarity search.
type Retrieval struct {
	// TopK is the maximum number of passages retrieved per question.
	TopK int `toml:"top_k"`

	// Threshold is the minimum similarity score for a passage.
	Threshold float32 `toml:"threshold"`
}

// Chunking configures the document splitter.
type Chunking struct {
	// Size is the chunk window in runes.
	Size int `toml:"size"`

	// Overlap is the number of runes shared between neighbours.
	Overlap int `toml:"overlap"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Server:    Server{Addr: "127.0.0.1:8080"},
		Storage:   Storage{Backend: StorageSQLite},
		Embedding: Embedding{Provider: ProviderOllama},
		LLM:       LLM{Provider: ProviderOllama},
		Index:     Index{Backend: IndexMemory},
		Retrieval: Retrieval{TopK: 3, Threshold: 0.4},
		Chunking:  Chunking{Size: 1000, Overlap: 100},
	}
}

// DefaultPath returns ~/.docchat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docchat", "config.toml"), nil
}

// Load reads the TOML file at path over the defaults. A missing file
// is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg, cfg.Validate()
}

// Validate rejects values the wiring cannot act on.
func (c Config) Validate() error {
	switch c.Embedding.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.LLM.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Index.Backend {
	case IndexMemory, IndexQdrant:
	default:
		return fmt.Errorf("unknown index backend %q", c.Index.Backend)
	}
	switch c.Storage.Backend {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 1 {
		return fmt.Errorf("retrieval threshold must be in [0, 1], got %g", c.Retrieval.Threshold)
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking overlap must be in [0, size), got %d", c.Chunking.Overlap)
	}
	if c.Inbox.Enabled && c.Inbox.Dir == "" {
		return fmt.Errorf("inbox enabled without a directory")
	}
	return nil
}
