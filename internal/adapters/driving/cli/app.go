package cli

import (
	"fmt"
	"io"

	"github.com/mhaddaou/docchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/mhaddaou/docchat/internal/adapters/driven/embedding/openai"
	"github.com/mhaddaou/docchat/internal/adapters/driven/embedding/throttle"
	"github.com/mhaddaou/docchat/internal/adapters/driven/filestore/local"
	ollamallm "github.com/mhaddaou/docchat/internal/adapters/driven/llm/ollama"
	openaillm "github.com/mhaddaou/docchat/internal/adapters/driven/llm/openai"
	memorystore "github.com/mhaddaou/docchat/internal/adapters/driven/storage/memory"
	"github.com/mhaddaou/docchat/internal/adapters/driven/storage/sqlite"
	memoryindex "github.com/mhaddaou/docchat/internal/adapters/driven/vectorindex/memory"
	"github.com/mhaddaou/docchat/internal/adapters/driven/vectorindex/qdrant"
	"github.com/mhaddaou/docchat/internal/chunker"
	"github.com/mhaddaou/docchat/internal/config"
	"github.com/mhaddaou/docchat/internal/core/ports/driven"
	"github.com/mhaddaou/docchat/internal/core/services"
	"github.com/mhaddaou/docchat/internal/logger"
	"github.com/mhaddaou/docchat/internal/normalisers"
)

// app holds the wired service graph for one command invocation.
type app struct {
	store    driven.ChatStore
	embedder driven.EmbeddingService
	llm      driven.LLMService

	chat     *services.ChatService
	ingest   *services.IngestService
	sessions *services.SessionService
}

// buildApp assembles adapters and core services from the config.
func buildApp(cfg config.Config) (*app, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	index, err := buildIndex(cfg)
	if err != nil {
		return nil, err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	files, err := local.NewFileStore(cfg.Uploads.Dir)
	if err != nil {
		return nil, fmt.Errorf("creating file store: %w", err)
	}

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	logger.Debug("Embedding model: %s (%d dims)", embedder.ModelName(), embedder.Dimensions())
	logger.Debug("Generation model: %s", llm.ModelName())

	return &app{
		store:    store,
		embedder: embedder,
		llm:      llm,
		chat: services.NewChatService(store, index, embedder, llm,
			services.WithTopK(cfg.Retrieval.TopK),
			services.WithThreshold(cfg.Retrieval.Threshold),
		),
		ingest:   services.NewIngestService(store, index, embedder, files, normalisers.Defaults(), splitter),
		sessions: services.NewSessionService(store, index),
	}, nil
}

// Close releases the adapters that hold resources.
func (a *app) Close() {
	if err := a.embedder.Close(); err != nil {
		logger.Warn("Closing embedder: %v", err)
	}
	if err := a.llm.Close(); err != nil {
		logger.Warn("Closing llm: %v", err)
	}
	if closer, ok := a.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
	}
}

func buildStore(cfg config.Config) (driven.ChatStore, error) {
	switch cfg.Storage.Backend {
	case config.StorageSQLite:
		store, err := sqlite.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil
	case config.StorageMemory:
		return memorystore.NewChatStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func buildIndex(cfg config.Config) (driven.VectorIndex, error) {
	switch cfg.Index.Backend {
	case config.IndexQdrant:
		return qdrant.NewVectorIndex(qdrant.Config{
			BaseURL: cfg.Index.BaseURL,
			APIKey:  cfg.Index.APIKey,
		}), nil
	case config.IndexMemory:
		return memoryindex.NewVectorIndex(), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
}

func buildEmbedder(cfg config.Config) (driven.EmbeddingService, error) {
	var embedder driven.EmbeddingService
	switch cfg.Embedding.Provider {
	case config.ProviderOllama:
		embedder = ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	case config.ProviderOpenAI:
		var err error
		embedder, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("creating embedding service: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}

	if cfg.Embedding.RequestsPerSecond > 0 {
		embedder = throttle.New(embedder, cfg.Embedding.RequestsPerSecond, cfg.Embedding.Burst)
	}
	return embedder, nil
}

func buildLLM(cfg config.Config) (driven.LLMService, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		}), nil
	case config.ProviderOpenAI:
		llm, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("creating llm service: %w", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
