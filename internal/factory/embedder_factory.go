package factory

import (
	"context"
	"fmt"

	"github.com/mikey/mail-semantic-search/internal/adapters/bedrock"
	"github.com/mikey/mail-semantic-search/internal/adapters/gemini"
	"github.com/mikey/mail-semantic-search/internal/adapters/hashing"
	"github.com/mikey/mail-semantic-search/internal/adapters/openai"
	"github.com/mikey/mail-semantic-search/internal/config"
	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
)

// EmbedderFactory creates embedding models
type EmbedderFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewEmbedderFactory creates a new embedder factory
func NewEmbedderFactory(cfg *config.Config, logger *zap.Logger) *EmbedderFactory {
	return &EmbedderFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEmbedder returns an embedder for the configured provider. The
// provider client is only built on the first Encode call.
func (f *EmbedderFactory) CreateEmbedder() (core.Embedder, error) {
	provider := f.cfg.GetEmbedding().Provider
	switch provider {
	case "openai", "gemini", "bedrock", "hashing":
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}

	return core.NewLazyEmbedder(func() (core.Embedder, error) {
		f.logger.Info("Loading embedding model", zap.String("provider", provider))
		embedder, err := f.create(context.Background(), provider)
		if err != nil {
			return nil, &core.EmbeddingError{Provider: provider, Err: err}
		}
		return embedder, nil
	}), nil
}

func (f *EmbedderFactory) create(ctx context.Context, provider string) (core.Embedder, error) {
	logger := f.logger.Named(provider)

	switch provider {
	case "openai":
		return openai.NewFactory(f.cfg, logger).CreateEmbedder()
	case "gemini":
		return gemini.NewFactory(f.cfg, logger).CreateEmbedder(ctx)
	case "bedrock":
		return bedrock.NewFactory(f.cfg, logger).CreateEmbedder(ctx)
	case "hashing":
		return hashing.NewEmbedder(f.cfg.GetHashing().Dimensions, logger), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}
