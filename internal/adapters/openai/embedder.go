package openai

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mikey/mail-semantic-search/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// maxBatchSize bounds the number of inputs sent in one embeddings request
const maxBatchSize = 256

// Embedder is an implementation of the Embedder interface using OpenAI
type Embedder struct {
	client     *openai.Client
	modelName  string
	dimensions int
	logger     *zap.Logger
}

// NewEmbedder creates a new OpenAI embedder
func NewEmbedder(client *openai.Client, modelName string, dimensions int, logger *zap.Logger) *Embedder {
	return &Embedder{
		client:     client,
		modelName:  modelName,
		dimensions: dimensions,
		logger:     logger,
	}
}

// Encode embeds texts, preserving their order
func (e *Embedder) Encode(ctx context.Context, texts []string) ([]core.Vector, error) {
	vectors := make([]core.Vector, 0, len(texts))

	for start := 0; start < len(texts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(texts))
		batch, err := e.encodeBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func (e *Embedder) encodeBatch(ctx context.Context, texts []string) ([]core.Vector, error) {
	startTime := time.Now()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(e.modelName),
		Dimensions: e.dimensions,
	})
	if err != nil {
		return nil, &core.EmbeddingError{Provider: "openai", Err: err}
	}
	if len(resp.Data) != len(texts) {
		return nil, &core.EmbeddingError{
			Provider: "openai",
			Err:      fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)),
		}
	}

	// The API reports the input position of each embedding
	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([]core.Vector, len(data))
	for i, d := range data {
		vectors[i] = core.Vector(d.Embedding)
	}

	e.logger.Debug("OpenAI embeddings created",
		zap.String("model", e.modelName),
		zap.Int("inputs", len(texts)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Duration("duration", time.Since(startTime)))

	return vectors, nil
}
