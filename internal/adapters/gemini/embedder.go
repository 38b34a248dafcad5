package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
)

// DefaultBatchSize is the largest batch accepted by batchEmbedContents
const DefaultBatchSize = 100

// batchEmbedder embeds one batch of texts
type batchEmbedder interface {
	embed(ctx context.Context, texts []string) ([][]float32, error)
}

// modelEmbedder sends batches to a genai embedding model
type modelEmbedder struct {
	model *genai.EmbeddingModel
}

func (m *modelEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	batch := m.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := m.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}

	values := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb != nil {
			values[i] = emb.Values
		}
	}
	return values, nil
}

// Embedder is an implementation of the Embedder interface using Google Gemini
type Embedder struct {
	client    *genai.Client
	backend   batchEmbedder
	modelName string
	batchSize int
	logger    *zap.Logger
}

// NewEmbedder creates a new Gemini embedder for modelName
func NewEmbedder(client *genai.Client, modelName string, batchSize int, logger *zap.Logger) *Embedder {
	model := client.EmbeddingModel(modelName)
	model.TaskType = genai.TaskTypeSemanticSimilarity

	e := newEmbedder(&modelEmbedder{model: model}, modelName, batchSize, logger)
	e.client = client
	return e
}

func newEmbedder(backend batchEmbedder, modelName string, batchSize int, logger *zap.Logger) *Embedder {
	if batchSize <= 0 || batchSize > DefaultBatchSize {
		batchSize = DefaultBatchSize
	}
	return &Embedder{
		backend:   backend,
		modelName: modelName,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Encode embeds texts in batches, preserving their order
func (e *Embedder) Encode(ctx context.Context, texts []string) ([]core.Vector, error) {
	startTime := time.Now()
	vectors := make([]core.Vector, 0, len(texts))

	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		values, err := e.backend.embed(ctx, texts[start:end])
		if err != nil {
			return nil, &core.EmbeddingError{Provider: "gemini", Err: err}
		}
		if len(values) != end-start {
			return nil, &core.EmbeddingError{
				Provider: "gemini",
				Err:      fmt.Errorf("expected %d embeddings, got %d", end-start, len(values)),
			}
		}
		for _, v := range values {
			vectors = append(vectors, core.Vector(v))
		}
	}

	e.logger.Debug("Gemini embeddings created",
		zap.String("model", e.modelName),
		zap.Int("inputs", len(texts)),
		zap.Duration("duration", time.Since(startTime)))

	return vectors, nil
}

// Close releases the underlying client
func (e *Embedder) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}
