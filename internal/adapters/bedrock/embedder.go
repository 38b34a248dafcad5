package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
)

// ModelInvoker is the subset of the Bedrock runtime client used for embeddings
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// titanRequest is the request body of the Titan text embedding models
type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize"`
}

// titanResponse is the response body of the Titan text embedding models
type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// Embedder is an implementation of the Embedder interface using Amazon Bedrock
type Embedder struct {
	client     ModelInvoker
	modelID    string
	dimensions int
	normalize  bool
	logger     *zap.Logger
}

// NewEmbedder creates a new Bedrock embedder
func NewEmbedder(client ModelInvoker, modelID string, dimensions int, normalize bool, logger *zap.Logger) *Embedder {
	return &Embedder{
		client:     client,
		modelID:    modelID,
		dimensions: dimensions,
		normalize:  normalize,
		logger:     logger,
	}
}

// Encode embeds every text with one InvokeModel call per text
func (e *Embedder) Encode(ctx context.Context, texts []string) ([]core.Vector, error) {
	startTime := time.Now()
	tokens := 0

	vectors := make([]core.Vector, len(texts))
	for i, text := range texts {
		vector, count, err := e.embed(ctx, text)
		if err != nil {
			return nil, &core.EmbeddingError{Provider: "bedrock", Err: err}
		}
		vectors[i] = vector
		tokens += count
	}

	e.logger.Debug("Bedrock embeddings created",
		zap.String("model", e.modelID),
		zap.Int("inputs", len(texts)),
		zap.Int("input_tokens", tokens),
		zap.Duration("duration", time.Since(startTime)))

	return vectors, nil
}

func (e *Embedder) embed(ctx context.Context, text string) (core.Vector, int, error) {
	body, err := json.Marshal(titanRequest{
		InputText:  text,
		Dimensions: e.dimensions,
		Normalize:  e.normalize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	out, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to invoke model: %w", err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, 0, fmt.Errorf("empty embedding in response")
	}

	return core.Vector(resp.Embedding), resp.InputTextTokenCount, nil
}
