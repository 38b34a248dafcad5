// Package hashing provides an offline embedder based on feature hashing.
// It needs no network or credentials and is deterministic across runs,
// which makes it suitable for tests and air-gapped use.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// DefaultDimensions is the vector size used when none is configured
const DefaultDimensions = 512

// Embedder maps texts to L2-normalized bag-of-words vectors. Each token is
// hashed with FNV-1a into a bucket; the top hash bit chooses the sign.
type Embedder struct {
	dimensions int
	logger     *zap.Logger
}

// NewEmbedder creates a new hashing embedder
func NewEmbedder(dimensions int, logger *zap.Logger) *Embedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Embedder{
		dimensions: dimensions,
		logger:     logger,
	}
}

// Encode embeds texts. A text without tokens yields the zero vector.
func (e *Embedder) Encode(ctx context.Context, texts []string) ([]core.Vector, error) {
	// Casers keep state and are not safe for concurrent use
	fold := cases.Fold()

	vectors := make([]core.Vector, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, &core.EmbeddingError{Provider: "hashing", Err: err}
		}
		vectors[i] = e.embed(fold.String(text))
	}

	e.logger.Debug("Hashing embeddings created",
		zap.Int("inputs", len(texts)),
		zap.Int("dimensions", e.dimensions))

	return vectors, nil
}

// embed hashes the tokens of an already case-folded text
func (e *Embedder) embed(text string) core.Vector {
	vector := make(core.Vector, e.dimensions)

	for _, token := range Tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(token))
		sum := h.Sum64()

		bucket := sum % uint64(e.dimensions)
		if sum>>63 == 1 {
			vector[bucket]--
		} else {
			vector[bucket]++
		}
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vector
	}
	norm = math.Sqrt(norm)
	for i, v := range vector {
		vector[i] = float32(float64(v) / norm)
	}
	return vector
}

// Tokenize splits text into runs of letters and digits
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
