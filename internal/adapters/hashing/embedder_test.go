package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/mikey/mail-semantic-search/internal/core"
	"github.com/nalgeon/be"
	"go.uber.org/zap"
)

func norm(v core.Vector) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestTokenize(t *testing.T) {
	be.Equal(t, Tokenize("Re: refund-policy, v2!"), []string{"Re", "refund", "policy", "v2"})
	be.Equal(t, len(Tokenize("  ...  ")), 0)
}

func TestEmbedder_Deterministic(t *testing.T) {
	e := NewEmbedder(0, zap.NewNop())

	ctx := context.Background()
	first, err := e.Encode(ctx, []string{"Refund policy question"})
	be.Err(t, err, nil)
	second, err := NewEmbedder(DefaultDimensions, zap.NewNop()).Encode(ctx, []string{"Refund policy question"})
	be.Err(t, err, nil)

	be.Equal(t, first, second)
	be.Equal(t, len(first[0]), DefaultDimensions)
	be.True(t, math.Abs(norm(first[0])-1) < 1e-6)
}

func TestEmbedder_CaseInsensitive(t *testing.T) {
	e := NewEmbedder(64, zap.NewNop())
	vectors, err := e.Encode(context.Background(), []string{"MEETING Notes", "meeting notes"})
	be.Err(t, err, nil)
	be.Equal(t, vectors[0], vectors[1])
	be.True(t, math.Abs(core.CosineSimilarity(vectors[0], vectors[1])-1) < 1e-6)
}

func TestEmbedder_EmptyText(t *testing.T) {
	e := NewEmbedder(16, zap.NewNop())
	vectors, err := e.Encode(context.Background(), []string{"", "!!"})
	be.Err(t, err, nil)
	be.Equal(t, vectors[0], make(core.Vector, 16))
	be.Equal(t, vectors[1], make(core.Vector, 16))
}

func TestEmbedder_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEmbedder(16, zap.NewNop()).Encode(ctx, []string{"a"})
	be.Err(t, err, context.Canceled)
}

func TestEmbedder_RanksSharedTerms(t *testing.T) {
	e := NewEmbedder(DefaultDimensions, zap.NewNop())
	vectors, err := e.Encode(context.Background(), []string{
		"refund",
		"refund policy",
		"meeting notes",
	})
	be.Err(t, err, nil)

	query := vectors[0]
	be.True(t, core.CosineSimilarity(query, vectors[1]) > core.CosineSimilarity(query, vectors[2]))
	be.Equal(t, core.CosineSimilarity(query, vectors[2]), 0.0)
}
