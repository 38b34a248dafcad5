package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mikey/mail-semantic-search/internal/config"
	"github.com/mikey/mail-semantic-search/internal/core"
	"github.com/nalgeon/be"
	"go.uber.org/zap/zaptest"
)

type fakeBackend struct {
	batches [][]string
	err     error
	short   bool
}

func (f *fakeBackend) embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, texts)
	if f.err != nil {
		return nil, f.err
	}
	values := make([][]float32, 0, len(texts))
	for _, text := range texts {
		values = append(values, []float32{float32(len(text)), 1})
	}
	if f.short {
		values = values[:len(values)-1]
	}
	return values, nil
}

func TestEmbedder_EncodeBatches(t *testing.T) {
	backend := &fakeBackend{}
	e := newEmbedder(backend, "text-embedding-004", 2, zaptest.NewLogger(t))

	vectors, err := e.Encode(context.Background(), []string{"a", "bb", "ccc", "dddd", "eeeee"})
	be.Err(t, err, nil)
	be.Equal(t, len(backend.batches), 3)
	be.Equal(t, backend.batches[2], []string{"eeeee"})
	be.Equal(t, len(vectors), 5)
	for i, v := range vectors {
		be.Equal(t, v, core.Vector{float32(i + 1), 1})
	}
}

func TestEmbedder_BatchSizeCapped(t *testing.T) {
	backend := &fakeBackend{}
	e := newEmbedder(backend, "m", 0, zaptest.NewLogger(t))
	be.Equal(t, e.batchSize, DefaultBatchSize)

	texts := make([]string, DefaultBatchSize+1)
	for i := range texts {
		texts[i] = fmt.Sprint(i)
	}
	_, err := e.Encode(context.Background(), texts)
	be.Err(t, err, nil)
	be.Equal(t, len(backend.batches), 2)

	e = newEmbedder(backend, "m", 500, zaptest.NewLogger(t))
	be.Equal(t, e.batchSize, DefaultBatchSize)
}

func TestEmbedder_Errors(t *testing.T) {
	e := newEmbedder(&fakeBackend{err: errors.New("quota")}, "m", 10, zaptest.NewLogger(t))
	_, err := e.Encode(context.Background(), []string{"a"})
	be.Err(t, err, "quota")

	var embErr *core.EmbeddingError
	be.True(t, errors.As(err, &embErr))
	be.Equal(t, embErr.Provider, "gemini")

	e = newEmbedder(&fakeBackend{short: true}, "m", 10, zaptest.NewLogger(t))
	_, err = e.Encode(context.Background(), []string{"a", "b"})
	be.Err(t, err, "expected 2 embeddings, got 1")
}

func TestEmbedder_CloseWithoutClient(t *testing.T) {
	e := newEmbedder(&fakeBackend{}, "m", 10, zaptest.NewLogger(t))
	be.Err(t, e.Close(), nil)
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	_, err := NewFactory(cfg, zaptest.NewLogger(t)).CreateEmbedder(context.Background())
	be.Err(t, err, "API key")
}
