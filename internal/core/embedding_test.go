package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nalgeon/be"
)

type constEmbedder struct{}

func (constEmbedder) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	vectors := make([]Vector, len(texts))
	for i := range texts {
		vectors[i] = Vector{1}
	}
	return vectors, nil
}

func TestLazyEmbedder_LoadsOnce(t *testing.T) {
	var mu sync.Mutex
	loads := 0
	lazy := NewLazyEmbedder(func() (Embedder, error) {
		mu.Lock()
		defer mu.Unlock()
		loads++
		return constEmbedder{}, nil
	})
	be.Equal(t, loads, 0)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vectors, err := lazy.Encode(context.Background(), []string{"a", "b"})
			if err != nil || len(vectors) != 2 {
				t.Errorf("unexpected result: %v %v", vectors, err)
			}
		}()
	}
	wg.Wait()

	be.Equal(t, loads, 1)
}

func TestLazyEmbedder_RemembersError(t *testing.T) {
	loads := 0
	lazy := NewLazyEmbedder(func() (Embedder, error) {
		loads++
		return nil, errors.New("missing API key")
	})

	_, err := lazy.Encode(context.Background(), []string{"a"})
	be.Err(t, err, "missing API key")
	_, err = lazy.Encode(context.Background(), []string{"a"})
	be.Err(t, err, "missing API key")
	be.Equal(t, loads, 1)
}

type closingEmbedder struct {
	constEmbedder
	closed int
}

func (c *closingEmbedder) Close() error {
	c.closed++
	return nil
}

func TestLazyEmbedder_Close(t *testing.T) {
	inner := &closingEmbedder{}
	loads := 0
	lazy := NewLazyEmbedder(func() (Embedder, error) {
		loads++
		return inner, nil
	})

	// Closing before first use does not load the model.
	be.Err(t, lazy.Close(), nil)
	be.Equal(t, loads, 0)
	be.Equal(t, inner.closed, 0)

	_, err := lazy.Encode(context.Background(), []string{"a"})
	be.Err(t, err, nil)
	be.Err(t, lazy.Close(), nil)
	be.Equal(t, loads, 1)
	be.Equal(t, inner.closed, 1)
}

func TestLazyEmbedder_CloseAfterLoadError(t *testing.T) {
	lazy := NewLazyEmbedder(func() (Embedder, error) {
		return nil, errors.New("missing API key")
	})
	_, err := lazy.Encode(context.Background(), []string{"a"})
	be.True(t, err != nil)
	be.Err(t, lazy.Close(), nil)
}
