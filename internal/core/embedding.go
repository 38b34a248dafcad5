package core

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// LazyEmbedder creates the underlying embedder on first use and reuses it
// for the lifetime of the process.
type LazyEmbedder struct {
	load   func() (Embedder, error)
	loaded atomic.Bool
}

// NewLazyEmbedder wraps create so that it runs at most once
func NewLazyEmbedder(create func() (Embedder, error)) *LazyEmbedder {
	l := &LazyEmbedder{}
	l.load = sync.OnceValues(func() (Embedder, error) {
		defer l.loaded.Store(true)
		return create()
	})
	return l
}

// Encode loads the model if needed and encodes texts
func (l *LazyEmbedder) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	embedder, err := l.load()
	if err != nil {
		return nil, err
	}
	return embedder.Encode(ctx, texts)
}

// Close releases the underlying embedder. A model that was never loaded is
// not created just to be closed.
func (l *LazyEmbedder) Close() error {
	if !l.loaded.Load() {
		return nil
	}
	embedder, err := l.load()
	if err != nil {
		return nil
	}
	if closer, ok := embedder.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
