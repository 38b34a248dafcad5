package credstore

import (
	"context"
	"sync"

	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the CredentialStore
// interface. Credentials do not outlive the process.
type MemoryStore struct {
	entries map[string][]byte
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory credential store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
		logger:  logger,
	}
}

// Load retrieves the credential stored under key
func (s *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.entries[key]
	if !ok {
		return nil, core.ErrCredentialNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save stores a credential
func (s *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = append([]byte(nil), data...)
	s.logger.Debug("Stored credential in memory", zap.String("key", key))
	return nil
}

// Delete removes a credential
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
