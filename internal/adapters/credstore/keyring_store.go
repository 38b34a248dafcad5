package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
)

// KeyringStore keeps credentials in the operating system keyring, falling
// back to an encrypted file keyring.
type KeyringStore struct {
	ring   keyring.Keyring
	logger *zap.Logger
}

// NewKeyringStore opens the keyring for service
func NewKeyringStore(service, fileDir, filePassword string, logger *zap.Logger) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(filePassword),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewKeyringStoreFrom(ring, logger), nil
}

// NewKeyringStoreFrom wraps an already opened keyring
func NewKeyringStoreFrom(ring keyring.Keyring, logger *zap.Logger) *KeyringStore {
	return &KeyringStore{ring: ring, logger: logger}
}

// Load retrieves a credential from the keyring
func (s *KeyringStore) Load(ctx context.Context, key string) ([]byte, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, core.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("getting credential %q: %w", key, err)
	}
	return item.Data, nil
}

// Save stores a credential in the keyring
func (s *KeyringStore) Save(ctx context.Context, key string, data []byte) error {
	err := s.ring.Set(keyring.Item{
		Key:         key,
		Data:        data,
		Label:       "mail-search " + key,
		Description: "Gmail OAuth token",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	s.logger.Debug("Stored credential in keyring", zap.String("key", key))
	return nil
}

// Delete removes a credential from the keyring
func (s *KeyringStore) Delete(ctx context.Context, key string) error {
	if err := s.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}
