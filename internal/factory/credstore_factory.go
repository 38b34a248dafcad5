package factory

import (
	"fmt"

	"github.com/mikey/mail-semantic-search/internal/adapters/credstore"
	"github.com/mikey/mail-semantic-search/internal/config"
	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
)

// CredentialStoreFactory creates credential stores based on configuration
type CredentialStoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCredentialStoreFactory creates a new credential store factory
func NewCredentialStoreFactory(cfg *config.Config, logger *zap.Logger) *CredentialStoreFactory {
	return &CredentialStoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCredentialStore creates a credential store based on the configuration
func (f *CredentialStoreFactory) CreateCredentialStore() (core.CredentialStore, error) {
	credCfg := f.cfg.GetCredentials()
	logger := f.logger.Named("credstore")

	switch credCfg.Store {
	case "memory":
		return credstore.NewMemoryStore(logger), nil
	case "file":
		return credstore.NewFileStore(credCfg.FileDir, logger)
	case "keyring":
		return credstore.NewKeyringStore(credCfg.KeyringService, credCfg.KeyringFileDir, credCfg.KeyringPassword, logger)
	case "sqlite":
		return credstore.NewSQLiteStore(credCfg.SQLitePath, logger)
	case "mysql":
		return credstore.NewMySQLStore(credCfg.MySQLDSN, logger)
	default:
		return nil, fmt.Errorf("unsupported credential store: %s", credCfg.Store)
	}
}

// CredentialKey returns the key the OAuth token is stored under
func (f *CredentialStoreFactory) CredentialKey() string {
	if key := f.cfg.GetCredentials().Key; key != "" {
		return key
	}
	return "token"
}
