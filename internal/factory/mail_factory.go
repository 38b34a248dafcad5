package factory

import (
	"github.com/mikey/mail-semantic-search/internal/adapters/gmail"
	"github.com/mikey/mail-semantic-search/internal/config"
	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
)

// MailFactory creates mail provider clients
type MailFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailFactory creates a new mail factory
func NewMailFactory(cfg *config.Config, logger *zap.Logger) *MailFactory {
	return &MailFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailClient creates a Gmail client that persists its token in store
func (f *MailFactory) CreateMailClient(store core.CredentialStore, credentialKey string) core.MailClient {
	return gmail.NewClient(f.cfg.GetGmail(), store, credentialKey, f.logger.Named("gmail"))
}
