package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mikey/mail-semantic-search/internal/core"
	"go.uber.org/zap"
)

// SQLStore is a credential store backed by a SQL table
type SQLStore struct {
	db          *sqlx.DB
	upsertQuery string
	logger      *zap.Logger
}

// Load retrieves a credential from the credentials table
func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.GetContext(ctx, &data, `SELECT data FROM credentials WHERE cred_key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}
	return data, nil
}

// Save stores a credential, replacing any previous value
func (s *SQLStore) Save(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.upsertQuery, key, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	s.logger.Debug("Stored credential in database", zap.String("key", key))
	return nil
}

// Delete removes a credential
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE cred_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}
