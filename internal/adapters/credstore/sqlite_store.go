package credstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// NewSQLiteStore opens (and if needed creates) a SQLite credential store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLStore, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// A single connection keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS credentials (
			cred_key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLStore{
		db: db,
		upsertQuery: `
			INSERT OR REPLACE INTO credentials (cred_key, data, updated_at)
			VALUES (?, ?, ?)
		`,
		logger: logger,
	}, nil
}
