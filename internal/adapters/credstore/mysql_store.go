package credstore

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const mysqlUpsert = `
	INSERT INTO credentials (cred_key, data, updated_at)
	VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE
		data = VALUES(data),
		updated_at = VALUES(updated_at)
`

// NewMySQLStore connects to MySQL and ensures the credentials table exists
func NewMySQLStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS credentials (
			cred_key VARCHAR(255) PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at TIMESTAMP NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLStore{db: db, upsertQuery: mysqlUpsert, logger: logger}, nil
}
