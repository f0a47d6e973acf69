package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps collection documents in a single table:
//
//	CREATE TABLE collections (
//	    name       TEXT PRIMARY KEY,
//	    document   JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs the store over an existing connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load fetches and unmarshals the document for the collection.
func (s *PostgresStore) Load(ctx context.Context, collection string, dest interface{}) error {
	const query = `SELECT document FROM collections WHERE name = $1`
	var raw []byte
	if err := s.db.GetContext(ctx, &raw, query, collection); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load collection %s: %w", collection, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return nil
}

// Save upserts the collection document wholesale.
func (s *PostgresStore) Save(ctx context.Context, collection string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}
	const query = `INSERT INTO collections (name, document, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (name)
DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, collection, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("save collection %s: %w", collection, err)
	}
	return nil
}
