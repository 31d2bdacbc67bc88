// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kv

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// schema is the single table backing the store. Values are JSON documents
// keyed by application-chosen string keys.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed string key-value store.
//
// Store is safe for concurrent use; database/sql serializes access to the
// underlying connection.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the store at the given database path.
func Open(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	// Single writer keeps the write-through model simple
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &Store{db: db, path: absPath}, nil
}

// Path returns the database file path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// RAW OPERATIONS
// =============================================================================

// GetRaw returns the raw stored string for key, and whether it was present.
func (s *Store) GetRaw(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("kv: read failed for key %q: %v", key, err)
		}
		return "", false
	}
	return value, true
}

// SetRaw stores a raw string under key, overwriting any previous value.
// Failures are logged and dropped.
func (s *Store) SetRaw(key, value string) {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		log.Printf("kv: write failed for key %q: %v", key, err)
	}
}

// Remove deletes a key unconditionally. Removing an absent key is not an
// error.
func (s *Store) Remove(key string) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		log.Printf("kv: delete failed for key %q: %v", key, err)
	}
}

// Has reports whether a key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.GetRaw(key)
	return ok
}

// =============================================================================
// TYPED OPERATIONS
// =============================================================================

// Get returns the JSON-decoded value for key, or fallback when the key is
// absent or its value cannot be parsed. Parse failures are logged and
// treated as absent.
func Get[T any](s *Store, key string, fallback T) T {
	raw, ok := s.GetRaw(key)
	if !ok {
		return fallback
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		log.Printf("kv: malformed value for key %q, using fallback: %v", key, err)
		return fallback
	}
	return value
}

// Set JSON-encodes value and writes it through synchronously under key.
// Serialization and storage failures are logged, not propagated.
func Set[T any](s *Store, key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("kv: marshal failed for key %q: %v", key, err)
		return
	}
	s.SetRaw(key, string(data))
}
