// Package store persists raw provider payloads in sqlite so a rebuild
// can run offline from the most recent fetch.
package store

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Snapshot is one stored provider response.
type Snapshot struct {
	ID                int64
	FetchedAt         time.Time
	Provider          string
	Endpoint          string
	PayloadCompressed []byte
	PayloadHash       string
}

// SaveSnapshot stores a compressed provider payload. Returns the row ID,
// or 0 when the payload duplicated an existing hash.
func (s *Store) SaveSnapshot(provider, endpoint string, payload []byte) (int64, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return 0, fmt.Errorf("compress payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return 0, fmt.Errorf("close gzip: %w", err)
	}

	hash := sha256.Sum256(payload)
	hashHex := hex.EncodeToString(hash[:])

	result, err := s.db.Exec(`
		INSERT INTO snapshots (fetched_at, provider, endpoint, payload_compressed, payload_hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(payload_hash) DO NOTHING
	`, time.Now().UTC(), provider, endpoint, buf.Bytes(), hashHex)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	return result.LastInsertId()
}

// LatestSnapshot returns the most recently fetched payload for a provider
// endpoint, decompressed. Returns nil with no error when nothing has been
// stored yet.
func (s *Store) LatestSnapshot(provider, endpoint string) ([]byte, time.Time, error) {
	row := s.db.QueryRow(`
		SELECT payload_compressed, fetched_at
		FROM snapshots
		WHERE provider = ? AND endpoint = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, provider, endpoint)

	var compressed []byte
	var fetchedAt time.Time
	err := row.Scan(&compressed, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("create gzip reader: %w", err)
	}
	defer gz.Close()

	payload, err := io.ReadAll(gz)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("decompress snapshot: %w", err)
	}
	return payload, fetchedAt, nil
}

// CleanupOldSnapshots deletes snapshots older than retentionDays. Returns
// the number of deleted rows.
func (s *Store) CleanupOldSnapshots(retentionDays int) (int64, error) {
	result, err := s.db.Exec(`
		DELETE FROM snapshots
		WHERE fetched_at < DATE('now', '-' || ? || ' days')
	`, retentionDays)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
