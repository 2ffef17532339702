// Package cache provides the SQLite-backed local store: immutable past
// heartbeat days and TTL-bounded source-file snapshots.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yswstools/hackreview/internal/core/constants"
	"github.com/yswstools/hackreview/internal/core/model"
	"github.com/yswstools/hackreview/internal/util"

	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS heartbeat_days (
    user_id     TEXT NOT NULL,
    day         TEXT NOT NULL,
    payload     TEXT NOT NULL,
    fetched_at  TEXT NOT NULL,
    PRIMARY KEY (user_id, day)
);

CREATE TABLE IF NOT EXISTS source_files (
    cache_key   TEXT PRIMARY KEY,
    content     TEXT NOT NULL,
    found       INTEGER NOT NULL,
    fetched_at  INTEGER NOT NULL
);
`

// Store is the SQLite-backed local cache.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	dbPath := filepath.Join(dir, "hackreview.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the cache database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDay recalls a cached heartbeat day. Past days are immutable, so no
// TTL applies; a decode failure is treated as a miss.
func (s *Store) GetDay(userID string, day time.Time) ([]model.Heartbeat, bool) {
	var payload string
	err := s.db.QueryRow(
		"SELECT payload FROM heartbeat_days WHERE user_id = ? AND day = ?",
		userID, day.UTC().Format("2006-01-02"),
	).Scan(&payload)
	if err != nil {
		return nil, false
	}

	var heartbeats []model.Heartbeat
	if err := sonic.Unmarshal([]byte(payload), &heartbeats); err != nil {
		util.LogWarnf("Dropping undecodable cached day %s: %v", day.Format("2006-01-02"), err)
		return nil, false
	}
	return heartbeats, true
}

// PutDay stores a fetched heartbeat day.
func (s *Store) PutDay(userID string, day time.Time, heartbeats []model.Heartbeat) error {
	payload, err := sonic.Marshal(heartbeats)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO heartbeat_days (user_id, day, payload, fetched_at) VALUES (?, ?, ?, ?)",
		userID, day.UTC().Format("2006-01-02"), string(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SourceKey builds the cache key for one fetched source file.
func SourceKey(owner, repo, path, ref string) string {
	return fmt.Sprintf("%s/%s@%s:%s", owner, repo, ref, path)
}

// GetSource recalls a cached source file. Entries older than the TTL are
// treated as stale misses; they stay in place until overwritten.
func (s *Store) GetSource(key string) (content string, found bool, ok bool) {
	var foundInt int
	var fetchedAt int64
	err := s.db.QueryRow(
		"SELECT content, found, fetched_at FROM source_files WHERE cache_key = ?",
		key,
	).Scan(&content, &foundInt, &fetchedAt)
	if err != nil {
		return "", false, false
	}
	if time.Since(time.Unix(fetchedAt, 0)) > constants.SourceCacheTTL {
		return "", false, false
	}
	return content, foundInt != 0, true
}

// PutSource stores a source fetch result, including not-found outcomes so
// a missing file is not re-fetched within the TTL either.
func (s *Store) PutSource(key, content string, found bool) error {
	foundInt := 0
	if found {
		foundInt = 1
	}
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO source_files (cache_key, content, found, fetched_at) VALUES (?, ?, ?, ?)",
		key, content, foundInt, time.Now().Unix(),
	)
	return err
}

// Clear drops all cached rows.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM heartbeat_days"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM source_files")
	return err
}
