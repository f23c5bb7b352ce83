// Package cache stores lattice run outputs keyed by their inputs.
//
// DRAGON runs are deterministic for a given deck, nuclear data file, and
// executable; repeating one is pure waste on depletion sequences that
// revisit the same compositions. The cache keys on a digest of all three
// and hands back the output artifacts without launching the subprocess.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Cache is a SQLite-backed artifact store. A nil *Cache is valid and
// always misses.
type Cache struct {
	db *sql.DB
	mu sync.Mutex
}

// Open initializes the cache database at the given path, creating parent
// directories as needed.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	c := &Cache{db: db}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS run_outputs (
		key        TEXT NOT NULL,
		name       TEXT NOT NULL,
		data       BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (key, name)
	);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("initializing cache schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Key digests the run inputs into a cache key. exeID should identify the
// executable build (path plus size/mtime is enough in practice).
func Key(exeID string, inputs ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(exeID))
	for _, in := range inputs {
		h.Write([]byte{0})
		h.Write(in)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached output artifacts for a key, or ok=false on miss.
func (c *Cache) Get(key string) (map[string][]byte, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query(`SELECT name, data FROM run_outputs WHERE key = ?`, key)
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}
	defer rows.Close()

	outputs := make(map[string][]byte)
	for rows.Next() {
		var name string
		var data []byte
		if err := rows.Scan(&name, &data); err != nil {
			return nil, false, fmt.Errorf("scanning cache row: %w", err)
		}
		outputs[name] = data
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(outputs) == 0 {
		return nil, false, nil
	}
	return outputs, true, nil
}

// Put stores the output artifacts for a key, replacing any previous entry.
func (c *Cache) Put(key string, outputs map[string][]byte) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM run_outputs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clearing stale cache entry: %w", err)
	}
	for name, data := range outputs {
		if _, err := tx.Exec(
			`INSERT INTO run_outputs (key, name, data) VALUES (?, ?, ?)`,
			key, name, data,
		); err != nil {
			return fmt.Errorf("inserting cache artifact %s: %w", name, err)
		}
	}
	return tx.Commit()
}
