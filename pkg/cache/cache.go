package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/santaclaude2025/sessiontriage/pkg/scanner"
)

// schemaVersion is stored in PRAGMA user_version; a database written with
// another version has its summaries table rebuilt on open
const schemaVersion = 2

// Key identifies a cached summary. A row only matches when every field is equal.
type Key struct {
	Path    string
	ModTime time.Time
	Size    int64
	// Limits is the fingerprint of the scan limits the summary was built with
	Limits string
}

// Cache stores session summaries keyed by file path
type Cache struct {
	conn *sql.DB
	path string
}

// Open opens or creates the cache database at path
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// Single writer; sqlite serializes anyway
	conn.SetMaxOpenConns(1)

	c := &Cache{
		conn: conn,
		path: path,
	}

	if err := c.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return c, nil
}

// Close closes the database connection
func (c *Cache) Close() error {
	return c.conn.Close()
}

// Path returns the database file path
func (c *Cache) Path() string {
	return c.path
}

// initSchema creates tables if they don't exist and drops rows written
// under an older schema
func (c *Cache) initSchema() error {
	var version int
	if err := c.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version != schemaVersion {
		if _, err := c.conn.Exec("DROP TABLE IF EXISTS summaries"); err != nil {
			return fmt.Errorf("failed to drop outdated cache: %w", err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS summaries (
		path TEXT PRIMARY KEY,
		mod_time_ns INTEGER NOT NULL,
		size_bytes INTEGER NOT NULL,
		limits TEXT NOT NULL,
		summary TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`

	if _, err := c.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	if version != schemaVersion {
		if _, err := c.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	}

	return nil
}

// Get returns the cached summary for key.Path if the stored mtime, size and
// limits fingerprint all match. The second return value reports a hit.
func (c *Cache) Get(key Key) (*scanner.Summary, bool, error) {
	query := `
		SELECT mod_time_ns, size_bytes, limits, summary
		FROM summaries
		WHERE path = ?
	`

	var (
		storedModTime int64
		storedSize    int64
		storedLimits  string
		payload       string
	)
	err := c.conn.QueryRow(query, key.Path).Scan(&storedModTime, &storedSize, &storedLimits, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache: %w", err)
	}

	if storedModTime != key.ModTime.UnixNano() || storedSize != key.Size || storedLimits != key.Limits {
		return nil, false, nil
	}

	var summary scanner.Summary
	if err := json.Unmarshal([]byte(payload), &summary); err != nil {
		// Corrupt row; rescanning will overwrite it
		return nil, false, nil
	}

	return &summary, true, nil
}

// Put stores or replaces the summary for key.Path
func (c *Cache) Put(key Key, summary *scanner.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	upsert := `
		INSERT INTO summaries (path, mod_time_ns, size_bytes, limits, summary, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			mod_time_ns = excluded.mod_time_ns,
			size_bytes = excluded.size_bytes,
			limits = excluded.limits,
			summary = excluded.summary,
			updated_at = excluded.updated_at
	`
	_, err = c.conn.Exec(upsert, key.Path, key.ModTime.UnixNano(), key.Size, key.Limits, string(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}

	return nil
}

// Prune deletes every row whose path is not in keep and returns the number removed
func (c *Cache) Prune(keep []string) (int, error) {
	keepSet := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		keepSet[p] = struct{}{}
	}

	tx, err := c.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT path FROM summaries")
	if err != nil {
		return 0, fmt.Errorf("failed to query cache: %w", err)
	}

	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan path: %w", err)
		}
		if _, ok := keepSet[p]; !ok {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("error iterating cache: %w", err)
	}
	rows.Close()

	for _, p := range stale {
		if _, err := tx.Exec("DELETE FROM summaries WHERE path = ?", p); err != nil {
			return 0, fmt.Errorf("failed to delete %s: %w", p, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(stale), nil
}

// Stats describes the cache contents
type Stats struct {
	Entries     int
	LastUpdated time.Time // zero when empty
}

// Stats returns the number of cached summaries and the latest write time
func (c *Cache) Stats() (Stats, error) {
	var (
		count   int
		updated int64
	)
	err := c.conn.QueryRow("SELECT COUNT(*), COALESCE(MAX(updated_at), 0) FROM summaries").Scan(&count, &updated)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}

	stats := Stats{Entries: count}
	if updated > 0 {
		stats.LastUpdated = time.Unix(updated, 0)
	}
	return stats, nil
}
