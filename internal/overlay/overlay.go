// Package overlay loads the auxiliary geographic overlay.
//
// The overlay is produced upstream by converting an external geodata format
// into a single SQLite table keyed by external geometry identifier. The core
// only ever reads it, and because checks must not block on I/O, Open slurps
// the whole table into memory and closes the database before any check runs.
package overlay

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one overlay position.
type Entry struct {
	ID    string
	Lat   float64
	Lon   float64
	Attrs map[string]string
}

// Overlay is an in-memory read-only lookup table of overlay positions.
type Overlay struct {
	entries map[string]Entry
}

// Open reads the overlay database at path fully into memory. The file must
// exist; a missing overlay is the caller's policy decision, not an Open
// default.
func Open(path string) (*Overlay, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("overlay %s: %w", path, err)
	}

	// Read-only and immutable: the overlay never changes under a run.
	dsn := fmt.Sprintf("file:%s?mode=ro&immutable=1", url.PathEscape(path))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("overlay %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT external_id, lat, lon, attrs FROM positions`)
	if err != nil {
		return nil, fmt.Errorf("overlay %s: %w", path, err)
	}
	defer rows.Close()

	entries := make(map[string]Entry)
	for rows.Next() {
		var e Entry
		var attrs sql.NullString
		if err := rows.Scan(&e.ID, &e.Lat, &e.Lon, &attrs); err != nil {
			return nil, fmt.Errorf("overlay %s: %w", path, err)
		}
		if attrs.Valid && attrs.String != "" {
			if err := json.Unmarshal([]byte(attrs.String), &e.Attrs); err != nil {
				return nil, fmt.Errorf("overlay %s: entry %s: bad attrs: %w", path, e.ID, err)
			}
		}
		entries[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("overlay %s: %w", path, err)
	}
	return &Overlay{entries: entries}, nil
}

// Position returns the overlay entry for an external geometry identifier.
func (o *Overlay) Position(id string) (Entry, bool) {
	e, ok := o.entries[id]
	return e, ok
}

// Len returns the number of entries.
func (o *Overlay) Len() int {
	return len(o.entries)
}

// Create writes a fresh overlay database holding the given entries. The
// upstream geodata converter and the tests use it; the core never writes an
// overlay during a run.
func Create(path string, entries []Entry) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("overlay %s: %w", path, err)
	}
	defer db.Close()

	const schema = `CREATE TABLE IF NOT EXISTS positions (
		external_id TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		attrs TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("overlay %s: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("overlay %s: %w", path, err)
	}
	defer tx.Rollback()
	for _, e := range entries {
		var attrs any
		if len(e.Attrs) > 0 {
			data, err := json.Marshal(e.Attrs)
			if err != nil {
				return fmt.Errorf("overlay %s: entry %s: %w", path, e.ID, err)
			}
			attrs = string(data)
		}
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO positions (external_id, lat, lon, attrs) VALUES (?, ?, ?, ?)`,
			e.ID, e.Lat, e.Lon, attrs,
		); err != nil {
			return fmt.Errorf("overlay %s: entry %s: %w", path, e.ID, err)
		}
	}
	return tx.Commit()
}
