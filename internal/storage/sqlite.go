package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/notebook/internal/models"
)

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	seq      INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL UNIQUE,
	contents TEXT NOT NULL DEFAULT ''
);
`

// SQLite implements Provider on top of a SQLite database. Each Save replaces
// every row inside a single transaction; seq keeps listing order.
type SQLite struct {
	dsn  string
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at dsn and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(sqliteSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLite{dsn: dsn, conn: conn}, nil
}

// Location returns the database DSN.
func (s *SQLite) Location() string { return s.dsn }

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Load returns every stored note ordered by insertion.
func (s *SQLite) Load() ([]models.Record, error) {
	rows, err := s.conn.Query(`SELECT name, contents FROM notes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("storage: load: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.Name, &r.Contents); err != nil {
			return nil, fmt.Errorf("storage: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save replaces the stored notes with records.
func (s *SQLite) Save(records []models.Record) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM notes`); err != nil {
		return fmt.Errorf("storage: truncate: %w", err)
	}
	if len(records) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO notes (name, contents) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("storage: prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, r := range records {
			if _, err := stmt.Exec(r.Name, r.Contents); err != nil {
				return fmt.Errorf("storage: insert %q: %w", r.Name, err)
			}
		}
	}
	return tx.Commit()
}
