// Package index provides the SQLite-backed document and clause index with
// optional FTS5 full-text search over clause text.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	path           TEXT PRIMARY KEY,
	title          TEXT NOT NULL DEFAULT '',
	contract_type  TEXT NOT NULL DEFAULT '',
	effective_date TEXT,
	checksum       TEXT NOT NULL DEFAULT '',
	section_count  INTEGER NOT NULL DEFAULT 0,
	clause_count   INTEGER NOT NULL DEFAULT 0,
	result         TEXT NOT NULL DEFAULT '{}',
	updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS clauses (
	path           TEXT NOT NULL REFERENCES documents(path) ON DELETE CASCADE,
	section_idx    INTEGER NOT NULL,
	section_title  TEXT NOT NULL,
	section_number TEXT,
	clause_idx     INTEGER NOT NULL,
	label          TEXT NOT NULL DEFAULT '',
	text           TEXT NOT NULL,
	PRIMARY KEY (path, section_idx, clause_idx)
);

CREATE INDEX IF NOT EXISTS idx_documents_effective ON documents(effective_date);
CREATE INDEX IF NOT EXISTS idx_clauses_label ON clauses(label);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Ping checks the database connection.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
