//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS clauses_fts USING fts5(
			path UNINDEXED,
			section_idx UNINDEXED,
			clause_idx UNINDEXED,
			section_title,
			text,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, path string, sectionIdx, clauseIdx int, sectionTitle, text string) error {
	_, err := tx.Exec(`INSERT INTO clauses_fts (path, section_idx, clause_idx, section_title, text) VALUES (?, ?, ?, ?, ?)`,
		path, sectionIdx, clauseIdx, sectionTitle, text)
	if err != nil {
		return fmt.Errorf("index: insert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) error {
	if _, err := tx.Exec(`DELETE FROM clauses_fts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete fts: %w", err)
	}
	return nil
}

// SearchClauses performs an FTS5 full-text search over clause text and
// returns matching clauses with highlighted snippets.
func (db *DB) SearchClauses(query string, limit int) ([]ClauseHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT clauses_fts.path,
		       d.title,
		       c.section_title,
		       c.section_number,
		       c.label,
		       c.clause_idx,
		       snippet(clauses_fts, 4, '<b>', '</b>', '...', 32)
		FROM clauses_fts
		JOIN clauses c ON c.path = clauses_fts.path
			AND c.section_idx = clauses_fts.section_idx
			AND c.clause_idx = clauses_fts.clause_idx
		JOIN documents d ON d.path = clauses_fts.path
		WHERE clauses_fts MATCH ?
		ORDER BY clauses_fts.rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanHits(rows)
}
