//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

// likeEscaper makes LIKE wildcards in a query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE over the clauses table.
	return nil
}

func ftsInsert(_ *sql.Tx, _ string, _, _ int, _, _ string) error { return nil }

func ftsDelete(_ *sql.Tx, _ string) error { return nil }

// SearchClauses performs a LIKE-based search over clause text (fallback
// when FTS5 is not compiled in).
func (db *DB) SearchClauses(query string, limit int) ([]ClauseHit, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.conn.Query(`
		SELECT c.path, d.title, c.section_title, c.section_number, c.label, c.clause_idx, substr(c.text, 1, 200)
		FROM clauses c
		JOIN documents d ON d.path = c.path
		WHERE c.text LIKE ? ESCAPE '\' OR c.section_title LIKE ? ESCAPE '\'
		ORDER BY c.path, c.section_idx, c.clause_idx
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanHits(rows)
}
