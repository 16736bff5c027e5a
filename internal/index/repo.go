package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/pactum/internal/apperr"
	"github.com/starford/pactum/internal/models"
)

// DocumentRow represents a row in the documents table.
type DocumentRow struct {
	Path          string
	Title         string
	ContractType  string
	EffectiveDate *string
	Checksum      string
	Sections      int
	Clauses       int
	UpdatedAt     time.Time
}

// ClauseHit represents one clause search hit.
type ClauseHit struct {
	Path          string
	DocumentTitle string
	SectionTitle  string
	SectionNumber *string
	Label         string
	Index         int
	Snippet       string
}

// ListSort selects the ordering of ListDocuments.
type ListSort string

const (
	SortPath      ListSort = "path"
	SortUpdated   ListSort = "updated"
	SortEffective ListSort = "effective"
)

var orderClauses = map[ListSort]string{
	SortPath:      "path ASC",
	SortUpdated:   "updated_at DESC, path ASC",
	SortEffective: "effective_date DESC NULLS LAST, path ASC",
}

// UpsertDocument replaces a document row and all of its clauses within a
// transaction.
func (db *DB) UpsertDocument(meta models.DocumentMetadata, doc *models.Document) error {
	result, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("index: encode result: %w", err)
	}
	stats := doc.Stats()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO documents (path, title, contract_type, effective_date, checksum, section_count, clause_count, result, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title          = excluded.title,
			contract_type  = excluded.contract_type,
			effective_date = excluded.effective_date,
			checksum       = excluded.checksum,
			section_count  = excluded.section_count,
			clause_count   = excluded.clause_count,
			result         = excluded.result,
			updated_at     = excluded.updated_at
	`, meta.Path, doc.Title, doc.ContractType, nullString(doc.EffectiveDate), meta.Checksum,
		stats.Sections, stats.Clauses, string(result), meta.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}

	// Replace clauses: delete old then bulk insert.
	if _, err := tx.Exec(`DELETE FROM clauses WHERE path = ?`, meta.Path); err != nil {
		return fmt.Errorf("index: clear clauses: %w", err)
	}
	if err := ftsDelete(tx, meta.Path); err != nil {
		return err
	}
	if stats.Clauses > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO clauses (path, section_idx, section_title, section_number, clause_idx, label, text)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare clause insert: %w", err)
		}
		defer stmt.Close()
		for si, sec := range doc.Sections {
			for _, c := range sec.Clauses {
				if _, err := stmt.Exec(meta.Path, si, sec.Title, nullString(sec.Number), c.Index, c.Label, c.Text); err != nil {
					return fmt.Errorf("index: insert clause: %w", err)
				}
				if err := ftsInsert(tx, meta.Path, si, c.Index, sec.Title, c.Text); err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit()
}

// DeleteDocument removes a document and its clauses.
func (db *DB) DeleteDocument(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, path); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM clauses WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete clauses: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete document: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a document, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns path → checksum for every indexed document.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// GetDocument returns the stored row and parsed result for path.
func (db *DB) GetDocument(path string) (*DocumentRow, *models.Document, error) {
	var (
		r      DocumentRow
		date   sql.NullString
		result string
	)
	err := db.conn.QueryRow(`
		SELECT path, title, contract_type, effective_date, checksum, section_count, clause_count, updated_at, result
		FROM documents WHERE path = ?`, path).
		Scan(&r.Path, &r.Title, &r.ContractType, &date, &r.Checksum, &r.Sections, &r.Clauses, &r.UpdatedAt, &result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("index: get document: %w", err)
	}
	r.EffectiveDate = stringPtr(date)

	var doc models.Document
	if err := json.Unmarshal([]byte(result), &doc); err != nil {
		return nil, nil, fmt.Errorf("index: decode result %s: %w", path, err)
	}
	if doc.Sections == nil {
		doc.Sections = []models.Section{}
	}
	return &r, &doc, nil
}

// ListDocuments returns a page of documents and the total count. When
// effectiveAfter (YYYY-MM-DD) is set, only documents with an effective date
// on or after it are included.
func (db *DB) ListDocuments(limit, offset int, effectiveAfter string, sort ListSort) ([]DocumentRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	order, ok := orderClauses[sort]
	if !ok {
		order = orderClauses[SortPath]
	}

	where := ""
	var args []any
	if effectiveAfter != "" {
		where = "WHERE effective_date >= ?"
		args = append(args, effectiveAfter)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count documents: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT path, title, contract_type, effective_date, checksum, section_count, clause_count, updated_at
		FROM documents `+where+`
		ORDER BY `+order+`
		LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var (
			r    DocumentRow
			date sql.NullString
		)
		if err := rows.Scan(&r.Path, &r.Title, &r.ContractType, &date, &r.Checksum, &r.Sections, &r.Clauses, &r.UpdatedAt); err != nil {
			return nil, 0, err
		}
		r.EffectiveDate = stringPtr(date)
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func scanHits(rows *sql.Rows) ([]ClauseHit, error) {
	defer rows.Close()
	var out []ClauseHit
	for rows.Next() {
		var (
			h      ClauseHit
			number sql.NullString
		)
		if err := rows.Scan(&h.Path, &h.DocumentTitle, &h.SectionTitle, &number, &h.Label, &h.Index, &h.Snippet); err != nil {
			return nil, err
		}
		h.SectionNumber = stringPtr(number)
		out = append(out, h)
	}
	return out, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
