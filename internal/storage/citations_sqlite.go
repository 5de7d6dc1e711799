package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/matsen/citenet/internal/citation"
)

const selectCitationFields = `citing_id, cited_id, context, relevance_score, is_influential, depth, created_at`

// insertCitation writes one citation through a prepared INSERT statement.
func insertCitation(stmt *sql.Stmt, c citation.Citation) error {
	var relevance sql.NullFloat64
	if c.RelevanceScore != nil {
		relevance = sql.NullFloat64{Float64: *c.RelevanceScore, Valid: true}
	}
	var createdAt sql.NullString
	if c.CreatedAt != nil {
		createdAt = sql.NullString{String: c.CreatedAt.UTC().Format(time.RFC3339Nano), Valid: true}
	}

	_, err := stmt.Exec(c.CitingID, c.CitedID, nullableStringValue(c.Context),
		relevance, c.IsInfluential, c.Depth, createdAt)
	if err != nil {
		return fmt.Errorf("inserting citation %s -> %s: %w", c.CitingID, c.CitedID, err)
	}
	return nil
}

// InsertCitation inserts or replaces a single citation.
func (d *DB) InsertCitation(c citation.Citation) error {
	stmt, err := d.db.Prepare(`
		INSERT OR REPLACE INTO citations (` + selectCitationFields + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing citation insert: %w", err)
	}
	defer stmt.Close()

	return insertCitation(stmt, c)
}

// GetCitationsByCiting returns the references of the given paper.
func (d *DB) GetCitationsByCiting(citingID string) ([]citation.Citation, error) {
	rows, err := d.db.Query(`
		SELECT `+selectCitationFields+`
		FROM citations
		WHERE citing_id = ?
		ORDER BY cited_id
	`, citingID)
	if err != nil {
		return nil, fmt.Errorf("querying citations by citing paper: %w", err)
	}
	defer rows.Close()

	return scanCitations(rows)
}

// GetCitationsByCited returns the citations received by the given paper.
func (d *DB) GetCitationsByCited(citedID string) ([]citation.Citation, error) {
	rows, err := d.db.Query(`
		SELECT `+selectCitationFields+`
		FROM citations
		WHERE cited_id = ?
		ORDER BY citing_id
	`, citedID)
	if err != nil {
		return nil, fmt.Errorf("querying citations by cited paper: %w", err)
	}
	defer rows.Close()

	return scanCitations(rows)
}

// GetAllCitations returns all citations in the database.
func (d *DB) GetAllCitations() ([]citation.Citation, error) {
	rows, err := d.db.Query(`
		SELECT ` + selectCitationFields + `
		FROM citations
		ORDER BY citing_id, cited_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying all citations: %w", err)
	}
	defer rows.Close()

	return scanCitations(rows)
}

// CountCitations returns the total number of citations.
func (d *DB) CountCitations() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM citations").Scan(&count)
	return count, err
}

// scanCitations scans rows into a slice of citations.
func scanCitations(rows *sql.Rows) ([]citation.Citation, error) {
	var citations []citation.Citation
	for rows.Next() {
		var c citation.Citation
		var context, createdAt sql.NullString
		var relevance sql.NullFloat64
		err := rows.Scan(&c.CitingID, &c.CitedID, &context, &relevance, &c.IsInfluential, &c.Depth, &createdAt)
		if err != nil {
			return nil, err
		}
		c.Context = context.String
		if relevance.Valid {
			r := relevance.Float64
			c.RelevanceScore = &r
		}
		if createdAt.Valid {
			ts, err := time.Parse(time.RFC3339Nano, createdAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing created_at for %s -> %s: %w", c.CitingID, c.CitedID, err)
			}
			c.CreatedAt = &ts
		}
		citations = append(citations, c)
	}
	return citations, rows.Err()
}
