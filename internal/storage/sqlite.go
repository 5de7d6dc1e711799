package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/matsen/citenet/internal/citation"
	"github.com/matsen/citenet/internal/paper"
)

// ErrPaperNotFound is returned when a paper id is not in the cache.
var ErrPaperNotFound = errors.New("paper not found")

// DB wraps a SQLite database connection. It is a query cache rebuilt from
// the JSONL files, which remain the source of truth.
type DB struct {
	db     *sql.DB
	logger *zap.Logger
}

// selectPaperFields contains the standard field list for SELECT queries.
const selectPaperFields = `id, title, authors, abstract, full_text, pub_year`

// OpenDB opens or creates a SQLite database at the given path. A nil logger
// disables logging.
func OpenDB(path string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors TEXT,
			abstract TEXT,
			full_text TEXT,
			pub_year INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(pub_year);

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			id,
			title,
			abstract,
			authors,
			pub_year
		);

		CREATE TABLE IF NOT EXISTS citations (
			citing_id TEXT NOT NULL,
			cited_id TEXT NOT NULL,
			context TEXT,
			relevance_score REAL,
			is_influential INTEGER NOT NULL DEFAULT 0,
			depth INTEGER NOT NULL DEFAULT 0,
			created_at TEXT,
			PRIMARY KEY (citing_id, cited_id)
		);

		CREATE INDEX IF NOT EXISTS idx_citations_cited ON citations(cited_id);
		CREATE INDEX IF NOT EXISTS idx_citations_created ON citations(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildStats reports what a rebuild loaded.
type RebuildStats struct {
	Papers             int `json:"papers"`
	Citations          int `json:"citations"`
	Orphans            int `json:"orphans"`
	DuplicatePapers    int `json:"duplicate_papers"`
	DuplicateCitations int `json:"duplicate_citations"`
}

// RebuildFromJSONL clears the database and rebuilds it from the papers and
// citations JSONL files in one transaction. Later duplicates replace earlier
// ones. Citations whose endpoints are missing are kept and counted as
// orphans; graph construction drops them.
func (d *DB) RebuildFromJSONL(papersPath, citationsPath string) (RebuildStats, error) {
	var stats RebuildStats

	papers, err := ReadAllPapers(papersPath)
	if err != nil {
		return stats, fmt.Errorf("reading papers JSONL: %w", err)
	}
	citations, err := ReadAllCitations(citationsPath)
	if err != nil {
		return stats, fmt.Errorf("reading citations JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return stats, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"papers", "papers_fts", "citations"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return stats, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	papersStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO papers (` + selectPaperFields + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return stats, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer papersStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO papers_fts (id, title, abstract, authors, pub_year)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return stats, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	valid := make(map[string]bool, len(papers))
	for _, p := range papers {
		if valid[p.ID] {
			stats.DuplicatePapers++
			if _, err := tx.Exec("DELETE FROM papers_fts WHERE id = ?", p.ID); err != nil {
				return stats, fmt.Errorf("replacing fts for %s: %w", p.ID, err)
			}
		}
		valid[p.ID] = true

		_, err = papersStmt.Exec(p.ID, p.Title, nullableStringValue(p.Authors),
			nullableStringValue(p.Abstract), nullableStringValue(p.FullText), p.PublicationYear)
		if err != nil {
			return stats, fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}

		_, err = ftsStmt.Exec(p.ID, p.Title, p.Abstract, p.Authors, strconv.Itoa(p.PublicationYear))
		if err != nil {
			return stats, fmt.Errorf("inserting fts for %s: %w", p.ID, err)
		}
	}

	citationsStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO citations (` + selectCitationFields + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return stats, fmt.Errorf("preparing citations insert: %w", err)
	}
	defer citationsStmt.Close()

	for _, c := range citations {
		if err := insertCitation(citationsStmt, c); err != nil {
			return stats, err
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing rebuild: %w", err)
	}

	orphans, _ := citation.DetectOrphans(citations, valid)
	stats.Papers = len(valid)
	stats.Citations = len(citations)
	stats.Orphans = len(orphans)
	for _, n := range citation.FindDuplicates(citations) {
		stats.DuplicateCitations += n - 1
	}

	if stats.Orphans > 0 || stats.DuplicatePapers > 0 || stats.DuplicateCitations > 0 {
		d.logger.Warn("rebuild found inconsistent records",
			zap.Int("orphans", stats.Orphans),
			zap.Int("duplicate_papers", stats.DuplicatePapers),
			zap.Int("duplicate_citations", stats.DuplicateCitations))
	}
	d.logger.Debug("cache rebuilt",
		zap.Int("papers", stats.Papers),
		zap.Int("citations", stats.Citations))

	return stats, nil
}

// GetPaper retrieves a paper by its ID.
func (d *DB) GetPaper(id string) (*paper.Paper, error) {
	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE id = ?`, id)
	p, err := scanPaper(row)
	if err != nil {
		return nil, fmt.Errorf("getting paper %s: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPaperNotFound, id)
	}
	return p, nil
}

// SearchPapers performs a full-text search over titles, abstracts and authors.
func (d *DB) SearchPapers(query string, limit int) ([]paper.Paper, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+selectPaperFields+`
		FROM papers
		WHERE id IN (SELECT id FROM papers_fts WHERE papers_fts MATCH ?)
		ORDER BY id
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// ListPapers returns all papers ordered by id, optionally limited.
func (d *DB) ListPapers(limit int) ([]paper.Paper, error) {
	query := `SELECT ` + selectPaperFields + ` FROM papers ORDER BY id`
	var args []any

	if limit > 0 {
		query += " LIMIT ?"
		args = []any{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// CountPapers returns the total number of papers.
func (d *DB) CountPapers() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(s scanner) (*paper.Paper, error) {
	var p paper.Paper
	var authors, abstract, fullText sql.NullString

	err := s.Scan(&p.ID, &p.Title, &authors, &abstract, &fullText, &p.PublicationYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	p.Authors = authors.String
	p.Abstract = abstract.String
	p.FullText = fullText.String
	return &p, nil
}

func scanPapers(rows *sql.Rows) ([]paper.Paper, error) {
	var papers []paper.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			papers = append(papers, *p)
		}
	}
	return papers, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
