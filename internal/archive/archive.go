// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a history of analyzed papers across digest runs: a
// SQLite table for querying and one YAML record per paper with the full
// analysis. Archiving is best-effort; the pipeline logs archive errors and
// moves on.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	analysesDir = "analyses"
	dbFile      = "digest.db"
)

// Store manages the analysis history database and record files.
type Store struct {
	db  *sql.DB
	dir string
	log zerolog.Logger
}

// Open opens or creates the archive under dir, creating the schema if it
// does not exist.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory not set")
	}
	if err := os.MkdirAll(filepath.Join(dir, analysesDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir, log: log.With().Str("component", "archive").Logger()}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		id TEXT PRIMARY KEY,
		title TEXT,
		authors TEXT,
		source TEXT,
		url TEXT,
		pdf_url TEXT,
		keywords TEXT,
		summary TEXT,
		analyzed_at TEXT
	)`)
	return err
}

// Record stores each analyzed paper in the history table and writes its
// YAML analysis record. Re-analyzed papers replace their previous row and
// record.
func (s *Store) Record(ctx context.Context, papers []types.AnalyzedPaper, analyzedAt time.Time) error {
	stmt, err := s.db.PrepareContext(ctx, `INSERT OR REPLACE INTO papers
		(id, title, authors, source, url, pdf_url, keywords, summary, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, paper := range papers {
		m := paper.Metadata
		_, err := stmt.ExecContext(ctx, m.ID, m.Title,
			strings.Join(m.Authors, "; "), m.Source, m.URL, m.PDFURL,
			strings.Join(paper.Keywords, ", "), paper.Summary,
			analyzedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting %s: %w", m.ID, err)
		}

		if err := s.writeRecord(paper); err != nil {
			// The row is already in; a lost record file is only a
			// degraded archive.
			s.log.Warn().Err(err).Str("id", m.ID).Msg("could not write analysis record")
		}
	}

	s.log.Info().Int("papers", len(papers)).Msg("archived analyzed papers")
	return nil
}

// Count returns the number of archived papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// writeRecord persists one paper's full analysis as YAML.
func (s *Store) writeRecord(paper types.AnalyzedPaper) error {
	data, err := yaml.Marshal(paper)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	path := filepath.Join(s.dir, analysesDir, slug(paper.Metadata.ID)+".yaml")
	return os.WriteFile(path, data, 0o644)
}

// slug makes an identifier filesystem-safe; DOIs contain slashes.
func slug(id string) string {
	replacer := strings.NewReplacer("/", "_", ":", "_", " ", "_")
	return replacer.Replace(id)
}
