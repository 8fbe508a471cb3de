package engine

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/varnamd/internal/vocab"
)

//go:embed learnings.sql
var learningsSQL string

// Learnings is the per-language store of learned words.
type Learnings struct {
	db *sql.DB
}

// LearningsPath returns the learnings file for code under dataDir. An empty
// dataDir means the working directory.
func LearningsPath(dataDir string, code vocab.Code) string {
	return filepath.Join(dataDir, "learnings.varnam."+string(code))
}

// OpenLearnings creates or opens a learnings store at path.
func OpenLearnings(path string) (*Learnings, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open learnings %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open learnings %s: %w", path, err)
	}

	if _, err := db.Exec(learningsSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("open learnings %s: schema: %w", path, err)
	}
	return &Learnings{db: db}, nil
}

// Close closes the underlying database.
func (l *Learnings) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Lookup returns the words learned for pattern, best first.
func (l *Learnings) Lookup(ctx context.Context, pattern string) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT word FROM patterns
		WHERE pattern = ?
		ORDER BY confidence DESC, word ASC
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", pattern, err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("lookup %q: %w", pattern, err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup %q: %w", pattern, err)
	}
	return words, nil
}

// Learn records word for pattern. Relearning keeps the higher confidence.
func (l *Learnings) Learn(ctx context.Context, pattern, word string, confidence float64) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO patterns (pattern, word, confidence)
		VALUES (?, ?, ?)
		ON CONFLICT(pattern, word) DO UPDATE
		SET confidence = MAX(patterns.confidence, excluded.confidence)
	`, vocab.Normalize(pattern), vocab.Normalize(word), confidence)
	if err != nil {
		return fmt.Errorf("learn %q: %w", pattern, err)
	}
	return nil
}
