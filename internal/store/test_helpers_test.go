package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/varnamd/internal/vocab"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// publish seeds words_to_download.
func publish(t *testing.T, s *Store, lang vocab.Code, word string, confidence float64, day string) {
	t.Helper()
	learnedOn, err := time.Parse(vocab.DateLayout, day)
	if err != nil {
		t.Fatalf("bad day %q: %v", day, err)
	}
	row := vocab.ExportRow{Word: word, Confidence: confidence, Lang: lang, LearnedOn: learnedOn}
	if err := s.PublishLearned(context.Background(), row); err != nil {
		t.Fatalf("PublishLearned() failed: %v", err)
	}
}

// collect runs ExportSince and returns the rows.
func collect(t *testing.T, s *Store, lang vocab.Code, since string) []vocab.ExportRow {
	t.Helper()
	var rows []vocab.ExportRow
	err := s.ExportSince(context.Background(), lang, since, func(r vocab.ExportRow) error {
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		t.Fatalf("ExportSince() failed: %v", err)
	}
	return rows
}

// assertNoConnsInUse fails if any pooled connection is still borrowed.
func assertNoConnsInUse(t *testing.T, s *Store) {
	t.Helper()
	if inUse := s.Stats().InUse; inUse != 0 {
		t.Errorf("connections in use = %d, want 0", inUse)
	}
}
