package store

import (
	"context"
	"fmt"

	"github.com/roach88/varnamd/internal/vocab"
)

// EnqueueSubmission queues a correction for the offline learner.
// Uses ON CONFLICT DO NOTHING so a repeated (word, lang, ip) triple is
// silently absorbed; the returned bool reports whether a row was added.
//
// The connection is borrowed for this call only and released on every path.
func (s *Store) EnqueueSubmission(ctx context.Context, sub vocab.Submission) (bool, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("enqueue submission: acquire connection: %w", err)
	}
	defer conn.Close()

	sub = sub.Normalized()
	res, err := conn.ExecContext(ctx, `
		INSERT INTO words_to_learn (word, lang_code, ip)
		VALUES (trim(?), trim(?), trim(?))
		ON CONFLICT DO NOTHING
	`, sub.Word, string(sub.Lang), sub.SourceIP)
	if err != nil {
		return false, fmt.Errorf("enqueue submission: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("enqueue submission: %w", err)
	}
	return n > 0, nil
}

// PublishLearned adds a learned word to the export feed. The offline
// learner owns this table; the method exists for seeding and tooling.
func (s *Store) PublishLearned(ctx context.Context, row vocab.ExportRow) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("publish learned: acquire connection: %w", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
		INSERT INTO words_to_download (word, confidence, lang_code, learned_date)
		VALUES (?, ?, ?, ?)
	`, vocab.Normalize(row.Word), row.Confidence, string(row.Lang), row.LearnedOn.Format(vocab.DateLayout))
	if err != nil {
		return fmt.Errorf("publish learned: %w", err)
	}
	return nil
}
