package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/varnamd/internal/vocab"
)

// ExportSince streams the words learned for lang strictly after since
// (YYYY-MM-DD), ordered by word with binary collation. fn is called once per
// row; an error from fn stops the scan and is returned unwrapped.
//
// The connection is borrowed for this call only and released on every path.
func (s *Store) ExportSince(ctx context.Context, lang vocab.Code, since string, fn func(vocab.ExportRow) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("export: acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT word, confidence, lang_code, date(learned_date)
		FROM words_to_download
		WHERE date(learned_date) > date(trim(?)) AND lang_code = trim(?)
		ORDER BY word
	`, since, string(lang))
	if err != nil {
		return fmt.Errorf("export: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row       vocab.ExportRow
			code      string
			learnedOn sql.NullString
		)
		if err := rows.Scan(&row.Word, &row.Confidence, &code, &learnedOn); err != nil {
			return fmt.Errorf("export: scan: %w", err)
		}
		row.Lang = vocab.Code(code)
		if learnedOn.Valid {
			if t, err := time.Parse(vocab.DateLayout, learnedOn.String); err == nil {
				row.LearnedOn = t
			}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("export: iterate: %w", err)
	}
	return nil
}

// PendingSubmissions returns the queued corrections for lang, oldest first.
func (s *Store) PendingSubmissions(ctx context.Context, lang vocab.Code) ([]vocab.Submission, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending submissions: acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT word, lang_code, ip
		FROM words_to_learn
		WHERE lang_code = ?
		ORDER BY rowid
	`, string(lang))
	if err != nil {
		return nil, fmt.Errorf("pending submissions: %w", err)
	}
	defer rows.Close()

	subs := []vocab.Submission{}
	for rows.Next() {
		var (
			sub  vocab.Submission
			code string
		)
		if err := rows.Scan(&sub.Word, &code, &sub.SourceIP); err != nil {
			return nil, fmt.Errorf("pending submissions: %w", err)
		}
		sub.Lang = vocab.Code(code)
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pending submissions: %w", err)
	}
	return subs, nil
}
