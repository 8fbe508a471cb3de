// Package queue accepts crowd-sourced corrections and buffers them in the
// shared store for the offline learner. It never calls an engine.
package queue

import (
	"context"

	"github.com/roach88/varnamd/internal/ctxlog"
	"github.com/roach88/varnamd/internal/dispatch"
	"github.com/roach88/varnamd/internal/vocab"
)

// Store is the write side of the shared store.
type Store interface {
	EnqueueSubmission(ctx context.Context, sub vocab.Submission) (bool, error)
}

// Queue validates and records submissions.
type Queue struct {
	resolver dispatch.Resolver
	store    Store
}

// New returns a queue writing to s. r is used only to validate codes.
func New(r dispatch.Resolver, s Store) *Queue {
	return &Queue{resolver: r, store: s}
}

// Submit records sub. A duplicate of an already queued submission succeeds
// without adding a row. Resolution failures wrap registry.ErrUnknownLanguage;
// any other error is a storage failure.
func (q *Queue) Submit(ctx context.Context, sub vocab.Submission) error {
	sub = sub.Normalized()
	if _, err := q.resolver.Resolve(sub.Lang); err != nil {
		return err
	}

	added, err := q.store.EnqueueSubmission(ctx, sub)
	if err != nil {
		ctxlog.FromContext(ctx).Error("enqueue submission failed",
			"lang", sub.Lang,
			"error", err)
		return err
	}

	ctxlog.FromContext(ctx).Debug("submission queued",
		"lang", sub.Lang,
		"duplicate", !added)
	return nil
}
