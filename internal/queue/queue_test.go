package queue

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/varnamd/internal/engine"
	"github.com/roach88/varnamd/internal/registry"
	"github.com/roach88/varnamd/internal/store"
	"github.com/roach88/varnamd/internal/vocab"
)

type nopEngine struct{}

func (nopEngine) Transliterate(ctx context.Context, word string) ([]string, error) {
	panic("queue must not call the engine")
}

func (nopEngine) ReverseTransliterate(word string) string {
	panic("queue must not call the engine")
}

var _ engine.Engine = nopEngine{}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.New(
		registry.Entry{Language: vocab.Language{Code: "hi", Name: "Hindi"}, Engine: nopEngine{}},
		registry.Entry{Language: vocab.Language{Code: "ml", Name: "Malayalam"}, Engine: nopEngine{}},
	)
	require.NoError(t, err)
	return r
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "varnam.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSubmit_DuplicateIsOneRow(t *testing.T) {
	s := newStore(t)
	q := New(newRegistry(t), s)
	ctx := context.Background()
	sub := vocab.Submission{Word: "കട്ടി", Lang: "ml", SourceIP: "10.0.0.1"}

	require.NoError(t, q.Submit(ctx, sub))
	require.NoError(t, q.Submit(ctx, sub))

	pending, err := s.PendingSubmissions(ctx, "ml")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSubmit_PerLanguageIsolation(t *testing.T) {
	s := newStore(t)
	q := New(newRegistry(t), s)
	ctx := context.Background()

	require.NoError(t, q.Submit(ctx, vocab.Submission{Word: "w", Lang: "hi", SourceIP: "a"}))
	require.NoError(t, q.Submit(ctx, vocab.Submission{Word: "w", Lang: "ml", SourceIP: "a"}))

	hi, err := s.PendingSubmissions(ctx, "hi")
	require.NoError(t, err)
	ml, err := s.PendingSubmissions(ctx, "ml")
	require.NoError(t, err)
	assert.Len(t, hi, 1)
	assert.Len(t, ml, 1)
}

func TestSubmit_UnknownLanguage(t *testing.T) {
	s := newStore(t)
	q := New(newRegistry(t), s)

	err := q.Submit(context.Background(), vocab.Submission{Word: "w", Lang: "xx", SourceIP: "a"})
	assert.ErrorIs(t, err, registry.ErrUnknownLanguage)

	pending, err := s.PendingSubmissions(context.Background(), "xx")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSubmit_TrimsLanguageBeforeResolving(t *testing.T) {
	q := New(newRegistry(t), newStore(t))
	assert.NoError(t, q.Submit(context.Background(), vocab.Submission{Word: "w", Lang: " ml ", SourceIP: "a"}))
}

type failingStore struct{ err error }

func (f failingStore) EnqueueSubmission(context.Context, vocab.Submission) (bool, error) {
	return false, f.err
}

func TestSubmit_StoreFailure(t *testing.T) {
	boom := errors.New("database is locked")
	q := New(newRegistry(t), failingStore{err: boom})

	err := q.Submit(context.Background(), vocab.Submission{Word: "w", Lang: "hi", SourceIP: "a"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, registry.ErrUnknownLanguage)
}

func TestSubmit_ConcurrentDuplicates(t *testing.T) {
	s := newStore(t)
	q := New(newRegistry(t), s)
	ctx := context.Background()
	sub := vocab.Submission{Word: "नमस्ते", Lang: "hi", SourceIP: "10.0.0.9"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, q.Submit(ctx, sub))
		}()
	}
	wg.Wait()

	pending, err := s.PendingSubmissions(ctx, "hi")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Zero(t, s.Stats().InUse)
}
