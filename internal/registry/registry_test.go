package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/varnamd/internal/vocab"
)

type stubEngine struct{ name string }

func (s *stubEngine) Transliterate(ctx context.Context, word string) ([]string, error) {
	return []string{s.name + ":" + word}, nil
}

func (s *stubEngine) ReverseTransliterate(word string) string { return word }

func newTestRegistry(t *testing.T) (*Registry, *stubEngine, *stubEngine) {
	t.Helper()
	hi, ml := &stubEngine{name: "hi"}, &stubEngine{name: "ml"}
	r, err := New(
		Entry{Language: vocab.Language{Code: "hi", Name: "Hindi"}, Engine: hi},
		Entry{Language: vocab.Language{Code: "ml", Name: "Malayalam"}, Engine: ml},
	)
	require.NoError(t, err)
	return r, hi, ml
}

func TestResolve(t *testing.T) {
	r, hi, ml := newTestRegistry(t)

	got, err := r.Resolve("hi")
	require.NoError(t, err)
	assert.Same(t, hi, got)

	got, err = r.Resolve("ml")
	require.NoError(t, err)
	assert.Same(t, ml, got)
}

func TestResolve_Unknown(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	for _, code := range []vocab.Code{"xx", "", "HI", "hi "} {
		_, err := r.Resolve(code)
		assert.ErrorIs(t, err, ErrUnknownLanguage, "code %q", code)
	}
}

func TestResolve_Stable(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	first, err := r.Resolve("ml")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := r.Resolve("ml")
		require.NoError(t, err)
		assert.Same(t, first, again)
	}
}

func TestLanguages_Order(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	assert.Equal(t, []vocab.Language{
		{Code: "hi", Name: "Hindi"},
		{Code: "ml", Name: "Malayalam"},
	}, r.Languages())
}

func TestLanguages_ReturnsCopy(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	langs := r.Languages()
	langs[0].Name = "changed"
	assert.Equal(t, "Hindi", r.Languages()[0].Name)
}

func TestNew_Rejects(t *testing.T) {
	eng := &stubEngine{}

	_, err := New(Entry{Language: vocab.Language{Code: ""}, Engine: eng})
	assert.Error(t, err)

	_, err = New(Entry{Language: vocab.Language{Code: "hi"}})
	assert.Error(t, err)

	_, err = New(
		Entry{Language: vocab.Language{Code: "hi"}, Engine: eng},
		Entry{Language: vocab.Language{Code: "hi"}, Engine: eng},
	)
	assert.Error(t, err)
}

func TestResolve_Concurrent(t *testing.T) {
	r, hi, _ := newTestRegistry(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Resolve("hi")
			assert.NoError(t, err)
			assert.Same(t, hi, got)
			assert.Len(t, r.Languages(), 2)
		}()
	}
	wg.Wait()
}
