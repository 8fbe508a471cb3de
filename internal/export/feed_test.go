package export

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/varnamd/internal/engine"
	"github.com/roach88/varnamd/internal/registry"
	"github.com/roach88/varnamd/internal/store"
	"github.com/roach88/varnamd/internal/vocab"
)

type nopEngine struct{}

func (nopEngine) Transliterate(context.Context, string) ([]string, error) { return nil, nil }
func (nopEngine) ReverseTransliterate(string) string                      { return "" }

var _ engine.Engine = nopEngine{}

func newFeed(t *testing.T) (*Feed, *store.Store) {
	t.Helper()
	r, err := registry.New(
		registry.Entry{Language: vocab.Language{Code: "hi", Name: "Hindi"}, Engine: nopEngine{}},
		registry.Entry{Language: vocab.Language{Code: "ml", Name: "Malayalam"}, Engine: nopEngine{}},
	)
	require.NoError(t, err)

	s, err := store.Open(filepath.Join(t.TempDir(), "varnam.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(r, s), s
}

func seed(t *testing.T, s *store.Store, lang vocab.Code, word string, confidence float64, day string) {
	t.Helper()
	on, err := time.Parse(vocab.DateLayout, day)
	require.NoError(t, err)
	require.NoError(t, s.PublishLearned(context.Background(),
		vocab.ExportRow{Word: word, Confidence: confidence, Lang: lang, LearnedOn: on}))
}

func TestFeed_Golden(t *testing.T) {
	f, s := newFeed(t)
	seed(t, s, "ml", "മലയാളം", 3, "2024-03-06")
	seed(t, s, "ml", "കട്ടി", 1.5, "2024-04-01")
	seed(t, s, "ml", "അമ്മ", 12, "2024-03-10")
	seed(t, s, "ml", "old", 1, "2024-03-05")
	seed(t, s, "hi", "नमस्ते", 1, "2024-06-01")

	req, err := f.Prepare("ml", "2024", "3", "5")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", req.Since)

	var buf bytes.Buffer
	require.NoError(t, f.Write(context.Background(), &buf, req))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "feed_ml", buf.Bytes())
}

func TestFeed_OrderAndFormat(t *testing.T) {
	f, s := newFeed(t)
	seed(t, s, "hi", "b", 2, "2024-05-01")
	seed(t, s, "hi", "a", 0.25, "2024-05-01")

	req, err := f.Prepare("hi", "2024", "01", "01")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(context.Background(), &buf, req))
	assert.Equal(t, "a 0.25\nb 2\n", buf.String())
}

func TestFeed_EmptyBody(t *testing.T) {
	f, _ := newFeed(t)

	req, err := f.Prepare("hi", "2024", "01", "01")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(context.Background(), &buf, req))
	assert.Empty(t, buf.String())
}

func TestFeed_Prepare_Rejects(t *testing.T) {
	f, _ := newFeed(t)

	_, err := f.Prepare("xx", "2024", "01", "01")
	assert.ErrorIs(t, err, registry.ErrUnknownLanguage)

	_, err = f.Prepare("ml", "2024", "123", "01")
	assert.ErrorIs(t, err, ErrMalformedDate)
}

type brokenSource struct{ err error }

func (b brokenSource) ExportSince(context.Context, vocab.Code, string, func(vocab.ExportRow) error) error {
	return b.err
}

func TestFeed_SourceFailure(t *testing.T) {
	r, err := registry.New(registry.Entry{Language: vocab.Language{Code: "ml", Name: "Malayalam"}, Engine: nopEngine{}})
	require.NoError(t, err)
	boom := errors.New("disk I/O error")
	f := New(r, brokenSource{err: boom})

	var buf bytes.Buffer
	err = f.Write(context.Background(), &buf, Request{Lang: "ml", Since: "2024-01-01"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, buf.String())
}

func TestWriteRow(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteRow(&sb, vocab.ExportRow{Word: "w", Confidence: 100}))
	require.NoError(t, WriteRow(&sb, vocab.ExportRow{Word: "x", Confidence: 0.1}))
	assert.Equal(t, "w 100\nx 0.1\n", sb.String())
}
