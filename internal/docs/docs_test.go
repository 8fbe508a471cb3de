package docs

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFS counts file opens.
type countingFS struct {
	fs.FS
	opens atomic.Int64
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens.Add(1)
	return c.FS.Open(name)
}

func testDocs() *countingFS {
	return &countingFS{FS: fstest.MapFS{
		"index.md": &fstest.MapFile{Data: []byte("{Varnam}\n\n# Welcome\n\nType *Latin*, get native script.\n")},
		"api.md":   &fstest.MapFile{Data: []byte("{API reference}\n\n| Route | Method |\n|---|---|\n| /tl | GET |\n")},
		"plain.md": &fstest.MapFile{Data: []byte("# No title here\n")},
		"guide/learn.md": &fstest.MapFile{
			Data: []byte("{Learning} {not a title}\n\nPOST to /learn.\n"),
		},
	}}
}

func TestRender_TitleAndBody(t *testing.T) {
	r := New(testDocs())

	page, err := r.Render(context.Background(), "index")
	require.NoError(t, err)
	assert.Equal(t, "Varnam", page.Title)
	assert.NotContains(t, string(page.Content), "{Varnam}")
	assert.Contains(t, string(page.Content), "<h1>Welcome</h1>")
	assert.Contains(t, string(page.Content), "<em>Latin</em>")
}

func TestRender_DefaultName(t *testing.T) {
	r := New(testDocs())

	page, err := r.Render(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Varnam", page.Title)
}

func TestRender_NoTitle(t *testing.T) {
	r := New(testDocs())

	page, err := r.Render(context.Background(), "plain")
	require.NoError(t, err)
	assert.Equal(t, "", page.Title)
	assert.Contains(t, string(page.Content), "<h1>No title here</h1>")
}

func TestRender_StripsOnlyFirstToken(t *testing.T) {
	r := New(testDocs())

	page, err := r.Render(context.Background(), "guide/learn")
	require.NoError(t, err)
	assert.Equal(t, "Learning", page.Title)
	assert.NotContains(t, string(page.Content), "{Learning}")
	assert.Contains(t, string(page.Content), "{not a title}")
}

func TestRender_GFMTables(t *testing.T) {
	r := New(testDocs())

	page, err := r.Render(context.Background(), "api")
	require.NoError(t, err)
	assert.Contains(t, string(page.Content), "<table>")
}

func TestRender_CachedAfterFirstRead(t *testing.T) {
	fsys := testDocs()
	cache := NewMapCache()
	r := New(fsys, WithCache(cache))
	ctx := context.Background()

	first, err := r.Render(ctx, "index")
	require.NoError(t, err)
	second, err := r.Render(ctx, "index")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), fsys.opens.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestRender_ConcurrentMissesReadOnce(t *testing.T) {
	fsys := testDocs()
	r := New(fsys)
	ctx := context.Background()

	var wg sync.WaitGroup
	pages := make([]Page, 32)
	for i := range pages {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := r.Render(ctx, "index")
			assert.NoError(t, err)
			pages[i] = p
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), fsys.opens.Load())
	for _, p := range pages {
		assert.Equal(t, pages[0], p)
	}
}

func TestRender_Missing(t *testing.T) {
	fsys := testDocs()
	r := New(fsys)

	_, err := r.Render(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotContains(t, err.Error(), "file does not exist")
}

func TestRender_MissingIsNotCached(t *testing.T) {
	fsys := testDocs()
	r := New(fsys)
	ctx := context.Background()

	_, err := r.Render(ctx, "nope")
	require.Error(t, err)
	_, err = r.Render(ctx, "nope")
	require.Error(t, err)
	assert.Equal(t, int64(2), fsys.opens.Load())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: "index.md"},
		{name: "index", want: "index.md"},
		{name: "guide/learn", want: "guide/learn.md"},
		{name: "../secret", wantErr: true},
		{name: "guide/../../etc/passwd", wantErr: true},
		{name: "/etc/passwd", wantErr: true},
		{name: "guide//learn", wantErr: true},
		{name: "./index", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type recordingCache struct {
	*MapCache
	puts []string
}

func (c *recordingCache) Put(path string, page Page) {
	c.puts = append(c.puts, path)
	c.MapCache.Put(path, page)
}

func TestWithCache_Swappable(t *testing.T) {
	cache := &recordingCache{MapCache: NewMapCache()}
	r := New(testDocs(), WithCache(cache))

	_, err := r.Render(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"index.md"}, cache.puts)
}

func TestWritePage_Golden(t *testing.T) {
	r := New(testDocs())

	page, err := r.Render(context.Background(), "index")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WritePage(&buf, page))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "index_page", buf.Bytes())
}
