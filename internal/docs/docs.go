// Package docs renders markdown documents into HTML pages and caches the
// result for the life of the process.
//
// A document's title is the first {...} token in its source. The token is
// removed from the rendered body.
package docs

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/sync/singleflight"

	"github.com/roach88/varnamd/internal/ctxlog"
)

// ErrNotFound is returned for names that do not resolve to a readable
// document.
var ErrNotFound = errors.New("document not found")

// DefaultName is rendered when no name is given.
const DefaultName = "index"

var titlePattern = regexp.MustCompile(`\{([^}]+)\}`)

//go:embed templates/*.html
var templateFS embed.FS

// Page is one rendered document.
type Page struct {
	Title   string
	Content template.HTML
}

// Renderer resolves document names, renders on first use, and serves
// later requests from its Cache. It is safe for concurrent use.
type Renderer struct {
	fsys  fs.FS
	cache Cache
	md    goldmark.Markdown
	tmpl  *template.Template
	group singleflight.Group
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCache replaces the default unbounded cache.
func WithCache(c Cache) Option {
	return func(r *Renderer) {
		r.cache = c
	}
}

// New returns a renderer reading documents from fsys.
func New(fsys fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		fsys:  fsys,
		cache: NewMapCache(),
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		tmpl:  template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a document name to its path inside the docs root.
func Resolve(name string) (string, error) {
	if name == "" {
		name = DefaultName
	}
	p := name + ".md"
	if !fs.ValidPath(p) || path.Clean(p) != p {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, nil
}

// Render returns the page for name, rendering it on a cache miss.
// Concurrent misses for the same path read and render it once.
func (r *Renderer) Render(ctx context.Context, name string) (Page, error) {
	p, err := Resolve(name)
	if err != nil {
		return Page{}, err
	}
	if page, ok := r.cache.Get(p); ok {
		return page, nil
	}

	v, err, _ := r.group.Do(p, func() (interface{}, error) {
		if page, ok := r.cache.Get(p); ok {
			return page, nil
		}

		src, err := fs.ReadFile(r.fsys, p)
		if err != nil {
			ctxlog.FromContext(ctx).Debug("document unreadable",
				"path", p,
				"error", err)
			return Page{}, fmt.Errorf("%w: %q", ErrNotFound, name)
		}

		page, err := r.render(src)
		if err != nil {
			return Page{}, fmt.Errorf("render %s: %w", p, err)
		}
		r.cache.Put(p, page)
		ctxlog.FromContext(ctx).Debug("document cached", "path", p)
		return page, nil
	})
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}

func (r *Renderer) render(src []byte) (Page, error) {
	var page Page
	if m := titlePattern.FindSubmatch(src); m != nil {
		page.Title = string(m[1])
	}

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return Page{}, err
	}

	body := buf.Bytes()
	if loc := titlePattern.FindIndex(body); loc != nil {
		body = append(body[:loc[0]:loc[0]], body[loc[1]:]...)
	}
	page.Content = template.HTML(body)
	return page, nil
}

// WritePage renders page into the docs HTML template.
func (r *Renderer) WritePage(w io.Writer, page Page) error {
	return r.tmpl.ExecuteTemplate(w, "docs", map[string]any{
		"title":   page.Title,
		"content": page.Content,
	})
}
