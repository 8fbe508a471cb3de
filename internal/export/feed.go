// Package export publishes accumulated learnings as a dated plain-text feed.
package export

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/roach88/varnamd/internal/ctxlog"
	"github.com/roach88/varnamd/internal/dispatch"
	"github.com/roach88/varnamd/internal/vocab"
)

// ContentType is the media type of the feed body.
const ContentType = "text/plain; charset=utf-8"

// Source is the read side of the shared store.
type Source interface {
	ExportSince(ctx context.Context, lang vocab.Code, since string, fn func(vocab.ExportRow) error) error
}

// Feed streams learned words newer than a date.
type Feed struct {
	resolver dispatch.Resolver
	source   Source
}

// New returns a feed reading from s. r is used only to validate codes.
func New(r dispatch.Resolver, s Source) *Feed {
	return &Feed{resolver: r, source: s}
}

// Request names one feed: a language and the day after which rows count.
type Request struct {
	Lang  vocab.Code
	Since string
}

// Prepare validates the raw route components. Errors wrap
// registry.ErrUnknownLanguage or ErrMalformedDate.
func (f *Feed) Prepare(code vocab.Code, year, month, day string) (Request, error) {
	if _, err := f.resolver.Resolve(code); err != nil {
		return Request{}, err
	}
	since, err := ParseDate(year, month, day)
	if err != nil {
		return Request{}, err
	}
	return Request{Lang: code, Since: since}, nil
}

// Write streams req to w, one "<word> <confidence>" line per row.
func (f *Feed) Write(ctx context.Context, w io.Writer, req Request) error {
	bw := bufio.NewWriter(w)
	n := 0
	err := f.source.ExportSince(ctx, req.Lang, req.Since, func(row vocab.ExportRow) error {
		n++
		return WriteRow(bw, row)
	})
	if err != nil {
		ctxlog.FromContext(ctx).Error("export failed",
			"lang", req.Lang,
			"since", req.Since,
			"error", err)
		return err
	}

	ctxlog.FromContext(ctx).Debug("export written",
		"lang", req.Lang,
		"since", req.Since,
		"rows", n)
	return bw.Flush()
}

// WriteRow writes one feed line.
func WriteRow(w io.StringWriter, row vocab.ExportRow) error {
	_, err := w.WriteString(row.Word + " " + strconv.FormatFloat(row.Confidence, 'f', -1, 64) + "\n")
	return err
}
