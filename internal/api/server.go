// Package api exposes the transliteration service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/roach88/varnamd/internal/ctxlog"
	"github.com/roach88/varnamd/internal/dispatch"
	"github.com/roach88/varnamd/internal/docs"
	"github.com/roach88/varnamd/internal/export"
	"github.com/roach88/varnamd/internal/queue"
	"github.com/roach88/varnamd/internal/registry"
	"github.com/roach88/varnamd/internal/store"
	"github.com/roach88/varnamd/internal/vocab"
)

// maxLearnBody bounds POST /learn bodies.
const maxLearnBody = 64 << 10

// Deps are the components the server routes to.
type Deps struct {
	Registry *registry.Registry
	Store    *store.Store
	Docs     *docs.Renderer
}

// Server routes HTTP requests to the dispatcher, queue, feed and docs.
type Server struct {
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	queue      *queue.Queue
	feed       *export.Feed
	docs       *docs.Renderer
	logger     *slog.Logger
	ids        IDGenerator
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the base logger for request loggers.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithIDGenerator replaces the UUIDv7 request ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Server) {
		s.ids = g
	}
}

// New builds a server over deps.
func New(deps Deps, opts ...Option) *Server {
	s := &Server{
		registry:   deps.Registry,
		dispatcher: dispatch.New(deps.Registry),
		queue:      queue.New(deps.Registry, deps.Store),
		feed:       export.New(deps.Registry, deps.Store),
		docs:       deps.Docs,
		logger:     slog.Default(),
		ids:        UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /languages", s.handleLanguages)
	mux.HandleFunc("GET /tl/{langCode}/{word}", s.handleTransliterate)
	mux.HandleFunc("GET /rtl/{langCode}/{word}", s.handleReverse)
	mux.HandleFunc("POST /learn", s.handleLearn)
	mux.HandleFunc("GET /download/{langCode}/{year}/{month}/{date}", s.handleDownload)
	if s.docs != nil {
		mux.HandleFunc("GET /docs", s.handleDocs)
		mux.HandleFunc("GET /docs/{name...}", s.handleDocs)
	}
	return withRequestLogger(mux, s.logger, s.ids)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, s.registry.Languages())
}

func (s *Server) handleTransliterate(w http.ResponseWriter, r *http.Request) {
	out, err := s.dispatcher.Transliterate(r.Context(), langCode(r), r.PathValue("word"))
	if err != nil {
		notFound(w, r, err)
		return
	}
	writeJSON(r.Context(), w, out.Status, out.Body)
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	out, err := s.dispatcher.ReverseTransliterate(r.Context(), langCode(r), r.PathValue("word"))
	if err != nil {
		notFound(w, r, err)
		return
	}
	writeJSON(r.Context(), w, out.Status, out.Body)
}

// learnRequest is the POST /learn body.
type learnRequest struct {
	Lang string `json:"lang"`
	Text string `json:"text"`
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLearn(w, r)
	if err != nil {
		ctxlog.FromContext(r.Context()).Debug("bad learn request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub := vocab.Submission{
		Word:     req.Text,
		Lang:     vocab.Code(req.Lang),
		SourceIP: sourceIP(r),
	}
	if err := s.queue.Submit(r.Context(), sub); err != nil {
		if errors.Is(err, registry.ErrUnknownLanguage) {
			notFound(w, r, err)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	io.WriteString(w, "Success")
}

func decodeLearn(w http.ResponseWriter, r *http.Request) (learnRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLearnBody)

	var req learnRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return learnRequest{}, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return learnRequest{}, err
	}
	req.Lang = r.PostForm.Get("lang")
	req.Text = r.PostForm.Get("text")
	return req, nil
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	req, err := s.feed.Prepare(langCode(r),
		r.PathValue("year"), r.PathValue("month"), r.PathValue("date"))
	if err != nil {
		notFound(w, r, err)
		return
	}

	lw := &lazyWriter{w: w}
	if err := s.feed.Write(r.Context(), lw, req); err != nil {
		if !lw.started {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	lw.start()
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	page, err := s.docs.Render(r.Context(), r.PathValue("name"))
	if err != nil {
		if errors.Is(err, docs.ErrNotFound) {
			notFound(w, r, err)
			return
		}
		ctxlog.FromContext(r.Context()).Error("render document failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.docs.WritePage(w, page); err != nil {
		ctxlog.FromContext(r.Context()).Error("write document failed", "error", err)
	}
}

// lazyWriter commits the feed's status and content type on the first
// write, so a failure before any row can still become a 500.
type lazyWriter struct {
	w       http.ResponseWriter
	started bool
}

func (l *lazyWriter) start() {
	if l.started {
		return
	}
	l.started = true
	l.w.Header().Set("Content-Type", export.ContentType)
	l.w.WriteHeader(http.StatusOK)
}

func (l *lazyWriter) Write(b []byte) (int, error) {
	l.start()
	return l.w.Write(b)
}

func langCode(r *http.Request) vocab.Code {
	return vocab.Code(r.PathValue("langCode"))
}

// sourceIP returns the host part of the connection's remote address.
func sourceIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func notFound(w http.ResponseWriter, r *http.Request, err error) {
	ctxlog.FromContext(r.Context()).Debug("not found", "error", err)
	http.NotFound(w, r)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.FromContext(ctx).Error("encode response failed", "error", err)
	}
}
