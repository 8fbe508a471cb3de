package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/roach88/varnamd/internal/ctxlog"
)

// RequestIDHeader carries the request ID on responses.
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// withRequestLogger tags each request with an ID and puts a logger carrying
// it into the request context.
func withRequestLogger(next http.Handler, logger *slog.Logger, ids IDGenerator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ids.Generate()
		w.Header().Set(RequestIDHeader, id)

		reqLogger := logger.With(
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path)
		ctx := ctxlog.WithLogger(r.Context(), reqLogger)

		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		reqLogger.Info("request handled",
			"status", rec.status,
			"duration", time.Since(start))
	})
}
