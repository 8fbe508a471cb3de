package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"time"

	"github.com/roach88/varnamd/internal/api"
	"github.com/roach88/varnamd/internal/testutil"
	"github.com/roach88/varnamd/internal/vocab"
)

// Harness drives one scenario against a live handler.
type Harness struct {
	env    *testutil.Env
	server *httptest.Server
	logger *slog.Logger
}

// Run executes a scenario in a fresh scratch directory and returns the
// result. The error is reserved for failures of the harness itself; failed
// expectations and assertions are reported on the result.
//
// Request IDs come from a sequence generator so traces are reproducible.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "varnamd-harness-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	env, err := testutil.NewEnv(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to build environment: %w", err)
	}
	defer env.Close()

	h := &Harness{
		env:    env,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	if err := h.seed(ctx, scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	srv := api.New(api.Deps{Registry: env.Registry, Store: env.Store},
		api.WithLogger(h.logger),
		api.WithIDGenerator(api.NewSequenceGenerator("req")))
	h.server = httptest.NewServer(srv.Handler())
	defer h.server.Close()

	result := NewResult()
	for i, step := range scenario.Steps {
		ev, body, err := h.send(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		result.AddTrace(ev)
		if err := checkExpectation(step.Expect, result.Trace[len(result.Trace)-1], body); err != nil {
			result.AddError(fmt.Sprintf("steps[%d]: %v", i, err))
		}
	}

	for i, a := range scenario.Assertions {
		if err := h.evaluate(ctx, a, result.Trace); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return result, nil
}

// seed writes the setup rows before the server starts.
func (h *Harness) seed(ctx context.Context, setup Setup) error {
	for i, w := range setup.Learnings {
		l, err := h.env.Learnings(vocab.Code(w.Lang))
		if err != nil {
			return fmt.Errorf("learnings[%d]: %w", i, err)
		}
		confidence := w.Confidence
		if confidence == 0 {
			confidence = 1
		}
		if err := l.Learn(ctx, w.Pattern, w.Word, confidence); err != nil {
			return fmt.Errorf("learnings[%d]: %w", i, err)
		}
		h.logger.Debug("seeded learning", "lang", w.Lang, "pattern", w.Pattern)
	}

	for i, w := range setup.Published {
		day, err := time.Parse(vocab.DateLayout, w.LearnedOn)
		if err != nil {
			return fmt.Errorf("published[%d]: %w", i, err)
		}
		row := vocab.ExportRow{
			Word:       w.Word,
			Confidence: w.Confidence,
			Lang:       vocab.Code(w.Lang),
			LearnedOn:  day,
		}
		if err := h.env.Store.PublishLearned(ctx, row); err != nil {
			return fmt.Errorf("published[%d]: %w", i, err)
		}
	}
	return nil
}

// send issues one step and records the response.
func (h *Harness) send(ctx context.Context, step Step) (TraceEvent, []byte, error) {
	var (
		body        io.Reader
		contentType string
	)
	switch {
	case step.Form != nil:
		form := url.Values{}
		for k, v := range step.Form {
			form.Set(k, v)
		}
		body = bytes.NewBufferString(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case step.JSON != nil:
		data, err := json.Marshal(step.JSON)
		if err != nil {
			return TraceEvent{}, nil, fmt.Errorf("encode json body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, step.Method, h.server.URL+step.Path, body)
	if err != nil {
		return TraceEvent{}, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := h.server.Client().Do(req)
	if err != nil {
		return TraceEvent{}, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return TraceEvent{}, nil, fmt.Errorf("read response: %w", err)
	}

	ev := TraceEvent{
		Method:    step.Method,
		Path:      step.Path,
		Status:    resp.StatusCode,
		RequestID: resp.Header.Get(api.RequestIDHeader),
	}
	if isJSON(resp.Header.Get("Content-Type")) && json.Valid(respBody) {
		ev.JSONBody = json.RawMessage(bytes.TrimSpace(respBody))
	} else {
		ev.Body = string(respBody)
	}
	return ev, respBody, nil
}

func (h *Harness) evaluate(ctx context.Context, a Assertion, trace []TraceEvent) error {
	switch a.Type {
	case AssertPendingCount:
		return assertPendingCount(ctx, h.env.Store, trace, a)
	case AssertPendingContains:
		return assertPendingContains(ctx, h.env.Store, trace, a)
	case AssertStatusCount:
		return assertStatusCount(trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
