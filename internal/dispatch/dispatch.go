// Package dispatch routes transliteration requests to the engine for their
// language and shapes the outcome into the public response contract.
package dispatch

import (
	"context"
	"net/http"

	"github.com/roach88/varnamd/internal/ctxlog"
	"github.com/roach88/varnamd/internal/engine"
	"github.com/roach88/varnamd/internal/vocab"
)

// Resolver finds the engine for a language code.
type Resolver interface {
	Resolve(code vocab.Code) (engine.Engine, error)
}

// Transliteration is the success body of a transliterate call.
type Transliteration struct {
	Errors []string `json:"errors"`
	Input  string   `json:"input"`
	Result []string `json:"result"`
}

// Reverse is the body of a reverse transliterate call.
type Reverse struct {
	Errors []string `json:"errors"`
	Result string   `json:"result"`
}

// Failure is the body of a failed engine call.
type Failure struct {
	Errors []string `json:"errors"`
}

// Outcome pairs an HTTP status with the body to encode as JSON.
type Outcome struct {
	Status int
	Body   any
}

// Dispatcher holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	resolver Resolver
}

// New returns a dispatcher over r.
func New(r Resolver) *Dispatcher {
	return &Dispatcher{resolver: r}
}

// Transliterate resolves code and runs the engine on word. The only error
// returned is a resolution failure; engine failures become a 500 Outcome.
func (d *Dispatcher) Transliterate(ctx context.Context, code vocab.Code, word string) (Outcome, error) {
	eng, err := d.resolver.Resolve(code)
	if err != nil {
		return Outcome{}, err
	}

	result, err := eng.Transliterate(ctx, word)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("transliterate failed",
			"lang", code,
			"error", err)
		return Outcome{
			Status: http.StatusInternalServerError,
			Body:   Failure{Errors: []string{err.Error()}},
		}, nil
	}
	if result == nil {
		result = []string{}
	}

	return Outcome{
		Status: http.StatusOK,
		Body:   Transliteration{Errors: []string{}, Input: word, Result: result},
	}, nil
}

// ReverseTransliterate resolves code and maps word back to Latin. It always
// succeeds once the language resolves.
func (d *Dispatcher) ReverseTransliterate(ctx context.Context, code vocab.Code, word string) (Outcome, error) {
	eng, err := d.resolver.Resolve(code)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Status: http.StatusOK,
		Body:   Reverse{Errors: []string{}, Result: eng.ReverseTransliterate(word)},
	}, nil
}
