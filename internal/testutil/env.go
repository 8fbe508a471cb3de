// Package testutil builds the service components over a scratch directory
// for integration tests and the scenario harness.
package testutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/roach88/varnamd/internal/engine"
	"github.com/roach88/varnamd/internal/registry"
	"github.com/roach88/varnamd/internal/scheme"
	"github.com/roach88/varnamd/internal/store"
	"github.com/roach88/varnamd/internal/vocab"
)

// Env is a registry over the builtin schemes plus a submission store, all
// rooted in one directory.
type Env struct {
	Dir      string
	Store    *store.Store
	Registry *registry.Registry
	Bindings map[vocab.Code]*engine.Binding
}

// NewEnv opens learnings files and varnam.db under dir. Languages are
// registered in code order so listings are stable.
func NewEnv(dir string) (*Env, error) {
	schemes, err := scheme.Load(scheme.Builtin())
	if err != nil {
		return nil, fmt.Errorf("load schemes: %w", err)
	}

	codes := make([]vocab.Code, 0, len(schemes))
	for code := range schemes {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	env := &Env{Dir: dir, Bindings: make(map[vocab.Code]*engine.Binding)}
	entries := make([]registry.Entry, 0, len(codes))
	for _, code := range codes {
		b, err := engine.Open(schemes[code], dir)
		if err != nil {
			env.Close()
			return nil, err
		}
		env.Bindings[code] = b
		entries = append(entries, registry.Entry{Language: b.Language(), Engine: b})
	}

	if env.Registry, err = registry.New(entries...); err != nil {
		env.Close()
		return nil, err
	}

	if env.Store, err = store.Open(filepath.Join(dir, "varnam.db")); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

// Learnings returns the learnings store for code.
func (e *Env) Learnings(code vocab.Code) (*engine.Learnings, error) {
	b, ok := e.Bindings[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", registry.ErrUnknownLanguage, code)
	}
	return b.Learnings(), nil
}

// Close releases the store and every binding.
func (e *Env) Close() error {
	var errs []error
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, b := range e.Bindings {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
