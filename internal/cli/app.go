package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/roach88/varnamd/internal/config"
	"github.com/roach88/varnamd/internal/engine"
	"github.com/roach88/varnamd/internal/registry"
	"github.com/roach88/varnamd/internal/scheme"
)

// newLogger returns a text logger on w, at debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadSchemes compiles the schemes in dir (the builtin set when empty),
// sorted by language code.
func loadSchemes(dir string) ([]*scheme.Scheme, error) {
	byCode, err := scheme.Load(scheme.Source(dir))
	if err != nil {
		return nil, err
	}
	schemes := make([]*scheme.Scheme, 0, len(byCode))
	for _, s := range byCode {
		schemes = append(schemes, s)
	}
	sort.Slice(schemes, func(i, j int) bool { return schemes[i].Code < schemes[j].Code })
	return schemes, nil
}

// engines owns the bindings behind a registry.
type engines struct {
	registry *registry.Registry
	bindings []*engine.Binding
}

// openEngines builds the registry. With learnings false the bindings use
// scheme output only and no learnings files are touched.
func openEngines(cfg config.Config, learnings bool, logger *slog.Logger) (*engines, error) {
	schemes, err := loadSchemes(cfg.SchemesDir)
	if err != nil {
		return nil, fmt.Errorf("load schemes: %w", err)
	}

	e := &engines{}
	var entries []registry.Entry
	for _, s := range schemes {
		b := engine.NewBinding(s, nil)
		if learnings {
			if b, err = engine.Open(s, cfg.DataDir); err != nil {
				e.Close()
				return nil, err
			}
		}
		e.bindings = append(e.bindings, b)

		var eng engine.Engine = b
		if learnings {
			eng = engine.WithBreaker(b, "engine."+string(s.Code), engine.DefaultBreakerSettings, logger)
		}
		entries = append(entries, registry.Entry{Language: b.Language(), Engine: eng})
	}

	if e.registry, err = registry.New(entries...); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Close closes every binding.
func (e *engines) Close() error {
	var errs []error
	for _, b := range e.bindings {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
