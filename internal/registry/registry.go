// Package registry maps language codes to their transliteration engines.
//
// A Registry is built once at startup and never changes afterwards, so it
// can be shared by every request without locking.
package registry

import (
	"errors"
	"fmt"

	"github.com/roach88/varnamd/internal/engine"
	"github.com/roach88/varnamd/internal/vocab"
)

// ErrUnknownLanguage is returned by Resolve for codes with no engine.
var ErrUnknownLanguage = errors.New("unknown language")

// Entry registers one language.
type Entry struct {
	Language vocab.Language
	Engine   engine.Engine
}

// Registry is an immutable code to engine map.
type Registry struct {
	engines   map[vocab.Code]engine.Engine
	languages []vocab.Language
}

// New builds a registry. Entries keep their order in Languages.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{
		engines:   make(map[vocab.Code]engine.Engine, len(entries)),
		languages: make([]vocab.Language, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Language.Code == "" {
			return nil, fmt.Errorf("new registry: empty language code")
		}
		if e.Engine == nil {
			return nil, fmt.Errorf("new registry: %s: nil engine", e.Language.Code)
		}
		if _, dup := r.engines[e.Language.Code]; dup {
			return nil, fmt.Errorf("new registry: duplicate language %s", e.Language.Code)
		}
		r.engines[e.Language.Code] = e.Engine
		r.languages = append(r.languages, e.Language)
	}
	return r, nil
}

// Resolve returns the engine for code.
func (r *Registry) Resolve(code vocab.Code) (engine.Engine, error) {
	e, ok := r.engines[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return e, nil
}

// Languages returns the registered languages in registration order. The
// slice is a copy.
func (r *Registry) Languages() []vocab.Language {
	out := make([]vocab.Language, len(r.languages))
	copy(out, r.languages)
	return out
}
