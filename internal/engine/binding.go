package engine

import (
	"context"

	"github.com/roach88/varnamd/internal/scheme"
	"github.com/roach88/varnamd/internal/vocab"
)

// Binding pairs a compiled scheme with the learnings store of its language.
// It is safe for concurrent use.
type Binding struct {
	scheme    *scheme.Scheme
	learnings *Learnings
}

var _ Engine = (*Binding)(nil)

// NewBinding binds s to l. A nil l yields scheme output only.
func NewBinding(s *scheme.Scheme, l *Learnings) *Binding {
	return &Binding{scheme: s, learnings: l}
}

// Open binds s to its learnings file under dataDir, creating it if needed.
func Open(s *scheme.Scheme, dataDir string) (*Binding, error) {
	l, err := OpenLearnings(LearningsPath(dataDir, s.Code))
	if err != nil {
		return nil, err
	}
	return NewBinding(s, l), nil
}

// Language describes the bound language.
func (b *Binding) Language() vocab.Language {
	return vocab.Language{Code: b.scheme.Code, Name: b.scheme.Name}
}

// Learnings returns the bound learnings store, or nil.
func (b *Binding) Learnings() *Learnings {
	return b.learnings
}

// Transliterate ranks learned words for word ahead of the scheme output,
// without duplicates.
func (b *Binding) Transliterate(ctx context.Context, word string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Lang: b.scheme.Code, Op: "transliterate", Err: err}
	}

	word = vocab.Normalize(word)
	if word == "" {
		return []string{}, nil
	}

	var learned []string
	if b.learnings != nil {
		var err error
		if learned, err = b.learnings.Lookup(ctx, word); err != nil {
			return nil, &Error{Lang: b.scheme.Code, Op: "transliterate", Err: err}
		}
	}

	out := make([]string, 0, len(learned)+1)
	seen := make(map[string]bool, len(learned)+1)
	for _, w := range append(learned, b.scheme.Transliterate(word)) {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out, nil
}

// ReverseTransliterate maps word back to Latin using the scheme alone.
func (b *Binding) ReverseTransliterate(word string) string {
	return b.scheme.ReverseTransliterate(word)
}

// Close releases the learnings store.
func (b *Binding) Close() error {
	return b.learnings.Close()
}
