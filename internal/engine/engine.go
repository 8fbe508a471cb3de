package engine

import (
	"context"
)

// Engine turns words into candidates and back.
type Engine interface {
	// Transliterate returns ranked candidates for a Latin word.
	Transliterate(ctx context.Context, word string) ([]string, error)

	// ReverseTransliterate maps native script back to Latin. It never fails.
	ReverseTransliterate(word string) string
}
