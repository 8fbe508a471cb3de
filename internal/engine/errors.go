package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/varnamd/internal/vocab"
)

// ErrUnavailable is returned while an engine's breaker is open.
var ErrUnavailable = errors.New("engine unavailable")

// Error reports a failed transliteration for one language.
type Error struct {
	Lang vocab.Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Lang, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsUnavailable reports whether err came from an open breaker.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
