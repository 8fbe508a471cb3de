package scheme

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/varnamd/internal/vocab"
)

//go:embed schema.cue
var schemaSrc string

// CompileError reports a scheme that failed validation, with the CUE
// source position when one is known.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile parses a CUE scheme document. filename is used in error positions.
func Compile(filename string, src []byte) (*Scheme, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	doc := ctx.CompileBytes(src, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	return compileScheme(v.LookupPath(cue.ParsePath("scheme")))
}

func compileScheme(v cue.Value) (*Scheme, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "scheme", Message: "scheme is required"}
	}

	s := &Scheme{}
	var err error

	code, err := v.LookupPath(cue.ParsePath("code")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	s.Code = vocab.Code(code)

	if s.Name, err = v.LookupPath(cue.ParsePath("name")).String(); err != nil {
		return nil, formatCUEError(err)
	}

	virama, err := v.LookupPath(cue.ParsePath("virama")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	s.Virama = norm.NFC.String(virama)

	if s.FinalVirama, err = v.LookupPath(cue.ParsePath("final_virama")).Bool(); err != nil {
		return nil, formatCUEError(err)
	}

	if s.Vowels, err = parseVowels(v.LookupPath(cue.ParsePath("vowels"))); err != nil {
		return nil, err
	}
	if s.Consonants, err = parseConsonants(v.LookupPath(cue.ParsePath("consonants"))); err != nil {
		return nil, err
	}

	if len(s.Vowels) == 0 {
		return nil, &CompileError{Field: "vowels", Message: "at least one vowel is required", Pos: v.Pos()}
	}

	for _, vw := range s.Vowels {
		if vw.Sign == "" {
			s.inherent = vw.Pattern
			break
		}
	}
	if s.inherent == "" {
		return nil, &CompileError{
			Field:   "vowels",
			Message: "an inherent vowel (one without a sign) is required",
			Pos:     v.Pos(),
		}
	}

	s.build()
	return s, nil
}

func parseVowels(v cue.Value) ([]Vowel, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var vowels []Vowel
	seen := make(map[string]bool)
	for iter.Next() {
		item := iter.Value()

		var vw Vowel
		if vw.Pattern, err = item.LookupPath(cue.ParsePath("pattern")).String(); err != nil {
			return nil, formatCUEError(err)
		}
		if seen[vw.Pattern] {
			return nil, &CompileError{
				Field:   "vowels",
				Message: fmt.Sprintf("duplicate pattern %q", vw.Pattern),
				Pos:     item.Pos(),
			}
		}
		seen[vw.Pattern] = true

		letter, err := item.LookupPath(cue.ParsePath("letter")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		sign, err := item.LookupPath(cue.ParsePath("sign")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		vw.Letter = norm.NFC.String(letter)
		vw.Sign = norm.NFC.String(sign)
		vowels = append(vowels, vw)
	}
	return vowels, nil
}

func parseConsonants(v cue.Value) ([]Consonant, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var consonants []Consonant
	seen := make(map[string]bool)
	for iter.Next() {
		item := iter.Value()

		var c Consonant
		if c.Pattern, err = item.LookupPath(cue.ParsePath("pattern")).String(); err != nil {
			return nil, formatCUEError(err)
		}
		if seen[c.Pattern] {
			return nil, &CompileError{
				Field:   "consonants",
				Message: fmt.Sprintf("duplicate pattern %q", c.Pattern),
				Pos:     item.Pos(),
			}
		}
		seen[c.Pattern] = true

		letter, err := item.LookupPath(cue.ParsePath("letter")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		c.Letter = norm.NFC.String(letter)
		consonants = append(consonants, c)
	}
	return consonants, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
