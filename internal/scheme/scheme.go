package scheme

import (
	"sort"
	"strings"
	"unicode"

	"github.com/roach88/varnamd/internal/vocab"
)

// Vowel maps a Latin pattern to an independent vowel letter and to the
// dependent sign used after a consonant. The inherent vowel has an empty
// sign.
type Vowel struct {
	Pattern string
	Letter  string
	Sign    string
}

// Consonant maps a Latin pattern to a consonant letter or conjunct.
type Consonant struct {
	Pattern string
	Letter  string
}

// Scheme is a compiled phonetic scheme for one language.
type Scheme struct {
	Code        vocab.Code
	Name        string
	Virama      string
	FinalVirama bool
	Vowels      []Vowel
	Consonants  []Consonant

	inherent string

	// Latin side
	vowelIn     table
	consonantIn table

	// native side
	vowelOut     table
	signOut      table
	consonantOut table
	viramaRunes  []rune
}

// entry is one row of a longest-match table.
type entry struct {
	key   []rune
	value string
}

// table matches the longest key at a position. Keys of equal length keep
// declaration order, so the first declared key wins.
type table []entry

func (t table) match(in []rune, i int) (string, int) {
	for _, e := range t {
		if hasPrefix(in[i:], e.key) {
			return e.value, len(e.key)
		}
	}
	return "", 0
}

func hasPrefix(s, prefix []rune) bool {
	if len(prefix) == 0 || len(prefix) > len(s) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}

func newTable(pairs [][2]string) table {
	t := make(table, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if p[0] == "" || seen[p[0]] {
			continue
		}
		seen[p[0]] = true
		t = append(t, entry{key: []rune(p[0]), value: p[1]})
	}
	sort.SliceStable(t, func(i, j int) bool {
		return len(t[i].key) > len(t[j].key)
	})
	return t
}

func (s *Scheme) build() {
	var vin, vout, sout, cin, cout [][2]string
	for _, v := range s.Vowels {
		vin = append(vin, [2]string{v.Pattern, v.Pattern})
		vout = append(vout, [2]string{v.Letter, v.Pattern})
		sout = append(sout, [2]string{v.Sign, v.Pattern})
	}
	for _, c := range s.Consonants {
		cin = append(cin, [2]string{c.Pattern, c.Letter})
		cout = append(cout, [2]string{c.Letter, c.Pattern})
	}
	s.vowelIn = newTable(vin)
	s.vowelOut = newTable(vout)
	s.signOut = newTable(sout)
	s.consonantIn = newTable(cin)
	s.consonantOut = newTable(cout)
	s.viramaRunes = []rune(s.Virama)
}

func (s *Scheme) vowel(pattern string) Vowel {
	for _, v := range s.Vowels {
		if v.Pattern == pattern {
			return v
		}
	}
	return Vowel{}
}

// Transliterate converts Latin input into the scheme's native script.
// Characters that match no pattern are copied unchanged.
func (s *Scheme) Transliterate(input string) string {
	in := []rune(vocab.Normalize(input))
	var b strings.Builder

	for i := 0; i < len(in); {
		if letter, n := s.consonantIn.match(in, i); n > 0 {
			b.WriteString(letter)
			i += n

			if pattern, m := s.vowelIn.match(in, i); m > 0 {
				b.WriteString(s.vowel(pattern).Sign)
				i += m
				continue
			}

			// A bare consonant joins the next consonant through the virama;
			// at the end of a word it takes one only if the scheme says so.
			if _, m := s.consonantIn.match(in, i); m > 0 {
				b.WriteString(s.Virama)
			} else if s.FinalVirama {
				b.WriteString(s.Virama)
			}
			continue
		}

		if pattern, n := s.vowelIn.match(in, i); n > 0 {
			b.WriteString(s.vowel(pattern).Letter)
			i += n
			continue
		}

		b.WriteRune(in[i])
		i++
	}
	return b.String()
}

// ReverseTransliterate converts native script back into Latin patterns.
// It never fails: runes outside the scheme are copied unchanged, and an
// empty input yields an empty result.
func (s *Scheme) ReverseTransliterate(input string) string {
	in := []rune(vocab.Normalize(input))
	var b strings.Builder

	for i := 0; i < len(in); {
		if pattern, n := s.consonantOut.match(in, i); n > 0 {
			b.WriteString(pattern)
			i += n

			if vp, m := s.signOut.match(in, i); m > 0 {
				b.WriteString(vp)
				i += m
				continue
			}
			if hasPrefix(in[i:], s.viramaRunes) {
				i += len(s.viramaRunes)
				continue
			}
			if s.FinalVirama || !atWordEnd(in, i) {
				b.WriteString(s.inherent)
			}
			continue
		}

		if pattern, n := s.vowelOut.match(in, i); n > 0 {
			b.WriteString(pattern)
			i += n
			continue
		}

		b.WriteRune(in[i])
		i++
	}
	return b.String()
}

func atWordEnd(in []rune, i int) bool {
	if i >= len(in) {
		return true
	}
	r := in[i]
	return !unicode.IsLetter(r) && !unicode.IsMark(r)
}
