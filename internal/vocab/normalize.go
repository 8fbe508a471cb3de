package vocab

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize trims surrounding whitespace and returns the NFC form of s.
// Indic scripts admit several byte sequences for the same visible word;
// NFC makes those compare equal in the store and in scheme lookups.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Normalized returns a copy of sub with every field trimmed and the word
// NFC-normalised.
func (sub Submission) Normalized() Submission {
	return Submission{
		Word:     Normalize(sub.Word),
		Lang:     Code(strings.TrimSpace(string(sub.Lang))),
		SourceIP: strings.TrimSpace(sub.SourceIP),
	}
}
