// Package scheme compiles phonetic scheme definitions and applies them.
//
// A scheme is a CUE document describing how Latin input patterns map onto a
// native script: independent vowels with their dependent signs, consonants,
// the virama used to join consonant clusters, and whether a word-final
// consonant carries a virama. Schemes are compiled with the CUE SDK's Go API
// and validated against the embedded schema.cue before use.
//
// Transliteration is greedy longest-match over the Latin patterns. Reverse
// transliteration is greedy longest-match over the native letters and always
// succeeds: runes the scheme does not know pass through unchanged.
//
// A compiled Scheme is immutable and safe for concurrent use.
package scheme
