// Package engine binds a phonetic scheme to a per-language learnings store
// and exposes the pair as a transliteration Engine.
//
// An Engine is shared by every request for its language, so implementations
// must be safe for concurrent use. Transliterate blocks on the learnings
// store and may fail; ReverseTransliterate is pure and never fails.
//
// Learnings live in one SQLite file per language:
//
//	<data dir>/learnings.varnam.<code>
//
// Learned words for the exact input pattern rank ahead of the scheme's own
// output, highest confidence first.
package engine
