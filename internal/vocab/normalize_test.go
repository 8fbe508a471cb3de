package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, "hello", Normalize("  hello\t\n"))
}

func TestNormalize_ComposesToNFC(t *testing.T) {
	// "e" + combining acute accent composes to a single code point.
	decomposed := "cafe\u0301"
	assert.Equal(t, "caf\u00e9", Normalize(decomposed))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize("   "))
}

func TestSubmission_Normalized(t *testing.T) {
	sub := Submission{Word: "  മലയാളം ", Lang: " ml ", SourceIP: " 10.0.0.1 "}
	got := sub.Normalized()

	assert.Equal(t, "മലയാളം", got.Word)
	assert.Equal(t, Code("ml"), got.Lang)
	assert.Equal(t, "10.0.0.1", got.SourceIP)
}
