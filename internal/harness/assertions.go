package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/varnamd/internal/store"
	"github.com/roach88/varnamd/internal/vocab"
)

// AssertionError reports a failed expectation or assertion along with the
// trace that led to it.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s -> %d\n", ev.Seq, ev.Method, ev.Path, ev.Status)
	}
	return buf.String()
}

// checkExpectation compares one response against its step's expectation.
func checkExpectation(exp *Expectation, ev TraceEvent, body []byte) error {
	if exp == nil {
		return nil
	}
	fail := func(kind, expected, actual string) error {
		return &AssertionError{Type: kind, Expected: expected, Actual: actual, Trace: []TraceEvent{ev}}
	}

	if ev.Status != exp.Status {
		return fail("status", fmt.Sprint(exp.Status), fmt.Sprint(ev.Status))
	}
	if exp.Body != nil && string(body) != *exp.Body {
		return fail("body", fmt.Sprintf("%q", *exp.Body), fmt.Sprintf("%q", body))
	}
	if exp.JSON != "" {
		var want, got any
		if err := json.Unmarshal([]byte(exp.JSON), &want); err != nil {
			return fmt.Errorf("expect.json: %w", err)
		}
		if err := json.Unmarshal(body, &got); err != nil {
			return fail("json", exp.JSON, fmt.Sprintf("invalid JSON %q", body))
		}
		if !reflect.DeepEqual(want, got) {
			return fail("json", exp.JSON, string(body))
		}
	}
	for _, sub := range exp.Contains {
		if !strings.Contains(string(body), sub) {
			return fail("contains", fmt.Sprintf("body containing %q", sub), fmt.Sprintf("%q", body))
		}
	}
	return nil
}

// assertPendingCount checks how many submissions are queued for a language.
func assertPendingCount(ctx context.Context, st *store.Store, trace []TraceEvent, a Assertion) error {
	subs, err := st.PendingSubmissions(ctx, vocab.Code(a.Lang))
	if err != nil {
		return err
	}
	if len(subs) != a.Count {
		return &AssertionError{
			Type:     AssertPendingCount,
			Expected: fmt.Sprintf("%d pending for %s", a.Count, a.Lang),
			Actual:   fmt.Sprintf("%d pending: %v", len(subs), pendingWords(subs)),
			Trace:    trace,
		}
	}
	return nil
}

// assertPendingContains checks that a word is queued for a language.
func assertPendingContains(ctx context.Context, st *store.Store, trace []TraceEvent, a Assertion) error {
	subs, err := st.PendingSubmissions(ctx, vocab.Code(a.Lang))
	if err != nil {
		return err
	}
	want := vocab.Normalize(a.Word)
	for _, sub := range subs {
		if sub.Word == want {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertPendingContains,
		Expected: fmt.Sprintf("%q pending for %s", want, a.Lang),
		Actual:   fmt.Sprintf("pending: %v", pendingWords(subs)),
		Trace:    trace,
	}
}

// assertStatusCount checks how many responses carried a status.
func assertStatusCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Status == a.Status {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertStatusCount,
			Expected: fmt.Sprintf("%d responses with status %d", a.Count, a.Status),
			Actual:   fmt.Sprintf("%d responses", count),
			Trace:    trace,
		}
	}
	return nil
}

func pendingWords(subs []vocab.Submission) []string {
	words := make([]string, len(subs))
	for i, sub := range subs {
		words[i] = sub.Word
	}
	return words
}
