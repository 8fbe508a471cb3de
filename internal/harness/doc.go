// Package harness runs scripted HTTP scenarios against the service and
// compares the resulting traces with golden files.
//
// # Scenario Format
//
// Scenarios are YAML documents:
//
//	name: learn_duplicate
//	description: "A repeated correction is queued once"
//	setup:
//	  learnings:
//	    - { lang: hi, pattern: kamal, word: कमल, confidence: 2 }
//	  published:
//	    - { lang: ml, word: അമ്മ, confidence: 12, learned_on: "2024-03-06" }
//	steps:
//	  - method: POST
//	    path: /learn
//	    form: { lang: ml, text: അമ്മ }
//	    expect:
//	      status: 201
//	      body: Success
//	assertions:
//	  - type: pending_count
//	    lang: ml
//	    count: 1
//
// Unknown fields are rejected when a scenario is loaded.
//
// # Assertion Types
//
//   - pending_count: the number of queued submissions for lang
//   - pending_contains: word is queued for lang
//   - status_count: the number of responses with status
//
// # Determinism
//
// Every run gets a scratch directory with fresh learnings files and a fresh
// submission store, and request IDs are numbered req-1, req-2, ... so the
// same scenario always produces the same trace.
package harness
