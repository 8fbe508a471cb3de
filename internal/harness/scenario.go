package harness

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/varnamd/internal/vocab"
)

// Scenario is a scripted conversation with the HTTP API.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Setup seeds learnings and the export feed before any request.
	Setup Setup `yaml:"setup,omitempty"`

	// Steps are sent in order against one server.
	Steps []Step `yaml:"steps"`

	// Assertions run after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Setup is the state a scenario starts from.
type Setup struct {
	Learnings []LearnedWord   `yaml:"learnings,omitempty"`
	Published []PublishedWord `yaml:"published,omitempty"`
}

// LearnedWord seeds a language's learnings store.
type LearnedWord struct {
	Lang       string  `yaml:"lang"`
	Pattern    string  `yaml:"pattern"`
	Word       string  `yaml:"word"`
	Confidence float64 `yaml:"confidence"`
}

// PublishedWord seeds the export feed.
type PublishedWord struct {
	Lang       string  `yaml:"lang"`
	Word       string  `yaml:"word"`
	Confidence float64 `yaml:"confidence"`
	LearnedOn  string  `yaml:"learned_on"`
}

// Step is one HTTP request and its expected response.
type Step struct {
	Method string `yaml:"method"`
	Path   string `yaml:"path"`

	// Form is sent url-encoded. JSON is sent as an application/json body.
	// At most one may be set.
	Form map[string]string `yaml:"form,omitempty"`
	JSON map[string]any    `yaml:"json,omitempty"`

	Expect *Expectation `yaml:"expect,omitempty"`
}

// Expectation checks a response. Unset fields are not checked.
type Expectation struct {
	Status int `yaml:"status"`

	// Body must equal the response body exactly.
	Body *string `yaml:"body,omitempty"`

	// JSON must be semantically equal to the response body.
	JSON string `yaml:"json,omitempty"`

	// Contains lists substrings the body must include.
	Contains []string `yaml:"contains,omitempty"`
}

// Assertion checks the state left behind by the steps.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Lang selects the queue (pending_count, pending_contains).
	Lang string `yaml:"lang,omitempty"`

	// Word is the expected queued word (pending_contains).
	Word string `yaml:"word,omitempty"`

	// Status is the response status to count (status_count).
	Status int `yaml:"status,omitempty"`

	// Count is the expected number (pending_count, status_count).
	Count int `yaml:"count"`
}

// Assertion types.
const (
	AssertPendingCount    = "pending_count"
	AssertPendingContains = "pending_contains"
	AssertStatusCount     = "status_count"
)

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, w := range s.Setup.Learnings {
		if w.Lang == "" || w.Pattern == "" || w.Word == "" {
			return fmt.Errorf("setup.learnings[%d]: lang, pattern and word are required", i)
		}
	}
	for i, w := range s.Setup.Published {
		if w.Lang == "" || w.Word == "" {
			return fmt.Errorf("setup.published[%d]: lang and word are required", i)
		}
		if _, err := time.Parse(vocab.DateLayout, w.LearnedOn); err != nil {
			return fmt.Errorf("setup.published[%d]: learned_on: %w", i, err)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step) error {
	switch step.Method {
	case http.MethodGet, http.MethodPost:
	case "":
		return fmt.Errorf("steps[%d]: method is required", index)
	default:
		return fmt.Errorf("steps[%d]: unsupported method %q", index, step.Method)
	}

	if !strings.HasPrefix(step.Path, "/") {
		return fmt.Errorf("steps[%d]: path must start with /", index)
	}
	if step.Form != nil && step.JSON != nil {
		return fmt.Errorf("steps[%d]: form and json are mutually exclusive", index)
	}
	if step.Expect != nil && step.Expect.Status == 0 {
		return fmt.Errorf("steps[%d].expect: status is required", index)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertPendingCount:
		if a.Lang == "" {
			return fmt.Errorf("assertions[%d]: pending_count requires lang", index)
		}
	case AssertPendingContains:
		if a.Lang == "" || a.Word == "" {
			return fmt.Errorf("assertions[%d]: pending_contains requires lang and word", index)
		}
	case AssertStatusCount:
		if a.Status == 0 {
			return fmt.Errorf("assertions[%d]: status_count requires status", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	if a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must not be negative", index)
	}
	return nil
}
