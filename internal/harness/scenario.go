package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pipedev/pipedev/internal/decider"
	"github.com/pipedev/pipedev/internal/ir"
)

// Scenario defines one decision pass and what it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is the decider configuration for the pass.
	Config decider.Config `yaml:"config"`

	// Records are the provenance records fed to the pass, in input order.
	Records []ir.FileRecord `yaml:"records"`

	// ExistingFiles are the paths the existence check reports as present.
	// Only consulted when Config.CheckFileExists is set.
	ExistingFiles []string `yaml:"existing_files,omitempty"`

	// Scheduled lists input identity sets already in the ledger before
	// the pass. Each entry is hashed with the config's workflow.
	Scheduled [][]string `yaml:"scheduled,omitempty"`

	// Assertions validate the decision.
	Assertions []Assertion `yaml:"assertions"`

	// PassID is an optional fixed pass id.
	// If empty, defaults to "test-pass-default".
	PassID string `yaml:"pass_id,omitempty"`
}

// Assertion validates part of a decision.
type Assertion struct {
	// Type specifies the assertion type:
	// - "run_count": exactly Count validated runs
	// - "run": a run named Name exists (Files, Group, Accessions, Parameters optional)
	// - "rejected": a rejection with Reason exists (Path, Group optional)
	// - "failure_count": exactly Count derivation failures
	// - "warning": run Name carries a warning containing Contains
	Type string `yaml:"type"`

	Name string `yaml:"name,omitempty"`

	// Files are the expected run files in launch order.
	Files []string `yaml:"files,omitempty"`

	Group string `yaml:"group,omitempty"`

	Accessions []string `yaml:"accessions,omitempty"`

	// Parameters is a subset match against the run's parameters.
	Parameters map[string]string `yaml:"parameters,omitempty"`

	Reason string `yaml:"reason,omitempty"`
	Path   string `yaml:"path,omitempty"`

	Contains string `yaml:"contains,omitempty"`

	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertRunCount     = "run_count"
	AssertRun          = "run"
	AssertRejected     = "rejected"
	AssertFailureCount = "failure_count"
	AssertWarning      = "warning"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:".
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Config.Workflow == "" {
		return fmt.Errorf("config.workflow is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, rec := range s.Records {
		if rec.Path == "" {
			return fmt.Errorf("records[%d]: path is required", i)
		}
	}

	for i, set := range s.Scheduled {
		if len(set) == 0 {
			return fmt.Errorf("scheduled[%d]: must list at least one input", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRunCount, AssertFailureCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertRun:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for run", index)
		}
	case AssertRejected:
		if a.Reason == "" {
			return fmt.Errorf("assertions[%d]: reason is required for rejected", index)
		}
	case AssertWarning:
		if a.Name == "" || a.Contains == "" {
			return fmt.Errorf("assertions[%d]: name and contains are required for warning", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
