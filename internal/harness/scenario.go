package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios exercise key generation and ranked lists against one alphabet
// and assert on the resulting trace and final state.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Alphabet names the alphabet to use: a builtin, or one defined in Specs.
	Alphabet string `yaml:"alphabet"`

	// Specs lists paths to CUE files defining alphabets.
	// Paths are relative to the scenario file location.
	Specs []string `yaml:"specs,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is a single operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// A and B are the boundaries of a mudder step. Empty means open-ended.
	A string `yaml:"a,omitempty"`
	B string `yaml:"b,omitempty"`

	// N, Divisions, Places and Base map onto mudder.Options.
	N         int `yaml:"n,omitempty"`
	Divisions int `yaml:"divisions,omitempty"`
	Places    int `yaml:"places,omitempty"`
	Base      int `yaml:"base,omitempty"`

	// List names the list of a list operation.
	List string `yaml:"list,omitempty"`

	// ID names the item created by an insert, for later steps to refer to.
	ID string `yaml:"id,omitempty"`

	// Value is the payload of an inserted item.
	Value string `yaml:"value,omitempty"`

	// Item is the item a move or remove applies to.
	Item string `yaml:"item,omitempty"`

	// After and Before are the anchor items of inserts and moves.
	After  string `yaml:"after,omitempty"`
	Before string `yaml:"before,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the step must succeed and its output is not checked.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected step behavior.
type ExpectClause struct {
	// Keys are the exact keys a mudder or rebalance step must produce.
	Keys []string `yaml:"keys,omitempty"`

	// Key is the exact key an insert or move must assign.
	Key string `yaml:"key,omitempty"`

	// Error is the expected error code (e.g. "DOMAIN", "ITEM_NOT_FOUND").
	Error string `yaml:"error,omitempty"`
}

// Step operations.
const (
	OpMudder       = "mudder"
	OpCreateList   = "create_list"
	OpAppend       = "append"
	OpPrepend      = "prepend"
	OpInsertAfter  = "insert_after"
	OpInsertBefore = "insert_before"
	OpMove         = "move"
	OpRemove       = "remove"
	OpRebalance    = "rebalance"
)

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an op appears in the trace with args
	// - "trace_order": ops appear in order
	// - "trace_count": an op appears exactly N times
	// - "list_order": a list's values, in key order, are exactly Values
	// - "keys_increasing": a list's keys strictly increase and are unique
	// - "final_state": query a store table and verify expected values
	Type string `yaml:"type"`

	// Op is the step operation (trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Args are the expected step arguments (trace_contains).
	// Subset match - only specified fields are validated.
	Args map[string]interface{} `yaml:"args,omitempty"`

	// Ops is the expected operation order (trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// List names the list (list_order, keys_increasing).
	List string `yaml:"list,omitempty"`

	// Values is the expected value order (list_order).
	Values []string `yaml:"values,omitempty"`

	// Table is the store table name (final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (final_state).
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect contains expected field values (final_state).
	Expect map[string]interface{} `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains  = "trace_contains"
	AssertTraceOrder     = "trace_order"
	AssertTraceCount     = "trace_count"
	AssertListOrder      = "list_order"
	AssertKeysIncreasing = "keys_increasing"
	AssertFinalState     = "final_state"
)

// LoadScenario reads and parses a scenario YAML file, resolving spec paths
// relative to the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving spec paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
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

	if s.Alphabet == "" {
		return fmt.Errorf("alphabet is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks the fields each operation needs.
func validateStep(index int, st *Step) error {
	switch st.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case OpMudder:
		return nil
	case OpCreateList, OpAppend, OpPrepend, OpRebalance:
	case OpInsertAfter:
		if st.After == "" {
			return fmt.Errorf("steps[%d]: after is required for %s", index, st.Op)
		}
	case OpInsertBefore:
		if st.Before == "" {
			return fmt.Errorf("steps[%d]: before is required for %s", index, st.Op)
		}
	case OpMove, OpRemove:
		if st.Item == "" {
			return fmt.Errorf("steps[%d]: item is required for %s", index, st.Op)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}

	if st.List == "" {
		return fmt.Errorf("steps[%d]: list is required for %s", index, st.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertListOrder:
		if a.List == "" {
			return fmt.Errorf("assertions[%d]: list is required for list_order", index)
		}
	case AssertKeysIncreasing:
		if a.List == "" {
			return fmt.Errorf("assertions[%d]: list is required for keys_increasing", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
