package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSeed is used when a scenario does not pin a seed, so every
// scenario run is reproducible.
const DefaultSeed uint64 = 1

// Scenario defines a simulator conformance scenario: one circuit, one run
// configuration, and the assertions its result must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Circuit is the path to a CUE circuit file.
	// Relative paths resolve against the scenario's base path.
	Circuit string `yaml:"circuit,omitempty"`

	// Source is inline CUE source, used instead of Circuit.
	Source string `yaml:"source,omitempty"`

	// Select names the circuit to run when the source defines several.
	Select string `yaml:"select,omitempty"`

	// Shots is the number of shots. Zero uses the engine default.
	Shots int `yaml:"shots,omitempty"`

	// Seed pins the run's randomness. Nil uses DefaultSeed.
	Seed *uint64 `yaml:"seed,omitempty"`

	// Workers bounds per-shot parallelism. Zero uses the engine default.
	Workers int `yaml:"workers,omitempty"`

	// Assertions validate the run result.
	Assertions []Assertion `yaml:"assertions"`
}

// RunSeed returns the seed the scenario runs with.
func (s *Scenario) RunSeed() uint64 {
	if s.Seed == nil {
		return DefaultSeed
	}
	return *s.Seed
}

// Assertion validates one aspect of a run result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "counts_equal": counts match exactly, no other outcomes
	// - "probabilities": probabilities match within tolerance
	// - "count_band": one outcome's count is within band of expected
	// - "marginal": shots with clbit == value are within band of expected
	// - "counts_total": counts sum to total
	// - "path": the run took the named execution path
	Type string `yaml:"type"`

	// Counts is the expected outcome histogram (counts_equal).
	Counts map[string]int `yaml:"counts,omitempty"`

	// Probabilities are the expected basis-state probabilities.
	Probabilities []float64 `yaml:"probabilities,omitempty"`

	// Tolerance is the allowed absolute error (probabilities).
	// Zero uses DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Bits is the outcome string (count_band).
	Bits string `yaml:"bits,omitempty"`

	// Clbit and Value select shots by one classical bit (marginal).
	Clbit int `yaml:"clbit,omitempty"`
	Value int `yaml:"value,omitempty"`

	// Expected and Band bound a count (count_band, marginal).
	Expected int `yaml:"expected,omitempty"`
	Band     int `yaml:"band,omitempty"`

	// Total is the expected sum of counts (counts_total).
	Total int `yaml:"total,omitempty"`

	// Path is the expected execution path (path).
	Path string `yaml:"path,omitempty"`
}

// Assertion type constants.
const (
	AssertCountsEqual   = "counts_equal"
	AssertProbabilities = "probabilities"
	AssertCountBand     = "count_band"
	AssertMarginal      = "marginal"
	AssertCountsTotal   = "counts_total"
	AssertPath          = "path"
)

// DefaultTolerance is the probabilities assertion tolerance when none is
// given.
const DefaultTolerance = 1e-9

// LoadScenario reads and parses a scenario YAML file.
// A relative circuit path resolves against the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative circuit path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Circuit != "" && !filepath.IsAbs(scenario.Circuit) && basePath != "" {
		scenario.Circuit = filepath.Join(basePath, scenario.Circuit)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if scenario.Circuit != "" {
		if _, err := os.Stat(scenario.Circuit); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: circuit file not found: %s", scenario.Circuit)
		}
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
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

	switch {
	case s.Circuit == "" && s.Source == "":
		return fmt.Errorf("one of circuit or source is required")
	case s.Circuit != "" && s.Source != "":
		return fmt.Errorf("circuit and source are mutually exclusive")
	}

	if s.Shots < 0 {
		return fmt.Errorf("shots must be non-negative, got %d", s.Shots)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", s.Workers)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
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
	case AssertCountsEqual:
		if len(a.Counts) == 0 {
			return fmt.Errorf("assertions[%d]: counts is required for counts_equal", index)
		}
		for bits, n := range a.Counts {
			if !isBitString(bits) {
				return fmt.Errorf("assertions[%d]: invalid outcome %q", index, bits)
			}
			if n < 0 {
				return fmt.Errorf("assertions[%d]: count for %q must be non-negative", index, bits)
			}
		}
	case AssertProbabilities:
		if len(a.Probabilities) == 0 {
			return fmt.Errorf("assertions[%d]: probabilities is required", index)
		}
		if a.Tolerance < 0 {
			return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
		}
	case AssertCountBand:
		if !isBitString(a.Bits) {
			return fmt.Errorf("assertions[%d]: bits must be a non-empty 0/1 string for count_band", index)
		}
		if a.Expected < 0 || a.Band < 0 {
			return fmt.Errorf("assertions[%d]: expected and band must be non-negative", index)
		}
	case AssertMarginal:
		if a.Clbit < 0 {
			return fmt.Errorf("assertions[%d]: clbit must be non-negative", index)
		}
		if a.Value != 0 && a.Value != 1 {
			return fmt.Errorf("assertions[%d]: value must be 0 or 1, got %d", index, a.Value)
		}
		if a.Expected < 0 || a.Band < 0 {
			return fmt.Errorf("assertions[%d]: expected and band must be non-negative", index)
		}
	case AssertCountsTotal:
		if a.Total <= 0 {
			return fmt.Errorf("assertions[%d]: total must be positive for counts_total", index)
		}
	case AssertPath:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

func isBitString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '0' && r != '1' {
			return false
		}
	}
	return true
}
