package harness

import (
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/richarc/qx-sub001/internal/circuit"
)

// ProbabilityDigits is the number of decimals probabilities keep in a
// snapshot. Rounding keeps snapshots stable across platforms.
const ProbabilityDigits = 6

// Snapshot captures the reproducible part of a scenario execution.
// Snapshots serialize with canonical JSON, so identical runs produce
// identical bytes.
type Snapshot struct {
	ScenarioName  string
	Circuit       string
	Path          string
	Shots         int
	Seed          uint64
	Counts        map[string]int
	Probabilities []float64
}

// NewSnapshot builds the snapshot of a scenario result.
func NewSnapshot(scenario *Scenario, result *Result) Snapshot {
	return Snapshot{
		ScenarioName:  scenario.Name,
		Circuit:       result.Circuit,
		Path:          string(result.Run.Path),
		Shots:         result.Run.Shots,
		Seed:          result.Run.Seed,
		Counts:        result.Run.Counts,
		Probabilities: result.Run.Probabilities,
	}
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON.
// Canonical JSON has no floats, so probabilities are fixed-point strings;
// seeds exceed int64 and are decimal strings.
func (s *Snapshot) toCanonicalMap() map[string]any {
	counts := make(map[string]any, len(s.Counts))
	for k, n := range s.Counts {
		counts[k] = n
	}

	probs := make([]any, len(s.Probabilities))
	for i, p := range s.Probabilities {
		probs[i] = strconv.FormatFloat(p, 'f', ProbabilityDigits, 64)
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"circuit":       s.Circuit,
		"path":          s.Path,
		"shots":         s.Shots,
		"seed":          strconv.FormatUint(s.Seed, 10),
		"counts":        counts,
		"probabilities": probs,
	}
}

// Marshal serializes the snapshot as canonical JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return circuit.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against its golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	snapshot := NewSnapshot(scenario, result)
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
