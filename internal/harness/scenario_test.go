package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestCircuit creates a minimal CUE circuit file for testing.
func createTestCircuit(t *testing.T, dir, name string) string {
	t.Helper()
	circuitsDir := filepath.Join(dir, "circuits")
	require.NoError(t, os.MkdirAll(circuitsDir, 0755))
	path := filepath.Join(circuitsDir, name)
	src := `circuit: flip: {qubits: 1, clbits: 1, ops: [{gate: "x", qubits: [0]}, {measure: 0}]}`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	createTestCircuit(t, dir, "flip.cue")

	path := writeScenario(t, dir, `
name: test_scenario
description: "Test scenario for validation"
circuit: circuits/flip.cue
shots: 10
seed: 5
workers: 2
assertions:
  - type: counts_total
    total: 10
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, filepath.Join(dir, "circuits", "flip.cue"), scenario.Circuit)
	assert.Equal(t, 10, scenario.Shots)
	assert.Equal(t, uint64(5), scenario.RunSeed())
	assert.Equal(t, 2, scenario.Workers)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertCountsTotal, scenario.Assertions[0].Type)
}

func TestLoadScenario_DefaultSeed(t *testing.T) {
	dir := t.TempDir()
	createTestCircuit(t, dir, "flip.cue")

	path := writeScenario(t, dir, `
name: s
description: d
circuit: circuits/flip.cue
assertions:
  - type: path
    path: batched
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Nil(t, scenario.Seed)
	assert.Equal(t, DefaultSeed, scenario.RunSeed())
}

func TestLoadScenario_ExplicitZeroSeed(t *testing.T) {
	scenario, err := ParseScenario([]byte("seed: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, scenario.Seed)
	assert.Equal(t, uint64(0), scenario.RunSeed())
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	dir := t.TempDir()
	circuitPath := createTestCircuit(t, dir, "flip.cue")
	scenarioDir := filepath.Join(dir, "scenarios")
	require.NoError(t, os.MkdirAll(scenarioDir, 0755))

	path := writeScenario(t, scenarioDir, `
name: s
description: d
circuit: flip.cue
assertions:
  - type: path
    path: batched
`)

	scenario, err := LoadScenarioWithBasePath(path, filepath.Join(dir, "circuits"))
	require.NoError(t, err)
	assert.Equal(t, circuitPath, scenario.Circuit)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	dir := t.TempDir()
	createTestCircuit(t, dir, "flip.cue")

	path := writeScenario(t, dir, `
name: s
description: d
circuit: circuits/flip.cue
assertion:
  - type: path
    path: batched
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_CircuitNotFound(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, `
name: s
description: d
circuit: missing.cue
assertions:
  - type: path
    path: batched
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit file not found")
}

func TestValidateScenario(t *testing.T) {
	valid := func() *Scenario {
		return &Scenario{
			Name:        "s",
			Description: "d",
			Source:      "circuit: x: {qubits: 1, ops: []}",
			Assertions:  []Assertion{{Type: AssertPath, Path: "batched"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{"valid", func(s *Scenario) {}, ""},
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no circuit", func(s *Scenario) { s.Source = "" }, "one of circuit or source"},
		{"both circuit and source", func(s *Scenario) { s.Circuit = "x.cue" }, "mutually exclusive"},
		{"negative shots", func(s *Scenario) { s.Shots = -1 }, "shots must be non-negative"},
		{"negative workers", func(s *Scenario) { s.Workers = -1 }, "workers must be non-negative"},
		{"no assertions", func(s *Scenario) { s.Assertions = nil }, "assertions list is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := validateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAssertion(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"missing type", Assertion{}, "type is required"},
		{"unknown type", Assertion{Type: "trace_order"}, "unknown assertion type"},
		{"counts_equal empty", Assertion{Type: AssertCountsEqual}, "counts is required"},
		{"counts_equal bad key", Assertion{Type: AssertCountsEqual, Counts: map[string]int{"0x": 1}}, "invalid outcome"},
		{"counts_equal negative", Assertion{Type: AssertCountsEqual, Counts: map[string]int{"01": -1}}, "must be non-negative"},
		{"probabilities empty", Assertion{Type: AssertProbabilities}, "probabilities is required"},
		{"probabilities negative tolerance", Assertion{Type: AssertProbabilities, Probabilities: []float64{1}, Tolerance: -1}, "tolerance"},
		{"count_band no bits", Assertion{Type: AssertCountBand, Expected: 1}, "bits must be"},
		{"count_band negative band", Assertion{Type: AssertCountBand, Bits: "0", Band: -1}, "must be non-negative"},
		{"marginal bad value", Assertion{Type: AssertMarginal, Value: 2}, "value must be 0 or 1"},
		{"marginal negative clbit", Assertion{Type: AssertMarginal, Clbit: -1}, "clbit must be non-negative"},
		{"counts_total zero", Assertion{Type: AssertCountsTotal}, "total must be positive"},
		{"path empty", Assertion{Type: AssertPath}, "path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAssertion(0, &tt.assertion)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_Testdata(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			_, err := LoadScenario(f)
			assert.NoError(t, err)
		})
	}
}
