package store

import (
	"path/filepath"
	"testing"

	"github.com/richarc/qx-sub001/internal/circuit"
)

// createTestStore creates a new on-disk store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id, name string, shots int) Run {
	c := circuit.Circuit{
		Name:      name,
		NumQubits: 2,
		NumClbits: 2,
		Instructions: []circuit.Instruction{
			circuit.Gate{Kind: circuit.GateH, Qubits: []int{0}},
			circuit.Gate{Kind: circuit.GateCX, Qubits: []int{0, 1}},
			circuit.Measure{Qubit: 0, Clbit: 0},
			circuit.Measure{Qubit: 1, Clbit: 1},
		},
	}
	return Run{
		ID:            id,
		CircuitHash:   "hash-" + name,
		Circuit:       c,
		Shots:         shots,
		Seed:          42,
		Path:          "batched",
		Probabilities: []float64{0.5, 0, 0, 0.5},
		State:         []complex128{complex(0.7071067811865476, 0), 0, 0, complex(0.7071067811865476, 0)},
		Counts:        map[string]int{"00": shots / 2, "11": shots - shots/2},
		EngineVersion: circuit.EngineVersion,
	}
}
