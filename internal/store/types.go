package store

import "github.com/richarc/qx-sub001/internal/circuit"

// Run is one persisted simulation run.
type Run struct {
	ID            string
	Seq           int64 // Assigned by WriteRun
	CircuitHash   string
	Circuit       circuit.Circuit
	Shots         int
	Seed          uint64
	Path          string
	Probabilities []float64
	State         []complex128
	Counts        map[string]int
	EngineVersion string
}

// RunSummary is the row shape returned by ListRuns. It omits the circuit
// body, state and counts.
type RunSummary struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	CircuitHash   string `json:"circuit_hash"`
	CircuitName   string `json:"circuit_name"`
	Qubits        int    `json:"qubits"`
	Clbits        int    `json:"clbits"`
	Shots         int    `json:"shots"`
	Seed          uint64 `json:"seed,string"`
	Path          string `json:"path"`
	EngineVersion string `json:"engine_version"`
}
