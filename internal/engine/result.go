package engine

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/richarc/qx-sub001/internal/circuit"
)

// Path names the execution strategy a run took.
type Path string

const (
	// PathBatched evolves once and samples every shot from one distribution.
	PathBatched Path = "batched"

	// PathPerShot interprets the circuit once per shot with collapse.
	PathPerShot Path = "per_shot"
)

// Result is the outcome of a run.
type Result struct {
	// Probabilities are the basis-state probabilities of State.
	Probabilities []float64

	// ClassicalBits holds the register of every shot, in shot order.
	ClassicalBits []circuit.Bits

	// State is the representative final state. On the batched path it is
	// the evolved pre-measurement state. On the per-shot path it is the
	// post-collapse state of the last shot (index Shots-1), one sample of a
	// shot-dependent quantity.
	State []complex128

	// Shots is the number of shots executed.
	Shots int

	// Counts maps each register string to the number of shots that
	// produced it.
	Counts Counts

	// Path is the execution strategy taken.
	Path Path

	// Seed reproduces this result when passed to WithSeed.
	Seed uint64
}

// Amplitude is the JSON form of one complex amplitude.
type Amplitude struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// Amplitudes converts a state to its JSON form.
func Amplitudes(state []complex128) []Amplitude {
	out := make([]Amplitude, len(state))
	for i, a := range state {
		out[i] = Amplitude{Re: real(a), Im: imag(a)}
	}
	return out
}

// ComplexState converts amplitudes back to a state.
func ComplexState(amps []Amplitude) []complex128 {
	out := make([]complex128, len(amps))
	for i, a := range amps {
		out[i] = complex(a.Re, a.Im)
	}
	return out
}

type resultJSON struct {
	Probabilities []float64   `json:"probabilities"`
	ClassicalBits []string    `json:"classical_bits"`
	State         []Amplitude `json:"state"`
	Shots         int         `json:"shots"`
	Counts        Counts      `json:"counts"`
	Path          Path        `json:"path"`
	Seed          uint64      `json:"seed,string"`
}

// MarshalJSON encodes registers as bit strings and amplitudes as {re, im}.
func (r *Result) MarshalJSON() ([]byte, error) {
	bits := make([]string, len(r.ClassicalBits))
	for i, b := range r.ClassicalBits {
		bits[i] = b.String()
	}
	counts := r.Counts
	if counts == nil {
		counts = Counts{}
	}
	return json.Marshal(resultJSON{
		Probabilities: r.Probabilities,
		ClassicalBits: bits,
		State:         Amplitudes(r.State),
		Shots:         r.Shots,
		Counts:        counts,
		Path:          r.Path,
		Seed:          r.Seed,
	})
}

// Counts aggregates classical registers. Merging is associative and
// commutative, so partial counts from parallel workers can be combined in
// any order.
type Counts map[string]int

// Add records one observation of bits.
func (c Counts) Add(bits circuit.Bits) {
	c[bits.String()]++
}

// Merge adds every count of o into c.
func (c Counts) Merge(o Counts) {
	for k, n := range o {
		c[k] += n
	}
}

// Get returns the count for a register string, 0 if never observed.
func (c Counts) Get(key string) int {
	return c[key]
}

// Total returns the number of observations.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Keys returns the observed register strings in lexical order.
func (c Counts) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}
