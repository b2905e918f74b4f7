package testutil

import "sync"

// ScriptedRand is a uniform source that returns a fixed script of values in
// order, cycling when it runs out.
//
// It lets measurement and sampling tests force a specific outcome without
// searching for a seed. Satisfies statevec.Rand.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ScriptedRand struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

// NewScriptedRand creates a source that replays values.
//
// With no values every draw returns 0.
func NewScriptedRand(values ...float64) *ScriptedRand {
	return &ScriptedRand{values: values}
}

// Float64 returns the next scripted value.
func (r *ScriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.pos%len(r.values)]
	r.pos++
	return v
}

// Draws returns how many values have been consumed.
func (r *ScriptedRand) Draws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

// Reset rewinds the script to its first value.
func (r *ScriptedRand) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pos = 0
}
