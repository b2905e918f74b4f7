package statevec

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/richarc/qx-sub001/internal/gates"
)

// MaxQubits bounds the register size. 2^24 amplitudes is 256 MiB.
const MaxQubits = 24

// Vector is the state of an n-qubit register.
//
// A Vector is owned by a single goroutine. Callers that need a snapshot use
// Clone; nothing returned from this package aliases a live vector.
type Vector struct {
	NumQubits  int
	Amplitudes []complex128
}

// New returns |0...0> on n qubits.
func New(n int) (*Vector, error) {
	if n < 0 || n > MaxQubits {
		return nil, fmt.Errorf("qubit count %d out of range [0, %d]", n, MaxQubits)
	}
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &Vector{NumQubits: n, Amplitudes: amps}, nil
}

// FromAmplitudes wraps a copy of amps. len(amps) must be a power of two.
func FromAmplitudes(amps []complex128) (*Vector, error) {
	n := 0
	for 1<<n < len(amps) {
		n++
	}
	if len(amps) == 0 || 1<<n != len(amps) {
		return nil, fmt.Errorf("amplitude count %d is not a power of two", len(amps))
	}
	cp := make([]complex128, len(amps))
	copy(cp, amps)
	return &Vector{NumQubits: n, Amplitudes: cp}, nil
}

// Clone returns a deep copy of v.
func (v *Vector) Clone() *Vector {
	cp := make([]complex128, len(v.Amplitudes))
	copy(cp, v.Amplitudes)
	return &Vector{NumQubits: v.NumQubits, Amplitudes: cp}
}

// Mask returns the basis-index bit mask of qubit q.
func (v *Vector) Mask(q int) int {
	return 1 << (v.NumQubits - 1 - q)
}

// Apply1 applies m to qubit q.
func (v *Vector) Apply1(m gates.Matrix, q int) {
	v.ApplyControlled(m, nil, q)
}

// ApplyControlled applies m to target on the subspace where every control
// qubit is 1. With no controls it is a plain single-qubit update.
func (v *Vector) ApplyControlled(m gates.Matrix, controls []int, target int) {
	tmask := v.Mask(target)
	cmask := 0
	for _, c := range controls {
		cmask |= v.Mask(c)
	}

	amps := v.Amplitudes
	for i0 := range amps {
		if i0&tmask != 0 || i0&cmask != cmask {
			continue
		}
		i1 := i0 | tmask
		a0, a1 := amps[i0], amps[i1]
		amps[i0] = m[0][0]*a0 + m[0][1]*a1
		amps[i1] = m[1][0]*a0 + m[1][1]*a1
	}
}

// Swap exchanges qubits a and b.
func (v *Vector) Swap(a, b int) {
	v.ControlledSwap(nil, a, b)
}

// ControlledSwap exchanges qubits a and b on the subspace where every
// control qubit is 1.
func (v *Vector) ControlledSwap(controls []int, a, b int) {
	amask, bmask := v.Mask(a), v.Mask(b)
	cmask := 0
	for _, c := range controls {
		cmask |= v.Mask(c)
	}

	amps := v.Amplitudes
	for i := range amps {
		// Visit each |..1..0..> / |..0..1..> pair once, from the a=1 side.
		if i&amask == 0 || i&bmask != 0 || i&cmask != cmask {
			continue
		}
		j := (i &^ amask) | bmask
		amps[i], amps[j] = amps[j], amps[i]
	}
}

// Probabilities returns |a_i|^2 for every basis state.
func (v *Vector) Probabilities() []float64 {
	probs := make([]float64, len(v.Amplitudes))
	for i, a := range v.Amplitudes {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// Norm returns the total probability Σ|a_i|^2.
func (v *Vector) Norm() float64 {
	total := 0.0
	for _, a := range v.Amplitudes {
		total += real(a)*real(a) + imag(a)*imag(a)
	}
	return total
}

// IsNormalized reports whether the total probability is 1 within tol.
func (v *Vector) IsNormalized(tol float64) bool {
	return math.Abs(v.Norm()-1) <= tol
}

// ApproxEqual reports whether v and o agree amplitude-wise within tol.
func (v *Vector) ApproxEqual(o *Vector, tol float64) bool {
	if v.NumQubits != o.NumQubits {
		return false
	}
	for i := range v.Amplitudes {
		if cmplx.Abs(v.Amplitudes[i]-o.Amplitudes[i]) > tol {
			return false
		}
	}
	return true
}

// BitAt returns the value of qubit q in basis index on an n-qubit register.
func BitAt(index, q, n int) uint8 {
	return uint8((index >> (n - 1 - q)) & 1)
}
