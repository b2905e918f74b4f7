// Package gates provides the single-qubit operator library used by the
// simulator.
//
// Every operator is a 2x2 complex matrix. Multi-qubit gates (CX, CZ, CCX,
// SWAP, CSWAP) are not matrices here: the amplitude-update engine applies
// them as controlled or permuted versions of these primitives.
//
// All matrices are unitary within DefaultTolerance. This package imports
// nothing internal.
package gates
