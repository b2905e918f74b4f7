// Package statevec holds the amplitude vector of an n-qubit register and the
// in-place operations the simulator performs on it.
//
// Qubit 0 is the most significant bit of a basis-state index and qubit n-1
// the least significant, so qubit q corresponds to the bit mask
// 1 << (n-1-q). Every gate application touches amplitudes pairwise: the two
// indices of a pair differ only in the target bit.
//
// Randomness is always supplied by the caller through the Rand interface;
// nothing in this package reads a global source.
package statevec
