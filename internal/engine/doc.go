// Package engine runs circuits on the state-vector simulator.
//
// The engine classifies a circuit once and then takes one of two paths.
//
// Batched path (no Conditional):
// 1. Evolve |0...0> through every Gate in order; Measure and Barrier do not
//    touch the state
// 2. Compute the probability vector once
// 3. Draw every shot from the cumulative distribution
// 4. Extract each declared (qubit, clbit) pair from the sampled index
//
// Per-shot path (at least one Conditional):
// Each shot starts from |0...0> with a zeroed classical register and
// interprets the instructions in order. Measure collapses the working state
// and writes a classical bit; Conditional applies its body only when the
// register matches. Shots run in parallel across a bounded worker group and
// share nothing but the final count merge.
//
// DETERMINISM:
//
// Every random draw comes from a PCG source derived from the run seed and
// the shot index, so a seeded run produces identical results for any worker
// count. Unseeded runs draw a fresh seed and report it in Result.Seed.
//
// FAILURE:
//
// The circuit is checked before any shot executes. Unsupported gates, bad
// parameters and malformed conditionals abort the run with a *SimError and
// no partial result.
package engine
