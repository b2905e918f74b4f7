// Package harness provides scenario-driven conformance testing for the
// simulator.
//
// A scenario is a YAML file naming a CUE circuit (by file or inline
// source), a run configuration, and assertions over the result:
//
//	name: bell_counts
//	description: "Bell pair splits evenly between 00 and 11"
//	circuit: circuits/basic.cue
//	select: bell
//	shots: 1000
//	seed: 42
//	assertions:
//	  - type: count_band
//	    bits: "00"
//	    expected: 500
//	    band: 150
//	  - type: counts_total
//	    total: 1000
//
// Runs are always seeded (DefaultSeed when the scenario omits one), so a
// scenario's Snapshot is reproducible and can be compared against a
// golden file with RunWithGolden or AssertGolden.
package harness
