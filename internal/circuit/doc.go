// Package circuit defines the instruction AST consumed by the simulator.
//
// This package contains the circuit data model and its wire forms only. It
// imports nothing internal, so every other package can depend on it without
// cycles.
//
// Key design constraints:
//   - Instruction is a closed set: Gate, Measure, Conditional, Barrier
//   - A Conditional body holds SimpleInstruction values, which only Gate
//     implements, so nested conditionals and measurements cannot be expressed
//   - Circuits are immutable once built; the engine never mutates them
//   - Canonical JSON carries no floats; gate parameters are hashed as their
//     IEEE-754 bit patterns
//   - All JSON tags use snake_case
package circuit
