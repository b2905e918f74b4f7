// Package queryir provides an abstract query representation for filtering
// stored simulation runs.
//
// Callers (the CLI history command, tests) describe what they want with
// Select and a Predicate tree; the querysql backend turns that into
// parameterized SQLite. Nothing outside querysql ever builds SQL text.
//
//	[history flags] → [Query IR] → [SQL Backend]
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed with unexported marker methods, so backend
// type switches are exhaustive.
//
// Supported predicates:
//   - Equals: field = literal
//   - AtLeast: field >= literal
//   - And: all predicates must be true
//
// Literals are strings or integers. Floats are rejected so filters compare
// exactly.
package queryir
