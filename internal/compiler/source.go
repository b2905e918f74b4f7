package compiler

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/richarc/qx-sub001/internal/circuit"
)

// CompileCircuits compiles every circuit declared under the top-level
// circuit field of v, in declaration order.
func CompileCircuits(v cue.Value) ([]*circuit.Circuit, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	circuitsVal := v.LookupPath(cue.ParsePath("circuit"))
	if !circuitsVal.Exists() {
		return nil, &CompileError{Field: "circuit", Message: "no circuit definitions found"}
	}

	iter, err := circuitsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var circuits []*circuit.Circuit
	for iter.Next() {
		c, err := CompileCircuit(iter.Value())
		if err != nil {
			return nil, err
		}
		circuits = append(circuits, c)
	}

	if len(circuits) == 0 {
		return nil, &CompileError{Field: "circuit", Message: "no circuit definitions found", Pos: circuitsVal.Pos()}
	}
	return circuits, nil
}

// CompileSource compiles CUE source text. filename only labels positions
// in errors.
func CompileSource(filename string, src []byte) ([]*circuit.Circuit, error) {
	ctx := cuecontext.New()
	return CompileCircuits(ctx.CompileBytes(src, cue.Filename(filename)))
}

// Select returns the circuit named name, or the only circuit when name is
// empty.
func Select(circuits []*circuit.Circuit, name string) (*circuit.Circuit, error) {
	if name == "" {
		if len(circuits) != 1 {
			return nil, &CompileError{Field: "circuit", Message: "multiple circuits defined; select one by name"}
		}
		return circuits[0], nil
	}
	for _, c := range circuits {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, &CompileError{Field: "circuit", Message: "circuit " + name + " not found"}
}
