package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/richarc/qx-sub001/internal/circuit"
)

// CompileCircuit parses a CUE value into a Circuit.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the circuit struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`circuit: bell: { qubits: 2, clbits: 2, ops: [...] }`)
//	c, err := CompileCircuit(v.LookupPath(cue.ParsePath("circuit.bell")))
//
// Each entry of ops is one of:
//
//	{gate: "h", qubits: [0]}
//	{gate: "rx", qubits: [1], params: [math.Pi / 2]}
//	{measure: 0, clbit: 0}
//	{barrier: [0, 1]}
//	{when: {clbit: 0, value: 1}, then: [{gate: "x", qubits: [1]}]}
//
// The compiled circuit is structurally validated; the first problem is
// reported with the position of the offending op.
func CompileCircuit(v cue.Value) (*circuit.Circuit, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &circuit.Circuit{}

	// Name from struct label, overridable with an explicit name field
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		c.Name = labels[len(labels)-1].String()
	}
	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		c.Name = name
	}

	var err error
	c.NumQubits, err = requiredInt(v, "qubits")
	if err != nil {
		return nil, err
	}

	// clbits is optional, defaults to 0
	if clVal := v.LookupPath(cue.ParsePath("clbits")); clVal.Exists() {
		c.NumClbits, err = intValue(clVal, "clbits")
		if err != nil {
			return nil, err
		}
	}

	opsVal := v.LookupPath(cue.ParsePath("ops"))
	if !opsVal.Exists() {
		return nil, &CompileError{
			Field:   "ops",
			Message: "ops is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := opsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var positions []token.Pos
	for iter.Next() {
		opVal := iter.Value()
		inst, err := parseOp(opVal, false)
		if err != nil {
			return nil, err
		}
		c.Instructions = append(c.Instructions, inst)
		positions = append(positions, opVal.Pos())
	}

	if errs := c.Validate(); len(errs) > 0 {
		pos := v.Pos()
		var idx int
		if _, scanErr := fmt.Sscanf(errs[0].Field, "ops[%d]", &idx); scanErr == nil && idx < len(positions) {
			pos = positions[idx]
		}
		return nil, &CompileError{
			Field:   "bounds",
			Message: errs[0].Error(),
			Pos:     pos,
		}
	}

	return c, nil
}

// parseOp dispatches on the discriminating field of an op struct.
func parseOp(v cue.Value, inBody bool) (circuit.Instruction, error) {
	switch {
	case v.LookupPath(cue.ParsePath("gate")).Exists():
		return parseGate(v)
	case v.LookupPath(cue.ParsePath("measure")).Exists():
		if inBody {
			return nil, &CompileError{Field: "when", Message: "measure is not allowed in a conditional body", Pos: v.Pos()}
		}
		return parseMeasure(v)
	case v.LookupPath(cue.ParsePath("barrier")).Exists():
		if inBody {
			return nil, &CompileError{Field: "when", Message: "barrier is not allowed in a conditional body", Pos: v.Pos()}
		}
		return parseBarrier(v)
	case v.LookupPath(cue.ParsePath("when")).Exists():
		if inBody {
			return nil, &CompileError{Field: "when", Message: "nested conditional is not allowed", Pos: v.Pos()}
		}
		return parseConditional(v)
	default:
		return nil, &CompileError{
			Field:   "ops",
			Message: "op must have one of: gate, measure, barrier, when",
			Pos:     v.Pos(),
		}
	}
}

// parseGate parses {gate, qubits, params?}.
func parseGate(v cue.Value) (circuit.Gate, error) {
	nameVal := v.LookupPath(cue.ParsePath("gate"))
	name, err := nameVal.String()
	if err != nil {
		return circuit.Gate{}, formatCUEError(err)
	}

	kind, err := circuit.ParseGateKind(name)
	if err != nil {
		return circuit.Gate{}, &CompileError{
			Field:   "gate",
			Message: err.Error(),
			Pos:     nameVal.Pos(),
		}
	}

	qubitsVal := v.LookupPath(cue.ParsePath("qubits"))
	if !qubitsVal.Exists() {
		return circuit.Gate{}, &CompileError{
			Field:   "gate",
			Message: fmt.Sprintf("gate %s requires qubits", kind),
			Pos:     v.Pos(),
		}
	}
	qubits, err := intList(qubitsVal, "qubits")
	if err != nil {
		return circuit.Gate{}, err
	}
	if len(qubits) != kind.Arity() {
		return circuit.Gate{}, &CompileError{
			Field:   "gate",
			Message: fmt.Sprintf("%s takes %d qubit(s), got %d", kind, kind.Arity(), len(qubits)),
			Pos:     qubitsVal.Pos(),
		}
	}

	var params []float64
	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if paramsVal.Exists() {
		params, err = floatList(paramsVal)
		if err != nil {
			return circuit.Gate{}, err
		}
	}
	if len(params) != kind.NumParams() {
		pos := v.Pos()
		if paramsVal.Exists() {
			pos = paramsVal.Pos()
		}
		return circuit.Gate{}, &CompileError{
			Field:   "params",
			Message: fmt.Sprintf("%s takes %d parameter(s), got %d", kind, kind.NumParams(), len(params)),
			Pos:     pos,
		}
	}

	return circuit.Gate{Kind: kind, Qubits: qubits, Params: params}, nil
}

// parseMeasure parses {measure: qubit, clbit}. clbit defaults to the
// measured qubit index.
func parseMeasure(v cue.Value) (circuit.Measure, error) {
	q, err := intValue(v.LookupPath(cue.ParsePath("measure")), "measure")
	if err != nil {
		return circuit.Measure{}, err
	}

	clbit := q
	if clVal := v.LookupPath(cue.ParsePath("clbit")); clVal.Exists() {
		clbit, err = intValue(clVal, "measure")
		if err != nil {
			return circuit.Measure{}, err
		}
	}

	return circuit.Measure{Qubit: q, Clbit: clbit}, nil
}

// parseBarrier parses {barrier: [qubits]}.
func parseBarrier(v cue.Value) (circuit.Barrier, error) {
	qubits, err := intList(v.LookupPath(cue.ParsePath("barrier")), "barrier")
	if err != nil {
		return circuit.Barrier{}, err
	}
	return circuit.Barrier{Qubits: qubits}, nil
}

// parseConditional parses {when: {clbit, value}, then: [gate ops]}.
func parseConditional(v cue.Value) (circuit.Conditional, error) {
	condVal := v.LookupPath(cue.ParsePath("when"))

	clbit, err := requiredInt(condVal, "clbit")
	if err != nil {
		return circuit.Conditional{}, err
	}
	value, err := requiredInt(condVal, "value")
	if err != nil {
		return circuit.Conditional{}, err
	}
	if value != 0 && value != 1 {
		return circuit.Conditional{}, &CompileError{
			Field:   "when",
			Message: fmt.Sprintf("value must be 0 or 1, got %d", value),
			Pos:     condVal.Pos(),
		}
	}

	thenVal := v.LookupPath(cue.ParsePath("then"))
	if !thenVal.Exists() {
		return circuit.Conditional{}, &CompileError{
			Field:   "when",
			Message: "then is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := thenVal.List()
	if err != nil {
		return circuit.Conditional{}, formatCUEError(err)
	}

	var body []circuit.SimpleInstruction
	for iter.Next() {
		inst, err := parseOp(iter.Value(), true)
		if err != nil {
			return circuit.Conditional{}, err
		}
		simple, ok := inst.(circuit.SimpleInstruction)
		if !ok {
			return circuit.Conditional{}, &CompileError{
				Field:   "when",
				Message: "conditional body may only contain gates",
				Pos:     iter.Value().Pos(),
			}
		}
		body = append(body, simple)
	}

	return circuit.Conditional{Clbit: clbit, Value: value, Body: body}, nil
}

func requiredInt(v cue.Value, field string) (int, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	return intValue(fv, field)
}

func intValue(v cue.Value, field string) (int, error) {
	n, err := v.Int64()
	if err != nil {
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("must be an integer: %v", err),
			Pos:     v.Pos(),
		}
	}
	return int(n), nil
}

func intList(v cue.Value, field string) ([]int, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: "must be a list of integers",
			Pos:     v.Pos(),
		}
	}

	out := []int{}
	for iter.Next() {
		n, err := intValue(iter.Value(), field)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func floatList(v cue.Value) ([]float64, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "params",
			Message: "must be a list of numbers",
			Pos:     v.Pos(),
		}
	}

	var out []float64
	for iter.Next() {
		f, err := iter.Value().Float64()
		if err != nil {
			return nil, &CompileError{
				Field:   "params",
				Message: fmt.Sprintf("must be a number: %v", err),
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, f)
	}
	return out, nil
}
