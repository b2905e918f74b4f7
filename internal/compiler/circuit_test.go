package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richarc/qx-sub001/internal/circuit"
)

func compileSource(t *testing.T, src, path string) (*circuit.Circuit, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileCircuit(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileCircuitBell(t *testing.T) {
	c, err := compileSource(t, `
		circuit: bell: {
			qubits: 2
			clbits: 2
			ops: [
				{gate: "h", qubits: [0]},
				{gate: "cx", qubits: [0, 1]},
				{measure: 0, clbit: 0},
				{measure: 1, clbit: 1},
			]
		}
	`, "circuit.bell")
	require.NoError(t, err)

	assert.Equal(t, "bell", c.Name)
	assert.Equal(t, 2, c.NumQubits)
	assert.Equal(t, 2, c.NumClbits)
	assert.Equal(t, []circuit.Instruction{
		circuit.Gate{Kind: circuit.GateH, Qubits: []int{0}},
		circuit.Gate{Kind: circuit.GateCX, Qubits: []int{0, 1}},
		circuit.Measure{Qubit: 0, Clbit: 0},
		circuit.Measure{Qubit: 1, Clbit: 1},
	}, c.Instructions)
}

func TestCompileCircuitConditionalAndParams(t *testing.T) {
	c, err := compileSource(t, `
		circuit: fb: {
			name: "feedback"
			qubits: 2
			clbits: 1
			ops: [
				{gate: "ry", qubits: [0], params: [1.25]},
				{gate: "rz", qubits: [1], params: [2]},
				{barrier: [0, 1]},
				{measure: 0},
				{when: {clbit: 0, value: 1}, then: [
					{gate: "x", qubits: [1]},
					{gate: "cnot", qubits: [1, 0]},
				]},
			]
		}
	`, "circuit.fb")
	require.NoError(t, err)

	assert.Equal(t, "feedback", c.Name)
	require.Len(t, c.Instructions, 5)
	assert.Equal(t, circuit.Gate{Kind: circuit.GateRY, Qubits: []int{0}, Params: []float64{1.25}}, c.Instructions[0])
	assert.Equal(t, circuit.Gate{Kind: circuit.GateRZ, Qubits: []int{1}, Params: []float64{2}}, c.Instructions[1])
	assert.Equal(t, circuit.Barrier{Qubits: []int{0, 1}}, c.Instructions[2])
	assert.Equal(t, circuit.Measure{Qubit: 0, Clbit: 0}, c.Instructions[3], "clbit defaults to the qubit index")
	assert.Equal(t, circuit.Conditional{
		Clbit: 0,
		Value: 1,
		Body: []circuit.SimpleInstruction{
			circuit.Gate{Kind: circuit.GateX, Qubits: []int{1}},
			circuit.Gate{Kind: circuit.GateCX, Qubits: []int{1, 0}},
		},
	}, c.Instructions[4])
}

func TestCompileCircuitErrors(t *testing.T) {
	tests := []struct {
		name  string
		ops   string
		field string
		msg   string
	}{
		{"unknown gate", `{gate: "sqrtx", qubits: [0]}`, "gate", "unknown gate"},
		{"missing qubits", `{gate: "h"}`, "gate", "requires qubits"},
		{"wrong arity", `{gate: "cx", qubits: [0]}`, "gate", "takes 2 qubit(s)"},
		{"missing param", `{gate: "rx", qubits: [0]}`, "params", "takes 1 parameter(s)"},
		{"extra param", `{gate: "h", qubits: [0], params: [1]}`, "params", "takes 0 parameter(s)"},
		{"non-numeric param", `{gate: "rx", qubits: [0], params: ["pi"]}`, "params", "must be a number"},
		{"unknown op", `{reset: 0}`, "ops", "must have one of"},
		{"measure in body", `{when: {clbit: 0, value: 1}, then: [{measure: 0}]}`, "when", "measure is not allowed"},
		{"nested when", `{when: {clbit: 0, value: 1}, then: [{when: {clbit: 0, value: 0}, then: []}]}`, "when", "nested conditional"},
		{"bad value", `{when: {clbit: 0, value: 3}, then: []}`, "when", "value must be 0 or 1"},
		{"missing then", `{when: {clbit: 0, value: 1}}`, "when", "then is required"},
		{"qubit out of range", `{gate: "x", qubits: [4]}`, "bounds", "out of range"},
		{"duplicate operand", `{gate: "swap", qubits: [1, 1]}`, "bounds", "duplicate qubit"},
		{"clbit out of range", `{measure: 0, clbit: 9}`, "bounds", "classical bit 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `circuit: bad: { qubits: 2, clbits: 1, ops: [` + tt.ops + `] }`

			_, err := compileSource(t, src, "circuit.bad")

			require.Error(t, err)
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Contains(t, ce.Message, tt.msg)
		})
	}
}

func TestCompileCircuitMissingFields(t *testing.T) {
	_, err := compileSource(t, `circuit: c: { ops: [] }`, "circuit.c")
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "qubits", ce.Field)

	_, err = compileSource(t, `circuit: c: { qubits: 1 }`, "circuit.c")
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ops", ce.Field)

	_, err = compileSource(t, `circuit: c: { qubits: 1.5, ops: [] }`, "circuit.c")
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "qubits", ce.Field)
}

func TestCompileCircuitNoClbits(t *testing.T) {
	c, err := compileSource(t, `circuit: ghz: { qubits: 3, ops: [
		{gate: "h", qubits: [0]},
		{gate: "cx", qubits: [0, 1]},
		{gate: "toffoli", qubits: [0, 1, 2]},
	] }`, "circuit.ghz")
	require.NoError(t, err)

	assert.Equal(t, 0, c.NumClbits)
	assert.Equal(t, circuit.GateCCX, c.Instructions[2].(circuit.Gate).Kind)
}

func TestCompileErrorFormat(t *testing.T) {
	e := &CompileError{Field: "gate", Message: "unknown gate"}
	assert.Equal(t, "gate: unknown gate", e.Error())
}
