package circuit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_ValidCircuit(t *testing.T) {
	c := Circuit{
		Name:      "teleport",
		NumQubits: 3,
		NumClbits: 2,
		Instructions: []Instruction{
			Gate{Kind: GateRY, Qubits: []int{0}, Params: []float64{0.4}},
			Gate{Kind: GateH, Qubits: []int{1}},
			Gate{Kind: GateCX, Qubits: []int{1, 2}},
			Barrier{Qubits: []int{0, 1, 2}},
			Measure{Qubit: 0, Clbit: 0},
			Measure{Qubit: 1, Clbit: 1},
			Conditional{Clbit: 1, Value: 1, Body: []SimpleInstruction{Gate{Kind: GateX, Qubits: []int{2}}}},
			Conditional{Clbit: 0, Value: 1, Body: []SimpleInstruction{Gate{Kind: GateZ, Qubits: []int{2}}}},
		},
	}

	assert.Empty(t, c.Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		inst  Instruction
		field string
	}{
		{"qubit out of range", Gate{Kind: GateH, Qubits: []int{2}}, "ops[0].qubits[0]"},
		{"negative qubit", Gate{Kind: GateH, Qubits: []int{-1}}, "ops[0].qubits[0]"},
		{"wrong arity", Gate{Kind: GateCX, Qubits: []int{0}}, "ops[0].qubits"},
		{"duplicate operand", Gate{Kind: GateCX, Qubits: []int{1, 1}}, "ops[0].qubits[1]"},
		{"missing param", Gate{Kind: GateRX, Qubits: []int{0}}, "ops[0].params"},
		{"nan param", Gate{Kind: GateRX, Qubits: []int{0}, Params: []float64{math.NaN()}}, "ops[0].params[0]"},
		{"unknown gate", Gate{Kind: GateKind(42), Qubits: []int{0}}, "ops[0].gate"},
		{"measure clbit out of range", Measure{Qubit: 0, Clbit: 1}, "ops[0].clbit"},
		{"conditional value", Conditional{Clbit: 0, Value: 2}, "ops[0].value"},
		{"conditional nil body", Conditional{Clbit: 0, Value: 1, Body: []SimpleInstruction{nil}}, "ops[0].body[0]"},
		{"conditional bad gate", Conditional{Clbit: 0, Value: 0, Body: []SimpleInstruction{Gate{Kind: GateX, Qubits: []int{5}}}}, "ops[0].body[0].qubits[0]"},
		{"barrier out of range", Barrier{Qubits: []int{3}}, "ops[0].qubits[0]"},
		{"nil instruction", nil, "ops[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Circuit{NumQubits: 2, NumClbits: 1, Instructions: []Instruction{tt.inst}}

			errs := c.Validate()

			if assert.NotEmpty(t, errs) {
				fields := make([]string, len(errs))
				for i, e := range errs {
					fields[i] = e.Field
				}
				assert.Contains(t, fields, tt.field)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	c := Circuit{
		NumQubits: 1,
		NumClbits: 0,
		Instructions: []Instruction{
			Gate{Kind: GateH, Qubits: []int{1}},
			Measure{Qubit: 0, Clbit: 0},
		},
	}

	errs := c.Validate()
	assert.Len(t, errs, 2)
	assert.Equal(t, "ops[0].qubits[0]: qubit 1 out of range [0, 1)", errs[0].Error())
}
