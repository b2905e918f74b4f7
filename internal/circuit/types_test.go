package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBits_String(t *testing.T) {
	assert.Equal(t, "10", Bits{1, 0}.String())
	assert.Equal(t, "011", Bits{0, 1, 1}.String())
	assert.Equal(t, "", Bits{}.String())
}

func TestBits_Clone(t *testing.T) {
	b := Bits{1, 0}
	c := b.Clone()
	b[0] = 0
	assert.Equal(t, Bits{1, 0}, c)
}

func TestUnwrap(t *testing.T) {
	g := &Gate{Kind: GateX, Qubits: []int{0}}
	assert.Equal(t, *g, Unwrap(g))

	var nilGate *Gate
	assert.Nil(t, Unwrap(nilGate))

	m := Measure{Qubit: 1, Clbit: 0}
	assert.Equal(t, m, Unwrap(m))
	assert.Equal(t, m, Unwrap(&m))
}

func TestCircuit_Classification(t *testing.T) {
	pure := Circuit{
		NumQubits: 2,
		Instructions: []Instruction{
			Gate{Kind: GateH, Qubits: []int{0}},
			Barrier{Qubits: []int{0, 1}},
		},
	}
	assert.False(t, pure.HasConditional())
	assert.False(t, pure.HasMeasurement())
	assert.Empty(t, pure.Measurements())

	measured := Circuit{
		NumQubits: 1,
		NumClbits: 1,
		Instructions: []Instruction{
			Gate{Kind: GateH, Qubits: []int{0}},
			&Measure{Qubit: 0, Clbit: 0},
		},
	}
	assert.False(t, measured.HasConditional())
	assert.True(t, measured.HasMeasurement())
	assert.Equal(t, []Measure{{Qubit: 0, Clbit: 0}}, measured.Measurements())

	fed := Circuit{
		NumQubits: 2,
		NumClbits: 1,
		Instructions: []Instruction{
			Measure{Qubit: 0, Clbit: 0},
			Conditional{Clbit: 0, Value: 1, Body: []SimpleInstruction{Gate{Kind: GateX, Qubits: []int{1}}}},
		},
	}
	assert.True(t, fed.HasConditional())
	assert.True(t, fed.HasMeasurement())
}
