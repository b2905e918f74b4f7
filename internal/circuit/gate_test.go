package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGateKind(t *testing.T) {
	tests := []struct {
		name string
		want GateKind
	}{
		{"h", GateH},
		{"H", GateH},
		{"hadamard", GateH},
		{"cx", GateCX},
		{"CNOT", GateCX},
		{"ccx", GateCCX},
		{"toffoli", GateCCX},
		{"fredkin", GateCSwap},
		{"p", GatePhase},
		{"phase", GatePhase},
		{"u1", GatePhase},
		{" rz ", GateRZ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGateKind(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGateKind_Unknown(t *testing.T) {
	_, err := ParseGateKind("sqrtx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqrtx")
}

func TestGateKind_Shape(t *testing.T) {
	assert.Equal(t, 1, GateH.Arity())
	assert.Equal(t, 0, GateH.NumParams())
	assert.Equal(t, 1, GateRY.NumParams())
	assert.Equal(t, 2, GateCZ.Arity())
	assert.Equal(t, 3, GateCSwap.Arity())

	assert.False(t, GateInvalid.Valid())
	assert.False(t, GateKind(99).Valid())
	assert.Equal(t, 0, GateKind(99).Arity())
	assert.Equal(t, "gate(99)", GateKind(99).String())
}

func TestGateKinds_RoundTripNames(t *testing.T) {
	kinds := GateKinds()
	assert.Len(t, kinds, 15)

	for _, k := range kinds {
		got, err := ParseGateKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
}
