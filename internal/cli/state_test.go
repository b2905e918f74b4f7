package cli

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richarc/qx-sub001/internal/engine"
)

func TestStateCommand_Text(t *testing.T) {
	out, _, err := executeCommand(t, "state", "--circuit", "bell_prep", "testdata/circuits")
	require.NoError(t, err)

	assert.Contains(t, out, "circuit: bell_prep  qubits: 2")
	assert.Contains(t, out, "|00>")
	assert.Contains(t, out, "|11>")
	assert.NotContains(t, out, "|01>")
	assert.Contains(t, out, "0.707107 + 0.000000i")
	assert.Contains(t, out, "0.500000")
}

func TestStateCommand_All(t *testing.T) {
	out, _, err := executeCommand(t, "state", "--circuit", "bell_prep", "--all", "testdata/circuits")
	require.NoError(t, err)

	assert.Contains(t, out, "|01>")
	assert.Contains(t, out, "|10>")
}

func TestStateCommand_JSON(t *testing.T) {
	out, _, err := executeCommand(t, "state", "--format", "json", "--circuit", "bell_prep", "testdata/circuits")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   StateOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Qubits)
	require.Len(t, resp.Data.Amplitudes, 4)
	assert.InDelta(t, 1/math.Sqrt2, resp.Data.Amplitudes[0].Re, 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, resp.Data.Amplitudes[3].Re, 1e-12)
	assert.InDelta(t, 0.5, resp.Data.Probabilities[0], 1e-12)
	assert.InDelta(t, 0, resp.Data.Probabilities[1], 1e-12)
}

func TestStateCommand_MeasuredCircuit(t *testing.T) {
	out, _, err := executeCommand(t, "state", "--format", "json", "--circuit", "bell", "testdata/circuits")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodePureStateQuery, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "shot-dependent")
}

func TestBasisLabel(t *testing.T) {
	// qubit 0 is the most significant bit of the index
	assert.Equal(t, "100", basisLabel(4, 3))
	assert.Equal(t, "001", basisLabel(1, 3))
	assert.Equal(t, "11", basisLabel(3, 2))
}

func TestFormatAmplitude(t *testing.T) {
	assert.Equal(t, "0.500000 - 0.250000i", formatAmplitude(engine.Amplitude{Re: 0.5, Im: -0.25}))
	assert.Equal(t, "-1.000000 + 0.000000i", formatAmplitude(engine.Amplitude{Re: -1}))
}
