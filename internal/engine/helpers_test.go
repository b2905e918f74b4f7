package engine

import (
	"io"
	"log/slog"

	"github.com/richarc/qx-sub001/internal/circuit"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(opts ...EngineOption) *Engine {
	base := []EngineOption{WithSeed(42), WithLogger(quietLogger())}
	return New(append(base, opts...)...)
}

func g(kind circuit.GateKind, qubits ...int) circuit.Gate {
	return circuit.Gate{Kind: kind, Qubits: qubits}
}

func rot(kind circuit.GateKind, theta float64, q int) circuit.Gate {
	return circuit.Gate{Kind: kind, Qubits: []int{q}, Params: []float64{theta}}
}

func measure(q, c int) circuit.Measure {
	return circuit.Measure{Qubit: q, Clbit: c}
}

func ifBit(clbit, value int, body ...circuit.SimpleInstruction) circuit.Conditional {
	return circuit.Conditional{Clbit: clbit, Value: value, Body: body}
}

func bellCircuit() circuit.Circuit {
	return circuit.Circuit{
		Name:      "bell",
		NumQubits: 2,
		NumClbits: 2,
		Instructions: []circuit.Instruction{
			g(circuit.GateH, 0),
			g(circuit.GateCX, 0, 1),
			measure(0, 0),
			measure(1, 1),
		},
	}
}

// teleportCircuit teleports the state prepared on qubit 0 by prep onto
// qubit 2.
func teleportCircuit(prep ...circuit.Instruction) circuit.Circuit {
	insts := append([]circuit.Instruction{}, prep...)
	insts = append(insts,
		g(circuit.GateH, 1),
		g(circuit.GateCX, 1, 2),
		g(circuit.GateCX, 0, 1),
		g(circuit.GateH, 0),
		measure(0, 0),
		measure(1, 1),
		ifBit(1, 1, g(circuit.GateX, 2)),
		ifBit(0, 1, g(circuit.GateZ, 2)),
	)
	return circuit.Circuit{Name: "teleport", NumQubits: 3, NumClbits: 3, Instructions: insts}
}
