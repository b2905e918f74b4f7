package engine

import (
	"fmt"
	"math"

	"github.com/richarc/qx-sub001/internal/circuit"
	"github.com/richarc/qx-sub001/internal/gates"
	"github.com/richarc/qx-sub001/internal/statevec"
)

// opKind tags a prepared step.
type opKind int

const (
	opGate opKind = iota
	opMeasure
	opConditional
	opNoop
)

// gateOp is a gate with its matrix resolved once per run.
type gateOp struct {
	kind   circuit.GateKind
	matrix gates.Matrix
	qubits []int
}

// step is one prepared instruction.
type step struct {
	kind  opKind
	gate  gateOp
	qubit int
	clbit int
	value uint8
	body  []gateOp
}

// program is a checked circuit ready to execute. It is read-only and shared
// by every shot.
type program struct {
	name        string
	numQubits   int
	numClbits   int
	steps       []step
	measures    []circuit.Measure
	conditional bool
	measured    bool
}

// prepare checks c and resolves every gate matrix. It fails on the first
// offending instruction, so no shot ever runs against a bad circuit.
func prepare(c circuit.Circuit) (*program, error) {
	p := &program{
		name:      c.Name,
		numQubits: c.NumQubits,
		numClbits: c.NumClbits,
		steps:     make([]step, 0, len(c.Instructions)),
	}

	for i, inst := range c.Instructions {
		switch v := circuit.Unwrap(inst).(type) {
		case circuit.Gate:
			g, err := resolveGate(i, v)
			if err != nil {
				return nil, err
			}
			p.steps = append(p.steps, step{kind: opGate, gate: g})
		case circuit.Measure:
			p.measured = true
			p.measures = append(p.measures, v)
			p.steps = append(p.steps, step{kind: opMeasure, qubit: v.Qubit, clbit: v.Clbit})
		case circuit.Conditional:
			s, err := resolveConditional(i, v)
			if err != nil {
				return nil, err
			}
			p.conditional = true
			p.measured = true
			p.steps = append(p.steps, s)
		case circuit.Barrier:
			p.steps = append(p.steps, step{kind: opNoop})
		case nil:
			return nil, newGateError(ErrCodeUnsupportedGate, i, "", nil, "nil instruction")
		default:
			return nil, newGateError(ErrCodeUnsupportedGate, i, "", nil, fmt.Sprintf("unsupported instruction %T", inst))
		}
	}

	if errs := c.Validate(); len(errs) > 0 {
		msg := errs[0].Error()
		if len(errs) > 1 {
			msg = fmt.Sprintf("%s (and %d more)", msg, len(errs)-1)
		}
		return nil, &SimError{Code: ErrCodeInvalidCircuit, Message: msg, Index: -1, Clbit: -1}
	}
	if c.NumQubits > statevec.MaxQubits {
		return nil, &SimError{
			Code:    ErrCodeInvalidCircuit,
			Message: fmt.Sprintf("%d qubits exceeds the simulator limit of %d", c.NumQubits, statevec.MaxQubits),
			Index:   -1,
			Clbit:   -1,
		}
	}

	return p, nil
}

func resolveConditional(i int, c circuit.Conditional) (step, error) {
	if c.Value != 0 && c.Value != 1 {
		return step{}, newConditionalError(i, c.Clbit, fmt.Sprintf("expected value must be 0 or 1, got %d", c.Value))
	}

	body := make([]gateOp, 0, len(c.Body))
	for j, b := range c.Body {
		g, ok := circuit.Unwrap(b).(circuit.Gate)
		if !ok {
			return step{}, newConditionalError(i, c.Clbit, fmt.Sprintf("body[%d] is %T, only gates are allowed", j, b))
		}
		op, err := resolveGate(i, g)
		if err != nil {
			return step{}, err
		}
		body = append(body, op)
	}

	return step{kind: opConditional, clbit: c.Clbit, value: uint8(c.Value), body: body}, nil
}

// resolveGate checks arity and parameters and builds the gate matrix.
func resolveGate(i int, g circuit.Gate) (gateOp, error) {
	name := g.Kind.String()
	if !g.Kind.Valid() {
		return gateOp{}, newGateError(ErrCodeUnsupportedGate, i, name, g.Qubits, "gate is not in the library")
	}
	if len(g.Qubits) != g.Kind.Arity() {
		return gateOp{}, newGateError(ErrCodeUnsupportedGate, i, name, g.Qubits,
			fmt.Sprintf("%s takes %d qubit(s), got %d", name, g.Kind.Arity(), len(g.Qubits)))
	}
	if len(g.Params) < g.Kind.NumParams() {
		return gateOp{}, newGateError(ErrCodeInvalidParameter, i, name, g.Qubits,
			fmt.Sprintf("%s requires %d angle parameter(s), got %d", name, g.Kind.NumParams(), len(g.Params)))
	}
	for _, p := range g.Params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return gateOp{}, newGateError(ErrCodeInvalidParameter, i, name, g.Qubits,
				fmt.Sprintf("angle parameter must be finite, got %v", p))
		}
	}

	op := gateOp{kind: g.Kind, qubits: g.Qubits}
	switch g.Kind {
	case circuit.GateH:
		op.matrix = gates.Hadamard()
	case circuit.GateX, circuit.GateCX, circuit.GateCCX:
		op.matrix = gates.PauliX()
	case circuit.GateY:
		op.matrix = gates.PauliY()
	case circuit.GateZ, circuit.GateCZ:
		op.matrix = gates.PauliZ()
	case circuit.GateS:
		op.matrix = gates.S()
	case circuit.GateT:
		op.matrix = gates.T()
	case circuit.GateRX:
		op.matrix = gates.RX(g.Params[0])
	case circuit.GateRY:
		op.matrix = gates.RY(g.Params[0])
	case circuit.GateRZ:
		op.matrix = gates.RZ(g.Params[0])
	case circuit.GatePhase:
		op.matrix = gates.Phase(g.Params[0])
	}
	return op, nil
}

// apply performs the gate on v.
func (g gateOp) apply(v *statevec.Vector) {
	switch g.kind {
	case circuit.GateSwap:
		v.Swap(g.qubits[0], g.qubits[1])
	case circuit.GateCSwap:
		v.ControlledSwap(g.qubits[:1], g.qubits[1], g.qubits[2])
	default:
		last := len(g.qubits) - 1
		v.ApplyControlled(g.matrix, g.qubits[:last], g.qubits[last])
	}
}

// evolve applies every gate of p to v in order, skipping measurements.
// Only valid for programs without conditionals.
func (p *program) evolve(v *statevec.Vector) {
	for _, s := range p.steps {
		if s.kind == opGate {
			s.gate.apply(v)
		}
	}
}
