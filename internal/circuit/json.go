package circuit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Op tags used by the JSON wire format.
const (
	OpGate    = "gate"
	OpMeasure = "measure"
	OpIf      = "if"
	OpBarrier = "barrier"
)

type wireCircuit struct {
	Name   string   `json:"name"`
	Qubits int      `json:"qubits"`
	Clbits int      `json:"clbits"`
	Ops    []wireOp `json:"ops"`
}

// wireOp is the tagged union of all instruction shapes. Pointer fields
// distinguish an explicit 0 from an absent key.
type wireOp struct {
	Op     string    `json:"op"`
	Gate   string    `json:"gate,omitempty"`
	Qubits []int     `json:"qubits,omitempty"`
	Params []float64 `json:"params,omitempty"`
	Qubit  *int      `json:"qubit,omitempty"`
	Clbit  *int      `json:"clbit,omitempty"`
	Value  *int      `json:"value,omitempty"`
	Body   []wireOp  `json:"body,omitempty"`
}

// MarshalJSON encodes the circuit as {"name","qubits","clbits","ops"} with
// op-tagged instructions. Names are written verbatim; callers that want
// HTML-safe output get it from their own encoder.
func (c Circuit) MarshalJSON() ([]byte, error) {
	ops, err := encodeOps(c.Instructions)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wireCircuit{
		Name:   c.Name,
		Qubits: c.NumQubits,
		Clbits: c.NumClbits,
		Ops:    ops,
	}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes the wire format. Unknown fields, unknown ops,
// unknown gate names and non-gate conditional bodies are rejected.
func (c *Circuit) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var w wireCircuit
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("decode circuit: %w", err)
	}

	insts := make([]Instruction, 0, len(w.Ops))
	for i, op := range w.Ops {
		inst, err := decodeOp(op, false)
		if err != nil {
			return fmt.Errorf("ops[%d]: %w", i, err)
		}
		insts = append(insts, inst)
	}

	*c = Circuit{
		Name:         w.Name,
		NumQubits:    w.Qubits,
		NumClbits:    w.Clbits,
		Instructions: insts,
	}
	return nil
}

func encodeOps(insts []Instruction) ([]wireOp, error) {
	ops := make([]wireOp, 0, len(insts))
	for i, inst := range insts {
		op, err := encodeOp(inst)
		if err != nil {
			return nil, fmt.Errorf("ops[%d]: %w", i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func encodeOp(inst Instruction) (wireOp, error) {
	switch v := Unwrap(inst).(type) {
	case Gate:
		if !v.Kind.Valid() {
			return wireOp{}, fmt.Errorf("unknown gate %s", v.Kind)
		}
		return wireOp{Op: OpGate, Gate: v.Kind.String(), Qubits: v.Qubits, Params: v.Params}, nil
	case Measure:
		return wireOp{Op: OpMeasure, Qubit: intPtr(v.Qubit), Clbit: intPtr(v.Clbit)}, nil
	case Conditional:
		body := make([]Instruction, len(v.Body))
		for i, b := range v.Body {
			body[i] = b
		}
		ops, err := encodeOps(body)
		if err != nil {
			return wireOp{}, fmt.Errorf("body: %w", err)
		}
		return wireOp{Op: OpIf, Clbit: intPtr(v.Clbit), Value: intPtr(v.Value), Body: ops}, nil
	case Barrier:
		return wireOp{Op: OpBarrier, Qubits: v.Qubits}, nil
	case nil:
		return wireOp{}, fmt.Errorf("nil instruction")
	default:
		return wireOp{}, fmt.Errorf("unsupported instruction %T", inst)
	}
}

func decodeOp(op wireOp, inBody bool) (Instruction, error) {
	switch op.Op {
	case OpGate:
		kind, err := ParseGateKind(op.Gate)
		if err != nil {
			return nil, err
		}
		return Gate{Kind: kind, Qubits: op.Qubits, Params: op.Params}, nil
	case OpMeasure:
		if inBody {
			return nil, fmt.Errorf("measure is not allowed in a conditional body")
		}
		if op.Qubit == nil || op.Clbit == nil {
			return nil, fmt.Errorf("measure requires qubit and clbit")
		}
		return Measure{Qubit: *op.Qubit, Clbit: *op.Clbit}, nil
	case OpIf:
		if inBody {
			return nil, fmt.Errorf("nested conditional is not allowed")
		}
		if op.Clbit == nil || op.Value == nil {
			return nil, fmt.Errorf("if requires clbit and value")
		}
		body := make([]SimpleInstruction, 0, len(op.Body))
		for i, b := range op.Body {
			inst, err := decodeOp(b, true)
			if err != nil {
				return nil, fmt.Errorf("body[%d]: %w", i, err)
			}
			simple, ok := inst.(SimpleInstruction)
			if !ok {
				return nil, fmt.Errorf("body[%d]: %q is not allowed in a conditional body", i, b.Op)
			}
			body = append(body, simple)
		}
		return Conditional{Clbit: *op.Clbit, Value: *op.Value, Body: body}, nil
	case OpBarrier:
		return Barrier{Qubits: op.Qubits}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", op.Op)
	}
}

func intPtr(v int) *int {
	return &v
}
