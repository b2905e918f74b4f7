package circuit

import "strings"

// Instruction is one step of a circuit.
//
// Implementations: Gate, Measure, Conditional, Barrier.
// The marker method is unexported, so the set is closed to this package.
type Instruction interface {
	instruction()
}

// SimpleInstruction is an instruction allowed inside a Conditional body.
// Only Gate implements it.
type SimpleInstruction interface {
	Instruction
	simpleInstruction()
}

// Gate applies a unitary from the gate library to Qubits.
//
// For controlled gates the controls come first and the target last
// (cx [control, target], ccx [c0, c1, target], cswap [control, a, b]).
type Gate struct {
	Kind   GateKind
	Qubits []int
	Params []float64
}

// Measure projects Qubit onto the computational basis and writes the
// outcome to classical bit Clbit.
type Measure struct {
	Qubit int
	Clbit int
}

// Conditional applies Body when classical bit Clbit equals Value (0 or 1).
type Conditional struct {
	Clbit int
	Value int
	Body  []SimpleInstruction
}

// Barrier is a scheduling hint with no effect on the state.
type Barrier struct {
	Qubits []int
}

func (Gate) instruction()        {}
func (Gate) simpleInstruction()  {}
func (Measure) instruction()     {}
func (Conditional) instruction() {}
func (Barrier) instruction()     {}

// Circuit is an immutable program over NumQubits qubits and NumClbits
// classical bits.
type Circuit struct {
	Name         string
	NumQubits    int
	NumClbits    int
	Instructions []Instruction
}

// Unwrap returns inst in value form. Pointer instructions are dereferenced;
// a nil pointer yields nil.
func Unwrap(inst Instruction) Instruction {
	switch v := inst.(type) {
	case *Gate:
		if v == nil {
			return nil
		}
		return *v
	case *Measure:
		if v == nil {
			return nil
		}
		return *v
	case *Conditional:
		if v == nil {
			return nil
		}
		return *v
	case *Barrier:
		if v == nil {
			return nil
		}
		return *v
	}
	return inst
}

// HasConditional reports whether any instruction is a Conditional.
func (c Circuit) HasConditional() bool {
	for _, inst := range c.Instructions {
		if _, ok := Unwrap(inst).(Conditional); ok {
			return true
		}
	}
	return false
}

// HasMeasurement reports whether any instruction is a Measure or a
// Conditional, either of which makes the final state shot-dependent.
func (c Circuit) HasMeasurement() bool {
	for _, inst := range c.Instructions {
		switch Unwrap(inst).(type) {
		case Measure, Conditional:
			return true
		}
	}
	return false
}

// Measurements returns the declared measurements in instruction order.
func (c Circuit) Measurements() []Measure {
	var out []Measure
	for _, inst := range c.Instructions {
		if m, ok := Unwrap(inst).(Measure); ok {
			out = append(out, m)
		}
	}
	return out
}

// Bits is a classical register, one entry (0 or 1) per classical bit.
type Bits []uint8

// String renders the register with classical bit 0 first.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, v := range b {
		if v != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Clone returns a copy of b.
func (b Bits) Clone() Bits {
	out := make(Bits, len(b))
	copy(out, b)
	return out
}
