package circuit

import (
	"fmt"
	"math"
)

// ValidationError represents a structural error with field path and message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks index bounds and operand shape.
// Returns all errors (not fail-fast) for better developer experience.
func (c Circuit) Validate() []ValidationError {
	var errs []ValidationError

	if c.NumQubits < 0 {
		errs = append(errs, ValidationError{Field: "qubits", Message: "must be non-negative"})
	}
	if c.NumClbits < 0 {
		errs = append(errs, ValidationError{Field: "clbits", Message: "must be non-negative"})
	}

	for i, inst := range c.Instructions {
		field := fmt.Sprintf("ops[%d]", i)
		switch v := Unwrap(inst).(type) {
		case nil:
			errs = append(errs, ValidationError{Field: field, Message: "nil instruction"})
		case Gate:
			errs = append(errs, c.validateGate(field, v)...)
		case Measure:
			errs = append(errs, c.checkQubit(field+".qubit", v.Qubit)...)
			errs = append(errs, c.checkClbit(field+".clbit", v.Clbit)...)
		case Conditional:
			errs = append(errs, c.checkClbit(field+".clbit", v.Clbit)...)
			if v.Value != 0 && v.Value != 1 {
				errs = append(errs, ValidationError{
					Field:   field + ".value",
					Message: fmt.Sprintf("expected value must be 0 or 1, got %d", v.Value),
				})
			}
			for j, body := range v.Body {
				bfield := fmt.Sprintf("%s.body[%d]", field, j)
				g, ok := Unwrap(body).(Gate)
				if !ok {
					errs = append(errs, ValidationError{Field: bfield, Message: "conditional body may only contain gates"})
					continue
				}
				errs = append(errs, c.validateGate(bfield, g)...)
			}
		case Barrier:
			for j, q := range v.Qubits {
				errs = append(errs, c.checkQubit(fmt.Sprintf("%s.qubits[%d]", field, j), q)...)
			}
		}
	}

	return errs
}

func (c Circuit) validateGate(field string, g Gate) []ValidationError {
	var errs []ValidationError

	if !g.Kind.Valid() {
		return append(errs, ValidationError{Field: field + ".gate", Message: fmt.Sprintf("unknown gate %s", g.Kind)})
	}
	if len(g.Qubits) != g.Kind.Arity() {
		errs = append(errs, ValidationError{
			Field:   field + ".qubits",
			Message: fmt.Sprintf("%s takes %d qubit(s), got %d", g.Kind, g.Kind.Arity(), len(g.Qubits)),
		})
	}
	if len(g.Params) != g.Kind.NumParams() {
		errs = append(errs, ValidationError{
			Field:   field + ".params",
			Message: fmt.Sprintf("%s takes %d parameter(s), got %d", g.Kind, g.Kind.NumParams(), len(g.Params)),
		})
	}
	for j, p := range g.Params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.params[%d]", field, j),
				Message: fmt.Sprintf("parameter must be finite, got %v", p),
			})
		}
	}

	seen := make(map[int]bool, len(g.Qubits))
	for j, q := range g.Qubits {
		qfield := fmt.Sprintf("%s.qubits[%d]", field, j)
		errs = append(errs, c.checkQubit(qfield, q)...)
		if seen[q] {
			errs = append(errs, ValidationError{Field: qfield, Message: fmt.Sprintf("duplicate qubit %d", q)})
		}
		seen[q] = true
	}

	return errs
}

func (c Circuit) checkQubit(field string, q int) []ValidationError {
	if q < 0 || q >= c.NumQubits {
		return []ValidationError{{Field: field, Message: fmt.Sprintf("qubit %d out of range [0, %d)", q, c.NumQubits)}}
	}
	return nil
}

func (c Circuit) checkClbit(field string, b int) []ValidationError {
	if b < 0 || b >= c.NumClbits {
		return []ValidationError{{Field: field, Message: fmt.Sprintf("classical bit %d out of range [0, %d)", b, c.NumClbits)}}
	}
	return nil
}
