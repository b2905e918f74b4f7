package engine

import (
	"errors"
	"fmt"
	"strings"
)

// SimError represents an error detected while preparing or running a
// circuit.
//
// SimError identifies the offending instruction so callers can report the
// gate name, qubit indices or classical bit rather than a generic fault.
// All SimErrors are unrecoverable for the current call.
type SimError struct {
	// Code identifies the error category.
	Code SimErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the position of the offending instruction, or -1.
	Index int

	// Gate is the gate name, when a gate is involved.
	Gate string

	// Qubits are the operands of the offending gate.
	Qubits []int

	// Clbit is the classical bit of a conditional, or -1.
	Clbit int
}

// SimErrorCode categorizes simulation errors.
type SimErrorCode string

const (
	// ErrCodeUnsupportedGate indicates a gate kind outside the library or an
	// operand count that does not match its arity.
	ErrCodeUnsupportedGate SimErrorCode = "UNSUPPORTED_GATE"

	// ErrCodeInvalidParameter indicates a missing or non-finite angle, or a
	// non-positive shot count.
	ErrCodeInvalidParameter SimErrorCode = "INVALID_PARAMETER"

	// ErrCodePureStateQuery indicates a state query on a circuit whose final
	// state depends on measurement outcomes.
	ErrCodePureStateQuery SimErrorCode = "PURE_STATE_QUERY"

	// ErrCodeMalformedConditional indicates a conditional with a nil or
	// non-gate body entry or an expected value other than 0 or 1.
	ErrCodeMalformedConditional SimErrorCode = "MALFORMED_CONDITIONAL"

	// ErrCodeInvalidCircuit indicates an out-of-range or duplicate index, or
	// a register too large to simulate.
	ErrCodeInvalidCircuit SimErrorCode = "INVALID_CIRCUIT"
)

// Error implements the error interface.
func (e *SimError) Error() string {
	var loc []string
	if e.Index >= 0 {
		loc = append(loc, fmt.Sprintf("instruction=%d", e.Index))
	}
	if e.Gate != "" {
		loc = append(loc, "gate="+e.Gate)
	}
	if len(e.Qubits) > 0 {
		loc = append(loc, fmt.Sprintf("qubits=%v", e.Qubits))
	}
	if e.Clbit >= 0 {
		loc = append(loc, fmt.Sprintf("clbit=%d", e.Clbit))
	}
	if len(loc) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(loc, ", "))
}

func hasCode(err error, code SimErrorCode) bool {
	var se *SimError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsUnsupportedGateError returns true if the error is an unsupported gate error.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedGateError(err error) bool {
	return hasCode(err, ErrCodeUnsupportedGate)
}

// IsInvalidParameterError returns true if the error is an invalid parameter error.
func IsInvalidParameterError(err error) bool {
	return hasCode(err, ErrCodeInvalidParameter)
}

// IsPureStateQueryError returns true if the error is a pure state query error.
func IsPureStateQueryError(err error) bool {
	return hasCode(err, ErrCodePureStateQuery)
}

// IsMalformedConditionalError returns true if the error is a malformed conditional error.
func IsMalformedConditionalError(err error) bool {
	return hasCode(err, ErrCodeMalformedConditional)
}

// IsInvalidCircuitError returns true if the error is an invalid circuit error.
func IsInvalidCircuitError(err error) bool {
	return hasCode(err, ErrCodeInvalidCircuit)
}

func newGateError(code SimErrorCode, index int, gate string, qubits []int, msg string) *SimError {
	return &SimError{
		Code:    code,
		Message: msg,
		Index:   index,
		Gate:    gate,
		Qubits:  qubits,
		Clbit:   -1,
	}
}

func newConditionalError(index, clbit int, msg string) *SimError {
	return &SimError{
		Code:    ErrCodeMalformedConditional,
		Message: msg,
		Index:   index,
		Clbit:   clbit,
	}
}

// NewPureStateQueryError creates a SimError for a state query on a
// measured circuit.
func NewPureStateQueryError(name string) *SimError {
	return &SimError{
		Code:    ErrCodePureStateQuery,
		Message: fmt.Sprintf("circuit %q contains measurements or conditionals; its final state is shot-dependent", name),
		Index:   -1,
		Clbit:   -1,
	}
}
