package circuit

import (
	"fmt"
	"strings"
)

// GateKind identifies a primitive gate in the library.
type GateKind int

// The gate library. The zero value is not a gate.
const (
	GateInvalid GateKind = iota
	GateH
	GateX
	GateY
	GateZ
	GateS
	GateT
	GateRX
	GateRY
	GateRZ
	GatePhase
	GateCX
	GateCZ
	GateSwap
	GateCCX
	GateCSwap
)

// gateInfo describes the operand shape of a gate kind.
type gateInfo struct {
	name   string
	arity  int
	params int
}

var gateTable = map[GateKind]gateInfo{
	GateH:     {"h", 1, 0},
	GateX:     {"x", 1, 0},
	GateY:     {"y", 1, 0},
	GateZ:     {"z", 1, 0},
	GateS:     {"s", 1, 0},
	GateT:     {"t", 1, 0},
	GateRX:    {"rx", 1, 1},
	GateRY:    {"ry", 1, 1},
	GateRZ:    {"rz", 1, 1},
	GatePhase: {"p", 1, 1},
	GateCX:    {"cx", 2, 0},
	GateCZ:    {"cz", 2, 0},
	GateSwap:  {"swap", 2, 0},
	GateCCX:   {"ccx", 3, 0},
	GateCSwap: {"cswap", 3, 0},
}

// gateAliases maps accepted spellings to kinds. Canonical names are added
// in init.
var gateAliases = map[string]GateKind{
	"cnot":     GateCX,
	"toffoli":  GateCCX,
	"fredkin":  GateCSwap,
	"phase":    GatePhase,
	"u1":       GatePhase,
	"hadamard": GateH,
}

func init() {
	for k, info := range gateTable {
		gateAliases[info.name] = k
	}
}

// ParseGateKind resolves a gate name, case-insensitively, including aliases
// such as "cnot" and "toffoli".
func ParseGateKind(name string) (GateKind, error) {
	k, ok := gateAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return GateInvalid, fmt.Errorf("unknown gate %q", name)
	}
	return k, nil
}

// Valid reports whether k is a gate in the library.
func (k GateKind) Valid() bool {
	_, ok := gateTable[k]
	return ok
}

// String returns the canonical lower-case gate name.
func (k GateKind) String() string {
	if info, ok := gateTable[k]; ok {
		return info.name
	}
	return fmt.Sprintf("gate(%d)", int(k))
}

// Arity returns the number of qubit operands, or 0 for an invalid kind.
func (k GateKind) Arity() int {
	return gateTable[k].arity
}

// NumParams returns the number of angle parameters.
func (k GateKind) NumParams() int {
	return gateTable[k].params
}

// GateKinds returns every gate in the library in declaration order.
func GateKinds() []GateKind {
	kinds := make([]GateKind, 0, len(gateTable))
	for k := GateH; k <= GateCSwap; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
