package engine

import (
	"context"
	"fmt"

	"github.com/richarc/qx-sub001/internal/circuit"
	"github.com/richarc/qx-sub001/internal/statevec"
)

// runBatched evolves the state once and samples every shot from its
// distribution. Measurements only declare which qubits feed which classical
// bits; they never touch the state on this path.
func (e *Engine) runBatched(ctx context.Context, p *program, shots int, seed uint64) (*Result, error) {
	v, err := statevec.New(p.numQubits)
	if err != nil {
		return nil, fmt.Errorf("allocate state: %w", err)
	}
	p.evolve(v)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	probs := v.Probabilities()
	indices := statevec.Sample(probs, shots, batchRand(seed))

	regs := make([]circuit.Bits, shots)
	counts := make(Counts)
	for s, idx := range indices {
		reg := make(circuit.Bits, p.numClbits)
		for _, m := range p.measures {
			reg[m.Clbit] = statevec.BitAt(idx, m.Qubit, p.numQubits)
		}
		regs[s] = reg
		counts.Add(reg)
	}

	return &Result{
		Probabilities: probs,
		ClassicalBits: regs,
		State:         v.Amplitudes,
		Shots:         shots,
		Counts:        counts,
		Path:          PathBatched,
		Seed:          seed,
	}, nil
}
