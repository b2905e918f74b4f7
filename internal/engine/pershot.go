package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/richarc/qx-sub001/internal/circuit"
	"github.com/richarc/qx-sub001/internal/statevec"
)

// shotsPerChunk is the number of consecutive shots one goroutine runs
// before handing back its partial counts.
const shotsPerChunk = 64

// runPerShot interprets the program once per shot. Shots are split into
// contiguous chunks executed by at most e.workers goroutines; each chunk
// writes only its own slice range and partial count map.
func (e *Engine) runPerShot(ctx context.Context, p *program, shots int, seed uint64) (*Result, error) {
	regs := make([]circuit.Bits, shots)
	chunks := (shots + shotsPerChunk - 1) / shotsPerChunk
	partials := make([]Counts, chunks)
	var last *statevec.Vector

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	e.logger.Debug("dispatching shots", "shots", shots, "chunks", chunks, "workers", e.workers)

	for ci := 0; ci < chunks; ci++ {
		lo := ci * shotsPerChunk
		hi := min(lo+shotsPerChunk, shots)
		g.Go(func() error {
			counts := make(Counts)
			for k := lo; k < hi; k++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				v, reg, err := p.runShot(shotRand(seed, k))
				if err != nil {
					return fmt.Errorf("shot %d: %w", k, err)
				}
				regs[k] = reg
				counts.Add(reg)
				if k == shots-1 {
					last = v
				}
			}
			partials[ci] = counts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(Counts)
	for _, part := range partials {
		counts.Merge(part)
	}

	return &Result{
		Probabilities: last.Probabilities(),
		ClassicalBits: regs,
		State:         last.Amplitudes,
		Shots:         shots,
		Counts:        counts,
		Path:          PathPerShot,
		Seed:          seed,
	}, nil
}

// runShot executes one shot from |0...0> with a zeroed register.
func (p *program) runShot(r statevec.Rand) (*statevec.Vector, circuit.Bits, error) {
	v, err := statevec.New(p.numQubits)
	if err != nil {
		return nil, nil, err
	}
	reg := make(circuit.Bits, p.numClbits)

	for _, s := range p.steps {
		switch s.kind {
		case opGate:
			s.gate.apply(v)
		case opMeasure:
			reg[s.clbit] = uint8(v.MeasureQubit(s.qubit, r))
		case opConditional:
			if reg[s.clbit] != s.value {
				continue
			}
			for _, g := range s.body {
				g.apply(v)
			}
		case opNoop:
		}
	}

	return v, reg, nil
}
