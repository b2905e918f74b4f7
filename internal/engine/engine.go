package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"

	"github.com/richarc/qx-sub001/internal/circuit"
	"github.com/richarc/qx-sub001/internal/statevec"
)

// DefaultShots is the shot count used when Run is called with shots == 0.
const DefaultShots = 1024

// Engine executes circuits. An Engine holds configuration only; it is safe
// for concurrent use and every Run owns its own state vectors.
type Engine struct {
	shots   int
	seed    uint64
	seeded  bool
	workers int
	logger  *slog.Logger
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithShots sets the default shot count.
//
// Default: 1024 shots (DefaultShots)
func WithShots(shots int) EngineOption {
	return func(e *Engine) {
		e.shots = shots
	}
}

// WithSeed fixes the run seed so results are reproducible.
func WithSeed(seed uint64) EngineOption {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithWorkers bounds the goroutines used by the per-shot path.
//
// Default: runtime.GOMAXPROCS(0). Values below 1 mean 1.
func WithWorkers(workers int) EngineOption {
	return func(e *Engine) {
		e.workers = workers
	}
}

// WithLogger sets the structured logger.
//
// Default: slog.Default()
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine with the given options.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		shots:   DefaultShots,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.workers < 1 {
		e.workers = 1
	}
	return e
}

// Run executes c for the given number of shots and returns the aggregated
// result. shots == 0 uses the engine default.
//
// Circuits without a Conditional take the batched path; all others run
// shot by shot. Errors abort the run and no partial result is returned.
// ctx is checked between shots.
func (e *Engine) Run(ctx context.Context, c circuit.Circuit, shots int) (*Result, error) {
	if shots == 0 {
		shots = e.shots
	}
	if shots < 1 {
		return nil, &SimError{
			Code:    ErrCodeInvalidParameter,
			Message: fmt.Sprintf("shots must be positive, got %d", shots),
			Index:   -1,
			Clbit:   -1,
		}
	}

	prog, err := prepare(c)
	if err != nil {
		return nil, err
	}

	seed := e.seed
	if !e.seeded {
		seed = rand.Uint64()
	}

	path := PathBatched
	if prog.conditional {
		path = PathPerShot
	}

	e.logger.Debug("classified circuit",
		"circuit", c.Name,
		"qubits", c.NumQubits,
		"clbits", c.NumClbits,
		"instructions", len(c.Instructions),
		"path", path,
		"shots", shots,
		"seed", seed,
	)

	var res *Result
	switch path {
	case PathBatched:
		res, err = e.runBatched(ctx, prog, shots, seed)
	default:
		res, err = e.runPerShot(ctx, prog, shots, seed)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Debug("run complete",
		"circuit", c.Name,
		"path", path,
		"outcomes", len(res.Counts),
	)
	return res, nil
}

// State returns the final state of a circuit with no measurements or
// conditionals. Circuits whose state is shot-dependent fail with a
// PURE_STATE_QUERY error.
func (e *Engine) State(c circuit.Circuit) (*statevec.Vector, error) {
	prog, err := prepare(c)
	if err != nil {
		return nil, err
	}
	if prog.measured {
		return nil, NewPureStateQueryError(c.Name)
	}

	v, err := statevec.New(prog.numQubits)
	if err != nil {
		return nil, fmt.Errorf("allocate state: %w", err)
	}
	prog.evolve(v)
	return v, nil
}

// Probabilities returns the basis-state probabilities of the final state
// of a measurement-free circuit.
func (e *Engine) Probabilities(c circuit.Circuit) ([]float64, error) {
	v, err := e.State(c)
	if err != nil {
		return nil, err
	}
	return v.Probabilities(), nil
}

// shotRand returns the uniform source for shot k. Stream 0 is reserved for
// the batched sampler.
func shotRand(seed uint64, k int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(k)+1))
}

func batchRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}
