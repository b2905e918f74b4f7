package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/richarc/qx-sub001/internal/circuit"
	"github.com/richarc/qx-sub001/internal/compiler"
	"github.com/richarc/qx-sub001/internal/engine"
)

// Harness is the scenario execution engine.
// Every run is seeded, so results are reproducible and golden-comparable.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger passed through to the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// New creates a harness. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Compile the scenario's CUE circuit and select the named circuit
// 2. Run it on a fresh engine seeded from the scenario
// 3. Evaluate assertions and collect failures
//
// An error is returned only when the scenario cannot run at all;
// assertion failures are reported in the result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	c, err := LoadCircuit(scenario)
	if err != nil {
		return nil, err
	}

	opts := []engine.EngineOption{
		engine.WithSeed(scenario.RunSeed()),
		engine.WithLogger(h.logger),
	}
	if scenario.Workers > 0 {
		opts = append(opts, engine.WithWorkers(scenario.Workers))
	}
	eng := engine.New(opts...)

	run, err := eng.Run(ctx, *c, scenario.Shots)
	if err != nil {
		return nil, fmt.Errorf("failed to run circuit %s: %w", c.Name, err)
	}

	result := NewResult(c.Name, run)
	for _, errMsg := range EvaluateAssertions(run, scenario.Assertions) {
		result.AddError(errMsg)
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"circuit", c.Name,
		"path", run.Path,
		"shots", run.Shots,
		"pass", result.Pass,
	)

	return result, nil
}

// LoadCircuit compiles the circuit a scenario refers to, from its file or
// its inline source.
func LoadCircuit(scenario *Scenario) (*circuit.Circuit, error) {
	filename := scenario.Name + ".cue"
	src := []byte(scenario.Source)
	if scenario.Circuit != "" {
		data, err := os.ReadFile(scenario.Circuit)
		if err != nil {
			return nil, fmt.Errorf("failed to read circuit file: %w", err)
		}
		filename = scenario.Circuit
		src = data
	}

	circuits, err := compiler.CompileSource(filename, src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile circuit: %w", err)
	}

	c, err := compiler.Select(circuits, scenario.Select)
	if err != nil {
		return nil, fmt.Errorf("failed to select circuit: %w", err)
	}
	return c, nil
}
